package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Arjuna", "arjuna"},
		{"  ARJUNA  ", "arjuna"},
		{"arjuna", "arjuna"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NormalizeUsername(tc.input))
	}
}

func TestNewProfile(t *testing.T) {
	profile := NewProfile("  Arjuna ")

	assert.Equal(t, "arjuna", profile.Username)
	assert.Equal(t, 0, profile.XPPoints)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, 0, profile.StreakDays)
	assert.Nil(t, profile.LastQuizDate)

	// Массивы инициализированы, чтобы в JSONB писался [] вместо NULL
	require.NotNil(t, profile.Achievements)
	require.NotNil(t, profile.LanguagesUsed)
	require.NotNil(t, profile.PlayedTopics)
}

func TestProfile_MarkLanguage(t *testing.T) {
	profile := NewProfile("arjuna")

	profile.MarkLanguage(LanguageEnglish)
	profile.MarkLanguage(LanguageEnglish)
	profile.MarkLanguage(LanguageTelugu)
	profile.MarkLanguage("")

	assert.Len(t, profile.LanguagesUsed, 2, "повторы и пустые значения не добавляются")
}

func TestProfile_MarkTopic(t *testing.T) {
	profile := NewProfile("arjuna")

	profile.MarkTopic("mahabharata")
	profile.MarkTopic("mahabharata")
	profile.MarkTopic("ramayana")

	assert.Equal(t, StringArray{"mahabharata", "ramayana"}, profile.PlayedTopics)
}

func TestProfile_HasAchievement(t *testing.T) {
	profile := NewProfile("arjuna")
	assert.False(t, profile.HasAchievement("first_quiz"))

	profile.Achievements = append(profile.Achievements, "first_quiz")
	assert.True(t, profile.HasAchievement("first_quiz"))
}
