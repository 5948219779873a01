package progression

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

// ============================================================================
// Уровни
// ============================================================================

func TestLevelForXP_Thresholds(t *testing.T) {
	testCases := []struct {
		name     string
		xp       int
		expected int
	}{
		{"Нулевой XP - уровень 1", 0, 1},
		{"Чуть ниже порога уровня 2", 99, 1},
		{"Ровно порог уровня 2", 100, 2},
		{"Середина уровня 3", 450, 3},
		{"Порог уровня 5", 1000, 5},
		{"Порог уровня 10", 4500, 10},
		{"Первая тысяча после уровня 10", 5500, 11},
		{"Отрицательный XP - уровень 1", -10, 1},
		{"Потолок уровней", 1_000_000, 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LevelForXP(tc.xp))
		})
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 60_000; xp += 37 {
		level := LevelForXP(xp)
		require.GreaterOrEqual(t, level, prev, "уровень не должен убывать с ростом XP (xp=%d)", xp)
		prev = level
	}
}

// ============================================================================
// XP за сессию
// ============================================================================

func TestXPForQuiz(t *testing.T) {
	testCases := []struct {
		name     string
		score    int
		total    int
		bonus    float64
		expected int
	}{
		{"Идеальный счёт без бонуса", 20, 20, 1.0, 100},
		{"Половина без бонуса", 10, 20, 1.0, 50},
		{"Нулевой счёт", 0, 20, 1.0, 0},
		{"Дробный результат округляется вниз", 7, 20, 1.0, 35},
		{"Бонус сложности", 20, 20, 1.5, 150},
		{"Floor после бонуса", 13, 20, 1.5, 97}, // 65 * 1.5 = 97.5
		{"Нулевой total", 5, 0, 1.0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, XPForQuiz(tc.score, tc.total, tc.bonus))
		})
	}
}

// ============================================================================
// Применение результата к профилю
// ============================================================================

func TestApplyQuizResult_UpdatesProfile(t *testing.T) {
	engine := NewEngine()
	profile := entity.NewProfile("arjuna")
	result := &QuizResult{
		Score:      18,
		Total:      20,
		Percentage: 90,
		Category:   "mahabharata",
		Language:   entity.LanguageTelugu,
	}
	today := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	xpEarned, leveledUp, err := engine.ApplyQuizResult(profile, result, 1.0, today)

	require.NoError(t, err)
	assert.Equal(t, 90, xpEarned)
	assert.False(t, leveledUp, "90 XP не достигают порога уровня 2")
	assert.Equal(t, 90, profile.XPPoints)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, 1, profile.TotalQuizzes)
	assert.Equal(t, 18, profile.TotalScore)
	assert.Equal(t, 1, profile.StreakDays)
	assert.True(t, profile.LanguagesUsed.Contains(entity.LanguageTelugu))
	assert.True(t, profile.PlayedTopics.Contains("mahabharata"))

	require.NotNil(t, profile.LastQuizDate)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *profile.LastQuizDate)
}

func TestApplyQuizResult_LevelUp(t *testing.T) {
	engine := NewEngine()
	profile := entity.NewProfile("arjuna")
	profile.XPPoints = 250
	profile.Level = 2

	xpEarned, leveledUp, err := engine.ApplyQuizResult(profile,
		&QuizResult{Score: 20, Total: 20, Category: "ramayana", Language: entity.LanguageEnglish},
		1.0, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 100, xpEarned)
	assert.True(t, leveledUp, "350 XP переходят порог уровня 3")
	assert.Equal(t, 3, profile.Level)
}

func TestApplyQuizResult_NonPositiveBonusDefaultsToOne(t *testing.T) {
	engine := NewEngine()
	profile := entity.NewProfile("arjuna")

	xpEarned, _, err := engine.ApplyQuizResult(profile,
		&QuizResult{Score: 20, Total: 20, Category: "mahabharata", Language: entity.LanguageEnglish},
		0, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 100, xpEarned)
}

func TestApplyQuizResult_Validation(t *testing.T) {
	engine := NewEngine()

	_, _, err := engine.ApplyQuizResult(nil, &QuizResult{Score: 1, Total: 1}, 1.0, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, _, err = engine.ApplyQuizResult(entity.NewProfile("arjuna"), &QuizResult{Score: 0, Total: 0}, 1.0, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

// ============================================================================
// Серия дней
// ============================================================================

func TestApplyQuizResult_Streak(t *testing.T) {
	today := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	threeDaysAgo := today.AddDate(0, 0, -3)

	testCases := []struct {
		name           string
		lastQuizDate   *time.Time
		initialStreak  int
		expectedStreak int
	}{
		{"Первая сессия начинает серию", nil, 0, 1},
		{"Сессия на следующий день продлевает", &yesterday, 4, 5},
		{"Разрыв больше одного дня сбрасывает в 1", &threeDaysAgo, 9, 1},
		{"Повторная сессия в тот же день не меняет серию", &today, 3, 3},
	}

	engine := NewEngine()
	result := &QuizResult{Score: 10, Total: 20, Category: "mahabharata", Language: entity.LanguageEnglish}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			profile := entity.NewProfile("arjuna")
			profile.LastQuizDate = tc.lastQuizDate
			profile.StreakDays = tc.initialStreak

			_, _, err := engine.ApplyQuizResult(profile, result, 1.0, today)

			require.NoError(t, err)
			assert.Equal(t, tc.expectedStreak, profile.StreakDays)
		})
	}
}

// Время суток не влияет на расчёт разрыва: сравниваются календарные даты
func TestApplyQuizResult_StreakIgnoresTimeOfDay(t *testing.T) {
	engine := NewEngine()
	profile := entity.NewProfile("arjuna")
	lateYesterday := time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC)
	profile.LastQuizDate = &lateYesterday
	profile.StreakDays = 2

	earlyToday := time.Date(2026, 3, 15, 0, 10, 0, 0, time.UTC)
	_, _, err := engine.ApplyQuizResult(profile,
		&QuizResult{Score: 5, Total: 20, Category: "mahabharata", Language: entity.LanguageEnglish},
		1.0, earlyToday)

	require.NoError(t, err)
	assert.Equal(t, 3, profile.StreakDays)
}
