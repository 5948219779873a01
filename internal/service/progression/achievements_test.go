package progression

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

func perfectResult(category, language string) *QuizResult {
	return &QuizResult{
		Score:      20,
		Total:      20,
		Percentage: 100,
		Category:   category,
		Language:   language,
	}
}

func TestEvaluate_FirstQuizUnlocksBundle(t *testing.T) {
	// Arrange: профиль после первой идеальной сессии
	evaluator := NewEvaluator(nil)
	profile := entity.NewProfile("arjuna")
	profile.TotalQuizzes = 1
	profile.XPPoints = 100
	profile.Level = 2

	// Act
	unlocked, err := evaluator.Evaluate(profile, perfectResult("mahabharata", entity.LanguageEnglish))

	// Assert: first_quiz, perfect_score и high_scorer за один проход,
	// в порядке каталога
	require.NoError(t, err)
	assert.Equal(t, []string{AchievementFirstQuiz, AchievementPerfectScore, AchievementHighScorer}, unlocked)

	// 100 + 50 + 200 + 100 XP
	assert.Equal(t, 450, profile.XPPoints)
	assert.Equal(t, 3, profile.Level, "XP за достижения должен пересчитать уровень")
	for _, id := range unlocked {
		assert.True(t, profile.HasAchievement(id))
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	evaluator := NewEvaluator(nil)
	profile := entity.NewProfile("arjuna")
	profile.TotalQuizzes = 1
	result := perfectResult("mahabharata", entity.LanguageEnglish)

	first, err := evaluator.Evaluate(profile, result)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	xpAfterFirst := profile.XPPoints

	// Повторная оценка того же профиля ничего не разблокирует
	second, err := evaluator.Evaluate(profile, result)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, xpAfterFirst, profile.XPPoints, "XP не должен начисляться повторно")
}

func TestEvaluate_StreakAchievements(t *testing.T) {
	evaluator := NewEvaluator(nil)
	profile := entity.NewProfile("arjuna")
	profile.TotalQuizzes = 5
	profile.StreakDays = 3
	// Ранние достижения уже разблокированы
	profile.Achievements = entity.StringArray{AchievementFirstQuiz, AchievementHighScorer}

	unlocked, err := evaluator.Evaluate(profile, &QuizResult{Score: 10, Total: 20, Percentage: 50, Category: "mahabharata", Language: entity.LanguageEnglish})
	require.NoError(t, err)
	assert.Equal(t, []string{AchievementStreak3}, unlocked)

	// Серия 7 дней добавляет streak_7, streak_3 не дублируется
	profile.StreakDays = 7
	unlocked, err = evaluator.Evaluate(profile, &QuizResult{Score: 10, Total: 20, Percentage: 50, Category: "mahabharata", Language: entity.LanguageEnglish})
	require.NoError(t, err)
	assert.Equal(t, []string{AchievementStreak7}, unlocked)
}

func TestEvaluate_BilingualAndEpicScholar(t *testing.T) {
	evaluator := NewEvaluator(nil)
	profile := entity.NewProfile("arjuna")
	profile.TotalQuizzes = 4
	profile.LanguagesUsed = entity.StringArray{entity.LanguageEnglish, entity.LanguageTelugu}
	profile.PlayedTopics = entity.StringArray{"mahabharata", "ramayana"}
	profile.Achievements = entity.StringArray{AchievementFirstQuiz}

	unlocked, err := evaluator.Evaluate(profile, &QuizResult{Score: 8, Total: 20, Percentage: 40, Category: "ramayana", Language: entity.LanguageTelugu})

	require.NoError(t, err)
	assert.Contains(t, unlocked, AchievementBilingual)
	assert.Contains(t, unlocked, AchievementEpicScholar)
}

func TestEvaluate_LevelAchievements(t *testing.T) {
	evaluator := NewEvaluator(nil)
	profile := entity.NewProfile("arjuna")
	profile.TotalQuizzes = 2
	profile.XPPoints = 1050
	profile.Level = 5
	profile.Achievements = entity.StringArray{AchievementFirstQuiz, AchievementHighScorer, AchievementPerfectScore}

	unlocked, err := evaluator.Evaluate(profile, &QuizResult{Score: 10, Total: 20, Percentage: 50, Category: "mahabharata", Language: entity.LanguageEnglish})

	require.NoError(t, err)
	assert.Equal(t, []string{AchievementLevel5}, unlocked)
	// 1050 + 500 за достижение
	assert.Equal(t, 1550, profile.XPPoints)
	assert.Equal(t, 6, profile.Level, "XP за level_5 переходит порог уровня 6")
}

func TestEvaluate_NilResultSkipsScoreAchievements(t *testing.T) {
	// Оценка без результата сессии (например, миграция профиля)
	// не трогает достижения, зависящие от счёта
	evaluator := NewEvaluator(nil)
	profile := entity.NewProfile("arjuna")
	profile.TotalQuizzes = 1

	unlocked, err := evaluator.Evaluate(profile, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{AchievementFirstQuiz}, unlocked)
}

func TestEvaluate_UnknownCatalogID(t *testing.T) {
	// Каталог с достижением, для которого нет правила в коде
	evaluator := NewEvaluator([]entity.Achievement{
		{ID: "time_traveler", Name: "Time Traveler", XPReward: 100},
	})

	_, err := evaluator.Evaluate(entity.NewProfile("arjuna"), perfectResult("mahabharata", entity.LanguageEnglish))

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownAchievement))
}

func TestEvaluator_Get(t *testing.T) {
	evaluator := NewEvaluator(nil)

	a, err := evaluator.Get(AchievementQuizMaster)
	require.NoError(t, err)
	assert.Equal(t, 300, a.XPReward)

	_, err = evaluator.Get("no_such_achievement")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownAchievement))
}

func TestDefaultCatalog_UniqueIDs(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Len(t, catalog, 10)

	ids := make(map[string]bool, len(catalog))
	for _, a := range catalog {
		assert.False(t, ids[a.ID], "дубликат идентификатора %q", a.ID)
		ids[a.ID] = true
		assert.Positive(t, a.XPReward)
	}
}
