package progression

import (
	"fmt"
	"log"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

// Идентификаторы достижений
const (
	AchievementFirstQuiz    = "first_quiz"
	AchievementPerfectScore = "perfect_score"
	AchievementHighScorer   = "high_scorer"
	AchievementQuizMaster   = "quiz_master"
	AchievementStreak3      = "streak_3"
	AchievementStreak7      = "streak_7"
	AchievementBilingual    = "bilingual"
	AchievementEpicScholar  = "epic_scholar"
	AchievementLevel5       = "level_5"
	AchievementLevel10      = "level_10"
)

// DefaultCatalog возвращает статический каталог достижений в каноническом
// порядке. Каталог — неизменяемые конфигурационные данные.
func DefaultCatalog() []entity.Achievement {
	return []entity.Achievement{
		{ID: AchievementFirstQuiz, Name: "🎯 First Steps", Description: "Complete your first quiz", XPReward: 50},
		{ID: AchievementPerfectScore, Name: "💯 Perfectionist", Description: "Score 100% on any quiz", XPReward: 200},
		{ID: AchievementHighScorer, Name: "🌟 High Achiever", Description: "Score 80% or higher", XPReward: 100},
		{ID: AchievementQuizMaster, Name: "🏆 Quiz Master", Description: "Complete 10 quizzes", XPReward: 300},
		{ID: AchievementStreak3, Name: "🔥 On Fire", Description: "3-day quiz streak", XPReward: 150},
		{ID: AchievementStreak7, Name: "⚡ Lightning", Description: "7-day quiz streak", XPReward: 300},
		{ID: AchievementBilingual, Name: "🌍 Polyglot", Description: "Take quizzes in both languages", XPReward: 250},
		{ID: AchievementEpicScholar, Name: "📚 Epic Scholar", Description: "Complete both Mahabharata and Ramayana quizzes", XPReward: 400},
		{ID: AchievementLevel5, Name: "🎖️ Veteran", Description: "Reach Level 5", XPReward: 500},
		{ID: AchievementLevel10, Name: "👑 Master", Description: "Reach Level 10", XPReward: 1000},
	}
}

// Evaluator проверяет профиль после обновления прогрессии и возвращает
// только что разблокированные достижения в порядке каталога.
// Идемпотентен: повторный вызов на неизменённом профиле возвращает пустой список.
type Evaluator struct {
	catalog []entity.Achievement
	byID    map[string]entity.Achievement
}

// NewEvaluator создает оценщик с заданным каталогом.
// При пустом каталоге используется DefaultCatalog.
func NewEvaluator(catalog []entity.Achievement) *Evaluator {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	byID := make(map[string]entity.Achievement, len(catalog))
	for _, a := range catalog {
		byID[a.ID] = a
	}
	return &Evaluator{catalog: catalog, byID: byID}
}

// Catalog возвращает каталог достижений в каноническом порядке
func (e *Evaluator) Catalog() []entity.Achievement {
	return e.catalog
}

// Get возвращает запись каталога по идентификатору или ErrUnknownAchievement,
// если каталог и код разошлись.
func (e *Evaluator) Get(id string) (entity.Achievement, error) {
	a, ok := e.byID[id]
	if !ok {
		return entity.Achievement{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownAchievement, id)
	}
	return a, nil
}

// Evaluate проверяет предикаты всех достижений против профиля ПОСЛЕ
// обновления движком прогрессии. Каждое новое достижение добавляется в
// профиль, его XP начисляется, после чего уровень пересчитывается ещё раз:
// повышение уровня, вызванное XP за достижения, тоже должно быть видно
// вызывающей стороне.
func (e *Evaluator) Evaluate(profile *entity.Profile, result *QuizResult) ([]string, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is nil", apperrors.ErrValidation)
	}

	var unlocked []string
	for _, a := range e.catalog {
		if profile.HasAchievement(a.ID) {
			continue
		}
		triggered, err := e.triggered(a.ID, profile, result)
		if err != nil {
			return nil, err
		}
		if triggered {
			unlocked = append(unlocked, a.ID)
		}
	}

	for _, id := range unlocked {
		a, err := e.Get(id)
		if err != nil {
			// Рассинхронизация каталога и кода, фатально
			return nil, err
		}
		profile.Achievements = append(profile.Achievements, id)
		profile.XPPoints += a.XPReward
		log.Printf("[Achievements] Пользователь %s разблокировал %q (+%d XP)", profile.Username, id, a.XPReward)
	}

	// XP за достижения может сам по себе поднять уровень
	if len(unlocked) > 0 {
		profile.Level = LevelForXP(profile.XPPoints)
	}

	return unlocked, nil
}

// triggered возвращает true, если предикат достижения выполнен.
// Неизвестный идентификатор каталога означает дрейф каталога
// относительно кода — ErrUnknownAchievement.
func (e *Evaluator) triggered(id string, profile *entity.Profile, result *QuizResult) (bool, error) {
	switch id {
	case AchievementFirstQuiz:
		return profile.TotalQuizzes == 1, nil
	case AchievementPerfectScore:
		return result != nil && result.Percentage == 100, nil
	case AchievementHighScorer:
		return result != nil && result.Percentage >= 80, nil
	case AchievementQuizMaster:
		return profile.TotalQuizzes >= 10, nil
	case AchievementStreak3:
		return profile.StreakDays >= 3, nil
	case AchievementStreak7:
		return profile.StreakDays >= 7, nil
	case AchievementBilingual:
		return len(profile.LanguagesUsed) >= 2, nil
	case AchievementEpicScholar:
		return len(profile.PlayedTopics) >= 2, nil
	case AchievementLevel5:
		return profile.Level >= 5, nil
	case AchievementLevel10:
		return profile.Level >= 10, nil
	default:
		return false, fmt.Errorf("%w: no rule for catalog id %q", apperrors.ErrUnknownAchievement, id)
	}
}
