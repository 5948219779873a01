package progression

import (
	"fmt"
	"math"
	"time"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

// QuizResult — итог завершённой сессии, передаваемый движку прогрессии
// и оценщику достижений
type QuizResult struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Category   string  `json:"category"`
	Language   string  `json:"language"`
}

// Пороговые значения XP: levelThresholds[i] — минимальный XP для уровня i+1.
// С уровня 10 каждая следующая 1000 XP даёт один уровень, максимум 50.
var levelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500}

const (
	maxLevel      = 50
	xpPerLevel    = 1000 // XP на уровень после порога уровня 10
	baseXPPerQuiz = 100  // XP за идеальную сессию без бонуса
)

// LevelForXP возвращает уровень для накопленного XP.
// Монотонная неубывающая ступенчатая функция; уровень всегда
// пересчитывается из суммарного XP, а не инкрементируется.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	for i := len(levelThresholds) - 1; i >= 1; i-- {
		if xp >= levelThresholds[i] {
			if i == len(levelThresholds)-1 {
				// Уровень 10 и выше: +1 уровень за каждые xpPerLevel
				level := 10 + (xp-levelThresholds[i])/xpPerLevel
				if level > maxLevel {
					return maxLevel
				}
				return level
			}
			return i + 1
		}
	}
	return 1
}

// XPForQuiz вычисляет заработанный XP: floor((score/total)*100*bonus).
// difficultyBonus — множитель, поставляемый вызывающей стороной
// (1.0 по умолчанию, >1.0 для более сложных сессий).
func XPForQuiz(score, total int, difficultyBonus float64) int {
	if total <= 0 {
		return 0
	}
	baseXP := float64(score) / float64(total) * baseXPPerQuiz
	return int(math.Floor(baseXP * difficultyBonus))
}

// Engine преобразует сырой счёт в XP, пересчитывает уровень и серию дней.
// Чистая функция своих входов: не выполняет I/O, изменяет только переданный
// профиль. Атомарность по отношению к конкурентным завершениям одного
// пользователя обеспечивает вызывающий сервис.
type Engine struct{}

// NewEngine создает движок прогрессии
func NewEngine() *Engine {
	return &Engine{}
}

// ApplyQuizResult применяет результат сессии к профилю: счётчики, XP,
// уровень, серия дней и дата последней сессии. Возвращает заработанный XP
// и флаг повышения уровня. today — текущая дата вызывающей стороны,
// передаётся явно для воспроизводимости в тестах.
func (e *Engine) ApplyQuizResult(profile *entity.Profile, result *QuizResult, difficultyBonus float64, today time.Time) (int, bool, error) {
	if profile == nil {
		return 0, false, fmt.Errorf("%w: profile is nil", apperrors.ErrValidation)
	}
	if result == nil || result.Total <= 0 {
		return 0, false, fmt.Errorf("%w: quiz result must have a positive total", apperrors.ErrValidation)
	}
	if difficultyBonus <= 0 {
		difficultyBonus = 1.0
	}

	profile.TotalQuizzes++
	profile.TotalScore += result.Score
	profile.MarkLanguage(result.Language)
	profile.MarkTopic(result.Category)

	xpEarned := XPForQuiz(result.Score, result.Total, difficultyBonus)
	oldLevel := profile.Level
	profile.XPPoints += xpEarned
	profile.Level = LevelForXP(profile.XPPoints)

	e.updateStreak(profile, today)

	return xpEarned, profile.Level > oldLevel, nil
}

// updateStreak обновляет серию дней по дате последней сессии:
// разрыв ровно в один день продлевает серию, больший разрыв сбрасывает её
// в 1 (не в 0). Повторная сессия в тот же день серию не меняет, чтобы
// несколько попыток за день не раздували её.
func (e *Engine) updateStreak(profile *entity.Profile, today time.Time) {
	todayDate := truncateToDate(today)

	switch {
	case profile.LastQuizDate == nil:
		profile.StreakDays = 1
	default:
		gap := daysBetween(truncateToDate(*profile.LastQuizDate), todayDate)
		switch {
		case gap == 1:
			profile.StreakDays++
		case gap > 1:
			profile.StreakDays = 1
		}
		// gap == 0: та же дата, серия не меняется
	}

	profile.LastQuizDate = &todayDate
}

// truncateToDate отбрасывает время, оставляя дату в UTC
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween возвращает число календарных дней между двумя датами
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
