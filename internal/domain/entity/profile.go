package entity

import (
	"strings"
	"time"
)

// Profile представляет постоянное состояние прогрессии пользователя.
// Изменяется только движком прогрессии и оценщиком достижений,
// один раз на завершённую сессию, как единое атомарное обновление.
type Profile struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Username      string      `gorm:"size:50;not null;uniqueIndex" json:"username"`
	XPPoints      int         `gorm:"not null;default:0;index:idx_profiles_xp" json:"xp_points"`
	Level         int         `gorm:"not null;default:1" json:"level"`
	TotalQuizzes  int         `gorm:"not null;default:0" json:"total_quizzes"`
	TotalScore    int         `gorm:"not null;default:0" json:"total_score"`
	Achievements  StringArray `gorm:"type:jsonb;not null" json:"achievements"`
	StreakDays    int         `gorm:"not null;default:0" json:"streak_days"`
	LastQuizDate  *time.Time  `gorm:"type:date" json:"last_quiz_date,omitempty"`
	LanguagesUsed StringArray `gorm:"type:jsonb;not null" json:"languages_used"`
	PlayedTopics  StringArray `gorm:"type:jsonb;not null" json:"played_topics"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Profile) TableName() string {
	return "profiles"
}

// NormalizeUsername приводит идентификатор пользователя к каноническому виду.
// Сопоставление пользователей регистронезависимое.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NewProfile создает профиль с начальными значениями прогрессии
func NewProfile(username string) *Profile {
	return &Profile{
		Username:      NormalizeUsername(username),
		XPPoints:      0,
		Level:         1,
		Achievements:  StringArray{},
		LanguagesUsed: StringArray{},
		PlayedTopics:  StringArray{},
	}
}

// HasAchievement проверяет, разблокировано ли достижение
func (p *Profile) HasAchievement(id string) bool {
	return p.Achievements.Contains(id)
}

// MarkLanguage отмечает язык, на котором пользователь прошёл сессию
func (p *Profile) MarkLanguage(language string) {
	if language != "" && !p.LanguagesUsed.Contains(language) {
		p.LanguagesUsed = append(p.LanguagesUsed, language)
	}
}

// MarkTopic отмечает категорию, в которой пользователь прошёл сессию
func (p *Profile) MarkTopic(category string) {
	if category != "" && !p.PlayedTopics.Contains(category) {
		p.PlayedTopics = append(p.PlayedTopics, category)
	}
}
