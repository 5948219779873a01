package dto

import (
	"time"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
)

// ProfileResponse представляет профиль прогрессии в ответе клиенту
type ProfileResponse struct {
	Username      string                `json:"username"`
	XPPoints      int                   `json:"xp_points"`
	Level         int                   `json:"level"`
	TotalQuizzes  int                   `json:"total_quizzes"`
	TotalScore    int                   `json:"total_score"`
	StreakDays    int                   `json:"streak_days"`
	LastQuizDate  *time.Time            `json:"last_quiz_date,omitempty"`
	LanguagesUsed []string              `json:"languages_used"`
	PlayedTopics  []string              `json:"played_topics"`
	Achievements  []AchievementResponse `json:"achievements"`
}

// LeaderboardEntryDTO представляет строку лидерборда
type LeaderboardEntryDTO struct {
	Rank         int    `json:"rank"`
	Username     string `json:"username"`
	XPPoints     int    `json:"xp_points"`
	Level        int    `json:"level"`
	TotalQuizzes int    `json:"total_quizzes"`
	StreakDays   int    `json:"streak_days"`
}

// PaginatedLeaderboardResponse представляет пагинированный лидерборд
type PaginatedLeaderboardResponse struct {
	Entries []*LeaderboardEntryDTO `json:"entries"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"per_page"`
}

// NewProfileResponse создает DTO профиля с деталями достижений из каталога
func NewProfileResponse(p *entity.Profile, unlocked []entity.Achievement) *ProfileResponse {
	achievements := make([]AchievementResponse, len(unlocked))
	for i, a := range unlocked {
		achievements[i] = NewAchievementResponse(a)
	}
	return &ProfileResponse{
		Username:      p.Username,
		XPPoints:      p.XPPoints,
		Level:         p.Level,
		TotalQuizzes:  p.TotalQuizzes,
		TotalScore:    p.TotalScore,
		StreakDays:    p.StreakDays,
		LastQuizDate:  p.LastQuizDate,
		LanguagesUsed: p.LanguagesUsed,
		PlayedTopics:  p.PlayedTopics,
		Achievements:  achievements,
	}
}
