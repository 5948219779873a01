package dto

import (
	"time"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	"github.com/yourusername/epic-quiz/internal/handler/helper"
)

// ItemResponse представляет вопрос в формате для ответа клиенту.
// Правильный ответ и пояснение не раскрываются при выдаче сессии.
type ItemResponse struct {
	ID         string              `json:"id"`
	Category   string              `json:"category"`
	Difficulty string              `json:"difficulty"`
	Text       string              `json:"text"`
	Options    []helper.ItemOption `json:"options"`
}

// SessionResponse представляет составленную сессию
type SessionResponse struct {
	Category string         `json:"category"`
	Language string         `json:"language"`
	Count    int            `json:"count"`
	Items    []ItemResponse `json:"items"`
}

// NewItemResponse создает DTO вопроса для заданного языка
func NewItemResponse(item *entity.Item, language string) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		Category:   item.Category,
		Difficulty: string(item.Difficulty),
		Text:       item.TextFor(language),
		Options:    helper.ConvertOptionsToObjects(item.OptionsFor(language)),
	}
}

// NewSessionResponse создает DTO сессии
func NewSessionResponse(category, language string, items []entity.Item) *SessionResponse {
	itemDTOs := make([]ItemResponse, len(items))
	for i := range items {
		itemDTOs[i] = NewItemResponse(&items[i], language)
	}
	return &SessionResponse{
		Category: category,
		Language: language,
		Count:    len(items),
		Items:    itemDTOs,
	}
}

// ComposeSessionRequest — запрос на составление сессии
type ComposeSessionRequest struct {
	Username string `json:"username" binding:"required"`
	Category string `json:"category" binding:"required"`
	Language string `json:"language"`
	Size     int    `json:"size"`
}

// CompleteSessionRequest — запрос на завершение сессии
type CompleteSessionRequest struct {
	Username        string   `json:"username" binding:"required"`
	Category        string   `json:"category" binding:"required"`
	Language        string   `json:"language"`
	ItemIDs         []string `json:"item_ids" binding:"required"`
	Score           int      `json:"score"`
	Total           int      `json:"total" binding:"required"`
	DifficultyBonus float64  `json:"difficulty_bonus"`
}

// ItemRevealResponse раскрывает правильный ответ и пояснение вопроса.
// Отдаётся только по явному запросу разбора, не в составе сессии.
type ItemRevealResponse struct {
	ID            string            `json:"id"`
	CorrectOption int               `json:"correct_option"`
	Explanation   map[string]string `json:"explanation"`
}

// NewItemRevealResponse создает DTO разбора вопроса
func NewItemRevealResponse(item *entity.Item) *ItemRevealResponse {
	return &ItemRevealResponse{
		ID:            item.ID,
		CorrectOption: item.CorrectOption,
		Explanation:   map[string]string(item.Explanation),
	}
}

// ActivityEntryResponse — строка ленты последних завершённых сессий
type ActivityEntryResponse struct {
	Username    string    `json:"username"`
	Category    string    `json:"category"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percentage  float64   `json:"percentage"`
	Language    string    `json:"language"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewActivityEntryResponse создает строку ленты активности
func NewActivityEntryResponse(rec *entity.SessionRecord) ActivityEntryResponse {
	return ActivityEntryResponse{
		Username:    rec.Username,
		Category:    rec.Category,
		Score:       rec.Score,
		Total:       rec.Total,
		Percentage:  rec.Percentage,
		Language:    rec.Language,
		CompletedAt: rec.CompletedAt,
	}
}

// AchievementResponse представляет достижение в ответе клиенту
type AchievementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	XPReward    int    `json:"xp_reward"`
}

// NewAchievementResponse создает DTO достижения
func NewAchievementResponse(a entity.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		XPReward:    a.XPReward,
	}
}

// CompletionResponse — итог завершения сессии для клиента
type CompletionResponse struct {
	RecordID        string                `json:"record_id"`
	Score           int                   `json:"score"`
	Total           int                   `json:"total"`
	Percentage      float64               `json:"percentage"`
	XPEarned        int                   `json:"xp_earned"`
	LeveledUp       bool                  `json:"leveled_up"`
	Level           int                   `json:"level"`
	StreakDays      int                   `json:"streak_days"`
	NewAchievements []AchievementResponse `json:"new_achievements"`
}
