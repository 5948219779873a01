package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/epic-quiz/internal/handler/dto"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
	"github.com/yourusername/epic-quiz/internal/service"
)

// QuizHandler обрабатывает запросы составления и завершения сессий
type QuizHandler struct {
	quizService     *service.QuizService
	defaultLanguage string
	difficultyBonus float64
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService, difficultyBonus float64) *QuizHandler {
	if difficultyBonus <= 0 {
		difficultyBonus = 1.0
	}
	return &QuizHandler{
		quizService:     quizService,
		defaultLanguage: "english",
		difficultyBonus: difficultyBonus,
	}
}

// ListCategories возвращает категории с двуязычными заголовками
func (h *QuizHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.quizService.Categories()})
}

// ListAchievements возвращает статический каталог достижений
func (h *QuizHandler) ListAchievements(c *gin.Context) {
	catalog := h.quizService.Evaluator().Catalog()
	achievements := make([]dto.AchievementResponse, len(catalog))
	for i, a := range catalog {
		achievements[i] = dto.NewAchievementResponse(a)
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// ComposeSession составляет сессию для пользователя.
// История попыток исключает недавние повторы; при нехватке вопросов в пуле
// клиент получает короткую сессию с пометкой short.
func (h *QuizHandler) ComposeSession(c *gin.Context) {
	var req dto.ComposeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	language := req.Language
	if language == "" {
		language = h.defaultLanguage
	}

	items, err := h.quizService.ComposeSession(req.Username, req.Category, req.Size)
	if err != nil && !errors.Is(err, apperrors.ErrInsufficientPool) {
		h.handleError(c, err)
		return
	}

	response := dto.NewSessionResponse(req.Category, language, items)
	if errors.Is(err, apperrors.ErrInsufficientPool) {
		// Пул меньше запрошенного размера: отдаём, что есть, клиент решает
		log.Printf("[QuizHandler] Короткая сессия для %s/%s: %v", req.Username, req.Category, err)
		c.JSON(http.StatusOK, gin.H{"session": response, "short": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": response})
}

// CompleteSession завершает сессию: записывает результат, применяет
// прогрессию и возвращает заработанный XP, уровень и новые достижения
func (h *QuizHandler) CompleteSession(c *gin.Context) {
	var req dto.CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	language := req.Language
	if language == "" {
		language = h.defaultLanguage
	}
	bonus := req.DifficultyBonus
	if bonus <= 0 {
		bonus = h.difficultyBonus
	}

	result, err := h.quizService.CompleteSession(req.Username, req.Category, language, req.ItemIDs, req.Score, req.Total, bonus)
	if err != nil {
		h.handleError(c, err)
		return
	}

	achievements := make([]dto.AchievementResponse, len(result.NewAchievements))
	for i, a := range result.NewAchievements {
		achievements[i] = dto.NewAchievementResponse(a)
	}
	c.JSON(http.StatusOK, dto.CompletionResponse{
		RecordID:        result.RecordID,
		Score:           result.Score,
		Total:           result.Total,
		Percentage:      result.Percentage,
		XPEarned:        result.XPEarned,
		LeveledUp:       result.LeveledUp,
		Level:           result.Level,
		StreakDays:      result.StreakDays,
		NewAchievements: achievements,
	})
}

// RevealItem возвращает правильный ответ и пояснение вопроса.
// Клиент запрашивает разбор после того, как пользователь ответил.
func (h *QuizHandler) RevealItem(c *gin.Context) {
	item, err := h.quizService.RevealItem(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewItemRevealResponse(item))
}

// ListActivity возвращает ленту последних завершённых сессий всех пользователей
func (h *QuizHandler) ListActivity(c *gin.Context) {
	limit := parsePositiveQueryInt(c, "limit", 0)
	records, err := h.quizService.RecentActivity(limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	entries := make([]dto.ActivityEntryResponse, len(records))
	for i := range records {
		entries[i] = dto.NewActivityEntryResponse(&records[i])
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// ReloadPools перечитывает пулы вопросов из базы.
// Явная точка инвалидации после изменения контента.
func (h *QuizHandler) ReloadPools(c *gin.Context) {
	if err := h.quizService.ReloadPools(); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "pools reloaded"})
}

// parsePositiveQueryInt читает положительный целочисленный query-параметр
func parsePositiveQueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// handleError транслирует ошибки сервисов в HTTP статусы
func (h *QuizHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("[QuizHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
