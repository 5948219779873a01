package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
	"github.com/yourusername/epic-quiz/internal/service"
)

// ProfileHandler обрабатывает запросы профилей и лидерборда
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler создает новый обработчик профилей
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile возвращает профиль прогрессии пользователя
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	username := c.MustGet("username").(string) // Получаем из контекста

	profile, err := h.profileService.GetProfile(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		log.Printf("[ProfileHandler] Ошибка получения профиля %s: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetLeaderboard возвращает пагинированный лидерборд по XP.
// ?format=xlsx отдаёт выгрузку в Excel.
func (h *ProfileHandler) GetLeaderboard(c *gin.Context) {
	if c.Query("format") == "xlsx" {
		h.exportXLSX(c)
		return
	}

	page := parsePositiveQueryInt(c, "page", 1)
	pageSize := parsePositiveQueryInt(c, "per_page", 10)

	leaderboard, err := h.profileService.GetLeaderboard(page, pageSize)
	if err != nil {
		log.Printf("[ProfileHandler] Ошибка получения лидерборда: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

// exportXLSX экспортирует лидерборд в Excel с использованием StreamWriter
func (h *ProfileHandler) exportXLSX(c *gin.Context) {
	profiles, err := h.profileService.LeaderboardRows()
	if err != nil {
		log.Printf("[ProfileHandler] Ошибка выгрузки лидерборда: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"leaderboard.xlsx\"")

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leaderboard"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ProfileHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Rank", "Username", "XP", "Level", "Quizzes", "Streak (days)"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ProfileHandler] Ошибка записи заголовков: %v", err)
	}

	for i, p := range profiles {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)
		row := []interface{}{i + 1, sanitizeForExcel(p.Username), p.XPPoints, p.Level, p.TotalQuizzes, p.StreakDays}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ProfileHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ProfileHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ProfileHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
