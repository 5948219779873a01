package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests — не требуют реального QuizService.
// Handler возвращает 400 до вызова сервиса.
// ============================================================================

func TestComposeSession_ValidationErrors(t *testing.T) {
	handler := &QuizHandler{defaultLanguage: "english", difficultyBonus: 1.0}

	tests := []struct {
		name string
		body interface{}
	}{
		{
			name: "Отсутствует username",
			body: map[string]interface{}{"category": "mahabharata"},
		},
		{
			name: "Отсутствует category",
			body: map[string]interface{}{"username": "arjuna"},
		},
		{
			name: "Пустое тело запроса",
			body: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/sessions", tt.body)

			handler.ComposeSession(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Contains(t, resp, "error")
		})
	}
}

func TestCompleteSession_ValidationErrors(t *testing.T) {
	handler := &QuizHandler{defaultLanguage: "english", difficultyBonus: 1.0}

	tests := []struct {
		name string
		body interface{}
	}{
		{
			name: "Отсутствует username",
			body: map[string]interface{}{
				"category": "mahabharata",
				"item_ids": []string{"aaaa1111"},
				"total":    20,
			},
		},
		{
			name: "Отсутствует item_ids",
			body: map[string]interface{}{
				"username": "arjuna",
				"category": "mahabharata",
				"total":    20,
			},
		},
		{
			name: "Отсутствует total",
			body: map[string]interface{}{
				"username": "arjuna",
				"category": "mahabharata",
				"item_ids": []string{"aaaa1111"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/sessions/complete", tt.body)

			handler.CompleteSession(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Contains(t, resp, "error")
		})
	}
}

// ============================================================================
// Трансляция ошибок сервисов в HTTP статусы
// ============================================================================

func TestHandleError_StatusMapping(t *testing.T) {
	handler := &QuizHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrNotFound - 404", apperrors.ErrNotFound, http.StatusNotFound},
		{"ErrValidation - 400", apperrors.ErrValidation, http.StatusBadRequest},
		{"ErrConflict - 409", apperrors.ErrConflict, http.StatusConflict},
		{"Неизвестная ошибка - 500", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodGet, "/api/test", nil)

			handler.handleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestParsePositiveQueryInt(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		fallback int
		expected int
	}{
		{"Валидное значение", "page=3", 1, 3},
		{"Отсутствует параметр", "", 1, 1},
		{"Не число", "page=abc", 1, 1},
		{"Ноль откатывается к fallback", "page=0", 1, 1},
		{"Отрицательное значение", "page=-2", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestGinContext(http.MethodGet, "/api/leaderboard?"+tt.query, nil)

			assert.Equal(t, tt.expected, parsePositiveQueryInt(c, "page", tt.fallback))
		})
	}
}
