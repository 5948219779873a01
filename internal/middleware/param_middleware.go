package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractUsernameParam создает middleware для извлечения и валидации
// имени пользователя из URL. Имя нормализуется к нижнему регистру,
// сопоставление пользователей регистронезависимое.
func ExtractUsernameParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.ToLower(strings.TrimSpace(c.Param(paramName)))
		if username == "" || len(username) > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + paramName})
			c.Abort()
			return
		}
		c.Set(contextKey, username)
		c.Next()
	}
}
