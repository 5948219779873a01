package repository

import (
	"github.com/yourusername/epic-quiz/internal/domain/entity"
)

// SessionRecordRepository определяет методы для работы с историей сессий.
// Записи append-only: после создания никогда не изменяются.
type SessionRecordRepository interface {
	// Append сохраняет запись завершённой сессии
	Append(record *entity.SessionRecord) error
	// Query возвращает все прошлые попытки пользователя в категории.
	// Сопоставление по имени регистронезависимое.
	Query(username, category string) ([]entity.SessionRecord, error)
	// QueryRecent возвращает limit последних попыток пользователя в категории
	// по времени завершения, новые первыми.
	QueryRecent(username, category string, limit int) ([]entity.SessionRecord, error)
	// ListRecent возвращает последние записи по всем пользователям (для ленты активности)
	ListRecent(limit int) ([]entity.SessionRecord, error)
}
