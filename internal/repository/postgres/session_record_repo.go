package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
)

// SessionRecordRepo реализует repository.SessionRecordRepository
type SessionRecordRepo struct {
	db *gorm.DB
}

// NewSessionRecordRepo создает новый репозиторий истории сессий
func NewSessionRecordRepo(db *gorm.DB) *SessionRecordRepo {
	return &SessionRecordRepo{db: db}
}

// Append сохраняет запись завершённой сессии. Записи append-only,
// обновлений здесь нет по построению.
func (r *SessionRecordRepo) Append(record *entity.SessionRecord) error {
	return r.db.Create(record).Error
}

// Query возвращает все прошлые попытки пользователя в категории.
// Имя сопоставляется регистронезависимо.
func (r *SessionRecordRepo) Query(username, category string) ([]entity.SessionRecord, error) {
	var records []entity.SessionRecord
	err := r.db.
		Where("lower(username) = ? AND category = ?", entity.NormalizeUsername(username), category).
		Order("completed_at").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// QueryRecent возвращает limit последних попыток пользователя в категории,
// новые первыми
func (r *SessionRecordRepo) QueryRecent(username, category string, limit int) ([]entity.SessionRecord, error) {
	var records []entity.SessionRecord
	err := r.db.
		Where("lower(username) = ? AND category = ?", entity.NormalizeUsername(username), category).
		Order("completed_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListRecent возвращает последние записи по всем пользователям
func (r *SessionRecordRepo) ListRecent(limit int) ([]entity.SessionRecord, error) {
	var records []entity.SessionRecord
	err := r.db.Order("completed_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
