package repository

import (
	"github.com/yourusername/epic-quiz/internal/domain/entity"
)

// ItemRepository определяет методы чтения пула вопросов.
// Запись контента выполняет команда seed напрямую, минуя репозиторий.
type ItemRepository interface {
	// GetByID возвращает вопрос по идентификатору или apperrors.ErrNotFound
	GetByID(id string) (*entity.Item, error)
	// LoadAll возвращает полный неизменяемый пул вопросов категории
	LoadAll(category string) ([]entity.Item, error)
	ListCategories() ([]string, error)
}
