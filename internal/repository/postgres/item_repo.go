package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

// ItemRepo реализует repository.ItemRepository
type ItemRepo struct {
	db *gorm.DB
}

// NewItemRepo создает новый репозиторий вопросов
func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// GetByID возвращает вопрос по идентификатору
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// LoadAll возвращает полный пул вопросов категории
func (r *ItemRepo) LoadAll(category string) ([]entity.Item, error) {
	var items []entity.Item
	err := r.db.Where("category = ?", category).Order("id").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListCategories возвращает список категорий, присутствующих в базе
func (r *ItemRepo) ListCategories() ([]string, error) {
	var cats []string
	err := r.db.Model(&entity.Item{}).Distinct("category").Order("category").Pluck("category", &cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}

