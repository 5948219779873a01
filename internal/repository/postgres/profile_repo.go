package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

// ProfileRepo реализует repository.ProfileRepository
type ProfileRepo struct {
	db *gorm.DB
}

// NewProfileRepo создает новый репозиторий профилей
func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Create создает профиль. Имя нормализуется до сохранения.
func (r *ProfileRepo) Create(profile *entity.Profile) error {
	profile.Username = entity.NormalizeUsername(profile.Username)
	return r.db.Create(profile).Error
}

// GetByUsername возвращает профиль по имени. Сопоставление регистронезависимое:
// lower() в запросе терпимо к строкам, записанным до нормализации имён.
func (r *ProfileRepo) GetByUsername(username string) (*entity.Profile, error) {
	var profile entity.Profile
	err := r.db.Where("lower(username) = ?", entity.NormalizeUsername(username)).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update сохраняет профиль целиком: прогрессия обновляет профиль как
// единое атомарное изменение
func (r *ProfileRepo) Update(profile *entity.Profile) error {
	return r.db.Save(profile).Error
}

// GetLeaderboard возвращает профили, отсортированные по XP, с общим количеством
func (r *ProfileRepo) GetLeaderboard(limit, offset int) ([]entity.Profile, int64, error) {
	var profiles []entity.Profile
	var total int64

	// Транзакция для согласованности списка и общего количества
	tx := r.db.Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	if err := tx.Model(&entity.Profile{}).Count(&total).Error; err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	err := tx.Order("xp_points DESC, username").Limit(limit).Offset(offset).Find(&profiles).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}
