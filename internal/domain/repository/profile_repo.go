package repository

import (
	"github.com/yourusername/epic-quiz/internal/domain/entity"
)

// ProfileRepository определяет методы для работы с профилями прогрессии
type ProfileRepository interface {
	Create(profile *entity.Profile) error
	// GetByUsername возвращает профиль по имени (регистронезависимо)
	// или apperrors.ErrNotFound, если профиль не существует.
	GetByUsername(username string) (*entity.Profile, error)
	Update(profile *entity.Profile) error
	// GetLeaderboard возвращает профили для лидерборда, отсортированные по XP,
	// с пагинацией и общим количеством
	GetLeaderboard(limit, offset int) ([]entity.Profile, int64, error)
}
