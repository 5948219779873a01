package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	"github.com/yourusername/epic-quiz/internal/domain/repository"
	"github.com/yourusername/epic-quiz/internal/handler/dto"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
	"github.com/yourusername/epic-quiz/internal/service/progression"
)

// Ключи кеша, сбрасываемые при завершении сессии
const (
	leaderboardCacheKey  = "leaderboard:xp:first_page"
	leaderboardCacheTTL  = 60 * time.Second
	profileCacheTTL      = 5 * time.Minute
	leaderboardMaxExport = 1000
)

func profileCacheKey(username string) string {
	return "profile:" + username
}

// ProfileService предоставляет чтение профилей и лидерборда.
// Горячие ответы кешируются в Redis; точка инвалидации — завершение сессии.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	cacheRepo   repository.CacheRepository
	evaluator   *progression.Evaluator
}

// NewProfileService создает новый сервис профилей
func NewProfileService(profileRepo repository.ProfileRepository, cacheRepo repository.CacheRepository, evaluator *progression.Evaluator) *ProfileService {
	if evaluator == nil {
		evaluator = progression.NewEvaluator(nil)
	}
	return &ProfileService{
		profileRepo: profileRepo,
		cacheRepo:   cacheRepo,
		evaluator:   evaluator,
	}
}

// GetProfile возвращает профиль с деталями достижений из каталога
func (s *ProfileService) GetProfile(username string) (*dto.ProfileResponse, error) {
	normalized := entity.NormalizeUsername(username)
	if normalized == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}

	cacheKey := profileCacheKey(normalized)
	if s.cacheRepo != nil {
		var cached dto.ProfileResponse
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ProfileService] Ошибка чтения кеша профиля %s: %v", normalized, err)
		}
	}

	profile, err := s.profileRepo.GetByUsername(normalized)
	if err != nil {
		return nil, err
	}

	unlocked := make([]entity.Achievement, 0, len(profile.Achievements))
	for _, id := range profile.Achievements {
		a, err := s.evaluator.Get(id)
		if err != nil {
			// Профиль ссылается на достижение вне каталога: дрейф данных
			return nil, err
		}
		unlocked = append(unlocked, a)
	}

	response := dto.NewProfileResponse(profile, unlocked)
	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(cacheKey, response, profileCacheTTL); err != nil {
			log.Printf("[ProfileService] Ошибка записи кеша профиля %s: %v", normalized, err)
		}
	}
	return response, nil
}

// GetLeaderboard возвращает пагинированный лидерборд по XP.
// Первая страница с размером по умолчанию кешируется.
func (s *ProfileService) GetLeaderboard(page, pageSize int) (*dto.PaginatedLeaderboardResponse, error) {
	// Валидация параметров пагинации
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10 // Значение по умолчанию
	} else if pageSize > 100 {
		pageSize = 100 // Максимальный лимит
	}

	cacheable := page == 1 && pageSize == 10
	if cacheable && s.cacheRepo != nil {
		var cached dto.PaginatedLeaderboardResponse
		if err := s.cacheRepo.GetJSON(leaderboardCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ProfileService] Ошибка чтения кеша лидерборда: %v", err)
		}
	}

	offset := (page - 1) * pageSize
	profiles, total, err := s.profileRepo.GetLeaderboard(pageSize, offset)
	if err != nil {
		log.Printf("[ProfileService] Ошибка при получении лидерборда из репозитория: %v", err)
		return nil, err
	}

	entries := make([]*dto.LeaderboardEntryDTO, len(profiles))
	for i, p := range profiles {
		entries[i] = &dto.LeaderboardEntryDTO{
			Rank:         offset + i + 1, // Рассчитываем ранг на основе смещения и индекса
			Username:     p.Username,
			XPPoints:     p.XPPoints,
			Level:        p.Level,
			TotalQuizzes: p.TotalQuizzes,
			StreakDays:   p.StreakDays,
		}
	}

	response := &dto.PaginatedLeaderboardResponse{
		Entries: entries,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}

	if cacheable && s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(leaderboardCacheKey, response, leaderboardCacheTTL); err != nil {
			log.Printf("[ProfileService] Ошибка записи кеша лидерборда: %v", err)
		}
	}
	return response, nil
}

// LeaderboardRows возвращает профили лидерборда для экспорта (без кеша)
func (s *ProfileService) LeaderboardRows() ([]entity.Profile, error) {
	profiles, _, err := s.profileRepo.GetLeaderboard(leaderboardMaxExport, 0)
	return profiles, err
}
