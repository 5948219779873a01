package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	"github.com/yourusername/epic-quiz/internal/domain/repository"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
	"github.com/yourusername/epic-quiz/internal/service/progression"
	"github.com/yourusername/epic-quiz/internal/service/quizcompose"
)

// Category описывает категорию викторины с двуязычными заголовками
type Category struct {
	Key   string            `json:"key"`
	Title map[string]string `json:"title"`
}

// Статический список категорий приложения
var categories = []Category{
	{Key: "mahabharata", Title: map[string]string{
		entity.LanguageEnglish: "Mahabharata Quiz",
		entity.LanguageTelugu:  "మహాభారత క్విజ్",
	}},
	{Key: "ramayana", Title: map[string]string{
		entity.LanguageEnglish: "Ramayana Quiz",
		entity.LanguageTelugu:  "రామాయణ క్విజ్",
	}},
}

// CompletionResult — итог завершения сессии для вызывающей стороны
type CompletionResult struct {
	RecordID        string               `json:"record_id"`
	Score           int                  `json:"score"`
	Total           int                  `json:"total"`
	Percentage      float64              `json:"percentage"`
	XPEarned        int                  `json:"xp_earned"`
	LeveledUp       bool                 `json:"leveled_up"`
	Level           int                  `json:"level"`
	StreakDays      int                  `json:"streak_days"`
	NewAchievements []entity.Achievement `json:"new_achievements"`
	Profile         *entity.Profile      `json:"-"`
}

// QuizService оркестрирует составление и завершение сессий: история →
// семплер → прогрессия → достижения → сохранение. Пулы вопросов загружаются
// в память один раз и перечитываются только явным ReloadPools.
type QuizService struct {
	itemRepo    repository.ItemRepository
	recordRepo  repository.SessionRecordRepository
	profileRepo repository.ProfileRepository
	cacheRepo   repository.CacheRepository

	config    *quizcompose.Config
	tracker   *quizcompose.HistoryTracker
	sampler   *quizcompose.Sampler
	engine    *progression.Engine
	evaluator *progression.Evaluator

	poolsMu sync.RWMutex
	pools   map[string]*quizcompose.Pool

	// Завершение сессии — read-modify-write профиля. Блокировка по
	// пользователю защищает от потерянных обновлений при двух
	// одновременных завершениях (например, две вкладки браузера).
	userLocks sync.Map // map[string]*sync.Mutex
}

// NewQuizService создает сервис викторин. Пулы загружаются отдельным
// вызовом ReloadPools после создания.
func NewQuizService(
	itemRepo repository.ItemRepository,
	recordRepo repository.SessionRecordRepository,
	profileRepo repository.ProfileRepository,
	cacheRepo repository.CacheRepository,
	config *quizcompose.Config,
	sampler *quizcompose.Sampler,
) *QuizService {
	if config == nil {
		config = quizcompose.DefaultConfig()
	}
	if sampler == nil {
		sampler = quizcompose.NewSampler(nil)
	}
	deps := &quizcompose.Dependencies{
		ItemRepo:          itemRepo,
		SessionRecordRepo: recordRepo,
	}
	return &QuizService{
		itemRepo:    itemRepo,
		recordRepo:  recordRepo,
		profileRepo: profileRepo,
		cacheRepo:   cacheRepo,
		config:      config,
		tracker:     quizcompose.NewHistoryTracker(config, deps),
		sampler:     sampler,
		engine:      progression.NewEngine(),
		evaluator:   progression.NewEvaluator(nil),
		pools:       make(map[string]*quizcompose.Pool),
	}
}

// Categories возвращает список категорий с двуязычными заголовками
func (s *QuizService) Categories() []Category {
	return categories
}

// Evaluator возвращает оценщик достижений (каталог нужен хэндлерам профиля)
func (s *QuizService) Evaluator() *progression.Evaluator {
	return s.evaluator
}

// ReloadPools перечитывает пулы вопросов из репозитория. Вызывается при
// старте и служит явной точкой инвалидации после изменения контента —
// скрытого глобального кеша с очисткой на каждую мутацию здесь нет.
func (s *QuizService) ReloadPools() error {
	cats, err := s.itemRepo.ListCategories()
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	pools := make(map[string]*quizcompose.Pool, len(cats))
	for _, cat := range cats {
		items, err := s.itemRepo.LoadAll(cat)
		if err != nil {
			return fmt.Errorf("failed to load items for category %q: %w", cat, err)
		}
		pool, err := quizcompose.NewPool(cat, items)
		if err != nil {
			return err
		}
		pools[cat] = pool
		log.Printf("[QuizService] Пул %q загружен: %d вопросов", cat, pool.Size())
	}

	s.poolsMu.Lock()
	s.pools = pools
	s.poolsMu.Unlock()
	return nil
}

// pool возвращает загруженный пул категории
func (s *QuizService) pool(category string) (*quizcompose.Pool, error) {
	s.poolsMu.RLock()
	defer s.poolsMu.RUnlock()
	p, ok := s.pools[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrNotFound, category)
	}
	return p, nil
}

// ComposeSession составляет сессию для пользователя: история попыток даёт
// множество исключений, семплер возвращает упорядоченный список вопросов.
// Ничего не записывает. При ErrInsufficientPool возвращается короткая
// сессия вместе с ошибкой — решение за вызывающей стороной.
func (s *QuizService) ComposeSession(username, category string, targetSize int) ([]entity.Item, error) {
	pool, err := s.pool(category)
	if err != nil {
		return nil, err
	}
	if targetSize <= 0 {
		targetSize = s.config.SessionSize
	}

	seen, err := s.tracker.ExcludedIDs(username, category)
	if err != nil {
		return nil, err
	}

	return s.sampler.ComposeSession(pool, targetSize, seen)
}

// CompleteSession атомарно завершает сессию: записывает SessionRecord,
// применяет прогрессию, оценивает достижения, сохраняет профиль и
// инвалидирует кеши. difficultyBonus <= 0 трактуется как 1.0.
func (s *QuizService) CompleteSession(username, category, language string, itemIDs []string, score, total int, difficultyBonus float64) (*CompletionResult, error) {
	if total <= 0 || score < 0 || score > total {
		return nil, fmt.Errorf("%w: score %d of %d is not a valid result", apperrors.ErrValidation, score, total)
	}
	if _, err := s.pool(category); err != nil {
		return nil, err
	}

	normalized := entity.NormalizeUsername(username)
	if normalized == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}

	lock := s.lockFor(normalized)
	lock.Lock()
	defer lock.Unlock()

	profile, err := s.profileRepo.GetByUsername(normalized)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = entity.NewProfile(normalized)
		if err := s.profileRepo.Create(profile); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	}

	percentage := math.Round(float64(score)/float64(total)*10000) / 100
	result := &progression.QuizResult{
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Category:   category,
		Language:   language,
	}

	now := time.Now()
	record := &entity.SessionRecord{
		PublicID:    uuid.NewString(),
		Username:    normalized,
		Category:    category,
		ItemIDs:     entity.StringArray(itemIDs),
		Score:       score,
		Total:       total,
		Percentage:  percentage,
		Language:    language,
		CompletedAt: now,
	}
	if err := s.recordRepo.Append(record); err != nil {
		return nil, fmt.Errorf("failed to append session record: %w", err)
	}

	oldLevel := profile.Level
	xpEarned, _, err := s.engine.ApplyQuizResult(profile, result, difficultyBonus, now)
	if err != nil {
		return nil, err
	}

	unlockedIDs, err := s.evaluator.Evaluate(profile, result)
	if err != nil {
		return nil, err
	}

	// Сравнение уровней после XP за достижения: повышение, вызванное
	// только наградой за достижение, тоже должно попасть в ответ
	leveledUp := profile.Level > oldLevel

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}
	s.invalidateCaches(normalized)

	newAchievements := make([]entity.Achievement, 0, len(unlockedIDs))
	for _, id := range unlockedIDs {
		a, err := s.evaluator.Get(id)
		if err != nil {
			return nil, err
		}
		newAchievements = append(newAchievements, a)
	}

	log.Printf("[QuizService] Пользователь %s завершил %s: %d/%d (+%d XP, уровень %d, серия %d)",
		normalized, category, score, total, xpEarned, profile.Level, profile.StreakDays)

	return &CompletionResult{
		RecordID:        record.PublicID,
		Score:           score,
		Total:           total,
		Percentage:      percentage,
		XPEarned:        xpEarned,
		LeveledUp:       leveledUp,
		Level:           profile.Level,
		StreakDays:      profile.StreakDays,
		NewAchievements: newAchievements,
		Profile:         profile,
	}, nil
}

// Лента активности: значение по умолчанию и потолок размера выборки
const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// RevealItem возвращает вопрос с правильным ответом и пояснением.
// Сессия отдаётся клиенту без правильных ответов; клиент запрашивает
// разбор отдельно, после того как пользователь ответил на вопрос.
func (s *QuizService) RevealItem(id string) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RecentActivity возвращает последние завершённые сессии всех пользователей
func (s *QuizService) RecentActivity(limit int) ([]entity.SessionRecord, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.recordRepo.ListRecent(limit)
}

// lockFor возвращает мьютекс завершения для пользователя
func (s *QuizService) lockFor(username string) *sync.Mutex {
	actual, _ := s.userLocks.LoadOrStore(username, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// invalidateCaches сбрасывает кеши, зависящие от профиля
func (s *QuizService) invalidateCaches(username string) {
	if s.cacheRepo == nil {
		return
	}
	for _, key := range []string{leaderboardCacheKey, profileCacheKey(username)} {
		if err := s.cacheRepo.Delete(key); err != nil {
			log.Printf("[QuizService] Не удалось сбросить кеш %s: %v", key, err)
		}
	}
}
