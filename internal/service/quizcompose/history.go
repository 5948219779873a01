package quizcompose

import (
	"fmt"
	"time"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
)

// SeenSet — множество идентификаторов уже виденных вопросов.
// Для каждого id хранится время последней встречи: семплер использует его,
// чтобы при расширении кандидатов возвращать давно виденные вопросы первыми.
type SeenSet map[string]time.Time

// Contains проверяет наличие идентификатора в множестве
func (s SeenSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// note запоминает встречу идентификатора, сохраняя самое позднее время
func (s SeenSet) note(id string, at time.Time) {
	if prev, ok := s[id]; !ok || at.After(prev) {
		s[id] = at
	}
}

// HistoryTracker выводит множество исключений из исторических записей сессий.
// Чистое чтение без побочных эффектов; сложность O(n) по числу записей,
// что приемлемо при сотнях записей на пользователя.
type HistoryTracker struct {
	config *Config
	deps   *Dependencies
}

// NewHistoryTracker создает новый трекер истории
func NewHistoryTracker(config *Config, deps *Dependencies) *HistoryTracker {
	return &HistoryTracker{
		config: config,
		deps:   deps,
	}
}

// ExcludedIDs возвращает множество идентификаторов вопросов, которые
// пользователь уже видел в данной категории (объединение item_ids всех
// прошлых попыток). Если множество превышает HistoryCap, оно пересчитывается
// только по RecentQuizWindow последним попыткам: так пул не исчерпывается
// навсегда, но недавние повторы по-прежнему исключаются.
func (t *HistoryTracker) ExcludedIDs(username, category string) (SeenSet, error) {
	records, err := t.deps.SessionRecordRepo.Query(username, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query session history: %w", err)
	}

	seen := collectSeen(records)
	if len(seen) <= t.config.HistoryCap {
		return seen, nil
	}

	recent, err := t.deps.SessionRecordRepo.QueryRecent(username, category, t.config.RecentQuizWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent session history: %w", err)
	}

	return collectSeen(recent), nil
}

// collectSeen объединяет item_ids записей в множество с временем последней встречи
func collectSeen(records []entity.SessionRecord) SeenSet {
	seen := make(SeenSet)
	for _, rec := range records {
		for _, id := range rec.ItemIDs {
			seen.note(id, rec.CompletedAt)
		}
	}
	return seen
}
