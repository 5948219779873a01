package quizcompose

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

// Sampler составляет сессию с целевым распределением сложности,
// исключая уже виденные вопросы. Без скрытого глобального состояния:
// повторные вызовы с разными множествами исключений дают разные сессии.
type Sampler struct {
	// rand.Rand не потокобезопасен, выборки разных пользователей
	// могут идти параллельно
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler создает семплер с заданным источником случайности.
// Тесты передают rand.New(rand.NewSource(seed)) для воспроизводимости;
// при nil используется источник, инициализированный текущим временем.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rng: rng}
}

// ComposeSession возвращает упорядоченный список вопросов размера targetSize
// из пула, соблюдая целевое распределение сложности и исключая seen.
//
// Порядок действий:
//  1. пул разбивается по сложности, кандидаты фильтруются от seen;
//  2. если кандидатов сложности меньше цели, список расширяется повторным
//     допуском виденных вопросов той же сложности, давно виденные первыми;
//  3. из каждого списка равномерно без возвращения берётся целевое число;
//  4. недобор добирается равномерно из оставшихся невиденных вопросов пула
//     независимо от сложности; виденные вопросы повторно допускаются и здесь
//     только когда невиденные исчерпаны, давно виденные первыми;
//  5. итоговый список перемешивается, чтобы порядок сложности не был виден.
//
// Размер сессии сокращается только когда весь пул, включая виденные вопросы,
// меньше targetSize: тогда возвращается весь пул (перемешанный) вместе с
// ErrInsufficientPool, и вызывающая сторона решает, принять короткую сессию
// или прервать.
func (s *Sampler) ComposeSession(pool *Pool, targetSize int, seen SeenSet) ([]entity.Item, error) {
	if targetSize <= 0 {
		return nil, fmt.Errorf("%w: target size must be positive, got %d", apperrors.ErrValidation, targetSize)
	}
	if pool == nil || pool.Size() == 0 {
		return nil, fmt.Errorf("%w: category %q has no items", apperrors.ErrInsufficientPool, poolCategory(pool))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Запрошено больше, чем есть в пуле: возвращаем весь пул перемешанным
	if targetSize >= pool.Size() {
		session := append([]entity.Item(nil), pool.Items()...)
		s.shuffle(session)
		if pool.Size() < targetSize {
			return session, fmt.Errorf("%w: pool %q has %d items, requested %d",
				apperrors.ErrInsufficientPool, pool.Category(), pool.Size(), targetSize)
		}
		return session, nil
	}

	targets := sessionTargets(targetSize, pool)

	session := make([]entity.Item, 0, targetSize)
	chosen := make(map[string]bool, targetSize)

	for _, d := range entity.Difficulties {
		candidates := s.candidatesFor(pool, d, targets[d], seen)
		picked := s.drawWithoutReplacement(candidates, targets[d])
		for _, item := range picked {
			chosen[item.ID] = true
		}
		session = append(session, picked...)
	}

	// Добор недобора из всего пула, независимо от сложности.
	// Сначала невиденные вопросы; виденные повторно допускаются только
	// когда невиденных не хватает, давно виденные первыми.
	if shortfall := targetSize - len(session); shortfall > 0 {
		log.Printf("[Sampler] Недобор %d вопросов в категории %q, добираю из всего пула", shortfall, pool.Category())
		var fresh, excluded []entity.Item
		for _, item := range pool.Items() {
			if chosen[item.ID] {
				continue
			}
			if seen.Contains(item.ID) {
				excluded = append(excluded, item)
			} else {
				fresh = append(fresh, item)
			}
		}

		picked := s.drawWithoutReplacement(fresh, shortfall)
		if need := shortfall - len(picked); need > 0 && len(excluded) > 0 {
			sort.SliceStable(excluded, func(i, j int) bool {
				return seen[excluded[i].ID].Before(seen[excluded[j].ID])
			})
			if need > len(excluded) {
				need = len(excluded)
			}
			picked = append(picked, excluded[:need]...)
		}
		for _, item := range picked {
			chosen[item.ID] = true
		}
		session = append(session, picked...)
	}

	s.shuffle(session)

	if len(session) < targetSize {
		return session, fmt.Errorf("%w: pool %q supplied %d of %d requested items",
			apperrors.ErrInsufficientPool, pool.Category(), len(session), targetSize)
	}
	return session, nil
}

// candidatesFor возвращает список кандидатов сложности d: сначала невиденные
// вопросы, затем, если их меньше цели, виденные вопросы той же сложности,
// давно виденные первыми, пока цель не станет достижимой.
func (s *Sampler) candidatesFor(pool *Pool, d entity.Difficulty, target int, seen SeenSet) []entity.Item {
	all := pool.ItemsByDifficulty(d)

	fresh := make([]entity.Item, 0, len(all))
	var excluded []entity.Item
	for _, item := range all {
		if seen.Contains(item.ID) {
			excluded = append(excluded, item)
		} else {
			fresh = append(fresh, item)
		}
	}

	if len(fresh) >= target {
		return fresh
	}

	// Расширение: повторно допускаем виденные вопросы этой сложности,
	// давно виденные первыми
	sort.SliceStable(excluded, func(i, j int) bool {
		return seen[excluded[i].ID].Before(seen[excluded[j].ID])
	})
	need := target - len(fresh)
	if need > len(excluded) {
		need = len(excluded)
	}
	if need > 0 {
		log.Printf("[Sampler] Сложность %q: невиденных %d при цели %d, повторно допускаю %d виденных",
			d, len(fresh), target, need)
	}
	return append(fresh, excluded[:need]...)
}

// drawWithoutReplacement равномерно выбирает n элементов без возвращения.
// Если кандидатов меньше n, возвращает их все.
func (s *Sampler) drawWithoutReplacement(candidates []entity.Item, n int) []entity.Item {
	if n >= len(candidates) {
		return append([]entity.Item(nil), candidates...)
	}
	idx := s.rng.Perm(len(candidates))[:n]
	picked := make([]entity.Item, 0, n)
	for _, i := range idx {
		picked = append(picked, candidates[i])
	}
	return picked
}

// shuffle равномерно перемешивает сессию
func (s *Sampler) shuffle(items []entity.Item) {
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// sessionTargets вычисляет целевое число вопросов каждой сложности.
// Easy и hard округляются до ближайшего целого, medium забирает остаток
// (для размера 20 получается 6/8/6). Цель сложности, отсутствующей в пуле,
// перераспределяется между оставшимися пропорционально их долям.
func sessionTargets(size int, pool *Pool) difficultyTargets {
	easy := int(math.Round(easyRatio * float64(size)))
	hard := int(math.Round(hardRatio * float64(size)))
	targets := difficultyTargets{
		entity.DifficultyEasy:   easy,
		entity.DifficultyMedium: size - easy - hard,
		entity.DifficultyHard:   hard,
	}

	weights := map[entity.Difficulty]float64{
		entity.DifficultyEasy:   easyRatio,
		entity.DifficultyMedium: mediumRatio,
		entity.DifficultyHard:   hardRatio,
	}

	var present []entity.Difficulty
	for _, d := range entity.Difficulties {
		if pool.CountByDifficulty(d) > 0 {
			present = append(present, d)
		}
	}
	if len(present) == len(entity.Difficulties) || len(present) == 0 {
		return targets
	}

	// Перераспределение целей отсутствующих сложностей
	for _, d := range entity.Difficulties {
		if pool.CountByDifficulty(d) > 0 || targets[d] == 0 {
			continue
		}
		orphaned := targets[d]
		targets[d] = 0

		var weightSum float64
		for _, pd := range present {
			weightSum += weights[pd]
		}
		distributed := 0
		for i, pd := range present {
			if i == len(present)-1 {
				// Последняя присутствующая сложность забирает остаток
				targets[pd] += orphaned - distributed
				break
			}
			share := int(math.Round(float64(orphaned) * weights[pd] / weightSum))
			targets[pd] += share
			distributed += share
		}
		log.Printf("[Sampler] Сложность %q отсутствует в пуле, цель %d перераспределена", d, orphaned)
	}

	return targets
}

func poolCategory(pool *Pool) string {
	if pool == nil {
		return ""
	}
	return pool.Category()
}
