package quizcompose

import (
	"fmt"

	"github.com/yourusername/epic-quiz/internal/domain/entity"
)

// Pool — неизменяемый пул вопросов одной категории, загруженный в память.
// Строится один раз при старте процесса; валидация вопросов выполняется
// здесь, а не при каждой выборке.
type Pool struct {
	category     string
	items        []entity.Item
	byDifficulty map[entity.Difficulty][]entity.Item
	byID         map[string]entity.Item
}

// NewPool строит пул из загруженных вопросов, проверяя инвариант каждого.
// Любой невалидный вопрос делает весь пул непригодным (ErrInvalidItem).
func NewPool(category string, items []entity.Item) (*Pool, error) {
	p := &Pool{
		category:     category,
		items:        make([]entity.Item, 0, len(items)),
		byDifficulty: make(map[entity.Difficulty][]entity.Item),
		byID:         make(map[string]entity.Item, len(items)),
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("pool %q: %w", category, err)
		}
		if _, dup := p.byID[item.ID]; dup {
			// Дубликат идентификатора означает дубликат контента: пропускаем
			continue
		}
		p.items = append(p.items, item)
		p.byID[item.ID] = item
		p.byDifficulty[item.Difficulty] = append(p.byDifficulty[item.Difficulty], item)
	}

	return p, nil
}

// Category возвращает категорию пула
func (p *Pool) Category() string {
	return p.category
}

// Size возвращает общее число вопросов в пуле
func (p *Pool) Size() int {
	return len(p.items)
}

// CountByDifficulty возвращает число вопросов заданной сложности
func (p *Pool) CountByDifficulty(d entity.Difficulty) int {
	return len(p.byDifficulty[d])
}

// ItemsByDifficulty возвращает вопросы заданной сложности.
// Возвращаемый слайс нельзя изменять.
func (p *Pool) ItemsByDifficulty(d entity.Difficulty) []entity.Item {
	return p.byDifficulty[d]
}

// Items возвращает все вопросы пула. Возвращаемый слайс нельзя изменять.
func (p *Pool) Items() []entity.Item {
	return p.items
}

// GetByID возвращает вопрос по идентификатору
func (p *Pool) GetByID(id string) (entity.Item, bool) {
	item, ok := p.byID[id]
	return item, ok
}
