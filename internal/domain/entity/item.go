package entity

import (
	"crypto/md5"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

// Языки, поддерживаемые приложением
const (
	LanguageEnglish = "english"
	LanguageTelugu  = "telugu"
)

// Difficulty — класс сложности вопроса
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties перечисляет все классы сложности в каноническом порядке
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValid проверяет, является ли значение известным классом сложности
func (d Difficulty) IsValid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// LocalizedText - пользовательский тип для работы с JSONB (язык -> текст)
type LocalizedText map[string]string

// Scan реализует интерфейс sql.Scanner для LocalizedText
// Используется GORM для чтения JSONB данных из базы
func (t *LocalizedText) Scan(value interface{}) error {
	if value == nil {
		*t = LocalizedText{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*t = LocalizedText{}
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// Value реализует интерфейс driver.Valuer для LocalizedText
func (t LocalizedText) Value() (driver.Value, error) {
	if len(t) == 0 {
		return []byte("{}"), nil // Возвращаем пустой JSON объект вместо null
	}
	return json.Marshal(t)
}

// LocalizedOptions - пользовательский тип для работы с JSONB (язык -> упорядоченный список вариантов)
type LocalizedOptions map[string][]string

// Scan реализует интерфейс sql.Scanner для LocalizedOptions
func (o *LocalizedOptions) Scan(value interface{}) error {
	if value == nil {
		*o = LocalizedOptions{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = LocalizedOptions{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для LocalizedOptions
func (o LocalizedOptions) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(o)
}

// Item представляет один двуязычный вопрос викторины.
// Неизменяем после загрузки пула.
type Item struct {
	ID            string           `gorm:"primaryKey;size:8" json:"id"`
	Category      string           `gorm:"size:50;not null;index" json:"category"`
	Difficulty    Difficulty       `gorm:"size:10;not null;index" json:"difficulty"`
	Text          LocalizedText    `gorm:"type:jsonb;not null" json:"text"`
	Options       LocalizedOptions `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption int              `gorm:"not null" json:"-"` // Скрыто от клиента
	Explanation   LocalizedText    `gorm:"type:jsonb;not null" json:"explanation"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Item) TableName() string {
	return "items"
}

// ItemContentID вычисляет стабильный идентификатор вопроса:
// первые 8 hex-символов md5 от английского текста вопроса.
// Совпадает с идентификаторами в исторических записях сессий.
func ItemContentID(englishText string) string {
	sum := md5.Sum([]byte(englishText))
	return hex.EncodeToString(sum[:])[:8]
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (i *Item) IsCorrect(selectedOption int) bool {
	return selectedOption == i.CorrectOption
}

// OptionsFor возвращает варианты ответа для заданного языка
func (i *Item) OptionsFor(language string) []string {
	return i.Options[language]
}

// TextFor возвращает текст вопроса для заданного языка
func (i *Item) TextFor(language string) string {
	return i.Text[language]
}

// Validate проверяет инвариант вопроса: у всех языковых вариантов одинаковое
// число вариантов ответа, и CorrectOption — валидный индекс в каждом из них.
// Вызывается один раз при загрузке пула, не при каждой выборке.
func (i *Item) Validate() error {
	if !i.Difficulty.IsValid() {
		return fmt.Errorf("%w: item %s has unknown difficulty %q", apperrors.ErrInvalidItem, i.ID, i.Difficulty)
	}
	if len(i.Options) == 0 {
		return fmt.Errorf("%w: item %s has no options", apperrors.ErrInvalidItem, i.ID)
	}

	optionCount := -1
	for lang, opts := range i.Options {
		if optionCount == -1 {
			optionCount = len(opts)
			continue
		}
		if len(opts) != optionCount {
			return fmt.Errorf("%w: item %s has %d options for %q, expected %d",
				apperrors.ErrInvalidItem, i.ID, len(opts), lang, optionCount)
		}
	}

	if optionCount == 0 {
		return fmt.Errorf("%w: item %s has empty option lists", apperrors.ErrInvalidItem, i.ID)
	}
	if i.CorrectOption < 0 || i.CorrectOption >= optionCount {
		return fmt.Errorf("%w: item %s correct option %d out of range [0, %d)",
			apperrors.ErrInvalidItem, i.ID, i.CorrectOption, optionCount)
	}

	return nil
}
