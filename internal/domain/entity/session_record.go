package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Contains проверяет наличие значения в массиве
func (o StringArray) Contains(v string) bool {
	for _, s := range o {
		if s == v {
			return true
		}
	}
	return false
}

// SessionRecord — историческая запись одной завершённой сессии викторины.
// Append-only: создаётся при завершении сессии и никогда не изменяется.
// Хранится вечно, служит источником исключений для семплера.
type SessionRecord struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	PublicID    string      `gorm:"size:36;not null;uniqueIndex" json:"public_id"`
	Username    string      `gorm:"size:50;not null;index:idx_session_records_user_category,priority:1" json:"username"`
	Category    string      `gorm:"size:50;not null;index:idx_session_records_user_category,priority:2" json:"category"`
	ItemIDs     StringArray `gorm:"type:jsonb;not null" json:"item_ids"`
	Score       int         `gorm:"not null;default:0" json:"score"`
	Total       int         `gorm:"not null;default:0" json:"total"`
	Percentage  float64     `gorm:"not null;default:0" json:"percentage"`
	Language    string      `gorm:"size:10;not null" json:"language"`
	CompletedAt time.Time   `gorm:"not null;index" json:"completed_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (SessionRecord) TableName() string {
	return "session_records"
}
