// Команда seed импортирует вопросы из JSON-файла в PostgreSQL.
//
// Формат файла — массив вопросов с двуязычными текстами:
//
//	[{"category": "mahabharata", "difficulty": "easy",
//	  "question": {"english": "...", "telugu": "..."},
//	  "options": {"english": ["..."], "telugu": ["..."]},
//	  "correct": 0,
//	  "explanation": {"english": "...", "telugu": "..."}}]
//
// Идентификатор вопроса вычисляется из английского текста, поэтому
// повторный импорт того же файла идемпотентен.
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/yourusername/epic-quiz/internal/config"
	"github.com/yourusername/epic-quiz/internal/domain/entity"
)

type seedItem struct {
	Category    string              `json:"category"`
	Difficulty  string              `json:"difficulty"`
	Question    map[string]string   `json:"question"`
	Options     map[string][]string `json:"options"`
	Correct     int                 `json:"correct"`
	Explanation map[string]string   `json:"explanation"`
}

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
		inputPath  = flag.String("input", "questions.json", "путь к JSON-файлу с вопросами")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *inputPath, err)
	}

	var seeds []seedItem
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse %s: %v", *inputPath, err)
	}
	log.Printf("Прочитано %d вопросов из %s", len(seeds), *inputPath)

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	inserted, skipped := 0, 0
	for i, s := range seeds {
		item := entity.Item{
			ID:            entity.ItemContentID(s.Question[entity.LanguageEnglish]),
			Category:      s.Category,
			Difficulty:    entity.Difficulty(s.Difficulty),
			Text:          entity.LocalizedText(s.Question),
			Options:       entity.LocalizedOptions(s.Options),
			CorrectOption: s.Correct,
			Explanation:   entity.LocalizedText(s.Explanation),
		}
		// Инвариант проверяется при импорте, чтобы невалидный контент
		// не попал в пул
		if err := item.Validate(); err != nil {
			log.Fatalf("Вопрос #%d невалиден: %v", i, err)
		}

		res, err := insertItem(db, &item)
		if err != nil {
			log.Fatalf("Не удалось вставить вопрос %s: %v", item.ID, err)
		}
		if res {
			inserted++
		} else {
			skipped++
		}
	}

	log.Printf("Импорт завершён: вставлено %d, пропущено дубликатов %d", inserted, skipped)
}

// insertItem вставляет вопрос, пропуская существующие идентификаторы.
// Возвращает true, если строка была вставлена.
func insertItem(db *sql.DB, item *entity.Item) (bool, error) {
	text, err := json.Marshal(item.Text)
	if err != nil {
		return false, err
	}
	options, err := json.Marshal(item.Options)
	if err != nil {
		return false, err
	}
	explanation, err := json.Marshal(item.Explanation)
	if err != nil {
		return false, err
	}

	res, err := db.Exec(`
		INSERT INTO items (id, category, difficulty, text, options, correct_option, explanation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`, item.ID, item.Category, string(item.Difficulty), text, options, item.CorrectOption, explanation)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
