package quizcompose

import (
	"github.com/yourusername/epic-quiz/internal/domain/entity"
	"github.com/yourusername/epic-quiz/internal/domain/repository"
)

// Config содержит настройки составления сессий
type Config struct {
	// SessionSize — размер сессии по умолчанию
	SessionSize int

	// HistoryCap — порог размера множества исключений. При превышении
	// история пересчитывается только по последним RecentQuizWindow попыткам,
	// чтобы у давних пользователей пул не исчерпывался навсегда.
	HistoryCap int

	// RecentQuizWindow — сколько последних попыток учитывать после превышения HistoryCap
	RecentQuizWindow int
}

// DefaultConfig возвращает настройки составления сессий по умолчанию
func DefaultConfig() *Config {
	return &Config{
		SessionSize:      20,
		HistoryCap:       100,
		RecentQuizWindow: 5,
	}
}

// Целевое распределение сложности в сессии: easy/medium/hard.
// Для размера 20 даёт 6/8/6; остаток округления достаётся medium.
const (
	easyRatio   = 0.30
	mediumRatio = 0.40
	hardRatio   = 0.30
)

// Dependencies содержит зависимости компонентов составления сессий
type Dependencies struct {
	ItemRepo          repository.ItemRepository
	SessionRecordRepo repository.SessionRecordRepository
}

// difficultyTargets — целевое число вопросов каждой сложности в сессии
type difficultyTargets map[entity.Difficulty]int
