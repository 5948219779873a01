package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Quiz     QuizConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит настройки подключения к Redis (одиночный инстанс)
type RedisConfig struct {
	// Addr: адрес Redis (хост:порт)
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно). По умолчанию 0 (без ретраев).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff/MaxRetryBackoff: границы задержки между попытками, мс
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// QuizConfig содержит настройки составления сессий и прогрессии
type QuizConfig struct {
	// SessionSize — размер сессии по умолчанию
	SessionSize int `mapstructure:"session_size"`

	// HistoryCap — порог множества исключений, после которого история
	// пересчитывается по последним попыткам
	HistoryCap int `mapstructure:"history_cap"`

	// RecentQuizWindow — сколько последних попыток учитывать после превышения порога
	RecentQuizWindow int `mapstructure:"recent_quiz_window"`

	// DifficultyBonus — множитель XP по умолчанию (1.0 — без бонуса)
	DifficultyBonus float64 `mapstructure:"difficulty_bonus"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию для секции Quiz
	vip.SetDefault("quiz.session_size", 20)
	vip.SetDefault("quiz.history_cap", 100)
	vip.SetDefault("quiz.recent_quiz_window", 5)
	vip.SetDefault("quiz.difficulty_bonus", 1.0)
	vip.SetDefault("server.read_timeout", 10)
	vip.SetDefault("server.write_timeout", 10)

	// 2. Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")

	// Привязка для секции Quiz
	vip.BindEnv("quiz.session_size", "QUIZ_SESSION_SIZE")
	vip.BindEnv("quiz.history_cap", "QUIZ_HISTORY_CAP")
	vip.BindEnv("quiz.recent_quiz_window", "QUIZ_RECENT_QUIZ_WINDOW")
	vip.BindEnv("quiz.difficulty_bonus", "QUIZ_DIFFICULTY_BONUS")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// 3. Устанавливаем путь к файлу конфигурации
	if configPath != "" {
		vip.SetConfigFile(configPath)
		// 4. Пытаемся прочитать файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 5. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Port: %s", cfg.Database.Port)
		log.Printf("Database User: %s", cfg.Database.User)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Database SSLMode: %s", cfg.Database.SSLMode)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Quiz Session Size: %d", cfg.Quiz.SessionSize)
		log.Printf("Quiz History Cap: %d", cfg.Quiz.HistoryCap)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// 7. Проверка обязательных параметров
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Quiz.SessionSize <= 0 {
		return nil, fmt.Errorf("quiz.session_size must be positive (check QUIZ_SESSION_SIZE env var)")
	}
	ginMode := vip.GetString("GIN_MODE")
	if ginMode != "debug" {
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
		}
		if cfg.Redis.Addr != "" && cfg.Redis.Password == "" {
			log.Println("Warning: Redis is configured but REDIS_PASSWORD is not set in a non-debug environment.")
		}
	}

	return &cfg, nil
}
