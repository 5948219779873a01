package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (например, повторное сохранение записи сессии с тем же идентификатором).
	ErrConflict = errors.New("resource state conflict")
)

// Ошибки движка составления сессий и прогрессии
var (
	// ErrInsufficientPool возвращается семплером, когда весь пул категории,
	// включая ранее виденные вопросы, меньше запрошенного размера сессии.
	// Вызывающая сторона решает: принять короткую сессию или прервать.
	ErrInsufficientPool = errors.New("item pool is smaller than requested session size")

	// ErrInvalidItem возвращается при загрузке пула, если вопрос нарушает
	// инвариант: одинаковое число вариантов во всех языках и корректный
	// индекс правильного ответа. Проверяется один раз при загрузке.
	ErrInvalidItem = errors.New("item violates option/correct-index invariant")

	// ErrUnknownAchievement возвращается, если код ссылается на достижение,
	// отсутствующее в каталоге. Означает рассинхронизацию каталога и кода,
	// не подлежит восстановлению.
	ErrUnknownAchievement = errors.New("achievement id is not present in catalog")
)
