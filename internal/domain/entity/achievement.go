package entity

// Achievement — статическая запись каталога достижений.
// Каталог является неизменяемыми конфигурационными данными, не runtime-сущностью.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	XPReward    int    `json:"xp_reward"`
}
