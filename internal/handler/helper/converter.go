package helper

// ItemOption представляет вариант ответа для фронтенда
type ItemOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ConvertOptionsToObjects преобразует массив строк в массив объектов с id и text.
// ID использует 0-based индексацию для совместимости с индексом правильного ответа.
func ConvertOptionsToObjects(options []string) []ItemOption {
	converted := make([]ItemOption, len(options))
	for i, opt := range options {
		if opt == "" {
			opt = "(пустой вариант)"
		}
		converted[i] = ItemOption{ID: i, Text: opt}
	}
	return converted
}
