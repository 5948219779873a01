package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/epic-quiz/internal/pkg/errors"
)

func validItem() Item {
	text := "Who was the eldest Pandava?"
	return Item{
		ID:         ItemContentID(text),
		Category:   "mahabharata",
		Difficulty: DifficultyEasy,
		Text: LocalizedText{
			LanguageEnglish: text,
			LanguageTelugu:  "పాండవులలో పెద్దవాడు ఎవరు?",
		},
		Options: LocalizedOptions{
			LanguageEnglish: {"Yudhishthira", "Bhima", "Arjuna", "Nakula"},
			LanguageTelugu:  {"యుధిష్ఠిరుడు", "భీముడు", "అర్జునుడు", "నకులుడు"},
		},
		CorrectOption: 0,
		Explanation: LocalizedText{
			LanguageEnglish: "Yudhishthira was the eldest of the five Pandava brothers.",
		},
	}
}

func TestItemContentID(t *testing.T) {
	// Идентификатор детерминирован и стабилен между запусками:
	// он должен совпадать с id в исторических записях сессий
	first := ItemContentID("Who was the eldest Pandava?")
	second := ItemContentID("Who was the eldest Pandava?")

	assert.Equal(t, first, second)
	assert.Len(t, first, 8)

	other := ItemContentID("Who was the youngest Pandava?")
	assert.NotEqual(t, first, other)
}

func TestItem_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Item)
		wantErr bool
	}{
		{"Валидный вопрос", func(i *Item) {}, false},
		{"Неизвестная сложность", func(i *Item) { i.Difficulty = "extreme" }, true},
		{"Нет вариантов ответа", func(i *Item) { i.Options = nil }, true},
		{"Разное число вариантов по языкам", func(i *Item) {
			i.Options[LanguageTelugu] = i.Options[LanguageTelugu][:3]
		}, true},
		{"Правильный индекс за границей", func(i *Item) { i.CorrectOption = 4 }, true},
		{"Отрицательный правильный индекс", func(i *Item) { i.CorrectOption = -1 }, true},
		{"Пустые списки вариантов", func(i *Item) {
			i.Options = LocalizedOptions{LanguageEnglish: {}}
		}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := validItem()
			tc.mutate(&item)

			err := item.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrInvalidItem))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItem_IsCorrect(t *testing.T) {
	item := validItem()

	assert.True(t, item.IsCorrect(0))
	assert.False(t, item.IsCorrect(1))
	assert.False(t, item.IsCorrect(-1))
}

func TestItem_LanguageAccessors(t *testing.T) {
	item := validItem()

	assert.Equal(t, "Who was the eldest Pandava?", item.TextFor(LanguageEnglish))
	assert.Equal(t, "పాండవులలో పెద్దవాడు ఎవరు?", item.TextFor(LanguageTelugu))
	assert.Len(t, item.OptionsFor(LanguageTelugu), 4)
	assert.Empty(t, item.OptionsFor("hindi"), "неизвестный язык возвращает пустой список")
}

func TestLocalizedText_ScanValue(t *testing.T) {
	// NULL из базы превращается в пустую карту, не в nil panic
	var text LocalizedText
	require.NoError(t, text.Scan(nil))
	assert.NotNil(t, text)
	assert.Empty(t, text)

	require.NoError(t, text.Scan([]byte(`{"english":"hello"}`)))
	assert.Equal(t, "hello", text[LanguageEnglish])

	// Пустая карта сериализуется в {} вместо NULL
	value, err := LocalizedText{}.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), value)
}

func TestStringArray_ScanValue(t *testing.T) {
	var arr StringArray
	require.NoError(t, arr.Scan(nil))
	assert.NotNil(t, arr)

	require.NoError(t, arr.Scan([]byte(`["aaaa1111","bbbb2222"]`)))
	assert.True(t, arr.Contains("aaaa1111"))
	assert.False(t, arr.Contains("cccc3333"))

	value, err := StringArray{}.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}
