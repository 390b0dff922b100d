package keyboard

import (
	"fmt"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Grid(t *testing.T) {
	var buttons []models.InlineKeyboardButton
	for i := range 7 {
		buttons = append(buttons, Button(fmt.Sprint(i), fmt.Sprintf("b:%d", i)))
	}

	kb := NewBuilder().Grid(buttons, 3).AddBackToMainButton().Build()

	require.Len(t, kb.InlineKeyboard, 4)
	assert.Len(t, kb.InlineKeyboard[0], 3)
	assert.Len(t, kb.InlineKeyboard[1], 3)
	assert.Len(t, kb.InlineKeyboard[2], 1)
	assert.Equal(t, "b:6", kb.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, "back_to_main", kb.InlineKeyboard[3][0].CallbackData)
}

func TestBuilder_SkipsEmptyRows(t *testing.T) {
	b := NewBuilder().Row().Grid(nil, 4)
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, Empty().InlineKeyboard)
}
