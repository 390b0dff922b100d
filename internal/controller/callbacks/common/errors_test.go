package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrSessionExpired, "⌛ Сессия записи устарела. Начните заново: /book"},
		{fmt.Errorf("load: %w", ErrClientNotFound), "❌ Вы не зарегистрированы. Используйте /start"},
		{&service.SlotConflictError{Concurrent: true}, "❌ Это время только что заняли. Выберите другое."},
		{fmt.Errorf("create: %w", &service.SlotConflictError{}), "❌ Это время уже недоступно. Выберите другое."},
		{service.ErrPastBooking, "❌ Это время уже прошло. Выберите другое."},
		{service.ErrServiceNotFound, "❌ Услуга не найдена"},
		{service.ErrAppointmentNotFound, "❌ Запись не найдена"},
		{errors.New("boom"), "❌ Произошла ошибка"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorMessage(tc.err), "err=%v", tc.err)
	}
}
