package handlers

import (
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/callbacktypes"
)

// maxNotesLength ограничение на комментарий к записи, в символах
const maxNotesLength = 500

// Handlers обработчики команд и текстовых сообщений.
// Зависимости общие с callback handlers.
type Handlers struct {
	*callbacktypes.Handler
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(deps *callbacktypes.Handler) *Handlers {
	return &Handlers{Handler: deps}
}
