package handlers

import (
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/state"
	"github.com/manictest/salon_bot/internal/service"
)

// Handlers содержит зависимости для обработки команд и текстовых шагов диалогов
type Handlers struct {
	masters      *service.MasterService
	appointments *service.AppointmentService
	calendar     *service.CalendarService
	reviews      *service.ReviewService
	settings     *service.SettingService
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	masters *service.MasterService,
	appointments *service.AppointmentService,
	calendar *service.CalendarService,
	reviews *service.ReviewService,
	settings *service.SettingService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		masters:      masters,
		appointments: appointments,
		calendar:     calendar,
		reviews:      reviews,
		settings:     settings,
		stateManager: stateManager,
		logger:       logger,
	}
}
