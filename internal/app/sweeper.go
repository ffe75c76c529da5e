package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/service"
)

// Интервал фонового прохода: помечаем прошедшие записи и шлём напоминания
const sweepInterval = 10 * time.Minute

// Sweeper управляет фоновыми задачами журнала записей
type Sweeper struct {
	appointments *service.AppointmentService
	loc          *time.Location
	logger       *zap.Logger
	stopChan     chan struct{}
}

// NewSweeper создаёт фоновый свипер
func NewSweeper(appointments *service.AppointmentService, loc *time.Location, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		appointments: appointments,
		loc:          loc,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает фоновый цикл
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting appointment sweeper")
	go s.run(ctx)
}

// Stop останавливает фоновый цикл
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping appointment sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// Первый проход сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Appointment sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Appointment sweeper cancelled")
			return
		}
	}
}

// sweep — один проход: сначала прошедшие записи, затем напоминания.
// Порядок важен: просроченная запись не должна получить напоминание.
func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now().In(s.loc)

	swept, err := s.appointments.SweepPast(ctx, now)
	if err != nil {
		s.logger.Error("Failed to sweep past appointments", zap.Error(err))
	} else if swept > 0 {
		s.logger.Info("Swept past appointments", zap.Int64("count", swept))
	}

	fired, err := s.appointments.DispatchDueReminders(ctx, now)
	if err != nil {
		s.logger.Error("Failed to dispatch reminders", zap.Error(err))
	} else if fired > 0 {
		s.logger.Info("Reminders dispatched", zap.Int("count", fired))
	}
}
