package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/cbdata"
)

// route распределяет callback query по обработчикам
func (h *Handler) route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	data := callback.Data

	switch {
	// ===== Навигация =====
	case data == cbdata.BackToMain:
		h.handleBackToMain(ctx, b, callback)
	case data == cbdata.Noop:
		h.answer(ctx, b, callback.ID, "")

	// ===== Бронирование (клиент) =====
	case data == cbdata.StartBooking:
		h.handleStartBooking(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.SelectMaster):
		h.handleSelectMaster(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.SelectDate):
		h.handleSelectDate(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.SelectTime):
		h.handleSelectTime(ctx, b, callback)
	case data == cbdata.MyBookings:
		h.handleMyBookings(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.ClientCancel):
		h.handleClientCancel(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.ConfirmCancel):
		h.handleConfirmCancel(ctx, b, callback)

	// ===== Отзывы =====
	case data == cbdata.Reviews:
		h.handleReviews(ctx, b, callback)
	case data == cbdata.LeaveReview:
		h.handleLeaveReview(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.AdminDelReview):
		h.handleAdminDelReview(ctx, b, callback)

	// ===== Панель мастера =====
	case data == cbdata.MasterPanel:
		h.handleMasterPanel(ctx, b, callback)
	case data == cbdata.MasterBookings:
		h.handleMasterBookings(ctx, b, callback)
	case data == cbdata.MasterPending:
		h.handleMasterPending(ctx, b, callback)
	case data == cbdata.MasterSchedule:
		h.handleMasterSchedule(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.ToggleWeekday):
		h.handleToggleWeekday(ctx, b, callback)
	case data == cbdata.MasterDays:
		h.handleMasterDays(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.MasterDay):
		h.handleMasterDay(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.ToggleSlot):
		h.handleToggleSlot(ctx, b, callback)
	case data == cbdata.MasterWeekImage:
		h.handleMasterWeekImage(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.ApptConfirm):
		h.handleApptConfirm(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.ApptCancel):
		h.handleApptCancel(ctx, b, callback)

	// ===== Панель администратора =====
	case data == cbdata.AdminPanel:
		h.handleAdminPanel(ctx, b, callback)
	case data == cbdata.AdminMasters:
		h.handleAdminMasters(ctx, b, callback)
	case data == cbdata.AdminAddMaster:
		h.handleAdminAddMaster(ctx, b, callback)
	case strings.HasPrefix(data, cbdata.AdminDelMaster):
		h.handleAdminDelMaster(ctx, b, callback)
	case data == cbdata.AdminBookings:
		h.handleAdminBookings(ctx, b, callback)
	case data == cbdata.AdminEditInfo:
		h.handleAdminEditInfo(ctx, b, callback)

	default:
		h.logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		h.answer(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
