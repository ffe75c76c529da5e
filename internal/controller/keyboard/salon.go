package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/manictest/salon_bot/internal/controller/cbdata"
	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/timeslot"
)

// MainMenu — главное меню; набор кнопок зависит от ролей пользователя
func MainMenu(user *model.User) *models.InlineKeyboardMarkup {
	b := NewBuilder().
		Row(Button("💅 Записаться", cbdata.StartBooking)).
		Row(Button("📋 Мои записи", cbdata.MyBookings)).
		Row(Button("⭐ Отзывы", cbdata.Reviews))

	if user.IsMaster {
		b.Row(Button("🗓 Панель мастера", cbdata.MasterPanel))
	}
	if user.IsAdmin {
		b.Row(Button("⚙️ Админ-панель", cbdata.AdminPanel))
	}

	return b.Build()
}

// Masters — выбор мастера при бронировании
func Masters(masters []*model.User) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for _, m := range masters {
		label := m.DisplayName()
		if m.Phone != "" {
			label += " (" + m.Phone + ")"
		}
		b.Row(Button(label, fmt.Sprintf("%s%d", cbdata.SelectMaster, m.TelegramID)))
	}
	b.Row(Button("⬅️ Главное меню", cbdata.BackToMain))
	return b.Build()
}

// Dates — выбор даты, по три в ряд, по возрастанию
func Dates(dates []string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(dates))
	for _, d := range dates {
		buttons = append(buttons, Button(timeslot.FormatDate(d), cbdata.SelectDate+d))
	}
	return NewBuilder().
		Grid(3, buttons...).
		Row(Button("⬅️ Главное меню", cbdata.BackToMain)).
		Build()
}

// Times — выбор времени, по три в ряд, по возрастанию
func Times(times []string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(times))
	for _, t := range times {
		buttons = append(buttons, Button(t, cbdata.SelectTime+t))
	}
	return NewBuilder().
		Grid(3, buttons...).
		Row(Button("⬅️ Главное меню", cbdata.BackToMain)).
		Build()
}

// InfoLinks — кнопка группы салона под инфо-текстом
func InfoLinks(groupURL string) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(URLButton("💬 Наша группа", groupURL)).
		Build()
}

// MasterPanel — меню мастера
func MasterPanel() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("📅 Мои записи", cbdata.MasterBookings)).
		Row(Button("🕐 Ожидают подтверждения", cbdata.MasterPending)).
		Row(Button("🗓 Рабочие дни", cbdata.MasterSchedule)).
		Row(Button("🔧 Слоты по датам", cbdata.MasterDays)).
		Row(Button("🖼 Неделя картинкой", cbdata.MasterWeekImage)).
		Row(Button("⬅️ Главное меню", cbdata.BackToMain)).
		Build()
}

// WeekdayToggles — переключатели рабочих дней недели мастера
func WeekdayToggles(rules []*model.WeekdayRule) *models.InlineKeyboardMarkup {
	enabled := make(map[int]bool, len(rules))
	for _, r := range rules {
		enabled[r.Weekday] = r.Enabled
	}

	buttons := make([]models.InlineKeyboardButton, 0, 7)
	for d := 0; d < 7; d++ {
		mark := "❌"
		if enabled[d] {
			mark = "✅"
		}
		buttons = append(buttons,
			Button(fmt.Sprintf("%s %s", mark, model.WeekdayNames[d]), fmt.Sprintf("%s%d", cbdata.ToggleWeekday, d)))
	}

	return NewBuilder().
		Grid(4, buttons...).
		Row(Button("⬅️ Панель мастера", cbdata.MasterPanel)).
		Build()
}

// MasterDays — выбор даты для ручного управления слотами
func MasterDays(dates []string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(dates))
	for _, d := range dates {
		buttons = append(buttons, Button(timeslot.FormatDate(d), cbdata.MasterDay+d))
	}
	return NewBuilder().
		Grid(3, buttons...).
		Row(Button("⬅️ Панель мастера", cbdata.MasterPanel)).
		Build()
}

// DaySlots — переключатели слотов на дату: открыт/закрыт каждый слот сетки
func DaySlots(date string, closed map[string]bool) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(timeslot.Template))
	for _, tm := range timeslot.Template {
		mark := "🟢"
		if closed[tm] {
			mark = "🔒"
		}
		buttons = append(buttons,
			Button(fmt.Sprintf("%s %s", mark, tm), cbdata.ToggleSlot+date+":"+tm))
	}

	return NewBuilder().
		Grid(3, buttons...).
		Row(Button("⬅️ Выбор даты", cbdata.MasterDays)).
		Build()
}

// ApptManage — кнопки подтверждения/отмены для персонала
func ApptManage(apptID int64, pending bool) *models.InlineKeyboardMarkup {
	id := fmt.Sprint(apptID)
	b := NewBuilder()
	if pending {
		b.Row(
			Button("✅ Подтвердить", cbdata.ApptConfirm+id),
			Button("❌ Отменить", cbdata.ApptCancel+id),
		)
	} else {
		b.Row(Button("❌ Отменить", cbdata.ApptCancel+id))
	}
	return b.Build()
}

// ClientAppointment — кнопка отмены собственной записи клиента
func ClientAppointment(apptID int64) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("❌ Отменить запись", fmt.Sprintf("%s%d", cbdata.ClientCancel, apptID))).
		Build()
}

// CancelConfirm — подтверждение отмены записи клиентом
func CancelConfirm(apptID int64) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("Да, отменить", fmt.Sprintf("%s%d", cbdata.ConfirmCancel, apptID)),
			Button("Нет", cbdata.MyBookings),
		).
		Build()
}

// AdminPanel — меню администратора
func AdminPanel() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("👩‍🎨 Мастера", cbdata.AdminMasters)).
		Row(Button("📒 Все записи", cbdata.AdminBookings)).
		Row(Button("📝 Инфо-текст", cbdata.AdminEditInfo)).
		Row(Button("⬅️ Главное меню", cbdata.BackToMain)).
		Build()
}

// AdminMasters — ростер мастеров с кнопками удаления
func AdminMasters(masters []*model.User) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for _, m := range masters {
		b.Row(
			Button(m.DisplayName(), cbdata.Noop),
			Button("🗑", fmt.Sprintf("%s%d", cbdata.AdminDelMaster, m.TelegramID)),
		)
	}
	b.Row(Button("➕ Добавить мастера", cbdata.AdminAddMaster))
	b.Row(Button("⬅️ Админ-панель", cbdata.AdminPanel))
	return b.Build()
}

// Reviews — меню отзывов
func Reviews(isAdmin bool, reviews []*model.Review) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	if isAdmin {
		for _, r := range reviews {
			b.Row(Button(fmt.Sprintf("🗑 Отзыв #%d", r.ID), fmt.Sprintf("%s%d", cbdata.AdminDelReview, r.ID)))
		}
	}
	b.Row(Button("✍️ Оставить отзыв", cbdata.LeaveReview))
	b.Row(Button("⬅️ Главное меню", cbdata.BackToMain))
	return b.Build()
}
