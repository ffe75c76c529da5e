// Package common — форматирование сообщений, общее для команд и колбэков
package common

import (
	"fmt"
	"strings"

	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/timeslot"
)

// StatusName возвращает человекочитаемый статус записи
func StatusName(status model.AppointmentStatus) string {
	switch status {
	case model.AppointmentStatusPending:
		return "ожидает подтверждения"
	case model.AppointmentStatusConfirmed:
		return "подтверждена"
	case model.AppointmentStatusCancelled:
		return "отменена"
	case model.AppointmentStatusPast:
		return "прошла"
	}
	return string(status)
}

// AppointmentLine — однострочное описание записи для списков
func AppointmentLine(a *model.Appointment) string {
	uname := ""
	if a.ClientUsername != "" {
		uname = " (@" + a.ClientUsername + ")"
	}
	return fmt.Sprintf("#%d — %s%s, %s — %s в %s — %s",
		a.ID, a.ClientName, uname, a.Phone,
		timeslot.FormatDate(a.Date), a.Time, StatusName(a.Status))
}

// ClientAppointmentLine — строка записи в списке клиента (без телефона)
func ClientAppointmentLine(a *model.Appointment, masterName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d — %s в %s", a.ID, timeslot.FormatDate(a.Date), a.Time)
	if masterName != "" {
		fmt.Fprintf(&sb, " — %s", masterName)
	}
	fmt.Fprintf(&sb, " — %s", StatusName(a.Status))
	return sb.String()
}

// ReviewLine — строка отзыва в списке
func ReviewLine(r *model.Review) string {
	name := r.ClientName
	if name == "" {
		name = "Гость"
	}
	return fmt.Sprintf("#%d %s:\n%s", r.ID, name, r.Text)
}
