// Package timeslot содержит фиксированную дневную сетку слотов салона
// и хелперы для работы с датами/временем в строковом формате,
// который используется в callback data и в БД.
package timeslot

import (
	"fmt"
	"time"

	"github.com/manictest/salon_bot/internal/model"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Template — дневная сетка слотов: часовые слоты с перерывом 14:00-15:00
var Template = []string{"10:00", "11:00", "12:00", "13:00", "15:00", "16:00", "17:00"}

// IsTemplateTime проверяет, что время входит в дневную сетку
func IsTemplateTime(tm string) bool {
	for _, t := range Template {
		if t == tm {
			return true
		}
	}
	return false
}

// Dates возвращает окно дат в ISO-формате по возрастанию, начиная с сегодня
func Dates(now time.Time, days int) []string {
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

// Instant собирает момент времени из даты и времени слота в заданной зоне
func Instant(date, tm string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+tm, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot instant: %w", err)
	}
	return t, nil
}

// Weekday возвращает день недели даты в нумерации салона (0 = понедельник)
func Weekday(date string) (int, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("parse date: %w", err)
	}
	// time.Weekday: воскресенье = 0, у нас понедельник = 0
	return (int(d.Weekday()) + 6) % 7, nil
}

// FormatDate форматирует ISO-дату для сообщений: "03.06 (Пн)"
func FormatDate(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	wd := (int(d.Weekday()) + 6) % 7
	return fmt.Sprintf("%02d.%02d (%s)", d.Day(), int(d.Month()), model.WeekdayNames[wd])
}
