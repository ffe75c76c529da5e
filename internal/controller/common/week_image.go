package common

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/manictest/salon_bot/internal/timeslot"
)

// Размеры сетки недели
const (
	cellWidth    = 96.0
	cellHeight   = 44.0
	headerHeight = 40.0
	labelWidth   = 64.0
	cellPadding  = 3.0
)

// Цвета слотов
var (
	weekBgColor     = color.RGBA{245, 246, 248, 255}
	weekGridColor   = color.RGBA{200, 203, 207, 255}
	weekTextColor   = color.RGBA{70, 75, 80, 255}
	slotOpenColor   = color.RGBA{133, 193, 85, 255}
	slotClosedColor = color.RGBA{205, 207, 210, 255}
)

// RenderWeekImage рисует сетку доступности мастера на неделю вперёд:
// колонки — даты, строки — слоты дневной сетки, зелёное — можно записаться.
// Подписи только цифровые: встроенный шрифт не покрывает кириллицу.
func RenderWeekImage(dates []string, open func(date, tm string) bool) ([]byte, error) {
	width := labelWidth + cellWidth*float64(len(dates))
	height := headerHeight + cellHeight*float64(len(timeslot.Template))

	dc := gg.NewContext(int(width), int(height))
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(weekBgColor)
	dc.Clear()

	// Заголовки дат
	dc.SetColor(weekTextColor)
	for i, date := range dates {
		x := labelWidth + cellWidth*float64(i) + cellWidth/2
		dc.DrawStringAnchored(shortDate(date), x, headerHeight/2, 0.5, 0.5)
	}

	// Подписи времени и ячейки
	for row, tm := range timeslot.Template {
		y := headerHeight + cellHeight*float64(row)

		dc.SetColor(weekTextColor)
		dc.DrawStringAnchored(tm, labelWidth/2, y+cellHeight/2, 0.5, 0.5)

		for col, date := range dates {
			x := labelWidth + cellWidth*float64(col)

			if open(date, tm) {
				dc.SetColor(slotOpenColor)
			} else {
				dc.SetColor(slotClosedColor)
			}
			dc.DrawRoundedRectangle(x+cellPadding, y+cellPadding,
				cellWidth-2*cellPadding, cellHeight-2*cellPadding, 5)
			dc.Fill()
		}
	}

	// Линии сетки
	dc.SetColor(weekGridColor)
	dc.SetLineWidth(1)
	for i := 0; i <= len(dates); i++ {
		x := labelWidth + cellWidth*float64(i)
		dc.DrawLine(x, 0, x, height)
	}
	dc.DrawLine(0, headerHeight, width, headerHeight)
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

func shortDate(date string) string {
	d, err := time.Parse(timeslot.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%02d.%02d", d.Day(), int(d.Month()))
}
