package model

// WeekdayRule — рабочий/нерабочий день недели мастера.
// Weekday: 0 = понедельник ... 6 = воскресенье.
// Не более одной записи на пару (master_id, weekday).
type WeekdayRule struct {
	ID       int64 `json:"id"`
	MasterID int64 `json:"master_id"`
	Weekday  int   `json:"weekday"`
	Enabled  bool  `json:"enabled"`
}

// Дни недели (0 = понедельник)
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayNames — названия дней недели для клавиатур и сообщений
var WeekdayNames = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}
