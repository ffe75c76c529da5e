package state

// UserState — текущий шаг диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Бронирование: имя → телефон → мастер → дата → время → коммит.
	// Выбор мастера/даты/времени идёт через callback, но состояние
	// отслеживается, чтобы текстовый ввод не ломал диалог.
	StateBookingName   UserState = "booking_name"
	StateBookingPhone  UserState = "booking_phone"
	StateBookingMaster UserState = "booking_master"
	StateBookingDate   UserState = "booking_date"
	StateBookingTime   UserState = "booking_time"

	// Отзыв
	StateReviewText UserState = "review_text"

	// Админ: добавление мастера
	StateAdminAddMasterID    UserState = "admin_add_master_id"
	StateAdminAddMasterName  UserState = "admin_add_master_name"
	StateAdminAddMasterPhone UserState = "admin_add_master_phone"

	// Админ: редактирование информационного текста
	StateAdminInfoText UserState = "admin_info_text"

	// Мастер: редактирование профиля
	StateMasterEditName  UserState = "master_edit_name"
	StateMasterEditPhone UserState = "master_edit_phone"
)

// BookingDraft — данные бронирования, накопленные по шагам диалога
type BookingDraft struct {
	Name     string
	Phone    string
	MasterID int64
	Date     string
	Time     string
}

// MasterDraft — данные нового мастера в админском диалоге
type MasterDraft struct {
	TelegramID int64
	Name       string
	Phone      string
}

// Session — диалоговое состояние одного чата. Фиксированная схема
// вместо произвольного key/value: каждый шаг знает, какие поля
// предыдущие шаги уже заполнили.
type Session struct {
	State     UserState
	Booking   BookingDraft
	NewMaster MasterDraft
}
