// Package cbdata содержит форматы callback data, общие для роутера
// колбэков и диспетчера уведомлений (кнопки в уведомлениях мастеру).
package cbdata

// Общая навигация
const (
	BackToMain = "back_to_main"
	Noop       = "noop"
)

// Бронирование (клиент)
const (
	StartBooking  = "start_booking"
	SelectMaster  = "select_master:"  // select_master:<telegram_id>
	SelectDate    = "select_date:"    // select_date:2024-06-03
	SelectTime    = "select_time:"    // select_time:15:00
	MyBookings    = "my_bookings"
	ClientCancel  = "client_cancel:"  // client_cancel:<appointment_id>
	ConfirmCancel = "confirm_cancel:" // confirm_cancel:<appointment_id>
)

// Отзывы
const (
	Reviews     = "reviews"
	LeaveReview = "leave_review"
)

// Панель мастера
const (
	MasterPanel     = "master_panel"
	MasterBookings  = "master_bookings"
	MasterPending   = "master_pending"
	MasterSchedule  = "master_schedule"
	MasterDays      = "master_days"
	MasterDay       = "master_day:"     // master_day:2024-06-03
	MasterWeekImage = "master_week_image"
	ToggleWeekday   = "toggle_weekday:" // toggle_weekday:<0..6>
	ToggleSlot      = "toggle_slot:"    // toggle_slot:2024-06-03:15:00

	ApptConfirm = "appt_confirm:" // appt_confirm:<appointment_id>
	ApptCancel  = "appt_cancel:"  // appt_cancel:<appointment_id>
)

// Панель администратора
const (
	AdminPanel     = "admin_panel"
	AdminMasters   = "admin_masters"
	AdminAddMaster = "admin_add_master"
	AdminDelMaster = "admin_del_master:" // admin_del_master:<telegram_id>
	AdminBookings  = "admin_bookings"
	AdminEditInfo  = "admin_edit_info"
	AdminDelReview = "admin_del_review:" // admin_del_review:<review_id>
)
