package service

import "errors"

// Ошибки планировщика, различимые на уровне диалога с пользователем
var (
	// ErrValidation — некорректный ввод (пустое имя, кривой телефон).
	// Диалог остаётся на том же шаге и переспрашивает.
	ErrValidation = errors.New("validation failed")

	// ErrSlotUnavailable — слот занят или закрыт между показом и выбором.
	// Клиент возвращается к выбору времени.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrNotFound — запись или мастер больше не существуют
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition — недопустимый переход статуса или
	// у актора нет права на этот переход. Состояние не меняется.
	ErrInvalidTransition = errors.New("invalid status transition")
)
