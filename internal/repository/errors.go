package repository

import "errors"

// Ошибки уровня хранилища
var (
	// ErrNotFound — запрошенная строка не существует
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken — на слот уже есть активная запись;
	// возвращается из Reserve при нарушении частичного уникального индекса
	ErrSlotTaken = errors.New("slot already taken")
)
