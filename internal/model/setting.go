package model

import "time"

// Setting — настройка салона (ключ-значение), редактируется админом
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ключи настроек
const (
	SettingInfoText = "info_text" // Приветственный текст с информацией о салоне
	SettingGroupURL = "group_url" // Ссылка на группу салона для экрана /info
)
