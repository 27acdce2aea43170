package models

import "time"

// Estado persistido do lado do cliente (ex.: o token de acesso).
type ClientState struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
