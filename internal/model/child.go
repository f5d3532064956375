package model

import "time"

type Child struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	Color        *string   `json:"color"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
