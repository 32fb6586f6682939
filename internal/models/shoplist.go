package models

import "time"

// ShopList is a named, per-user collection of items.
type ShopList struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"list_name" db:"list_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Items     []Item    `json:"items,omitempty"`
}

// Item is a single entry of a shop list
type Item struct {
	ID        int64     `json:"id" db:"id"`
	ListID    int64     `json:"list_id" db:"list_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
