package models

import "time"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Notes []Note `json:"notes,omitempty"`
}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    string    `json:"userId"`
	User      *User     `json:"user,omitempty"`
}
