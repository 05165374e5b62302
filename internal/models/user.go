package models

import "time"

// User is a property owner or agent. Users are created implicitly the first
// time a listing is submitted with their email address.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
