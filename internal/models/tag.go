package models

// Tag is a free-form label users attach to transactions.
type Tag struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
}
