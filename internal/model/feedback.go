package model

import "time"

// Feedback is a public testimonial. Immutable once submitted.
type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	City      string    `json:"city" gorm:"size:255"`
	Review    string    `json:"review" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}
