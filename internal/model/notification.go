package model

import "time"

// Notification is an admin-authored message, either broadcast to every user
// (UserID nil) or targeted at a single user.
//
// The read flag lives on the record itself, so marking a broadcast
// notification read changes its state for every viewer.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	UserID    *uint     `json:"userId" gorm:"index"` // nil = broadcast
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	IsRead    bool      `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// Broadcast reports whether the notification is visible to all users.
func (n *Notification) Broadcast() bool {
	return n.UserID == nil
}
