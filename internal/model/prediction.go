package model

import "time"

// Prediction is the persisted outcome of one classified damage image.
type Prediction struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	VehicleName   string    `json:"vehicleName" gorm:"size:255;not null"`
	VehicleModel  string    `json:"vehicleModel" gorm:"size:255;not null"`
	DamageType    string    `json:"damageType" gorm:"size:100;not null"`
	Confidence    float64   `json:"confidence" gorm:"not null"` // 0..1
	EstimatedCost float64   `json:"estimatedCost" gorm:"not null"`
	ImageName     string    `json:"imageName" gorm:"size:255;not null"`
	UserID        *uint     `json:"userId" gorm:"index"`
	User          *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt     time.Time `json:"created_at"`
}
