package models

import "time"

// Store represents a rateable store. AverageRating and TotalRatings are a
// materialized view of the store's ratings; they are written only by the
// aggregate recompute and always reflect avg(rating) and count(*) over the
// ratings table. AverageRating is kept as a fixed two-decimal string so the
// zero-ratings case renders exactly "0.00" on every backend.
type Store struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Address       string    `json:"address" gorm:"type:varchar(400);not null"`
	OwnerID       uint      `json:"ownerId" gorm:"not null;index"`
	Owner         *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	AverageRating string    `json:"averageRating" gorm:"type:varchar(8);not null;default:'0.00'"`
	TotalRatings  int       `json:"totalRatings" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
