package models

import "time"

// Rating is one user's rating of one store. The composite unique index
// enforces at most one row per (user, store) pair; a resubmission updates
// the existing row instead of inserting a second one.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	StoreID   uint      `json:"storeId" gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review    string    `json:"review" gorm:"type:varchar(1000)"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	Store     *Store    `json:"-" gorm:"foreignKey:StoreID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
