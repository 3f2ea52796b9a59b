package common

import "time"

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:160;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `json:"date"`
	Venue       string    `gorm:"size:160" json:"venue"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}
