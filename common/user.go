package common

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:50;not null" json:"name"`
	Identification string    `gorm:"size:10;not null;uniqueIndex" json:"identification"`
	Email          string    `gorm:"size:160;not null;uniqueIndex" json:"email"`
	PasswordHash   string    `gorm:"size:100;not null" json:"-"`
	Roles          Roles     `gorm:"type:varchar(120);not null" json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
