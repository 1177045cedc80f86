package models

import "etix/src/types"

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `json:"name,omitempty"`
	Email        string     `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         types.Role `gorm:"default:'attendee'" json:"role,omitempty"`

	OrganizedEvents []Event    `gorm:"foreignKey:organizer_id" json:"organized_events,omitempty"`
	Purchases       []Purchase `gorm:"foreignKey:user_id" json:"purchases,omitempty"`
	Ratings         []Rating   `gorm:"foreignKey:user_id" json:"ratings,omitempty"`

	types.Timestamps
}

func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
