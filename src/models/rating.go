package models

import "etix/src/types"

type Rating struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	EventID    uint    `json:"event_id,omitempty"`
	UserID     uint    `gorm:"uniqueIndex:idx_rating_purchase_user" json:"user_id,omitempty"`
	PurchaseID uint    `gorm:"uniqueIndex:idx_rating_purchase_user" json:"purchase_id,omitempty"`
	Stars      int     `json:"stars"`
	Comment    *string `json:"comment,omitempty"`

	Event    *Event    `json:"event,omitempty"`
	User     *User     `json:"user,omitempty"`
	Purchase *Purchase `json:"purchase,omitempty"`

	types.Timestamps
}
