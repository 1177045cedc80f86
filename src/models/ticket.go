package models

import (
	"etix/src/types"
	"time"
)

// IsUsed transitions false to true exactly once; RedeemedAt is set iff IsUsed.
type Ticket struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	PurchaseID   uint       `json:"purchase_id,omitempty"`
	TicketNumber string     `gorm:"uniqueIndex" json:"ticket_number,omitempty"`
	QRCodeData   string     `json:"qr_code_data,omitempty"`
	IsUsed       bool       `gorm:"default:false" json:"is_used"`
	RedeemedAt   *time.Time `json:"redeemed_at,omitempty"`

	Purchase *Purchase `json:"purchase,omitempty"`

	types.Timestamps
}
