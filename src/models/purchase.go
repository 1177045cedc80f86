package models

import (
	"etix/src/types"
	"time"

	"github.com/shopspring/decimal"
)

// One Purchase per checkout line, not per ticket. Immutable after creation
// except through its owned tickets and ratings.
type Purchase struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	EventID        uint            `json:"event_id,omitempty"`
	UserID         uint            `json:"user_id,omitempty"`
	OrderNumber    string          `gorm:"uniqueIndex" json:"order_number,omitempty"`
	TicketQuantity uint            `json:"ticket_quantity,omitempty"`
	PurchaseDate   time.Time       `json:"purchase_date,omitempty"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(10,2)" json:"total_amount"`

	Event   *Event   `json:"event,omitempty"`
	User    *User    `json:"user,omitempty"`
	Tickets []Ticket `gorm:"constraint:OnDelete:CASCADE" json:"tickets,omitempty"`
	Ratings []Rating `gorm:"constraint:OnDelete:CASCADE" json:"ratings,omitempty"`

	types.Timestamps
}
