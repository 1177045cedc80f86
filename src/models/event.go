package models

import (
	"etix/src/types"
	"time"

	"github.com/shopspring/decimal"
)

// Event.DateTime holds the wall-clock start in the event's own timezone;
// TimeZoneID names that zone. All day-granularity gating converts "now"
// into that zone before comparing.
type Event struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	Title            string          `json:"title,omitempty"`
	Slug             string          `json:"slug,omitempty"`
	Description      *string         `json:"description,omitempty"`
	ImagePath        *string         `json:"image_path,omitempty"`
	CategoryID       uint            `json:"category_id,omitempty"`
	OrganizerID      uint            `json:"organizer_id,omitempty"`
	DateTime         time.Time       `json:"date_time,omitempty"`
	TimeZoneID       string          `gorm:"default:'UTC'" json:"time_zone_id,omitempty"`
	Price            decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	TicketsAvailable uint            `json:"tickets_available"`

	Category  Category   `json:"category,omitempty"`
	Organizer User       `gorm:"foreignKey:organizer_id" json:"organizer,omitempty"`
	Purchases []Purchase `json:"purchases,omitempty"`
	Ratings   []Rating   `json:"ratings,omitempty"`

	types.Timestamps
}
