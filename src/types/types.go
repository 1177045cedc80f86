package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type Role string

const (
	ROLE_ADMIN     Role = "admin"
	ROLE_ORGANIZER Role = "organizer"
	ROLE_ATTENDEE  Role = "attendee"
)

// HasAnyRole is the single role gate used across handlers. Roles are the
// enumerated constants above, never free-form strings.
func HasAnyRole(role Role, allowed ...Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

type Claims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// CartItem is a session value, not a database row. Title and price are
// snapshots taken at add-time and can drift from the live Event.
type CartItem struct {
	EventID    uint            `json:"event_id"`
	EventTitle string          `json:"event_title"`
	Price      decimal.Decimal `json:"price"`
	Quantity   uint            `json:"quantity"`
}

func (i CartItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, i := range items {
		total = total.Add(i.Total())
	}
	return total
}

func CartCount(items []CartItem) uint {
	var count uint
	for _, i := range items {
		count += i.Quantity
	}
	return count
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     *Role  `json:"role,omitempty" binding:"omitempty,oneof=organizer attendee"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateEventRequestBody struct {
	Title            string `form:"title" json:"title" binding:"required"`
	Description      string `form:"description" json:"description,omitempty"`
	CategoryID       uint   `form:"category" json:"category" binding:"required"`
	DateTime         string `form:"date_time" json:"date_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04"`
	TimeZoneID       string `form:"time_zone" json:"time_zone,omitempty" binding:"omitempty,eventtimezone"`
	Price            string `form:"price" json:"price" binding:"required"`
	TicketsAvailable uint   `form:"tickets_available" json:"tickets_available" binding:"required"`
}

type UpdateEventRequestBody struct {
	Title            *string `form:"title" json:"title,omitempty"`
	Description      *string `form:"description" json:"description,omitempty"`
	CategoryID       *uint   `form:"category" json:"category,omitempty"`
	DateTime         *string `form:"date_time" json:"date_time,omitempty" binding:"omitempty,bookabledate" time_format:"2006-01-02 15:04"`
	TimeZoneID       *string `form:"time_zone" json:"time_zone,omitempty" binding:"omitempty,eventtimezone"`
	Price            *string `form:"price" json:"price,omitempty"`
	TicketsAvailable *uint   `form:"tickets_available" json:"tickets_available,omitempty"`
}

type EventQueryFilters struct {
	Search   string `form:"search"`
	Category uint   `form:"category"`
	ShowPast bool   `form:"show_past"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type AddCartItemRequestBody struct {
	EventID  uint `json:"event_id" binding:"required"`
	Quantity uint `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequestBody struct {
	EventID  uint `json:"event_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

type ScanTicketRequestBody struct {
	TicketNumber string `json:"ticket_number" binding:"required"`
}

type SubmitRatingRequestBody struct {
	PurchaseID uint    `json:"purchase_id" binding:"required"`
	Stars      int     `json:"stars" binding:"required"`
	Comment    *string `json:"comment,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TicketDownloadURIParams struct {
	PurchaseID uint `uri:"id" binding:"required"`
	TicketID   uint `uri:"ticketId" binding:"required"`
}

// ScanResult is the structured payload returned for every scan attempt,
// success or not.
type ScanResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	AlreadyUsed  bool   `json:"alreadyUsed,omitempty"`
	TooEarly     bool   `json:"tooEarly,omitempty"`
	EventTitle   string `json:"eventTitle,omitempty"`
	AttendeeName string `json:"attendeeName,omitempty"`
	ScannedAt    string `json:"scannedAt,omitempty"`
}

type EligibilityResult struct {
	CanRate   bool   `json:"canRate"`
	Reason    string `json:"reason,omitempty"`
	HasRating bool   `json:"hasRating,omitempty"`
}

type SkippedLine struct {
	EventID uint   `json:"event_id"`
	Reason  string `json:"reason"`
}

type CheckoutResult struct {
	OrderNumbers []string      `json:"order_numbers"`
	Skipped      []SkippedLine `json:"skipped,omitempty"`
}
