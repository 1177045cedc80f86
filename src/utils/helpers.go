package utils

import (
	"encoding/base64"
	"errors"
	"etix/src/config"
	"etix/src/db"
	"etix/src/lib"
	"etix/src/models"
	"etix/src/types"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewOrderNumber returns an 8-character uppercase token.
func NewOrderNumber() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func CreateNewEvent(params *types.CreateEventRequestBody, organizerId uint) (uint, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, params.DateTime)
	if err != nil {
		log.Printf("Error parsing date_time: %s\n", err.Error())
		return 0, err
	}
	price, err := decimal.NewFromString(params.Price)
	if err != nil {
		return 0, fmt.Errorf("invalid price: %s", params.Price)
	}
	if price.IsNegative() {
		return 0, errors.New("price must be zero or greater")
	}
	tz := params.TimeZoneID
	if tz == "" {
		tz = "UTC"
	}
	var description *string
	if params.Description != "" {
		description = &params.Description
	}
	event := models.Event{
		Title:            params.Title,
		Slug:             slug.Make(params.Title),
		Description:      description,
		CategoryID:       params.CategoryID,
		OrganizerID:      organizerId,
		DateTime:         dateTime,
		TimeZoneID:       tz,
		Price:            price,
		TicketsAvailable: params.TicketsAvailable,
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where(&models.Category{ID: params.CategoryID}).First(&category).Error; err != nil {
			return fmt.Errorf("category %d does not exist", params.CategoryID)
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Println("Error: ", err.Error())
		return 0, err
	}
	return event.ID, nil
}

// CheckoutCart converts cart lines into purchases and tickets, one line at a
// time. A line that cannot be fulfilled is skipped and reported; lines already
// processed stay committed. The stock decrement is a conditional update so two
// concurrent checkouts cannot oversell an event.
func CheckoutCart(userId uint, items []types.CartItem) *types.CheckoutResult {
	result := &types.CheckoutResult{OrderNumbers: []string{}}
	db := db.GetDb()
	for _, item := range items {
		item := item
		err := db.Transaction(func(tx *gorm.DB) error {
			var event models.Event
			if err := tx.Where(&models.Event{ID: item.EventID}).First(&event).Error; err != nil {
				return errors.New("event not found")
			}
			if event.TicketsAvailable < item.Quantity {
				return errors.New("not enough tickets available")
			}
			res := tx.
				Model(&models.Event{}).
				Where("id = ? AND tickets_available >= ?", item.EventID, item.Quantity).
				UpdateColumn("tickets_available", gorm.Expr("tickets_available - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errors.New("not enough tickets available")
			}

			purchase := models.Purchase{
				EventID:        item.EventID,
				UserID:         userId,
				OrderNumber:    NewOrderNumber(),
				TicketQuantity: item.Quantity,
				PurchaseDate:   time.Now().UTC(),
				TotalAmount:    event.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			}
			if err := tx.Create(&purchase).Error; err != nil {
				return err
			}

			for i := uint(0); i < item.Quantity; i++ {
				ticketNumber := fmt.Sprintf("%s-%d", purchase.OrderNumber, i+1)
				qrBytes, err := lib.GenerateQRCode(ticketNumber)
				if err != nil {
					return err
				}
				ticket := models.Ticket{
					PurchaseID:   purchase.ID,
					TicketNumber: ticketNumber,
					QRCodeData:   base64.StdEncoding.EncodeToString(qrBytes),
				}
				if err := tx.Create(&ticket).Error; err != nil {
					return err
				}
			}

			result.OrderNumbers = append(result.OrderNumbers, purchase.OrderNumber)
			log.Printf("Purchase successful: Order %s by User %d for Event %d\n", purchase.OrderNumber, userId, item.EventID)
			return nil
		})
		if err != nil {
			log.Printf("Checkout skipped line for Event %d: %s\n", item.EventID, err.Error())
			result.Skipped = append(result.Skipped, types.SkippedLine{EventID: item.EventID, Reason: err.Error()})
			continue
		}
	}
	return result
}

// ScanTicket redeems a ticket by number. The flip to used happens through a
// conditional update, so a ticket admits exactly one scan; the loser of a
// concurrent pair gets the already-used response.
func ScanTicket(ticketNumber string) *types.ScanResult {
	db := db.GetDb()
	var ticket models.Ticket
	if err := db.
		Where(&models.Ticket{TicketNumber: ticketNumber}).
		Preload("Purchase").
		Preload("Purchase.Event").
		Preload("Purchase.User").
		First(&ticket).
		Error; err != nil {
		log.Printf("Invalid ticket scan attempt: %s\n", ticketNumber)
		return &types.ScanResult{Message: "Invalid ticket number."}
	}

	if ticket.IsUsed {
		log.Printf("Duplicate scan attempt for ticket: %s\n", ticketNumber)
		msg := "Ticket already scanned."
		if ticket.RedeemedAt != nil {
			msg = fmt.Sprintf("Ticket already scanned on %s.", ticket.RedeemedAt.Format("2006-01-02 15:04"))
		}
		return &types.ScanResult{Message: msg, AlreadyUsed: true}
	}

	if ticket.Purchase == nil || ticket.Purchase.Event == nil {
		log.Printf("Event not found for ticket: %s\n", ticketNumber)
		return &types.ScanResult{Message: "Event information not found."}
	}
	event := ticket.Purchase.Event

	localNow := NowInEventZone(time.Now().UTC(), event.TimeZoneID, event.ID)
	if BeforeEventDate(localNow, event.DateTime) {
		log.Printf("Early scan attempt for ticket: %s. Event date: %s, Current date: %s\n",
			ticketNumber, event.DateTime.Format("2006-01-02"), localNow.Format("2006-01-02"))
		return &types.ScanResult{
			Message:  fmt.Sprintf("This ticket cannot be scanned until %s. Event has not started yet.", event.DateTime.Format("2006-01-02")),
			TooEarly: true,
		}
	}

	now := time.Now().UTC()
	res := db.
		Model(&models.Ticket{}).
		Where("id = ? AND is_used = ?", ticket.ID, false).
		Updates(map[string]any{"is_used": true, "redeemed_at": now})
	if res.Error != nil {
		log.Printf("Error redeeming ticket %s: %s\n", ticketNumber, res.Error.Error())
		return &types.ScanResult{Message: "Error while processing request"}
	}
	if res.RowsAffected == 0 {
		return &types.ScanResult{Message: "Ticket already scanned.", AlreadyUsed: true}
	}

	log.Printf("Ticket scanned successfully: %s for Event: %s\n", ticketNumber, event.Title)
	attendee := ""
	if ticket.Purchase.User != nil {
		attendee = ticket.Purchase.User.DisplayName()
	}
	return &types.ScanResult{
		Success:      true,
		Message:      "Ticket scanned successfully!",
		EventTitle:   event.Title,
		AttendeeName: attendee,
		ScannedAt:    now.Format("2006-01-02 15:04"),
	}
}

// CheckRatingEligibility runs the ordered eligibility chain. The first failed
// check wins; the purchase is returned only when every check passes.
func CheckRatingEligibility(purchaseId uint, userId uint) (*models.Purchase, *types.EligibilityResult) {
	db := db.GetDb()
	var purchase models.Purchase
	if err := db.
		Where(&models.Purchase{ID: purchaseId}).
		Preload("Event").
		Preload("Tickets").
		First(&purchase).
		Error; err != nil {
		return nil, &types.EligibilityResult{Reason: "Purchase not found"}
	}
	if purchase.UserID != userId {
		return nil, &types.EligibilityResult{Reason: "Not your purchase"}
	}
	if purchase.Event == nil || purchase.Event.ID < 1 {
		return nil, &types.EligibilityResult{Reason: "Event not found"}
	}

	localNow := NowInEventZone(time.Now().UTC(), purchase.Event.TimeZoneID, purchase.Event.ID)
	if BeforeEventDate(localNow, purchase.Event.DateTime) {
		return nil, &types.EligibilityResult{
			Reason: fmt.Sprintf("Event hasn't occurred yet. Wait until %s", purchase.Event.DateTime.Format("2006-01-02")),
		}
	}

	attended := false
	for _, t := range purchase.Tickets {
		if t.IsUsed {
			attended = true
			break
		}
	}
	if !attended {
		return nil, &types.EligibilityResult{Reason: "You must attend the event to rate it. No tickets have been scanned."}
	}

	var existing models.Rating
	err := db.
		Where(&models.Rating{PurchaseID: purchaseId, UserID: userId}).
		First(&existing).
		Error
	if err == nil {
		return nil, &types.EligibilityResult{Reason: "You have already rated this event", HasRating: true}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking existing rating for purchase %d: %s\n", purchaseId, err.Error())
		return nil, &types.EligibilityResult{Reason: "Error while processing request"}
	}

	return &purchase, &types.EligibilityResult{CanRate: true}
}

// SubmitRating re-runs the whole eligibility chain server-side; a prior
// eligibility response from the client is never trusted. Stars are validated
// before any database read.
func SubmitRating(userId uint, body *types.SubmitRatingRequestBody) (bool, string) {
	if body.Stars < 1 || body.Stars > 5 {
		return false, "Rating must be between 1 and 5 stars"
	}
	purchase, elig := CheckRatingEligibility(body.PurchaseID, userId)
	if purchase == nil {
		return false, elig.Reason
	}

	var comment *string
	if body.Comment != nil {
		trimmed := strings.TrimSpace(*body.Comment)
		if trimmed != "" {
			comment = &trimmed
		}
	}
	rating := models.Rating{
		EventID:    purchase.EventID,
		UserID:     userId,
		PurchaseID: purchase.ID,
		Stars:      body.Stars,
		Comment:    comment,
	}
	db := db.GetDb()
	if err := db.Create(&rating).Error; err != nil {
		// The unique index on (purchase_id, user_id) is the last word.
		log.Printf("Error creating rating for purchase %d: %s\n", purchase.ID, err.Error())
		return false, "You have already rated this event"
	}
	log.Printf("User %d rated Event %d with %d stars\n", userId, purchase.EventID, body.Stars)
	return true, "Thank you for your rating!"
}
