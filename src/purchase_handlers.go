package main

import (
	"etix/src/db"
	"etix/src/lib"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// purchaseHandlers serve the signed-in user's own purchase history and the
// printable ticket for any ticket they own.
func purchaseHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/purchases", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var purchases []models.Purchase
			if err := db.
				Where(&models.Purchase{UserID: userId}).
				Preload("Event").
				Preload("Event.Category").
				Preload("Tickets").
				Order("purchase_date desc").
				Find(&purchases).Error; err != nil {
				log.Printf("Error retrieving Purchases for User %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}

			// split on the event's own calendar date, same rule as the gate
			upcoming := []models.Purchase{}
			past := []models.Purchase{}
			nowUtc := time.Now().UTC()
			for _, p := range purchases {
				if p.Event == nil {
					continue
				}
				localNow := utils.NowInEventZone(nowUtc, p.Event.TimeZoneID, p.Event.ID)
				if utils.BeforeEventDate(p.Event.DateTime, localNow) {
					past = append(past, p)
				} else {
					upcoming = append(upcoming, p)
				}
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":     purchases,
				"upcoming": upcoming,
				"past":     past,
			})
		}).
		GET("/purchases/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var purchase models.Purchase
			if err := db.
				Where(&models.Purchase{ID: params.ID, UserID: userId}).
				Preload("Event").
				Preload("Tickets").
				First(&purchase).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": purchase})
		}).
		GET("/purchases/:id/tickets/:ticketId/pdf", func(ctx *gin.Context) {
			var params types.TicketDownloadURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				log.Printf("Error in validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var purchase models.Purchase
			if err := db.
				Where(&models.Purchase{ID: params.PurchaseID, UserID: userId}).
				Preload("Event").
				Preload("Event.Organizer").
				Preload("User").
				First(&purchase).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
				return
			}
			var ticket models.Ticket
			if err := db.
				Where(&models.Ticket{ID: params.TicketID, PurchaseID: purchase.ID}).
				First(&ticket).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
				return
			}

			body, err := lib.RenderTicketPdf(&ticket, purchase.Event, purchase.User)
			if err != nil {
				log.Printf("Error rendering ticket %s: %s\n", ticket.TicketNumber, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			filename := fmt.Sprintf("ticket_%s.pdf", ticket.TicketNumber)
			ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			ctx.Data(http.StatusOK, "application/pdf", body)
		})
	return g
}
