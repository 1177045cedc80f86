package main

import (
	"etix/src/db"
	"etix/src/lib/mailer"
	"etix/src/middlewares"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// cartHandlers manage the redis-backed session cart. Browsing the cart needs
// no account; checkout does.
func cartHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/cart", func(ctx *gin.Context) {
			sid := ctx.GetString("session_id")
			items, err := utils.GetCart(sid)
			if err != nil {
				log.Printf("Error reading cart for session %s: %s\n", sid, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"items": items,
				"total": types.CartTotal(items),
				"count": types.CartCount(items),
			})
		}).
		POST("/cart/items", func(ctx *gin.Context) {
			var body types.AddCartItemRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.Where(&models.Event{ID: body.EventID}).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			if utils.EventStarted(time.Now().UTC(), event.DateTime, event.TimeZoneID, event.ID) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "This event has already taken place."})
				return
			}

			sid := ctx.GetString("session_id")
			items, err := utils.GetCart(sid)
			if err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			found := false
			requested := body.Quantity
			for i := range items {
				if items[i].EventID == body.EventID {
					requested += items[i].Quantity
					items[i].Quantity += body.Quantity
					found = true
					break
				}
			}
			if requested > event.TicketsAvailable {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Not enough stock"})
				return
			}
			if !found {
				items = append(items, types.CartItem{
					EventID:    event.ID,
					EventTitle: event.Title,
					Price:      event.Price,
					Quantity:   body.Quantity,
				})
			}
			if err := utils.SaveCart(sid, items); err != nil {
				log.Printf("Error saving cart for session %s: %s\n", sid, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"count": types.CartCount(items)})
		}).
		PATCH("/cart/items", func(ctx *gin.Context) {
			var body types.UpdateCartItemRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sid := ctx.GetString("session_id")
			items, err := utils.GetCart(sid)
			if err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			next := items[:0]
			for _, item := range items {
				if item.EventID == body.EventID {
					// zero or negative removes the line
					if body.Quantity <= 0 {
						continue
					}
					db := db.GetDb()
					var event models.Event
					if err := db.Where(&models.Event{ID: item.EventID}).First(&event).Error; err != nil {
						ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
						return
					}
					if uint(body.Quantity) > event.TicketsAvailable {
						ctx.JSON(http.StatusBadRequest, gin.H{"error": "Not enough stock"})
						return
					}
					item.Quantity = uint(body.Quantity)
				}
				next = append(next, item)
			}
			if err := utils.SaveCart(sid, next); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"count": types.CartCount(next), "total": types.CartTotal(next)})
		}).
		DELETE("/cart/items/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sid := ctx.GetString("session_id")
			items, err := utils.GetCart(sid)
			if err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			next := items[:0]
			for _, item := range items {
				if item.EventID == params.ID {
					continue
				}
				next = append(next, item)
			}
			if err := utils.SaveCart(sid, next); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"count": types.CartCount(next)})
		})
	return g
}

// checkoutHandler converts the session cart into purchases. Requires a logged
// in attendee or organizer; admins are blocked from buying.
func checkoutHandler(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/cart/checkout", middlewares.AuthMiddleware, func(ctx *gin.Context) {
		if middlewares.CurrentRole(ctx) == types.ROLE_ADMIN {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Admins cannot purchase tickets."})
			return
		}
		sid := ctx.GetString("session_id")
		items, err := utils.GetCart(sid)
		if err != nil {
			log.Printf("Error reading cart for session %s: %s\n", sid, err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		if len(items) == 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}

		userId := ctx.GetUint("id")
		result := utils.CheckoutCart(userId, items)

		// The cart is spent even when some lines were skipped.
		if err := utils.ClearCart(sid); err != nil {
			log.Printf("Error clearing cart for session %s: %s\n", sid, err.Error())
		}

		if len(result.OrderNumbers) > 0 {
			email := ctx.GetString("email")
			name := ctx.GetString("name")
			body := fmt.Sprintf(
				"<p>Hi %s,</p><p>Thanks for your purchase. Your order number(s): <b>%s</b>.</p><p>Your tickets are available in your purchase history.</p>",
				name, strings.Join(result.OrderNumbers, ", "))
			mailer.Send(email, "Your ticket order confirmation", body)
		}

		status := http.StatusOK
		if len(result.OrderNumbers) == 0 {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, result)
	})
	return g
}
