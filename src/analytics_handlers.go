package main

import (
	"etix/src/db"
	"etix/src/middlewares"
	"etix/src/models"
	"etix/src/types"
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategorySales struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TicketsSold  uint            `json:"tickets_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type MonthlyRevenue struct {
	Month       string          `json:"month"`
	TicketsSold uint            `json:"tickets_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type EventSales struct {
	EventID     uint            `json:"event_id"`
	EventTitle  string          `json:"event_title"`
	TicketsSold uint            `json:"tickets_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// scopedPurchases narrows the purchases an analytics caller can see.
// Organizers see sales for their own events only; admins see everything.
func scopedPurchases(ctx *gin.Context, db *gorm.DB) *gorm.DB {
	q := db.
		Model(&models.Purchase{}).
		Joins("JOIN events ON events.id = purchases.event_id")
	if middlewares.CurrentRole(ctx) != types.ROLE_ADMIN {
		q = q.Where("events.organizer_id = ?", ctx.GetUint("id"))
	}
	return q
}

// analyticsHandlers are the dashboard endpoints. The group is gated on
// organizer or admin.
func analyticsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/analytics/sales-by-category", func(ctx *gin.Context) {
			db := db.GetDb()
			var rows []CategorySales
			if err := scopedPurchases(ctx, db).
				Joins("JOIN categories ON categories.id = events.category_id").
				Select("categories.id as category_id, categories.name as category_name, sum(purchases.ticket_quantity) as tickets_sold, sum(purchases.total_amount) as revenue").
				Group("categories.id, categories.name").
				Order("revenue desc").
				Scan(&rows).Error; err != nil {
				log.Printf("Error computing sales by category: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rows})
		}).
		GET("/analytics/revenue-by-month", func(ctx *gin.Context) {
			db := db.GetDb()
			var purchases []models.Purchase
			if err := scopedPurchases(ctx, db).
				Select("purchases.*").
				Find(&purchases).Error; err != nil {
				log.Printf("Error retrieving purchases for revenue report: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			// Month bucketing happens here rather than in SQL so the report
			// is not tied to one database's date functions.
			buckets := map[string]*MonthlyRevenue{}
			for _, p := range purchases {
				month := p.PurchaseDate.Format("2006-01")
				b, ok := buckets[month]
				if !ok {
					b = &MonthlyRevenue{Month: month}
					buckets[month] = b
				}
				b.TicketsSold += p.TicketQuantity
				b.Revenue = b.Revenue.Add(p.TotalAmount)
			}
			rows := make([]MonthlyRevenue, 0, len(buckets))
			for _, b := range buckets {
				rows = append(rows, *b)
			}
			sort.Slice(rows, func(i, j int) bool {
				return rows[i].Month < rows[j].Month
			})
			ctx.JSON(http.StatusOK, gin.H{"data": rows})
		}).
		GET("/analytics/top-events", func(ctx *gin.Context) {
			db := db.GetDb()
			var rows []EventSales
			if err := scopedPurchases(ctx, db).
				Select("events.id as event_id, events.title as event_title, sum(purchases.ticket_quantity) as tickets_sold, sum(purchases.total_amount) as revenue").
				Group("events.id, events.title").
				Order("revenue desc").
				Limit(5).
				Scan(&rows).Error; err != nil {
				log.Printf("Error computing top events: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rows})
		})
	return g
}
