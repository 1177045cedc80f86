package main

import (
	"errors"
	"etix/src/config"
	"etix/src/db"
	"etix/src/middlewares"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultPageSize = 12

// catalogHandlers are the browse endpoints. No auth required.
func catalogHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var filters types.EventQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if filters.Page < 1 {
				filters.Page = 1
			}
			if filters.PageSize < 1 || filters.PageSize > 100 {
				filters.PageSize = defaultPageSize
			}

			db := db.GetDb()
			q := db.Model(&models.Event{}).Preload("Category")
			if filters.Search != "" {
				term := "%" + strings.ToLower(filters.Search) + "%"
				q = q.Where("lower(title) LIKE ?", term)
			}
			if filters.Category > 0 {
				q = q.Where("category_id = ?", filters.Category)
			}
			if !filters.ShowPast {
				today := time.Now().UTC().Truncate(24 * time.Hour)
				q = q.Where("date_time >= ?", today)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				log.Printf("Error counting Events: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}

			var events []models.Event
			if err := q.
				Order("date_time asc").
				Offset((filters.Page - 1) * filters.PageSize).
				Limit(filters.PageSize).
				Find(&events).Error; err != nil {
				log.Printf("Error retrieving Events: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":      events,
				"page":      filters.Page,
				"page_size": filters.PageSize,
				"total":     total,
			})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.
				Where(&models.Event{ID: params.ID}).
				Preload("Category").
				Preload("Organizer").
				First(&event).
				Error; err != nil {
				log.Printf("Error retrieving Event: %s\n", err.Error())
				ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		GET("/categories", func(ctx *gin.Context) {
			db := db.GetDb()
			var categories []models.Category
			if err := db.Order("name asc").Find(&categories).Error; err != nil {
				log.Printf("Error retrieving Categories: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": categories})
		})
	return g
}

// eventHandlers are the organizer write endpoints. The group is already gated
// on organizer or admin; ownership of a specific event is checked per route.
func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			organizerId := ctx.GetUint("id")
			id, err := utils.CreateNewEvent(&body, organizerId)
			if err != nil {
				log.Printf("error creating event: %s", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if file, err := ctx.FormFile("image"); err == nil {
				if imagePath, err := saveEventImage(ctx, id, file.Filename); err == nil {
					db := db.GetDb()
					db.Model(&models.Event{}).Where("id = ?", id).Update("image_path", imagePath)
				}
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, status := eventForWrite(ctx, params.ID)
			if event == nil {
				ctx.Status(status)
				return
			}

			updates := map[string]any{}
			if body.Title != nil {
				updates["title"] = *body.Title
				updates["slug"] = slug.Make(*body.Title)
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.CategoryID != nil {
				updates["category_id"] = *body.CategoryID
			}
			if body.DateTime != nil {
				dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, *body.DateTime)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				updates["date_time"] = dateTime
			}
			if body.TimeZoneID != nil {
				updates["time_zone_id"] = *body.TimeZoneID
			}
			if body.Price != nil {
				price, err := decimal.NewFromString(*body.Price)
				if err != nil || price.IsNegative() {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
					return
				}
				updates["price"] = price
			}
			if body.TicketsAvailable != nil {
				updates["tickets_available"] = *body.TicketsAvailable
			}

			db := db.GetDb()
			if len(updates) > 0 {
				if err := db.Model(&models.Event{}).Where("id = ?", event.ID).Updates(updates).Error; err != nil {
					log.Printf("Error updating Event %d: %s\n", event.ID, err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			if file, err := ctx.FormFile("image"); err == nil {
				if imagePath, err := saveEventImage(ctx, event.ID, file.Filename); err == nil {
					db.Model(&models.Event{}).Where("id = ?", event.ID).Update("image_path", imagePath)
				}
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event, status := eventForWrite(ctx, params.ID)
			if event == nil {
				ctx.Status(status)
				return
			}
			db := db.GetDb()
			var sold int64
			if err := db.Model(&models.Purchase{}).Where("event_id = ?", event.ID).Count(&sold).Error; err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if sold > 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": "event has purchases and cannot be deleted"})
				return
			}
			if err := db.Delete(&models.Event{}, event.ID).Error; err != nil {
				log.Printf("Error deleting Event %d: %s\n", event.ID, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			if event.ImagePath != nil {
				if err := os.Remove(*event.ImagePath); err != nil {
					log.Printf("Could not remove image for Event %d: %s\n", event.ID, err.Error())
				}
			}
			log.Printf("Event %d deleted by User %d\n", event.ID, ctx.GetUint("id"))
			ctx.Status(http.StatusOK)
		})
	return g
}

// eventForWrite loads an event and enforces ownership. Organizers can only
// touch their own events; admins can touch any.
func eventForWrite(ctx *gin.Context, eventId uint) (*models.Event, int) {
	db := db.GetDb()
	var event models.Event
	if err := db.Where(&models.Event{ID: eventId}).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound
		}
		return nil, http.StatusBadRequest
	}
	role := middlewares.CurrentRole(ctx)
	if role != types.ROLE_ADMIN && event.OrganizerID != ctx.GetUint("id") {
		return nil, http.StatusForbidden
	}
	return &event, http.StatusOK
}

func saveEventImage(ctx *gin.Context, eventId uint, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}
	if err := os.MkdirAll(config.UPLOADS_DIR, 0o755); err != nil {
		return "", err
	}
	file, err := ctx.FormFile("image")
	if err != nil {
		return "", err
	}
	imagePath := path.Join(config.UPLOADS_DIR, fmt.Sprintf("event_%d%s", eventId, ext))
	if err := ctx.SaveUploadedFile(file, imagePath); err != nil {
		log.Printf("Error saving image for Event %d: %s\n", eventId, err.Error())
		return "", err
	}
	return imagePath, nil
}
