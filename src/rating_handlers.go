package main

import (
	"etix/src/db"
	"etix/src/middlewares"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ratingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/ratings/eligibility", func(ctx *gin.Context) {
			var query struct {
				PurchaseID uint `form:"purchase_id" binding:"required"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			_, elig := utils.CheckRatingEligibility(query.PurchaseID, userId)
			ctx.JSON(http.StatusOK, elig)
		}).
		POST("/ratings", func(ctx *gin.Context) {
			var body types.SubmitRatingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			ok, message := utils.SubmitRating(userId, &body)
			if !ok {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": message})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"message": message})
		}).
		GET("/ratings", func(ctx *gin.Context) {
			var query struct {
				PurchaseID uint `form:"purchase_id" binding:"required"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var purchase models.Purchase
			if err := db.
				Where(&models.Purchase{ID: query.PurchaseID}).
				Preload("Event").
				First(&purchase).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
				return
			}

			userId := ctx.GetUint("id")
			role := middlewares.CurrentRole(ctx)
			isAuthor := purchase.UserID == userId
			isOrganizer := purchase.Event != nil && purchase.Event.OrganizerID == userId
			if !isAuthor && !isOrganizer && role != types.ROLE_ADMIN {
				ctx.JSON(http.StatusOK, gin.H{
					"hasRating": false,
					"message":   "Not authorized to view this rating",
				})
				return
			}

			var rating models.Rating
			err := db.
				Where(&models.Rating{PurchaseID: purchase.ID, UserID: purchase.UserID}).
				Preload("User").
				First(&rating).Error
			if err != nil {
				ctx.JSON(http.StatusOK, gin.H{"hasRating": false})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"hasRating": true, "rating": rating})
		}).
		GET("/events/:id/ratings", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.Where(&models.Event{ID: params.ID}).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}

			userId := ctx.GetUint("id")
			role := middlewares.CurrentRole(ctx)
			q := db.
				Where(&models.Rating{EventID: event.ID}).
				Preload("User").
				Order("created_at desc")
			// Attendees only ever see their own ratings. The event's own
			// organizer and admins see everything.
			if role != types.ROLE_ADMIN && event.OrganizerID != userId {
				q = q.Where("user_id = ?", userId)
			}
			var ratings []models.Rating
			if err := q.Find(&ratings).Error; err != nil {
				log.Printf("Error retrieving Ratings for Event %d: %s\n", event.ID, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ratings})
		})
	return g
}
