package main

import (
	"etix/src/types"
	"etix/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// scanHandlers expose ticket redemption to gate staff. The group is gated on
// organizer or admin. Every outcome is a 200 with a structured result so the
// scanner UI can branch on the flags instead of status codes.
func scanHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/scan", func(ctx *gin.Context) {
		var body types.ScanTicketRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result := utils.ScanTicket(body.TicketNumber)
		ctx.JSON(http.StatusOK, result)
	})
	return g
}
