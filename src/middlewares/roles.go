package middlewares

import (
	"etix/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles gates a route group on a capability set. Evaluated once per
// request after AuthMiddleware has resolved the user.
func RequireRoles(allowed ...types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := CurrentRole(ctx)
		if !types.HasAnyRole(role, allowed...) {
			log.Printf("Role %q denied for %s %s\n", role, ctx.Request.Method, ctx.FullPath())
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not enough permissions to perform this action"})
			return
		}
	}
}
