package middlewares

import (
	"etix/src/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartSessionMaxAge = 7 * 24 * 60 * 60

// CartSession issues a per-browser session id cookie. The cart itself lives
// in redis under this id, never in process memory.
func CartSession(ctx *gin.Context) {
	sid, err := ctx.Cookie(config.CART_SESSION_COOKIE)
	if err != nil || sid == "" {
		sid = uuid.NewString()
		ctx.SetCookie(config.CART_SESSION_COOKIE, sid, cartSessionMaxAge, "/", "", false, true)
	}
	ctx.Set("session_id", sid)
}
