package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const guestCookieName = "shop_guest_id"

// GuestSession plants a random guest ID cookie on first visit and
// exposes it on the context. The same ID keys the guest's cart,
// wishlist, and recently viewed lists in Redis.
func GuestSession(ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(guestCookieName)
			if err == nil && cookie.Value != "" {
				c.Set("guest_id", cookie.Value)
				return next(c)
			}

			guestID := uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     guestCookieName,
				Value:    guestID,
				Path:     "/",
				Expires:  time.Now().Add(ttl),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set("guest_id", guestID)

			return next(c)
		}
	}
}
