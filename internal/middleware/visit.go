package middleware

import (
	"context"
	"net/http"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"github.com/labstack/echo/v4"
)

// VisitRecorder stores one visit event per storefront request.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, event *domain.VisitEvent) error
}

// TrackVisits writes storefront page views to the visit store in the
// background. Recording failures are logged and never affect the
// request.
func TrackVisits(recorder VisitRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			event := domain.VisitEvent{
				Path:      c.Request().URL.Path,
				Referrer:  c.Request().Referer(),
				UserAgent: c.Request().UserAgent(),
				Timestamp: time.Now(),
			}

			if guestID, ok := c.Get("guest_id").(string); ok {
				event.SessionID = guestID
			}
			if userID, ok := c.Get("user_id").(uint); ok {
				event.UserID = userID
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := recorder.RecordVisit(ctx, &event); err != nil {
					logger.Warn("failed to record visit", err)
				}
			}()

			return next(c)
		}
	}
}
