package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const (
	headerAdminUser = "X-Admin-User"
	actorKey        = "actor"
)

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			log.WithFields(log.Fields{
				"request_id":    res.Header().Get(echo.HeaderXRequestID),
				"method":        req.Method,
				"uri":           req.RequestURI,
				"route":         c.Path(),
				"status":        res.Status,
				"remote_ip":     c.RealIP(),
				"response_time": time.Since(start),
			}).Debug("Request")

			return nil
		}
	}
}

// adminAuth guards the admin routes with a static bearer token. An empty
// token disables the admin API entirely.
func adminAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "admin api is disabled")
			}

			provided, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid admin token")
			}

			actor := strings.TrimSpace(c.Request().Header.Get(headerAdminUser))
			if actor == "" {
				actor = "admin"
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) string {
	actor, _ := c.Get(actorKey).(string)
	return actor
}
