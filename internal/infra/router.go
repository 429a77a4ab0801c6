package infra

import (
	"context"
	"net/http"

	_ "github.com/celidone/customers/docs" // swagger spec
	"github.com/celidone/customers/internal/handlers"
	"github.com/celidone/customers/internal/middleware"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// HealthCheck reports whether dependency is reachable
type HealthCheck func(context.Context) error

type HTTPHandlers struct {
	Customers *handlers.CustomerHTTPHandler
	Events    *handlers.EventsHTTPHandler
}

func Router(v echo.Validator, h HTTPHandlers, logger *logrus.Logger, checks ...HealthCheck) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = v
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler()

	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger(logger))

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", health(checks))

	// API routes
	api := e.Group("/api")

	// customers
	customersAPI := api.Group("/customers")
	customersAPI.GET("", h.Customers.GetAll)
	customersAPI.GET("/search", h.Customers.Search)
	customersAPI.GET("/recent", h.Customers.Recent)
	customersAPI.GET("/stats", h.Customers.Stats)
	customersAPI.GET("/events", h.Events.Stream)
	customersAPI.GET("/:id", h.Customers.Get)
	customersAPI.POST("", h.Customers.Post)
	customersAPI.PUT("/:id", h.Customers.Put)
	customersAPI.DELETE("/:id", h.Customers.DeleteByID)

	return e
}

func health(checks []HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		for _, check := range checks {
			if err := check(c.Request().Context()); err != nil {
				logrus.Warnf("health check failed - %v", err)
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}
