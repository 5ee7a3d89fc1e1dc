// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rota/internal/http/handlers"
	"rota/internal/http/middleware"
	"rota/internal/modules/navigation"
	"rota/internal/modules/rebalance"
)

func NewRouter(navService *navigation.Service, rebalanceService *rebalance.Service) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	sessions := handlers.NewSessionHandler(navService)
	api := r.Group("/api")
	api.POST("/sessions/:driverID/start", sessions.Start)
	api.DELETE("/sessions/:driverID", sessions.End)
	api.GET("/sessions/:driverID/route", sessions.Route)
	api.POST("/sessions/:driverID/recompute", sessions.Recompute)
	api.POST("/sessions/:driverID/position", sessions.Position)
	api.POST("/sessions/:driverID/reset", sessions.ResetStops)
	api.POST("/sessions/:driverID/focus/:stopID", sessions.NarrowToStop)
	api.POST("/sessions/:driverID/complete/:stopID", sessions.CompleteStop)
	api.POST("/sessions/:driverID/payment/:stopID", sessions.RegisterPayment)

	reb := handlers.NewRebalanceHandler(rebalanceService)
	api.POST("/rebalance/simulate", reb.Simulate)
	api.POST("/rebalance/apply", reb.Apply)
	api.GET("/rebalance/override/:routeID", reb.Override)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
