// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rota/internal/modules/navigation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeSessionError maps navigation sentinel errors to HTTP statuses. None
// of them are fatal to the session; the client decides whether to retry.
func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, navigation.ErrSessionNotFound),
		errors.Is(err, navigation.ErrStopNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, navigation.ErrInvalidAmount),
		errors.Is(err, navigation.ErrInvalidCoordinate):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, navigation.ErrNoValidStops):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, navigation.ErrRoutingTimeout):
		writeError(c, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, navigation.ErrRoutingProvider),
		errors.Is(err, navigation.ErrActionFailed):
		writeError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, navigation.ErrSessionClosed):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
