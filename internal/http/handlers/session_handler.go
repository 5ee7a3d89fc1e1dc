// README: Navigation session handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rota/internal/modules/navigation"
	"rota/internal/types"
)

type SessionHandler struct {
	nav *navigation.Service
}

func NewSessionHandler(nav *navigation.Service) *SessionHandler {
	return &SessionHandler{nav: nav}
}

type stopRequest struct {
	ID       string  `json:"id" binding:"required"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Customer string  `json:"customer"`
	Address  string  `json:"address"`
	Notes    string  `json:"notes"`
}

type startRequest struct {
	// Stops is optional; without it the driver's pending deliveries are
	// loaded from the backend.
	Stops []stopRequest `json:"stops"`
}

// Start opens (or replaces) the driver's navigation session and computes
// the first route.
func (h *SessionHandler) Start(c *gin.Context) {
	driverID := types.ID(c.Param("driverID"))

	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		writeError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	stops := make([]navigation.Stop, 0, len(req.Stops))
	for _, s := range req.Stops {
		stops = append(stops, navigation.Stop{
			ID:    types.ID(s.ID),
			Point: types.Point{Lat: s.Lat, Lng: s.Lng},
			Delivery: &navigation.Delivery{
				ID:       types.ID(s.ID),
				Customer: s.Customer,
				Address:  s.Address,
				Point:    types.Point{Lat: s.Lat, Lng: s.Lng},
				Notes:    s.Notes,
			},
		})
	}

	sess, err := h.nav.Start(c.Request.Context(), driverID, stops)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	if err := sess.RecomputeRoute(c.Request.Context()); err != nil {
		// The session exists either way; report the state with the error.
		writeSnapshot(c, http.StatusOK, sess.Snapshot())
		return
	}
	writeSnapshot(c, http.StatusCreated, sess.Snapshot())
}

func (h *SessionHandler) Recompute(c *gin.Context) {
	sess, err := h.nav.Get(types.ID(c.Param("driverID")))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	if err := sess.RecomputeRoute(c.Request.Context()); err != nil {
		writeSessionError(c, err)
		return
	}
	writeSnapshot(c, http.StatusOK, sess.Snapshot())
}

func (h *SessionHandler) Route(c *gin.Context) {
	sess, err := h.nav.Get(types.ID(c.Param("driverID")))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeSnapshot(c, http.StatusOK, sess.Snapshot())
}

type positionRequest struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *SessionHandler) Position(c *gin.Context) {
	sess, err := h.nav.Get(types.ID(c.Param("driverID")))
	if err != nil {
		writeSessionError(c, err)
		return
	}

	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	if err := sess.OnLivePosition(c.Request.Context(), navigation.LivePosition{
		Point:          types.Point{Lat: req.Lat, Lng: req.Lng},
		AccuracyMeters: req.Accuracy,
		Timestamp:      ts,
	}); err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *SessionHandler) CompleteStop(c *gin.Context) {
	sess, err := h.nav.Get(types.ID(c.Param("driverID")))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	if err := sess.CompleteStop(c.Request.Context(), types.ID(c.Param("stopID"))); err != nil {
		writeSessionError(c, err)
		return
	}
	writeSnapshot(c, http.StatusOK, sess.Snapshot())
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method" binding:"required"`
}

func (h *SessionHandler) RegisterPayment(c *gin.Context) {
	sess, err := h.nav.Get(types.ID(c.Param("driverID")))
	if err != nil {
		writeSessionError(c, err)
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	if err := sess.RegisterPayment(c.Request.Context(), types.ID(c.Param("stopID")), req.Amount, req.Method); err != nil {
		writeSessionError(c, err)
		return
	}
	writeSnapshot(c, http.StatusOK, sess.Snapshot())
}

func (h *SessionHandler) NarrowToStop(c *gin.Context) {
	sess, err := h.nav.Get(types.ID(c.Param("driverID")))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	if err := sess.NarrowToSingleStop(c.Request.Context(), types.ID(c.Param("stopID"))); err != nil {
		writeSessionError(c, err)
		return
	}
	writeSnapshot(c, http.StatusOK, sess.Snapshot())
}

func (h *SessionHandler) ResetStops(c *gin.Context) {
	sess, err := h.nav.Get(types.ID(c.Param("driverID")))
	if err != nil {
		writeSessionError(c, err)
		return
	}
	if err := sess.ResetToAllStops(c.Request.Context()); err != nil {
		writeSessionError(c, err)
		return
	}
	writeSnapshot(c, http.StatusOK, sess.Snapshot())
}

func (h *SessionHandler) End(c *gin.Context) {
	if err := h.nav.End(types.ID(c.Param("driverID"))); err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ended"})
}

// --- response shaping ---

type stopResponse struct {
	ID       string       `json:"id"`
	Point    pointPayload `json:"point"`
	Customer string       `json:"customer,omitempty"`
	Address  string       `json:"address,omitempty"`
	Notes    string       `json:"notes,omitempty"`
}

type pointPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type snapshotResponse struct {
	DriverID    string         `json:"driver_id"`
	AllStops    []stopResponse `json:"all_stops"`
	ActiveStops []stopResponse `json:"active_stops"`
	Position    *pointPayload  `json:"position,omitempty"`
	Ordered     []stopResponse `json:"ordered_stops,omitempty"`
	Polyline    []pointPayload `json:"polyline,omitempty"`
	Routing     bool           `json:"routing"`
	LastError   string         `json:"last_error,omitempty"`
}

func writeSnapshot(c *gin.Context, status int, snap navigation.Snapshot) {
	resp := snapshotResponse{
		DriverID:    string(snap.DriverID),
		AllStops:    toStopResponses(snap.AllStops),
		ActiveStops: toStopResponses(snap.ActiveStops),
		Routing:     snap.Routing,
		LastError:   snap.LastError,
	}
	if snap.Position != nil {
		resp.Position = &pointPayload{Lat: snap.Position.Point.Lat, Lng: snap.Position.Point.Lng}
	}
	if snap.Plan != nil {
		resp.Ordered = toStopResponses(snap.Plan.OrderedStops)
		resp.Polyline = make([]pointPayload, 0, len(snap.Plan.Polyline))
		for _, p := range snap.Plan.Polyline {
			resp.Polyline = append(resp.Polyline, pointPayload{Lat: p.Lat, Lng: p.Lng})
		}
	}
	writeJSON(c, status, resp)
}

func toStopResponses(stops []navigation.Stop) []stopResponse {
	out := make([]stopResponse, 0, len(stops))
	for _, st := range stops {
		r := stopResponse{
			ID:    string(st.ID),
			Point: pointPayload{Lat: st.Point.Lat, Lng: st.Point.Lng},
		}
		if st.Delivery != nil {
			r.Customer = st.Delivery.Customer
			r.Address = st.Delivery.Address
			r.Notes = st.Delivery.Notes
		}
		out = append(out, r)
	}
	return out
}
