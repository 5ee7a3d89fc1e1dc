// README: Rebalance handlers (simulate, apply, override lookup).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rota/internal/modules/rebalance"
	"rota/internal/types"
)

type RebalanceHandler struct {
	rebalance *rebalance.Service
}

func NewRebalanceHandler(svc *rebalance.Service) *RebalanceHandler {
	return &RebalanceHandler{rebalance: svc}
}

type rebalanceStop struct {
	ID  string  `json:"id" binding:"required"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type rebalanceRequest struct {
	TargetRouteID string          `json:"target_route_id" binding:"required"`
	TargetStops   []rebalanceStop `json:"target_stops" binding:"required"`
	DestAStops    []rebalanceStop `json:"dest_a_stops"`
	DestCStops    []rebalanceStop `json:"dest_c_stops"`
	CapacityA     *float64        `json:"capacity_a"`
	CapacityC     *float64        `json:"capacity_c"`
	Alpha         float64         `json:"alpha"`
}

type rebalanceResponse struct {
	AssignedToA []rebalanceStop   `json:"assigned_to_a"`
	AssignedToC []rebalanceStop   `json:"assigned_to_c"`
	Summary     rebalance.Summary `json:"summary"`
	Applied     bool              `json:"applied"`
}

func (h *RebalanceHandler) Simulate(c *gin.Context) {
	req, ok := bindRebalanceRequest(c)
	if !ok {
		return
	}
	res := h.rebalance.Simulate(req)
	writeJSON(c, http.StatusOK, toRebalanceResponse(res, false))
}

func (h *RebalanceHandler) Apply(c *gin.Context) {
	req, ok := bindRebalanceRequest(c)
	if !ok {
		return
	}
	res, err := h.rebalance.Apply(c.Request.Context(), req)
	if err != nil {
		writeError(c, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, toRebalanceResponse(res, true))
}

func (h *RebalanceHandler) Override(c *gin.Context) {
	override, err := h.rebalance.Override(c.Request.Context(), c.Param("routeID"))
	if err != nil {
		writeError(c, http.StatusBadGateway, err.Error())
		return
	}
	if override == nil {
		writeError(c, http.StatusNotFound, "no override for today")
		return
	}
	writeJSON(c, http.StatusOK, override)
}

func bindRebalanceRequest(c *gin.Context) (rebalance.Request, bool) {
	var body rebalanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return rebalance.Request{}, false
	}
	return rebalance.Request{
		TargetRouteID: types.ID(body.TargetRouteID),
		TargetStops:   toRebalanceStops(body.TargetStops),
		DestAStops:    toRebalanceStops(body.DestAStops),
		DestCStops:    toRebalanceStops(body.DestCStops),
		CapacityA:     body.CapacityA,
		CapacityC:     body.CapacityC,
		Alpha:         body.Alpha,
	}, true
}

func toRebalanceStops(in []rebalanceStop) []rebalance.Stop {
	out := make([]rebalance.Stop, 0, len(in))
	for _, s := range in {
		out = append(out, rebalance.Stop{
			ID:    types.ID(s.ID),
			Point: types.Point{Lat: s.Lat, Lng: s.Lng},
		})
	}
	return out
}

func toRebalanceResponse(res rebalance.Result, applied bool) rebalanceResponse {
	return rebalanceResponse{
		AssignedToA: fromRebalanceStops(res.AssignedToA),
		AssignedToC: fromRebalanceStops(res.AssignedToC),
		Summary:     res.Summary,
		Applied:     applied,
	}
}

func fromRebalanceStops(in []rebalance.Stop) []rebalanceStop {
	out := make([]rebalanceStop, 0, len(in))
	for _, s := range in {
		out = append(out, rebalanceStop{ID: string(s.ID), Lat: s.Point.Lat, Lng: s.Point.Lng})
	}
	return out
}
