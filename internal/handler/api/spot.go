package api

import (
	"errors"
	"net/http"

	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/handler/httperr"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errEmptyPatch = errors.New("no fields to update")

type SpotHandler struct {
	cmds commands.SpotCommands
	q    queries.SpotQueries
}

func NewSpotHandler(cmds commands.SpotCommands, q queries.SpotQueries) *SpotHandler {
	return &SpotHandler{cmds: cmds, q: q}
}

// @Summary List locations
// @Tags locations
// @Produce json
// @Success 200 {array} resdto.LocationResponse
// @Router /locations [get]
func (h *SpotHandler) ListLocations(c *gin.Context) {
	views, err := h.q.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := resdto.FromLocationViews(views)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary List spots at a location
// @Tags locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {array} resdto.SpotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /locations/{id}/spots [get]
func (h *SpotHandler) ListSpots(c *gin.Context) {
	locationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	views, err := h.q.ListSpots(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := resdto.FromSpotViews(views)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get spot
// @Tags spots
// @Produce json
// @Param id path string true "Spot ID"
// @Success 200 {object} resdto.SpotResponse
// @Failure 404 {object} httperr.Response
// @Router /spots/{id} [get]
func (h *SpotHandler) GetSpot(c *gin.Context) {
	spotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.q.GetSpot(c.Request.Context(), spotID)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := resdto.FromSpotView(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Check spot availability
// @Description Read-only probe with the same window rules and conflict search as booking, plus a price quote
// @Tags spots
// @Produce json
// @Param id path string true "Spot ID"
// @Param start query string true "Window start (RFC3339)"
// @Param end query string true "Window end (RFC3339)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /spots/{id}/availability [get]
func (h *SpotHandler) Availability(c *gin.Context) {
	spotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.q.CheckAvailability(c.Request.Context(), spotID, req.Start, req.End)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Create location
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateLocationRequest true "Location"
// @Success 201 {object} resdto.LocationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/locations [post]
func (h *SpotHandler) CreateLocation(c *gin.Context) {
	var req reqdto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	loc, err := h.cmds.CreateLocation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromLocation(loc))
}

// @Summary Create spot
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Param request body reqdto.CreateSpotRequest true "Spot"
// @Success 201 {object} resdto.SpotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/locations/{id}/spots [post]
func (h *SpotHandler) CreateSpot(c *gin.Context) {
	locationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.CreateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.cmds.CreateSpot(c.Request.Context(), locationID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSpot(created))
}

// @Summary Update spot
// @Description Change the hourly rate or take the spot in or out of service
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Param request body reqdto.UpdateSpotRequest true "Fields to change"
// @Success 200 {object} resdto.SpotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/spots/{id} [patch]
func (h *SpotHandler) UpdateSpot(c *gin.Context) {
	spotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.IsEmpty() {
		httperr.AbortWithError(c, http.StatusBadRequest, errEmptyPatch, "At least one of hourlyRateCents or inService is required", nil)
		return
	}

	updated, err := h.cmds.UpdateSpot(c.Request.Context(), spotID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSpot(updated))
}
