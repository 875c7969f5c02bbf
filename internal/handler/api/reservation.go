package api

import (
	"errors"
	"net/http"

	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/handler/httperr"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const IdempotencyKeyHeader = "Idempotency-Key"

var errInvalidIdempotencyKey = errors.New("invalid idempotency key format")

type ReservationHandler struct {
	cmds     commands.ReservationCommands
	charges  commands.ChargeCommands
	q        queries.ReservationQueries
	overstay queries.OverstayQueries
}

func NewReservationHandler(
	cmds commands.ReservationCommands,
	charges commands.ChargeCommands,
	q queries.ReservationQueries,
	overstay queries.OverstayQueries,
) *ReservationHandler {
	return &ReservationHandler{
		cmds:     cmds,
		charges:  charges,
		q:        q,
		overstay: overstay,
	}
}

// @Summary Create reservation
// @Description Book a parking spot for a time window. Retries with the same Idempotency-Key replay the first result.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID idempotency key"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Idempotency-Key must be a UUID", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondBindError(c, bindErr)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req, actor, idempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.ReservationEnvelope{
		Reservation: resdto.FromReservation(result.Reservation),
		Replayed:    result.IsReplayed,
	})
}

// @Summary Get reservation
// @Description Get a reservation by ID; drivers only see their own
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ReservationEnvelope{Reservation: resdto.FromReservationView(view)})
}

// @Summary List own reservations
// @Description Newest first with keyset pagination
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20, max 100)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) GetUserReservations(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	var req reqdto.ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var cursor *queries.Cursor
	if req.After != "" {
		cursor = &queries.Cursor{After: req.After}
	}

	items, next, err := h.q.ListByUser(c.Request.Context(), actor, cursor, req.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationList(items, next))
}

// @Summary Cancel reservation
// @Description Owners may cancel before the start time; admins at any time
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationEnvelope
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	res, err := h.cmds.Cancel(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ReservationEnvelope{Reservation: resdto.FromReservation(res)})
}

// @Summary Check out
// @Description Complete a confirmed reservation and stop the overstay clock
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationEnvelope
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/checkout [post]
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	res, err := h.cmds.CheckOut(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ReservationEnvelope{Reservation: resdto.FromReservation(res)})
}

// @Summary Redeem QR token
// @Description Gate staff scan a reservation QR code on arrival
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RedeemRequest true "QR token"
// @Success 200 {object} resdto.ReservationEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/redeem [post]
func (h *ReservationHandler) Redeem(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	var req reqdto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.cmds.Redeem(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ReservationEnvelope{Reservation: resdto.FromReservation(res)})
}

// @Summary Settle overstay charge
// @Description Record the paid overstay charge. The server recomputes the amount; a second submission returns the first charge.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.AdditionalChargeRequest true "Charge request"
// @Success 200 {object} resdto.AdditionalChargeResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/additional-charge [post]
func (h *ReservationHandler) AdditionalCharge(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	var req reqdto.AdditionalChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.charges.SettleOverstay(c.Request.Context(), id, req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.AdditionalChargeResponse{
		Charge:   resdto.FromCharge(result.Charge),
		Replayed: result.IsReplayed,
	})
}

// @Summary Overstay status
// @Description Server-side overstay evaluation for the reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.OverstayResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/overstay [get]
func (h *ReservationHandler) Overstay(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}

	view, err := h.overstay.Evaluate(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOverstayView(view))
}

// getIdempotencyKey returns nil when the header is absent.
func getIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	keyStr := c.GetHeader(IdempotencyKeyHeader)
	if keyStr == "" {
		return nil, nil
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return nil, errInvalidIdempotencyKey
	}

	return &key, nil
}

func actorAndID(c *gin.Context) (actor shared.Actor, id uuid.UUID, ok bool) {
	actor, ok = middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return actor, uuid.Nil, false
	}

	id, ok = parseUUIDParam(c, "id")
	return actor, id, ok
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}
