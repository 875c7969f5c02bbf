package api

import (
	"log/slog"
	"net/http"
	"strings"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/handler/httperr"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/handler/validation"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is ordered; the first matching target wins.
var errorMappings = []errorMapping{
	{commands.ErrInvalidWindow, http.StatusBadRequest, httperr.CodeValidation, "Invalid reservation window"},
	{queries.ErrInvalidWindow, http.StatusBadRequest, httperr.CodeValidation, "Invalid reservation window"},
	{commands.ErrPriceMismatch, http.StatusBadRequest, httperr.CodeValidation, "Submitted price does not match the quoted price"},
	{commands.ErrNotOverstayed, http.StatusBadRequest, httperr.CodeValidation, "Reservation has not exceeded its end time"},
	{commands.ErrInvalidQRToken, http.StatusBadRequest, httperr.CodeValidation, "Invalid QR token"},
	{commands.ErrInvalidLocation, http.StatusBadRequest, httperr.CodeValidation, "Invalid location data"},
	{commands.ErrInvalidSpot, http.StatusBadRequest, httperr.CodeValidation, "Invalid parking spot data"},
	{queries.ErrInvalidCursor, http.StatusBadRequest, httperr.CodeValidation, "Invalid pagination cursor"},

	{commands.ErrAuthenticationFailed, http.StatusBadRequest, httperr.CodeValidation, "Invalid email or password format"},
	{commands.ErrInvalidCredentials, http.StatusUnauthorized, httperr.CodeUnauthorized, "Invalid email or password"},
	{commands.ErrUserNotFound, http.StatusUnauthorized, httperr.CodeUnauthorized, "Invalid email or password"},
	{commands.ErrUserInactive, http.StatusForbidden, httperr.CodeForbidden, "Account is inactive"},
	{queries.ErrUserInactive, http.StatusForbidden, httperr.CodeForbidden, "Account is inactive"},
	{queries.ErrUserNotFound, http.StatusNotFound, httperr.CodeNotFound, "User not found"},

	{commands.ErrReservationAccess, http.StatusForbidden, httperr.CodeForbidden, "You are not allowed to act on this reservation"},
	{queries.ErrReservationAccess, http.StatusForbidden, httperr.CodeForbidden, "You are not allowed to view this reservation"},

	{commands.ErrSpotNotFound, http.StatusNotFound, httperr.CodeNotFound, "Parking spot not found"},
	{queries.ErrSpotNotFound, http.StatusNotFound, httperr.CodeNotFound, "Parking spot not found"},
	{commands.ErrLocationNotFound, http.StatusNotFound, httperr.CodeNotFound, "Location not found"},
	{queries.ErrLocationNotFound, http.StatusNotFound, httperr.CodeNotFound, "Location not found"},
	{commands.ErrReservationNotFound, http.StatusNotFound, httperr.CodeNotFound, "Reservation not found"},
	{queries.ErrReservationNotFound, http.StatusNotFound, httperr.CodeNotFound, "Reservation not found"},

	{commands.ErrReservationConflict, http.StatusConflict, httperr.CodeConflict, "A reservation already exists for this spot in the selected window"},
	{commands.ErrSpotUnavailable, http.StatusConflict, httperr.CodeSpotUnavailable, "Parking spot is not available for booking"},
	{commands.ErrDuplicateRequest, http.StatusConflict, httperr.CodeConflict, "Idempotency key was already used with a different request"},
	{commands.ErrIdempotencyInProgress, http.StatusConflict, httperr.CodeConflict, "Reservation request is currently being processed"},
	{commands.ErrRedeemOutsideWindow, http.StatusConflict, httperr.CodeConflict, "Reservation can only be redeemed from 15 minutes before start until its end"},
	{commands.ErrInvalidTransition, http.StatusConflict, httperr.CodeConflict, "Reservation status does not allow this action"},
	{commands.ErrNotBillable, http.StatusConflict, httperr.CodeConflict, "Reservation cannot be charged in its current status"},
	{commands.ErrSpotNumberTaken, http.StatusConflict, httperr.CodeConflict, "Spot number already exists at this location"},
	{commands.ErrEmailTaken, http.StatusConflict, httperr.CodeConflict, "Email is already registered"},
}

// respondError translates a usecase error into the JSON error body exactly once per request.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errs.Is(err, m.target) {
			message, detail := m.message, any(nil)
			if violations := windowViolations(err); len(violations) > 0 {
				message += ": " + strings.Join(violations, "; ")
				detail = gin.H{"violations": violations}
			}
			httperr.AbortWithCode(c, m.status, m.code, err, message, detail)
			return
		}
	}

	slog.Error("unhandled error",
		"error", err,
		"path", c.Request.URL.Path,
		"request_id", middleware.GetRequestID(c),
		"stack", errs.ExtractStackLines(err, 12),
	)
	httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeInternal, err, "Internal server error", nil)
}

func respondBindError(c *gin.Context, err error) {
	var detail any
	if fields := validation.Detail(err); len(fields) > 0 {
		detail = fields
	}
	httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeValidation, err, "Invalid request format", detail)
}

// windowViolations returns every broken window rule carried by err, if any.
func windowViolations(err error) []string {
	var verr *reservation.ValidationError
	if errs.As(err, &verr) {
		return verr.Violations
	}
	return nil
}
