package api

import (
	"net/http"

	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
}

func NewPaymentHandler(cmds commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds}
}

// @Summary Payment provider webhook
// @Description Signed with HMAC-SHA256 of the raw body in X-Payment-Signature ("sha256=<hex>")
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Payment-Signature header string true "sha256=<hex>"
// @Param request body reqdto.PaymentWebhookRequest true "Payment outcome"
// @Success 200 {object} resdto.ReservationEnvelope
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req reqdto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.cmds.HandleWebhook(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ReservationEnvelope{Reservation: resdto.FromReservation(res)})
}
