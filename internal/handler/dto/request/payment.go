package request

import "github.com/google/uuid"

const (
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// PaymentWebhookRequest is the provider callback body; its signature is checked by middleware.
type PaymentWebhookRequest struct {
	ReservationID uuid.UUID `json:"reservationId" binding:"required"`
	PaymentID     string    `json:"paymentId" binding:"required,notblank,max=128"`
	Status        string    `json:"status" binding:"required,oneof=succeeded failed"`
}
