package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"parking-reservation/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

const (
	SignatureHeader    = "X-Payment-Signature"
	signaturePrefix    = "sha256="
	maxWebhookBodySize = 64 << 10
)

var errBadSignature = errors.New("webhook signature mismatch")

// Sign returns the header value a payment provider sends for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// RequireSignature verifies the HMAC of the raw body and restores it for binding.
func RequireSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodySize))
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unable to read request body", nil)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		got := strings.TrimSpace(c.GetHeader(SignatureHeader))
		if secret == "" || !strings.HasPrefix(got, signaturePrefix) ||
			!hmac.Equal([]byte(got), []byte(Sign(secret, body))) {
			httperr.AbortWithError(c, http.StatusUnauthorized, errBadSignature, "Invalid webhook signature", nil)
			return
		}

		c.Next()
	}
}
