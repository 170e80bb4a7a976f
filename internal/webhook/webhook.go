// Package webhook implements the HTTPS intake endpoint that receives
// purchase events from the payment platform: signature verification,
// payload parsing, and routing into the dispatch layer, which does the
// idempotency marking.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cyclecoach/engine/internal/logger"
)

// ProductType is one of the three order types the webhook routes.
type ProductType string

const (
	ProductTrainingPlan ProductType = "training_plan"
	ProductCoaching     ProductType = "coaching"
	ProductConsulting   ProductType = "consulting"
)

// CustomerDetails carries the purchaser's identity from the payment
// platform's payload.
type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Metadata carries the product-specific fields attached to the checkout
// session.
type Metadata struct {
	ProductType  ProductType `json:"product_type"`
	Tier         string      `json:"tier"`
	IntakeID     string      `json:"intake_id"`
	Weeks        int         `json:"weeks"`
	PriceCents   int         `json:"price_cents"`
	AthleteName  string      `json:"athlete_name"`
	RecoveryURL  string      `json:"recovery_url"`
	PromoConsent bool        `json:"promotional_consent"`
}

// Event is the parsed webhook payload.
type Event struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	Metadata        Metadata        `json:"metadata"`
}

const (
	eventCheckoutCompleted = "checkout.session.completed"
	eventCheckoutExpired   = "checkout.session.expired"
)

// Dispatcher is the minimal contract the handler needs from the dispatch
// layer: idempotency-gated, rate-limited pipeline execution.
type Dispatcher interface {
	HandleOrder(ctx context.Context, event Event) (status string, athleteID string, err error)
	HandleRecovery(ctx context.Context, event Event) (status string, err error)
}

// Handler wires the gin route to signature verification and dispatch.
type Handler struct {
	Secret     string
	TestMode   bool
	Dispatcher Dispatcher
	Log        *logger.Logger
}

// Register attaches the webhook route to engine.
func (h *Handler) Register(engine *gin.Engine, path string) {
	engine.POST(path, h.handle)
}

func (h *Handler) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "could not read body"})
		return
	}

	if h.Secret != "" && !h.TestMode {
		sig := c.GetHeader("X-Webhook-Signature")
		if !verifySignature(h.Secret, body, sig) {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid signature"})
			return
		}
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil || event.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid payload"})
		return
	}

	switch event.Type {
	case eventCheckoutExpired:
		h.handleRecovery(c, event)
	default:
		h.handleOrder(c, event)
	}
}

func (h *Handler) handleOrder(c *gin.Context, event Event) {
	status, athleteID, err := h.Dispatcher.HandleOrder(c.Request.Context(), event)
	if err != nil {
		h.Log.Error("webhook order dispatch failed", map[string]interface{}{"event_id": event.ID, "error": err})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	resp := gin.H{"status": status}
	if athleteID != "" {
		resp["athlete_id"] = athleteID
	}
	c.JSON(statusCodeFor(status), resp)
}

func (h *Handler) handleRecovery(c *gin.Context, event Event) {
	if !event.Metadata.PromoConsent || event.Metadata.RecoveryURL == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	status, err := h.Dispatcher.HandleRecovery(c.Request.Context(), event)
	if err != nil {
		h.Log.Error("webhook recovery dispatch failed", map[string]interface{}{"event_id": event.ID, "error": err})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func statusCodeFor(status string) int {
	switch status {
	case "success", "duplicate", "ignored", "recovery_sent":
		return http.StatusOK
	case "rate_limited":
		return http.StatusTooManyRequests
	default:
		return http.StatusOK
	}
}

func verifySignature(secret string, body []byte, sigHeader string) bool {
	sigHeader = strings.TrimSpace(sigHeader)
	if sigHeader == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sigHeader))
}
