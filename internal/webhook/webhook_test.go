package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/logger"
)

type fakeDispatcher struct {
	orderStatus string
	recovery    string
}

func (f *fakeDispatcher) HandleOrder(ctx context.Context, event Event) (string, string, error) {
	return f.orderStatus, "athlete-123", nil
}

func (f *fakeDispatcher) HandleRecovery(ctx context.Context, event Event) (string, error) {
	return f.recovery, nil
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r, "/webhook")
	return r
}

func TestHandleOrderSucceedsInTestMode(t *testing.T) {
	h := &Handler{TestMode: true, Dispatcher: &fakeDispatcher{orderStatus: "success"}, Log: logger.New(logger.LevelInfo)}
	r := newTestRouter(h)

	body, _ := json.Marshal(Event{ID: "evt-1", Type: "checkout.session.completed"})
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleRejectsBadSignatureOutsideTestMode(t *testing.T) {
	h := &Handler{Secret: "shh", TestMode: false, Dispatcher: &fakeDispatcher{orderStatus: "success"}, Log: logger.New(logger.LevelInfo)}
	r := newTestRouter(h)

	body, _ := json.Marshal(Event{ID: "evt-2"})
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Webhook-Signature", "bad")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleRecoveryIgnoredWithoutConsent(t *testing.T) {
	h := &Handler{TestMode: true, Dispatcher: &fakeDispatcher{recovery: "recovery_sent"}, Log: logger.New(logger.LevelInfo)}
	r := newTestRouter(h)

	body, _ := json.Marshal(Event{ID: "evt-3", Type: "checkout.session.expired", Metadata: Metadata{PromoConsent: false}})
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "ignored", resp["status"])
}
