package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jp.promiseasync.commboard/internal/push"
)

func decodeResult(t *testing.T, body []byte) push.Result {
	t.Helper()
	var res push.Result
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("failed to parse response %s: %v", body, err)
	}
	return res
}

func TestSendNotificationReportsCounts(t *testing.T) {
	store := push.NewMemoryStore()
	seedStore(t, store, 3)
	router := setupPushRoutes(t, store, stubSender{status: http.StatusCreated})

	w := postJSON(t, router, "/api/v1/push/send", `{"title":"X","message":"Y"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	res := decodeResult(t, w.Body.Bytes())
	if res.Delivered != 3 || res.Failed != 0 || res.Total != 3 {
		t.Errorf("result = %+v, want delivered=3 failed=0 total=3", res)
	}
}

func TestSendNotificationEmptyStore(t *testing.T) {
	router := setupPushRoutes(t, push.NewMemoryStore(), stubSender{status: http.StatusCreated})

	w := postJSON(t, router, "/api/v1/push/send", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	res := decodeResult(t, w.Body.Bytes())
	if res.Delivered != 0 || res.Failed != 0 || res.Total != 0 {
		t.Errorf("result = %+v, want all zero", res)
	}
}

func TestSendNotificationToleratesMissingBody(t *testing.T) {
	store := push.NewMemoryStore()
	seedStore(t, store, 1)
	router := setupPushRoutes(t, store, stubSender{status: http.StatusCreated})

	w := postJSON(t, router, "/api/v1/push/send", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	res := decodeResult(t, w.Body.Bytes())
	if res.Delivered != 1 {
		t.Errorf("delivered = %d, want 1", res.Delivered)
	}
}

func TestSendNotificationAbsorbsDeliveryFailures(t *testing.T) {
	store := push.NewMemoryStore()
	seedStore(t, store, 2)
	router := setupPushRoutes(t, store, stubSender{
		status: http.StatusInternalServerError,
		err:    errors.New("push service unavailable"),
	})

	w := postJSON(t, router, "/api/v1/push/send", `{"title":"X"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when every delivery fails", w.Code)
	}

	res := decodeResult(t, w.Body.Bytes())
	if res.Delivered != 0 || res.Failed != 2 || res.Total != 2 {
		t.Errorf("result = %+v, want delivered=0 failed=2 total=2", res)
	}
}

// brokenStore simulates an unreachable subscription store.
type brokenStore struct{}

func (brokenStore) ListAll(context.Context) ([]push.Subscription, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) Upsert(context.Context, push.Subscription) error {
	return errors.New("connection refused")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("connection refused") }

func TestSendNotificationStoreFailure(t *testing.T) {
	router := setupPushRoutes(t, brokenStore{}, stubSender{status: http.StatusCreated})

	w := postJSON(t, router, "/api/v1/push/send", `{"title":"X"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when the store read fails", w.Code)
	}
}

func TestSendNotificationMissingConfig(t *testing.T) {
	store := push.NewMemoryStore()
	seedStore(t, store, 1)

	logger := zap.NewNop().Sugar()
	notifier := push.NewNotifier(store, stubSender{status: http.StatusCreated}, push.Config{}, logger)
	trigger := NewNotificationTrigger(notifier, nil, logger)
	ns := NewNotificationsHandler(store, notifier, trigger, push.Config{}, nil, nil, logger)

	router := gin.New()
	router.POST("/api/v1/push/send", ns.SendNotification)

	w := postJSON(t, router, "/api/v1/push/send", `{"title":"X"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when credentials are missing", w.Code)
	}
}
