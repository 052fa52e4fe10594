package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jp.promiseasync.commboard/internal/push"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var handlerTestConfig = push.Config{
	Subject:         "mailto:board@example.com",
	VAPIDPublicKey:  "test-public-key",
	VAPIDPrivateKey: "test-private-key",
	TTL:             60,
}

// stubSender answers every delivery attempt with a fixed outcome.
type stubSender struct {
	status int
	err    error
}

func (s stubSender) Send(context.Context, push.Subscription, []byte) (int, error) {
	return s.status, s.err
}

// setupPushRoutes builds a router with the push endpoints over the given
// store and sender, bypassing auth the way tests do.
func setupPushRoutes(t *testing.T, store push.SubscriptionStore, sender push.Sender) *gin.Engine {
	t.Helper()

	logger := zap.NewNop().Sugar()
	notifier := push.NewNotifier(store, sender, handlerTestConfig, logger)
	trigger := NewNotificationTrigger(notifier, nil, logger)
	ns := NewNotificationsHandler(store, notifier, trigger, handlerTestConfig, nil, nil, logger)

	router := gin.New()
	api := router.Group("/api/v1/push")
	{
		api.GET("/public-key", ns.GetVAPIDPublicKey)
		api.POST("/subscribe", ns.Subscribe)
		api.POST("/send", ns.SendNotification)
	}
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubscribeRegistersSubscription(t *testing.T) {
	store := push.NewMemoryStore()
	router := setupPushRoutes(t, store, stubSender{status: http.StatusCreated})

	body := `{"endpoint":"https://push.example.com/sub-a","keys":{"p256dh":"pk","auth":"ak"},"user_short_id":"alice"}`
	w := postJSON(t, router, "/api/v1/push/subscribe", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	subs, _ := store.ListAll(context.Background())
	if len(subs) != 1 {
		t.Fatalf("store has %d rows, want 1", len(subs))
	}
	if subs[0].OwnerShortID != "alice" {
		t.Errorf("owner = %q, want %q", subs[0].OwnerShortID, "alice")
	}
}

func TestSubscribeIsIdempotent(t *testing.T) {
	store := push.NewMemoryStore()
	router := setupPushRoutes(t, store, stubSender{status: http.StatusCreated})

	body := `{"endpoint":"https://push.example.com/sub-a","keys":{"p256dh":"pk","auth":"ak"}}`
	for i := 0; i < 2; i++ {
		if w := postJSON(t, router, "/api/v1/push/subscribe", body); w.Code != http.StatusOK {
			t.Fatalf("registration %d: status = %d", i, w.Code)
		}
	}

	subs, _ := store.ListAll(context.Background())
	if len(subs) != 1 {
		t.Errorf("store has %d rows after duplicate registration, want 1", len(subs))
	}
}

func TestSubscribeAcceptsCamelCaseOwnerSpelling(t *testing.T) {
	store := push.NewMemoryStore()
	router := setupPushRoutes(t, store, stubSender{status: http.StatusCreated})

	body := `{"endpoint":"https://push.example.com/sub-a","keys":{"p256dh":"pk","auth":"ak"},"userShortId":"bob"}`
	if w := postJSON(t, router, "/api/v1/push/subscribe", body); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	subs, _ := store.ListAll(context.Background())
	if subs[0].OwnerShortID != "bob" {
		t.Errorf("owner = %q, want %q", subs[0].OwnerShortID, "bob")
	}
}

func TestSubscribePreservesOwnerOnAnonymousReRegistration(t *testing.T) {
	store := push.NewMemoryStore()
	router := setupPushRoutes(t, store, stubSender{status: http.StatusCreated})

	withOwner := `{"endpoint":"https://push.example.com/sub-a","keys":{"p256dh":"pk","auth":"ak"},"user_short_id":"alice"}`
	if w := postJSON(t, router, "/api/v1/push/subscribe", withOwner); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	anonymous := `{"endpoint":"https://push.example.com/sub-a","keys":{"p256dh":"pk","auth":"ak"}}`
	if w := postJSON(t, router, "/api/v1/push/subscribe", anonymous); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	subs, _ := store.ListAll(context.Background())
	if len(subs) != 1 {
		t.Fatalf("store has %d rows, want 1", len(subs))
	}
	if subs[0].OwnerShortID != "alice" {
		t.Errorf("owner = %q after anonymous re-registration, want %q", subs[0].OwnerShortID, "alice")
	}
}

func TestSubscribeRejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing endpoint", body: `{"keys":{"p256dh":"pk","auth":"ak"}}`},
		{name: "missing p256dh", body: `{"endpoint":"https://e","keys":{"auth":"ak"}}`},
		{name: "missing auth", body: `{"endpoint":"https://e","keys":{"p256dh":"pk"}}`},
		{name: "empty body", body: `{}`},
		{name: "not json", body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := push.NewMemoryStore()
			router := setupPushRoutes(t, store, stubSender{status: http.StatusCreated})

			w := postJSON(t, router, "/api/v1/push/subscribe", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}

			subs, _ := store.ListAll(context.Background())
			if len(subs) != 0 {
				t.Errorf("invalid payload wrote %d rows, want 0", len(subs))
			}
		})
	}
}

func TestGetVAPIDPublicKey(t *testing.T) {
	router := setupPushRoutes(t, push.NewMemoryStore(), stubSender{status: http.StatusCreated})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/push/public-key", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["publicKey"] != handlerTestConfig.VAPIDPublicKey {
		t.Errorf("publicKey = %q, want %q", resp["publicKey"], handlerTestConfig.VAPIDPublicKey)
	}
}

func seedStore(t *testing.T, store *push.MemoryStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := store.Upsert(context.Background(), push.Subscription{
			Endpoint: fmt.Sprintf("https://push.example.com/sub-%d", i),
			P256dh:   "pk",
			Auth:     "ak",
		})
		if err != nil {
			t.Fatalf("failed to seed subscription: %v", err)
		}
	}
}
