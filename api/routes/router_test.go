package routes

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gaonbazar/gaonbazar-backend/api/middleware"
	"github.com/gaonbazar/gaonbazar-backend/internal/assistant"
	"github.com/gaonbazar/gaonbazar-backend/internal/cart"
	"github.com/gaonbazar/gaonbazar-backend/internal/listings"
	"github.com/gaonbazar/gaonbazar-backend/internal/orders"
	"github.com/gaonbazar/gaonbazar-backend/internal/quality"
	"github.com/gaonbazar/gaonbazar-backend/pkg/config"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db/models"
	"github.com/gaonbazar/gaonbazar-backend/pkg/metrics"
)

type testServer struct {
	handler  http.Handler
	sessions *cart.Sessions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	client := db.NewFromGorm(gdb)

	now := func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	scorer := quality.NewScorer(quality.DefaultBands, rand.New(rand.NewSource(11)))

	listingService, err := listings.NewService(listings.ServiceParams{
		Repo:   listings.NewRepository(gdb),
		Scorer: scorer,
	})
	require.NoError(t, err)
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo: orders.NewRepository(gdb),
		Tx:   client,
		Now:  now,
	})
	require.NoError(t, err)

	engine, err := assistant.Default()
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	sessions := cart.NewSessions()
	cfg := &config.Config{
		App:       config.AppConfig{Env: "dev"},
		Assistant: config.AssistantConfig{ChatRateWindow: time.Minute, ChatRateLimit: 30},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	handler := NewRouter(
		cfg,
		nil,
		registry,
		metrics.NewHTTPMetrics(registry),
		client,
		nil,
		sessions,
		assistant.NewConversations(engine, assistant.WithTopicObserver(metrics.NewAssistantMetrics(registry))),
		scorer,
		listingService,
		orderService,
		now,
	)
	return &testServer{handler: handler, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, target, session, body string) (*httptest.ResponseRecorder, json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env.Data
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, data := srv.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"database":"ok","redis":"disabled"}}`, string(data))
}

func TestSessionHeaderIsIssued(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/api/v1/cart", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.SessionHeader))

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/cart", "buyer-9", "")
	assert.Equal(t, "buyer-9", rec.Header().Get(middleware.SessionHeader))
}

func TestListingToCheckoutFlow(t *testing.T) {
	srv := newTestServer(t)
	const session = "buyer-1"

	rec, data := srv.do(t, http.MethodPost, "/api/v1/listings", "", `{"crop":"Rice","quantity":40}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var listing struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &listing))

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/cart/items", session, `{"listing_id":"`+listing.ID+`","quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/cart/items", session, `{"listing_id":"`+listing.ID+`","quantity":50}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec, data = srv.do(t, http.MethodPost, "/api/v1/checkout", session, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var confirmation struct {
		OrderID   string `json:"order_id"`
		Message   string `json:"message"`
		Total     string `json:"total"`
		ItemCount int    `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(data, &confirmation))
	assert.Equal(t, orders.ConfirmationMessage, confirmation.Message)
	assert.Equal(t, "120", confirmation.Total)
	assert.Equal(t, 1, confirmation.ItemCount)

	store, ok := srv.sessions.Get(session)
	require.True(t, ok)
	assert.Equal(t, 0, store.Len())

	rec, data = srv.do(t, http.MethodGet, "/api/v1/orders/"+confirmation.OrderID, session, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var order struct {
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &order))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/checkout", session, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec, data := srv.do(t, http.MethodPost, "/api/v1/pricing/predict", "", `{"crop":"wheat"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(data), `"month":6`)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/quality", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, data = srv.do(t, http.MethodPost, "/api/v1/voice/extract", "", `{"text":"100 kg aloo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(data), `"crop":"potato"`)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/assistant/messages", "farmer-1", `{"text":"kcc"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = srv.do(t, http.MethodGet, "/api/v1/assistant/quick-questions", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/api/v1/cart", "buyer-2", "")
	srv.do(t, http.MethodPost, "/api/v1/assistant/messages", "buyer-2", `{"text":"msp"}`)

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_request_duration_seconds")
	assert.Contains(t, body, `route="/api/v1/cart`)
	assert.Contains(t, body, "assistant_answers_total")
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)
	rec, _ := srv.do(t, http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
