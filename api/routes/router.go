package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gaonbazar/gaonbazar-backend/api/controllers"
	cartcontrollers "github.com/gaonbazar/gaonbazar-backend/api/controllers/cart"
	ordercontrollers "github.com/gaonbazar/gaonbazar-backend/api/controllers/orders"
	"github.com/gaonbazar/gaonbazar-backend/api/middleware"
	"github.com/gaonbazar/gaonbazar-backend/internal/assistant"
	"github.com/gaonbazar/gaonbazar-backend/internal/cart"
	"github.com/gaonbazar/gaonbazar-backend/internal/listings"
	"github.com/gaonbazar/gaonbazar-backend/internal/orders"
	"github.com/gaonbazar/gaonbazar-backend/internal/quality"
	"github.com/gaonbazar/gaonbazar-backend/pkg/config"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db"
	"github.com/gaonbazar/gaonbazar-backend/pkg/logger"
	"github.com/gaonbazar/gaonbazar-backend/pkg/metrics"
	"github.com/gaonbazar/gaonbazar-backend/pkg/redis"
)

const chatRatePolicy = "assistant_chat"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions *cart.Sessions,
	conversations *assistant.Conversations,
	scorer *quality.Scorer,
	listingService listings.Service,
	orderService orders.Service,
	now func() time.Time,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	// Interfaces stay nil when redis is off so the middlewares pass through.
	var (
		idempotencyStore redis.IdempotencyStore
		limiter          redis.RateLimiter
		redisPinger      controllers.Pinger
	)
	if redisClient != nil {
		idempotencyStore = redisClient
		limiter = redisClient
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	chatPolicy := middleware.NewRateLimitPolicy(chatRatePolicy, cfg.Assistant.ChatRateWindow, cfg.Assistant.ChatRateLimit)
	engine := conversations.Engine()

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(sessions, logg))
			r.Delete("/", cartcontrollers.CartClear(sessions, logg))
			r.Post("/items", cartcontrollers.CartAddItem(sessions, listingService, httpMetrics, logg))
			r.Post("/quick-add", cartcontrollers.CartQuickAdd(sessions, listingService, httpMetrics, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(sessions, logg))
		})
		r.Post("/quantity/reconcile", cartcontrollers.QuantityReconcile(sessions, listingService, httpMetrics, logg))
		r.Post("/checkout", ordercontrollers.Checkout(sessions, orderService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/direct", ordercontrollers.PlaceDirect(orderService, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(orderService, logg))
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", controllers.ListListings(listingService, logg))
			r.Post("/", controllers.CreateListing(listingService, logg))
			r.Get("/stats", controllers.ListingStats(listingService, logg))
			r.Get("/{listingId}", controllers.GetListing(listingService, logg))
			r.Delete("/{listingId}", controllers.DeleteListing(listingService, logg))
		})

		r.Post("/pricing/predict", controllers.PredictPrice(now, logg))
		r.Get("/quality", controllers.QualitySample(scorer))
		r.Post("/quality/assess", controllers.QualityAssess(scorer, logg))
		r.Post("/voice/extract", controllers.VoiceExtract(logg))

		r.Route("/assistant", func(r chi.Router) {
			r.Get("/quick-questions", controllers.AssistantQuickQuestions(engine))
			r.Get("/messages", controllers.AssistantMessages(conversations, logg))
			r.Delete("/messages", controllers.AssistantReset(conversations, logg))
			r.With(middleware.SessionRateLimit(chatPolicy, limiter, logg)).
				Post("/messages", controllers.AssistantAsk(conversations, logg))
		})
	})

	return r
}
