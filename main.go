package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"stream-relay/internal/auth"
	"stream-relay/internal/config"
	"stream-relay/internal/db"
	"stream-relay/internal/handlers"
	"stream-relay/internal/live"
	"stream-relay/internal/observability"
	"stream-relay/internal/repositories"
	"stream-relay/internal/telemetry"
	"stream-relay/internal/ws"
)

func main() {
	cfg := config.Load()

	shutdownTracing, err := telemetry.InitTracing("stream-relay", "1.0.0")
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing()

	database, err := db.Connect(cfg.DBDsn)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	publisher := observability.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	observability.SetPublisher(publisher)
	defer publisher.Close()

	var verifier auth.Verifier = auth.Disabled{}
	if cfg.OIDCEnabled() {
		v, err := auth.NewJWKSVerifier(context.Background(), cfg.OIDCIssuer, cfg.OIDCAudience, cfg.OIDCJWKSURI)
		if err != nil {
			// Matches the source behavior: a broken OIDC setup disables
			// verification instead of refusing to start.
			log.Printf("oidc init failed, continuing without verification: %v", err)
		} else {
			verifier = v
			log.Println("oidc verification enabled")
		}
	} else {
		log.Println("oidc verification disabled")
	}

	broadcastRepo := repositories.NewBroadcastRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	reactionRepo := repositories.NewReactionRepo(database)

	resolver := live.NewResolver(broadcastRepo, cfg.DefaultStream)
	hub := ws.NewHub()

	relay := ws.NewRelayHandler(hub, verifier, resolver, messageRepo, ws.Options{
		DefaultStream:  cfg.DefaultStream,
		AllowAnonymous: cfg.AllowAnonymous,
		RateRPS:        cfg.ChatRateRPS,
		RateBurst:      cfg.ChatRateBurst,
	})

	reactionHandler := handlers.NewReactionHandler(reactionRepo, resolver, hub, cfg.DefaultStream)
	statusHandler := handlers.NewStatusHandler(resolver, hub)
	historyHandler := handlers.NewHistoryHandler(messageRepo, resolver)
	hooksHandler := handlers.NewHooksHandler(broadcastRepo, cfg.DefaultStream)
	healthHandler := handlers.NewHealthHandler(database)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("stream-relay"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/status", statusHandler.Status)
	router.GET("/stats", statusHandler.Stats)
	router.GET("/chat/history", historyHandler.Get)
	router.POST("/reactions", reactionHandler.Post)
	router.GET("/reactions", reactionHandler.Get)

	router.POST("/srs/publish", hooksHandler.Publish)
	router.POST("/srs/unpublish", hooksHandler.Unpublish)
	router.POST("/srs/hls", hooksHandler.Ack)
	router.GET("/srs/hls_notify", hooksHandler.Ack)
	router.POST("/srs/hls_notify", hooksHandler.Ack)

	router.GET(cfg.WSPath, relay.Handle)

	log.Printf("chat relay listening on http://%s ws path %s", cfg.Addr(), cfg.WSPath)
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
