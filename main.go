package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messaging-service/internal/config"
	"messaging-service/internal/handlers"
	"messaging-service/internal/identity"
	"messaging-service/internal/middleware"
	"messaging-service/internal/observability"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
	"messaging-service/internal/service"
	"messaging-service/internal/store"
	"messaging-service/internal/telemetry"
)

const serviceName = "messaging-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg.OTLPEndpoint, serviceName)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	httpClient := &http.Client{Timeout: cfg.StoreTimeout}
	storeClient := store.NewClient(store.Config{
		BaseURL: cfg.StoreURL,
		APIKey:  cfg.StoreAPIKey,
		Token:   cfg.StoreToken,
	}, httpClient)

	conversationRepo := repositories.NewConversationRepo(storeClient)
	membershipRepo := repositories.NewMembershipRepo(storeClient)
	profileRepo := repositories.NewProfileRepo(storeClient)

	resolver := identity.NewProviderResolver(identity.ProviderConfig{
		BaseURL: cfg.StoreURL,
		APIKey:  cfg.StoreAPIKey,
	}, httpClient, profileRepo)

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(publisher))

	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRouting, serviceName, cfg.Environment)

	conversationService := service.NewConversationService(conversationRepo, membershipRepo, profileRepo)
	conversationHandler := handlers.NewConversationHandler(conversationService, audit)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(resolver)

	router.POST("/conversations", authMiddleware, conversationHandler.CreateConversation)
	router.GET("/conversations", authMiddleware, conversationHandler.ListConversations)
	router.GET("/conversations/:id", authMiddleware, conversationHandler.GetConversation)
	router.PATCH("/conversations/:id", authMiddleware, conversationHandler.UpdateConversation)
	router.DELETE("/conversations/:id", authMiddleware, conversationHandler.DeleteConversation)

	router.POST("/conversations/:id/members", authMiddleware, conversationHandler.AddMember)
	router.GET("/conversations/:id/members", authMiddleware, conversationHandler.ListMembers)
	router.PATCH("/conversations/:id/members/:user_id", authMiddleware, conversationHandler.UpdateMemberRole)
	router.DELETE("/conversations/:id/members/:user_id", authMiddleware, conversationHandler.RemoveMember)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
