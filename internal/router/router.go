package router

import (
	"fmt"
	"log"
	"time"

	"clamio/config"
	"clamio/internal/handler"
	"clamio/internal/middleware"
	"clamio/internal/push"
	"clamio/internal/repository"
	"clamio/internal/service"
	"clamio/internal/tracker"
	"clamio/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	alertHub := ws.NewAlertHub()

	// Alert delivery
	manager, err := push.NewManager(subscriptionRepo, cfg.Push.VapidPublicKey)
	if err != nil {
		return nil, fmt.Errorf("push manager: %w", err)
	}
	if cfg.Push.VapidPublicKey == "" {
		log.Printf("[PUSH] No VAPID key configured; subscriptions use the in-app fallback channel")
	}
	sender := push.NewFCMSender(cfg.Push.ServiceAccountPath)
	if sender != nil {
		log.Printf("[FCM] Push delivery enabled")
	} else if cfg.Push.ServiceAccountPath != "" {
		log.Printf("[FCM] Push delivery disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push delivery disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	fallback := push.NewFallback(subscriptionRepo, alertHub)
	dispatcher := push.NewDispatcher(subscriptionRepo, sender, fallback)

	trk := tracker.New(notificationRepo, dispatcher, cfg.Tracking.Enabled)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	orderHandler := handler.NewOrderHandler(orderRepo, trk)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, alertHub)
	pushHandler := handler.NewPushHandler(manager, fallback)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
		}

		orders := api.Group("/orders")
		orders.Use(authMw)
		{
			orders.GET("", orderHandler.List)
			orders.POST("/:order_id/claim", orderHandler.Claim)
			orders.POST("/:order_id/reverse", orderHandler.Reverse)
			orders.POST("/:order_id/ready", orderHandler.MarkReady)
			orders.GET("/:order_id/label", orderHandler.Label)
			orders.POST("/bulk-claim", orderHandler.BulkClaim)
			orders.POST("/bulk-reverse", orderHandler.BulkReverse)
			orders.POST("/bulk-ready", orderHandler.BulkMarkReady)
			orders.POST("/bulk-labels", orderHandler.BulkLabels)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/notifications", notificationHandler.List)
			admin.GET("/notifications/stats", notificationHandler.Stats)
			admin.GET("/notifications/:id", notificationHandler.Get)
			admin.PUT("/notifications/:id/acknowledge", notificationHandler.Acknowledge)
			admin.PUT("/notifications/:id/resolve", notificationHandler.Resolve)
			admin.PUT("/notifications/:id/dismiss", notificationHandler.Dismiss)

			admin.GET("/push/vapid-key", pushHandler.VapidKey)
			admin.GET("/push/status", pushHandler.Status)
			admin.POST("/push/permission", pushHandler.ReportPermission)
			admin.POST("/push/subscribe", pushHandler.Subscribe)
			admin.DELETE("/push/subscription", pushHandler.Unsubscribe)
			admin.POST("/push/fallback", pushHandler.EnableFallback)
			admin.DELETE("/push/fallback", pushHandler.DisableFallback)
		}
	}

	// WebSocket channels authenticate via query token inside the upgrade.
	r.GET("/ws/alerts", ws.UpgradeAlertWS(cfg, alertHub))
	r.GET("/ws/console", handler.UpgradeConsoleWS(cfg, notificationRepo))

	return r, nil
}
