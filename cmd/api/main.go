package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"taplink/internal/config"
	"taplink/internal/database"
	"taplink/internal/middleware"
	"taplink/internal/modules/analytics"
	"taplink/internal/modules/auth"
	"taplink/internal/modules/business"
	"taplink/internal/modules/coupon"
	"taplink/internal/modules/feedback"
	jwtsvc "taplink/internal/pkg/jwt"
	"taplink/internal/pkg/mailer"
	"taplink/internal/pkg/qr"
	"taplink/internal/pkg/storage"
	"taplink/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed: ", err)
	}

	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	viewRepo := repository.NewViewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	// Optional infrastructure: the API degrades gracefully without any of it.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, rate limiting disabled: %v", err)
			rdb = nil
		}
	}

	var uploads *storage.Client
	if cfg.MinioEndpoint != "" {
		uploads, err = storage.New(context.Background(), storage.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			log.Printf("minio unavailable, uploads disabled: %v", err)
			uploads = nil
		}
	}

	var alerts feedback.AlertMailer
	if cfg.SMTPHost != "" {
		alerts = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	hub := analytics.NewHub()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	businessService := business.NewService(businessRepo, feedbackRepo, qr.NewRenderer(cfg.BaseURL))
	businessHandler := newBusinessHandler(businessService, uploads)

	couponService := coupon.NewService(couponRepo, businessRepo, feedbackRepo)
	couponHandler := coupon.NewHandler(couponService)

	feedbackService := feedback.NewService(feedbackRepo, businessRepo, couponService, alerts)
	feedbackHandler := newFeedbackHandler(feedbackService, uploads)

	analyticsService := analytics.NewService(viewRepo, feedbackRepo, businessRepo, hub)
	feedbackService.SetNotifier(analyticsService)
	analyticsHandler := analytics.NewHandler(analyticsService, hub, j, businessRepo)

	ownership := middleware.NewOwnershipChecker(businessRepo)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		public := v1.Group("/")
		{
			authHandler.RegisterRoutes(public, nil)
			businessHandler.RegisterRoutes(public, nil, nil)
			couponHandler.RegisterRoutes(public, nil, nil)
			analyticsHandler.RegisterRoutes(public, nil)
		}

		// Anonymous endpoints with abuse protection.
		limited := v1.Group("/")
		limited.Use(middleware.FeedbackRateLimit(rdb))
		{
			feedbackHandler.RegisterRoutes(limited, nil, nil)
		}
		redeemLimited := v1.Group("/")
		redeemLimited.Use(middleware.RedeemRateLimit(rdb))
		{
			redeemLimited.POST("/coupon/redeem", couponHandler.Redeem)
		}

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterRoutes(nil, protected)
			businessHandler.RegisterRoutes(nil, protected, nil)
			couponHandler.RegisterRoutes(nil, protected, nil)
			feedbackHandler.RegisterRoutes(nil, protected, nil)

			owned := protected.Group("/")
			owned.Use(ownership.CheckBusinessOwnership())
			{
				businessHandler.RegisterRoutes(nil, nil, owned)
				couponHandler.RegisterRoutes(nil, nil, owned)
				feedbackHandler.RegisterRoutes(nil, nil, owned)
				analyticsHandler.RegisterRoutes(nil, owned)
			}
		}
	}

	analyticsHandler.RegisterWS(r)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// Handlers take nil-able uploaders; a nil interface must stay nil, so wrap
// only when MinIO is actually configured.
func newBusinessHandler(svc *business.Service, uploads *storage.Client) *business.Handler {
	if uploads == nil {
		return business.NewHandler(svc, nil)
	}
	return business.NewHandler(svc, uploads)
}

func newFeedbackHandler(svc *feedback.Service, uploads *storage.Client) *feedback.Handler {
	if uploads == nil {
		return feedback.NewHandler(svc, nil)
	}
	return feedback.NewHandler(svc, uploads)
}
