package main

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"academiapulse/internal/aiclient"
	"academiapulse/internal/assistant"
	"academiapulse/internal/auth"
	"academiapulse/internal/cloudinary"
	"academiapulse/internal/config"
	"academiapulse/internal/handler"
	"academiapulse/internal/httpmiddleware"
	"academiapulse/internal/logger"
	"academiapulse/internal/queue"
	"academiapulse/internal/roster"
	"academiapulse/internal/store"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get().With().Str("component", "api").Logger()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func runHTTP(cfg config.App) error {
	log := logger.Get().With().Str("component", "api").Logger()
	ctx := context.Background()

	var db *store.DB
	var kv store.KV
	redisClient := store.NewRedis(cfg.RedisAddr)

	if cfg.StoreBackend == "memory" {
		kv = store.NewMemoryKV()
	} else {
		var err error
		db, err = store.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("db not reachable")
		}
		if db == nil || db.Client == nil {
			return err
		}
		defer db.Close()
		kv = store.NewPostgresKV(db.Client)
	}

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "academiapulse:events")
	}

	svc := roster.NewService(ctx, kv, q)

	ai := aiclient.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiSkip || cfg.GeminiAPIKey == "")
	if ai.Skip {
		log.Info().Msg("AI features running in skip mode (no credential)")
	}

	var transcripts assistant.Store
	if cfg.StoreBackend == "memory" {
		transcripts = assistant.NewMemoryStore()
	} else {
		transcripts = assistant.NewRedisStore(redisClient.Client)
	}
	chat := assistant.New(ai, transcripts)

	// Cloudinary client (nil when not configured)
	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Info().Str("cloud", cfg.CloudinaryCloudName).Msg("cloudinary configured")
	} else {
		log.Info().Msg("cloudinary not configured, logos stored inline")
	}

	h := handler.New(svc, ai, chat, cdnClient)

	var limiter httpmiddleware.Limiter
	if cfg.RateLimitBackend == "redis" {
		limiter = httpmiddleware.NewRedisWindow(redisClient.Client, cfg.RateLimitPerMin)
	} else {
		limiter = httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          24 * time.Hour,
	}))
	r.Use(securityHeaders())
	r.Use(httpmiddleware.GinMiddleware(limiter))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := cfg.QueueBackend == "memory" || redisClient.Healthy(c.Request.Context())
		dbHealthy := cfg.StoreBackend == "memory" || db != nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/auth/token", func(c *gin.Context) {
		var req struct {
			ClientKey string `json:"client_key" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if subtle.ConstantTimeCompare([]byte(req.ClientKey), []byte(cfg.APIClientKey)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid client key"})
			return
		}

		tokens, err := auth.Issue("educator", "educator", cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.AccessExp.Unix(),
		})
	})

	v1 := r.Group("/v1", auth.Bearer(cfg.JWTSigningKey, cfg.JWTIssuer))

	v1.GET("/students", h.ListStudents)
	v1.POST("/students", h.AddStudent)
	v1.DELETE("/students/:id", h.RemoveStudent)

	v1.GET("/courses", h.ListCourses)
	v1.POST("/courses", h.AddCourse)
	v1.DELETE("/courses/:id", h.RemoveCourse)

	v1.GET("/attendance", h.GetAttendance)
	v1.PUT("/attendance/status", h.SetStatus)
	v1.PUT("/attendance/markall", h.MarkAll)

	v1.POST("/bulk-add", h.BulkAdd)

	v1.GET("/exports/daily", h.ExportDaily)
	v1.GET("/exports/consolidated", h.ExportConsolidated)

	v1.POST("/ai/report", h.SummaryReport)
	v1.POST("/ai/groups", h.Groups)
	v1.POST("/ai/email", h.FollowUpEmail)

	v1.POST("/assistant/chat", h.Chat)
	v1.DELETE("/assistant/chat", h.ResetChat)

	v1.GET("/settings", h.Settings)
	v1.GET("/settings/college", h.College)
	v1.PUT("/settings/college", h.UpdateCollege)
	v1.GET("/settings/department", h.Department)
	v1.PUT("/settings/department", h.UpdateDepartment)
	v1.POST("/settings/logo", h.UploadLogo)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // chat streaming holds the response open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}
	log.Info().Msg("server exited")
	return nil
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
