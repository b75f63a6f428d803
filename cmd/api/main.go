package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/John-6670/SimpleSocialApp/internal/config"
	"github.com/John-6670/SimpleSocialApp/internal/handlers"
	"github.com/John-6670/SimpleSocialApp/internal/middleware"
	"github.com/John-6670/SimpleSocialApp/internal/repository"
	"github.com/John-6670/SimpleSocialApp/internal/services"
	"github.com/John-6670/SimpleSocialApp/pkg/cache"
	"github.com/John-6670/SimpleSocialApp/pkg/logger"
	"github.com/John-6670/SimpleSocialApp/pkg/queue"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.New(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	userEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.UserEvents)
	defer userEventsProducer.Close()

	engagementProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.EngagementEvents)
	defer engagementProducer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)

	userService := services.NewUserService(userRepo, followRepo, userEventsProducer, logger)
	followService := services.NewFollowService(userRepo, followRepo, engagementProducer, logger)
	likeService := services.NewLikeService(likeRepo, postRepo, commentRepo, redisClient, engagementProducer, cfg.Redis.CounterTTL, logger)
	postService := services.NewPostService(postRepo, userRepo, followRepo, likeRepo, engagementProducer, logger)
	commentService := services.NewCommentService(commentRepo, postRepo, userRepo, likeRepo, engagementProducer, logger)

	userHandler := handlers.NewUserHandler(userService, followService, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	postHandler := handlers.NewPostHandler(postService, likeService)
	commentHandler := handlers.NewCommentHandler(commentService, likeService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	jwtConfig := &middleware.JWTConfig{Secret: cfg.JWT.Secret}
	requireAuth := middleware.NewJWTAuth(jwtConfig)
	optionalAuth := middleware.NewOptionalJWTAuth(jwtConfig)

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/:username", userHandler.GetUser)
			users.GET("/:username/posts", optionalAuth, postHandler.GetUserPosts)
			users.POST("/:username/follow", requireAuth, userHandler.ToggleFollow)
			users.GET("/:username/followers", userHandler.GetFollowers)
			users.GET("/:username/following", userHandler.GetFollowing)
		}

		profile := api.Group("/profile", requireAuth)
		{
			profile.GET("", userHandler.GetProfile)
			profile.PUT("", userHandler.UpdateProfile)
			profile.PUT("/password", userHandler.ChangePassword)
			profile.GET("/followers", userHandler.GetFollowers)
			profile.GET("/following", userHandler.GetFollowing)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", optionalAuth, postHandler.ListPosts)
			posts.POST("", requireAuth, postHandler.CreatePost)
			posts.GET("/:id", optionalAuth, postHandler.GetPost)
			posts.PUT("/:id", requireAuth, postHandler.UpdatePost)
			posts.DELETE("/:id", requireAuth, postHandler.DeletePost)
			posts.POST("/:id/like", requireAuth, postHandler.ToggleLike)
			posts.GET("/:id/likes", postHandler.GetPostLikes)
			posts.GET("/:id/comments", optionalAuth, commentHandler.ListComments)
			posts.POST("/:id/comments", requireAuth, commentHandler.CreateComment)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/:id/replies", optionalAuth, commentHandler.ListReplies)
			comments.PUT("/:id", requireAuth, commentHandler.UpdateComment)
			comments.DELETE("/:id", requireAuth, commentHandler.DeleteComment)
			comments.POST("/:id/like", requireAuth, commentHandler.ToggleLike)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	if err := os.MkdirAll("configs", 0755); err != nil {
		log.Printf("Failed to create configs directory: %v", err)
	}

	configPath := "configs/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s

database:
  host: "localhost"
  port: 5432
  user: "socialuser"
  password: "socialpass"
  dbname: "socialapp"
  sslmode: "disable"
  max_open_conns: 100
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 100
  min_idle_conns: 10
  counter_ttl: 1h

kafka:
  brokers:
    - "localhost:9092"
  topics:
    user_events: "user-events"
    engagement_events: "engagement-events"

jwt:
  secret: "your-secret-key-change-in-production"
  expire_time: 24h

log:
  level: "info"
  format: "json"`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
