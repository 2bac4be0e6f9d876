package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"kitchen-api/internal/config"
	"kitchen-api/internal/imagestore"
	custommiddleware "kitchen-api/internal/middleware"
	"kitchen-api/internal/repository"
	"kitchen-api/internal/service"
	"kitchen-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.ClientOrigin, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))

	// Health check endpoint
	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Redis backs the rate limiter only; it failing open keeps the API up
	// without Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	loginLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:login",
	}, logger)
	orderLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:order",
	}, logger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	shopConfigRepo := repository.NewShopConfigRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpiryDays)
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(orderRepo, shopConfigRepo, cfg.Orders.StrictStatusFlow, cfg.Orders.StrictTotals)
	shopConfigService := service.NewShopConfigService(shopConfigRepo)

	imageStore, err := imagestore.NewLocalStore(cfg.Upload.Dir, "/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	shopConfigHandler := transport.NewShopConfigHandler(shopConfigService, logger)
	uploadHandler := transport.NewUploadHandler(imageStore, cfg.Upload.MaxBytes, logger)

	authMiddleware := custommiddleware.AuthMiddleware(authService, logger)

	// Public routes
	authHandler.RegisterRoutes(router, loginLimiter, authMiddleware)
	productHandler.RegisterPublicRoutes(router)
	shopConfigHandler.RegisterPublicRoutes(router)

	// Authenticated customer routes
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		orderHandler.RegisterUserRoutes(r, orderLimiter)
	})

	// Admin routes
	router.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(custommiddleware.RequireAdmin(logger))
		productHandler.RegisterAdminRoutes(r)
		orderHandler.RegisterAdminRoutes(r)
		shopConfigHandler.RegisterAdminRoutes(r)
		uploadHandler.RegisterAdminRoutes(r)
	})

	// Stored images are served straight off disk
	router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Upload.Dir))))

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
