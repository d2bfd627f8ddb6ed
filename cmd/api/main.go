package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kalabin-backend/config"
	"kalabin-backend/internal/delivery/http/middleware"
	v1 "kalabin-backend/internal/delivery/http/v1"
	"kalabin-backend/internal/infrastructure/cache"
	"kalabin-backend/internal/repository/pgrepo"
	"kalabin-backend/internal/usecase"
	"kalabin-backend/pkg/logger"
	"kalabin-backend/pkg/storage"
	"kalabin-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := pgrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	userRepo := pgrepo.NewUserRepository(pgxPool)
	productRepo := pgrepo.NewProductRepository(pgxPool)
	catalogRepo := pgrepo.NewCatalogRepository(pgxPool)

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Auth Module
	authUC := usecase.NewAuthUsecase(userRepo, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	authHandler := v1.NewAuthHandler(authUC)

	// Storage Module (R2)
	r2Storage, err := storage.NewR2Storage(
		context.Background(),
		cfg.R2AccountID,
		cfg.R2AccessKeyID,
		cfg.R2AccessKeySecret,
		cfg.R2BucketName,
		cfg.R2PublicURL,
		cfg.R2UploadTimeout,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
	}
	uploadHandler := v1.NewUploadHandler(r2Storage, cfg.MaxUploadSizeMB)

	// Product Module
	productUC := usecase.NewProductUsecase(productRepo, catalogRepo, r2Storage)
	adminProductHandler := v1.NewAdminProductHandler(productUC)

	// Catalog Module
	catalogUC := usecase.NewCatalogUsecase(catalogRepo, productRepo, memCache, cfg)
	adminCatalogHandler := v1.NewAdminCatalogHandler(catalogUC)
	catalogHandler := v1.NewCatalogHandler(productUC, catalogUC)

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/v1/auth/me", middleware.AuthMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /api/v1/auth/me", middleware.AuthMiddleware(http.HandlerFunc(authHandler.UpdateProfile)))

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{slug}", catalogHandler.GetProductBySlug)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.GetCategories)
	mux.HandleFunc("GET /api/v1/tags", catalogHandler.GetTags)

	// Admin (Protected)
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}

	// Admin Product Management
	mux.Handle("GET /api/v1/admin/products", adminMiddleware(adminProductHandler.ListProducts))
	mux.Handle("GET /api/v1/admin/products/{id}", adminMiddleware(adminProductHandler.GetProduct))
	mux.Handle("POST /api/v1/admin/products", adminMiddleware(adminProductHandler.CreateProduct))
	mux.Handle("PATCH /api/v1/admin/products/{id}", adminMiddleware(adminProductHandler.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", adminMiddleware(adminProductHandler.ArchiveProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}/permanent", adminMiddleware(adminProductHandler.HardDeleteProduct))

	// Admin Catalog Management
	mux.Handle("GET /api/v1/admin/categories", adminMiddleware(adminCatalogHandler.GetCategories))
	mux.Handle("POST /api/v1/admin/categories", adminMiddleware(adminCatalogHandler.CreateCategory))
	mux.Handle("PUT /api/v1/admin/categories/{id}", adminMiddleware(adminCatalogHandler.UpdateCategory))
	mux.Handle("DELETE /api/v1/admin/categories/{id}", adminMiddleware(adminCatalogHandler.DeleteCategory))

	mux.Handle("GET /api/v1/admin/currencies", adminMiddleware(adminCatalogHandler.GetCurrencies))
	mux.Handle("POST /api/v1/admin/currencies", adminMiddleware(adminCatalogHandler.CreateCurrency))
	mux.Handle("PUT /api/v1/admin/currencies/{id}", adminMiddleware(adminCatalogHandler.UpdateCurrency))
	mux.Handle("DELETE /api/v1/admin/currencies/{id}", adminMiddleware(adminCatalogHandler.DeleteCurrency))

	mux.Handle("GET /api/v1/admin/option-types", adminMiddleware(adminCatalogHandler.GetOptionTypes))
	mux.Handle("POST /api/v1/admin/option-types", adminMiddleware(adminCatalogHandler.CreateOptionType))
	mux.Handle("PUT /api/v1/admin/option-types/{id}", adminMiddleware(adminCatalogHandler.UpdateOptionType))
	mux.Handle("DELETE /api/v1/admin/option-types/{id}", adminMiddleware(adminCatalogHandler.DeleteOptionType))

	mux.Handle("GET /api/v1/admin/tags", adminMiddleware(adminCatalogHandler.GetTags))
	mux.Handle("POST /api/v1/admin/tags", adminMiddleware(adminCatalogHandler.CreateTag))
	mux.Handle("PUT /api/v1/admin/tags/{id}", adminMiddleware(adminCatalogHandler.UpdateTag))
	mux.Handle("DELETE /api/v1/admin/tags/{id}", adminMiddleware(adminCatalogHandler.DeleteTag))

	// Admin Users
	mux.Handle("GET /api/v1/admin/users", adminMiddleware(authHandler.ListUsers))

	// Uploads
	mux.Handle("POST /api/v1/admin/uploads", adminMiddleware(uploadHandler.UploadFile))
	mux.Handle("DELETE /api/v1/admin/uploads", adminMiddleware(uploadHandler.DeleteFile))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,            // requests per second
		100,           // burst
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Stop rate limiter cleanup goroutine before the listener drains
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
