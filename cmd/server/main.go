package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fundscope/funding-dashboard/internal/cache"
	"github.com/fundscope/funding-dashboard/internal/dataset"
	"github.com/fundscope/funding-dashboard/internal/errors"
	"github.com/fundscope/funding-dashboard/internal/monitoring"
	"github.com/fundscope/funding-dashboard/internal/query"
	"github.com/fundscope/funding-dashboard/internal/ratelimit"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	datasetPath := getEnvOrDefault("DATASET_PATH", "./data/startup_funding.csv")
	port := getEnvOrDefault("PORT", "8080")
	cacheTTL := getEnvDurationOrDefault("CACHE_TTL", 15*time.Minute)
	rateLimitPerMin := getEnvIntOrDefault("RATE_LIMIT_PER_MIN", 120)

	// Initialize the dataset store and load the input file once up front; a
	// missing file or missing required columns is fatal, not degradable
	store := dataset.NewStore(datasetPath)
	snap, err := store.Snapshot()
	if err != nil {
		slog.Error("Failed to load dataset", "path", datasetPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Dataset ready", "path", datasetPath, "events", len(snap.Events))

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	appCache := cache.NewCache(cacheTTL)
	appCache.SetVersion(snap.Version)

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.RequestsPerMin = rateLimitPerMin
	limiter := ratelimit.NewLimiter(limiterConfig)

	r := setupRouter(store, appCache, limiter, appMetrics, appLogger)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// setupRouter wires middleware and routes over the shared dataset store
func setupRouter(
	store *dataset.Store,
	appCache *cache.Cache,
	limiter *ratelimit.Limiter,
	appMetrics *monitoring.Metrics,
	appLogger *monitoring.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	r.Use(cors.New(corsConfig))

	r.Use(limiter.IPRateLimitMiddleware(appMetrics))
	r.Use(appCache.Middleware(appMetrics))

	r.GET("/health", func(c *gin.Context) {
		snap, err := store.Snapshot()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "degraded",
				"timestamp": time.Now().Format(time.RFC3339),
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"timestamp":       time.Now().Format(time.RFC3339),
			"version":         "1.0.0",
			"dataset_version": snap.Version,
			"events":          len(snap.Events),
			"metrics":         appMetrics.GetStats(),
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, appCache.Stats())
	})

	r.GET("/ratelimit/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, limiter.GetStats())
	})

	// Enumeration helpers behind the dashboard's pickers
	r.GET("/companies", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("company_names")
		c.JSON(http.StatusOK, gin.H{"companies": query.CompanyNames(snap.Events)})
	})

	r.GET("/investors", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("investor_names")
		c.JSON(http.StatusOK, gin.H{"investors": query.InvestorNames(snap.Stakes())})
	})

	r.GET("/years", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("years")
		c.JSON(http.StatusOK, gin.H{"years": query.Years(snap.Events)})
	})

	// Company analysis
	r.GET("/companies/:name", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}

		name, ok := requireName(c)
		if !ok {
			return
		}

		start := time.Now()
		profile, err := query.GetCompanyProfile(snap.Events, name)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appMetrics.RecordQuery("company_profile")
		appLogger.QueryLogger("company_profile", name, profile.FundingRounds, time.Since(start), c.GetBool("cache_hit"))
		c.JSON(http.StatusOK, profile)
	})

	r.GET("/companies/:name/similar", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}

		name, ok := requireName(c)
		if !ok {
			return
		}

		start := time.Now()
		similar := query.FindSimilarCompanies(snap.Events, name, parseLimit(c))

		appMetrics.RecordQuery("similar_companies")
		appLogger.QueryLogger("similar_companies", name, len(similar), time.Since(start), c.GetBool("cache_hit"))
		c.JSON(http.StatusOK, gin.H{"similar": similar})
	})

	// Investor analysis
	r.GET("/investors/:name", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}

		name, ok := requireName(c)
		if !ok {
			return
		}

		start := time.Now()
		profile, err := query.GetInvestorProfile(snap.Stakes(), name)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appMetrics.RecordQuery("investor_profile")
		appLogger.QueryLogger("investor_profile", name, profile.TotalInvestments, time.Since(start), c.GetBool("cache_hit"))
		c.JSON(http.StatusOK, profile)
	})

	r.GET("/investors/:name/similar", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}

		name, ok := requireName(c)
		if !ok {
			return
		}

		start := time.Now()
		similar := query.FindSimilarInvestors(snap.Stakes(), name, parseLimit(c))

		appMetrics.RecordQuery("similar_investors")
		appLogger.QueryLogger("similar_investors", name, len(similar), time.Since(start), c.GetBool("cache_hit"))
		c.JSON(http.StatusOK, gin.H{"similar": similar})
	})

	// Aggregate market statistics
	r.GET("/stats/overview", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("market_overview")
		c.JSON(http.StatusOK, query.MarketOverview(snap.Events, snap.Stakes()))
	})

	r.GET("/stats/monthly", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("monthly_trend")
		c.JSON(http.StatusOK, gin.H{"monthly": query.MonthlyTrend(snap.Events)})
	})

	r.GET("/stats/sectors", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("sector_stats")
		c.JSON(http.StatusOK, gin.H{"sectors": query.SectorStats(snap.Events)})
	})

	r.GET("/stats/stages", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("stage_stats")
		c.JSON(http.StatusOK, gin.H{"stages": query.StageStats(snap.Events)})
	})

	r.GET("/stats/cities", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("city_stats")
		c.JSON(http.StatusOK, gin.H{"cities": query.CityStats(snap.Events)})
	})

	r.GET("/stats/heatmap", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("funding_heatmap")
		c.JSON(http.StatusOK, gin.H{"heatmap": query.FundingHeatmap(snap.Events)})
	})

	r.GET("/stats/top/startups", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}

		year := 0
		if yearParam := c.Query("year"); yearParam != "" {
			parsed, err := strconv.Atoi(yearParam)
			if err != nil {
				appErr := errors.NewValidationError("year must be an integer", yearParam)
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}
			year = parsed
		}

		appMetrics.RecordQuery("top_startups")
		c.JSON(http.StatusOK, gin.H{"startups": query.TopStartups(snap.Events, year, parseLimitDefault(c, 15))})
	})

	r.GET("/stats/top/investors", func(c *gin.Context) {
		snap, ok := currentSnapshot(c, store, appCache)
		if !ok {
			return
		}
		appMetrics.RecordQuery("top_investors")
		c.JSON(http.StatusOK, gin.H{"investors": query.TopInvestors(snap.Stakes(), parseLimitDefault(c, 20))})
	})

	// Explicit cache invalidation; the next request reloads from disk
	r.POST("/dataset/reload", func(c *gin.Context) {
		store.Invalidate()
		appCache.Clear()
		appMetrics.IncrementDatasetReload()

		c.JSON(http.StatusOK, gin.H{"message": "dataset cache invalidated"})
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// currentSnapshot resolves the dataset snapshot for one request, keeping the
// response cache keyed to the live dataset version
func currentSnapshot(c *gin.Context, store *dataset.Store, appCache *cache.Cache) (*dataset.Snapshot, bool) {
	snap, err := store.Snapshot()
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return nil, false
	}

	appCache.SetVersion(snap.Version)
	return snap, true
}

// requireName pulls the non-empty entity name from the route
func requireName(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if name == "" {
		appErr := errors.NewValidationError("name cannot be empty")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return "", false
	}
	return name, true
}

// parseLimit reads the similarity limit query parameter, bounded to 1-100
func parseLimit(c *gin.Context) int {
	return parseLimitDefault(c, query.DefaultSimilarLimit)
}

func parseLimitDefault(c *gin.Context, defaultLimit int) int {
	limit := defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	return limit
}

// getEnvOrDefault is a helper for environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
