package routes

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "brcargo_quotes/docs" // This will be auto-generated
	"brcargo_quotes/internal/adapter/http/handlers"
	"brcargo_quotes/internal/adapter/persistence/repository"
	"brcargo_quotes/internal/events"
	"brcargo_quotes/internal/infrastructure/database"
	"brcargo_quotes/internal/infrastructure/remote"
	"brcargo_quotes/internal/metrics"
	"brcargo_quotes/internal/syncer"
	"brcargo_quotes/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const PORT = 8080

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	err := router.Run(":" + strconv.Itoa(PORT))
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	bus := events.NewBus()

	aggregator := metrics.NewAggregator(
		getenvInt("METRICS_WINDOW_SIZE", metrics.DefaultWindowSize),
		getenvMillis("METRICS_WINDOW_TTL_MS", metrics.DefaultWindowTTL),
	)
	aggregator.Attach(bus)

	ddb := database.ConnectDynamoDB()
	archiveRepo := repository.NewQuotationArchiveDynamoRepository(ddb)

	var cache remote.ReadCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		log.Printf("[routes] using redis read cache addr=%s", addr)
		cache = remote.NewRedisReadCache(addr, 0)
	}

	client := remote.NewClient(remote.ClientOptions{
		PrimaryURL:  getenvDefault("REMOTE_API_URL", "http://localhost:9090"),
		FallbackURL: os.Getenv("REMOTE_FALLBACK_URL"),
		HTTPClient:  &http.Client{Timeout: getenvMillis("REMOTE_TIMEOUT_MS", 10*time.Second)},
		MaxRetries:  uint64(getenvInt("REMOTE_MAX_RETRIES", 3)),
		BaseDelay:   getenvMillis("REMOTE_RETRY_BASE_MS", 100*time.Millisecond),
		Cache:       cache,
		Bus:         bus,
	})
	gateway := remote.NewGateway(client)

	quotationUseCase := usecase.NewQuotationUseCase(gateway, archiveRepo, bus)

	reconciler := syncer.NewReconciler(gateway, quotationUseCase, bus, getenvMillis("RECONCILE_INTERVAL_MS", syncer.DefaultInterval))
	reconciler.Start(context.Background())

	quotationHandler := handlers.NewQuotationHandler(quotationUseCase)
	dashboardHandler := handlers.NewDashboardHandler(aggregator, gateway, archiveRepo, bus)
	syncHandler := handlers.NewSyncHandler(reconciler)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addQuotationRoutes(v1, quotationHandler)
	addDashboardRoutes(v1, dashboardHandler, syncHandler)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("[routes] invalid %s=%q, using default %d", key, raw, def)
		return def
	}
	return v
}

// getenvMillis reads an integer amount of milliseconds.
func getenvMillis(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		log.Printf("[routes] invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
