package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/cart/infrastructure/catalogclient"
	cartmsg "github.com/wyfcoding/storefront/internal/cart/infrastructure/messaging"
	cartmysql "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	catalogcache "github.com/wyfcoding/storefront/internal/catalog/infrastructure/cache"
	catalogmsg "github.com/wyfcoding/storefront/internal/catalog/infrastructure/messaging"
	catalogmysql "github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/storefront/internal/catalog/interfaces/http"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/mq"
	"github.com/wyfcoding/storefront/pkg/outbox"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
)

func main() {
	configPath := flag.String("config", "configs/storefront/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "starting service",
		"service", cfg.ServiceName, "version", cfg.Version, "environment", cfg.Environment)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.ServiceName)
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "failed to register metrics", "error", err)
		}
		metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	database, err := db.Init(cfg.Database)
	if err != nil {
		logger.Fatal(ctx, "failed to init database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.Category{},
		&cartdomain.CartLineItem{},
		&outbox.Message{},
	); err != nil {
		logger.Fatal(ctx, "failed to migrate database", "error", err)
	}

	// Redis 不可用时降级运行：商品查询直连数据库，限流放行
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.New(cfg.Redis)
		if err != nil {
			logger.Error(ctx, "failed to connect to Redis, running without cache", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	outboxMgr := outbox.NewManager(database.DB)

	var relay *outbox.Relay
	if cfg.Kafka.Enabled {
		producer := mq.NewProducer(cfg.Kafka)
		defer producer.Close()

		relay = outbox.NewRelay(outboxMgr,
			func(ctx context.Context, topic, key string, payload []byte) error {
				if err := producer.Publish(ctx, topic, []byte(key), payload); err != nil {
					return err
				}
				if m != nil {
					m.OutboxPublished.Inc()
				}
				return nil
			},
			cfg.Outbox.BatchSize,
			time.Duration(cfg.Outbox.PollInterval)*time.Second,
		)
		relay.Start()
		defer relay.Stop()
	}

	var productCache catalogapp.ProductCache
	if redisCache != nil {
		productCache = catalogcache.NewProductCache(redisCache,
			time.Duration(cfg.Redis.ProductCacheTTL)*time.Second)
	}

	catalogService := catalogapp.NewCatalogService(
		catalogmysql.NewProductRepository(database.DB),
		catalogmysql.NewCategoryRepository(database.DB),
		productCache,
		catalogmsg.NewOutboxPublisher(outboxMgr),
	)

	catalogReader := catalogclient.NewCatalogReader(catalogService)
	cartService := cartapp.NewCartService(
		cartmysql.NewCartRepository(database.DB),
		catalogReader,
		catalogReader,
		cartmsg.NewOutboxPublisher(outboxMgr),
	)

	// 定期采样库存类指标
	if m != nil {
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				var products, lineItems, pending int64
				database.Model(&catalogdomain.Product{}).Count(&products)
				database.Model(&cartdomain.CartLineItem{}).Count(&lineItems)
				database.Model(&outbox.Message{}).Where("status = ?", outbox.StatusPending).Count(&pending)
				m.ProductsTotal.Set(float64(products))
				m.CartLineItems.Set(float64(lineItems))
				m.OutboxPendingMsgs.Set(float64(pending))
			}
		}()
	}

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	if m != nil {
		router.Use(middleware.GinMetricsMiddleware(m))
	}
	if cfg.RateLimit.Enabled && redisCache != nil {
		limiter := ratelimit.NewRedisRateLimiter(redisCache.GetClient())
		router.Use(middleware.RateLimitMiddleware(limiter, cfg.RateLimit))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	api := router.Group("/api")
	cataloghttp.NewCatalogHandler(catalogService).RegisterRoutes(api)
	carthttp.NewCartHandler(cartService, m).RegisterRoutes(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "HTTP server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown failed", "error", err)
	}
	logger.Info(ctx, "server stopped")
}
