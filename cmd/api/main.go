package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-admin/internal/admin"
	"github.com/imrishuroy/storefront-admin/internal/aws"
	"github.com/imrishuroy/storefront-admin/internal/basket"
	"github.com/imrishuroy/storefront-admin/internal/catalog"
	"github.com/imrishuroy/storefront-admin/internal/config"
	"github.com/imrishuroy/storefront-admin/internal/handlers"
	"github.com/imrishuroy/storefront-admin/internal/history"
	"github.com/imrishuroy/storefront-admin/internal/logging"
	"github.com/imrishuroy/storefront-admin/internal/orders"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterAdminRoutes(r, cfg)
	handlers.RegisterCatalogRoutes(r, cfg)
	handlers.RegisterBasketRoutes(r, cfg)

	return r
}

func main() {
	flags := config.Flags("api")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	cfg, err := config.Load(flags)
	if err != nil {
		// logger is not configured yet
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger, err := logging.Init(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	clients, err := aws.NewAWSClients(ctx, cfg.Region, cfg.EndpointOverride)
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	deps := admin.Deps{
		Store:    orders.NewStore(clients.DynamoDB, cfg.OrdersTable),
		Metrics:  aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace),
		Password: cfg.AdminPassword,
		Mode:     admin.TallyExact,
		Now:      time.Now,
	}
	if cfg.TallyMode == config.TallyLegacy {
		deps.Mode = admin.TallyLegacy
	}
	if cfg.QueueURL != "" {
		deps.Notifier = history.NewNotifier(aws.NewPublisher(clients.SQS, cfg.QueueURL))
	} else {
		logger.Warn("ORDERS_QUEUE_URL not set, status changes will not be audited")
	}

	hcfg := handlers.HandlerConfig{
		Sessions: admin.NewRegistry(deps, cfg.SessionTTL),
		Tokens:   admin.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		History:  history.NewStore(clients.DynamoDB, cfg.HistoryTable, cfg.HistoryTTL),
		Catalog:  catalog.NewClient(cfg.CatalogBaseURL, nil),
	}
	if cfg.RedisAddr != "" {
		pool, err := radix.NewPool("tcp", cfg.RedisAddr, 10)
		if err != nil {
			logger.Warn("redis unavailable, basket routes disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer pool.Close()
			hcfg.Baskets = basket.NewStore(pool)
		}
	}

	r := setupRouter(hcfg)

	// RUN_LOCAL serves HTTP directly for development.
	if cfg.RunLocal {
		logger.Info("running local server", zap.String("addr", cfg.ListenAddr))
		if err := r.Run(cfg.ListenAddr); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
