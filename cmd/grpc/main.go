package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-grocery-service/config"
	"github.com/fekuna/omnipos-grocery-service/internal/migrations"
	"github.com/fekuna/omnipos-grocery-service/internal/notification"
	"github.com/fekuna/omnipos-grocery-service/internal/order"
	"github.com/fekuna/omnipos-grocery-service/internal/product"
	"github.com/fekuna/omnipos-grocery-service/pkg/broker"
	"github.com/fekuna/omnipos-grocery-service/pkg/cache"
	"github.com/fekuna/omnipos-grocery-service/pkg/database"
	"github.com/fekuna/omnipos-grocery-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-grocery-service/pkg/database/sqlite"
	"github.com/fekuna/omnipos-grocery-service/pkg/i18n"
	"github.com/fekuna/omnipos-grocery-service/pkg/lock"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/fekuna/omnipos-grocery-service/pkg/middleware"
	"github.com/fekuna/omnipos-grocery-service/pkg/search"

	catH "github.com/fekuna/omnipos-grocery-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-grocery-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-grocery-service/internal/category/usecase"

	invH "github.com/fekuna/omnipos-grocery-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-grocery-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-grocery-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-grocery-service/internal/inventory/usecase"

	orderH "github.com/fekuna/omnipos-grocery-service/internal/order/handler"
	orderPub "github.com/fekuna/omnipos-grocery-service/internal/order/publisher"
	orderRepoPkg "github.com/fekuna/omnipos-grocery-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-grocery-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-grocery-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-grocery-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-grocery-service/internal/product/usecase"

	userRepoPkg "github.com/fekuna/omnipos-grocery-service/internal/user/repository"
	userUCPkg "github.com/fekuna/omnipos-grocery-service/internal/user/usecase"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 2.5 Initialize i18n
	if err := i18n.Init(); err != nil {
		appLogger.Warn("Failed to load locales, errors will not be translated", zap.Error(err))
	}
	if path := os.Getenv("I18N_OVERRIDE_PATH"); path != "" {
		if err := i18n.Load(path); err != nil {
			appLogger.Warn("Failed to load locale override", zap.String("path", path), zap.Error(err))
		}
	}

	// 3. Connect to Database
	db, err := openDatabase(cfg)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := migrations.Run(context.Background(), db); err != nil {
			appLogger.Fatal("Could not run migrations", zap.Error(err))
		}
	}

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewSQLRepository(db)
	prodRepo := prodRepoPkg.NewSQLRepository(db)
	invRepo := invRepoPkg.NewSQLRepository(db)
	orderRepo := orderRepoPkg.NewSQLRepository(db)
	userRepo := userRepoPkg.NewSQLRepository(db)
	txManager := database.NewTxManager(db)

	// 5. Initialize Redis
	var (
		redisClient *cache.RedisClient
		locker      lock.Locker = lock.NewLocalLocker()
		dedup       notification.Deduper
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient, cfg.Inventory.LockTTL, cfg.Inventory.LockAttempts, cfg.Inventory.LockWait)
		dedup = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		appLogger.Warn("Redis disabled, using in-process batch locks (single instance only)")
	}

	// 5.5 Initialize Kafka
	var (
		kafkaConsumer *broker.KafkaConsumer
		notifier      order.NotificationTrigger
		receipts      order.ReceiptSink
		events        order.EventPublisher
	)
	if cfg.Kafka.Enabled {
		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.DeliveryTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()

		orderProducer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.OrderTopic})
		defer orderProducer.Close()
		receiptProducer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.ReceiptTopic})
		defer receiptProducer.Close()
		loanProducer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.LoanTopic})
		defer loanProducer.Close()

		pub := orderPub.NewKafkaPublisher(orderProducer, receiptProducer)
		receipts, events = pub, pub
		notifier = notification.NewLoanNotifier(dedup, loanProducer, cfg.Inventory.LoanNotifyDedupTTL, appLogger)
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	// 5.8 Initialize Elasticsearch
	var esIndex product.SearchIndex
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to SQL", zap.Error(err))
		} else {
			esIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 6. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	userUC := userUCPkg.NewUserUseCase(userRepo, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, prodRepo, locker, txManager, invUCPkg.Config{
		DefaultLifetime:  time.Duration(cfg.Inventory.DefaultBatchLifeDays) * 24 * time.Hour,
		ExpiryWindowDays: cfg.Inventory.ExpiryWindowDays,
	}, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, userUC, invUC, redisClient, esIndex, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, prodUC, userUC, invUC, txManager, locker, notifier, receipts, events, appLogger)

	// 6.5 Start Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if kafkaConsumer != nil {
		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)
		go invListener.Start(ctx)
	}

	// 7. Initialize Handlers
	catHandler := catH.NewCategoryHandler(catUC, appLogger)
	prodHandler := prodH.NewProductHandler(prodUC, appLogger)
	invHandler := invH.NewInventoryHandler(invUC, appLogger)
	orderHandler := orderH.NewOrderHandler(orderUC, appLogger)

	// 8. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.ContextInterceptor(),
			middleware.LoggingInterceptor(appLogger),
		),
	)

	// Register Services
	catH.Register(grpcServer, catHandler)
	prodH.Register(grpcServer, prodHandler)
	invH.Register(grpcServer, invHandler)
	orderH.Register(grpcServer, orderHandler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.Driver == sqlite.DriverName {
		return sqlite.Open(cfg.SQLite.Path)
	}
	return postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
}
