package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"social_messaging_service/internal/messaging/app"
	"social_messaging_service/internal/messaging/repository"
	"social_messaging_service/internal/messaging/router"
	"social_messaging_service/pkg/config"
	"social_messaging_service/pkg/database"
	"social_messaging_service/pkg/logger"
	"social_messaging_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.MessagingService, config.EnvConfig.MessagingServiceLogPath)
	cfg := config.LoadConfig[config.Messaging](config.EnvConfig.MessagingService, config.EnvConfig.MessagingServiceYAMLPath)

	// 1. mongo connection, chats and messages live here
	ctx := context.Background()
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// 2. redis connection, backs the request rate limiter
	redisClient, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	defer redisClient.Close()

	// 3. minio connection, message media attachments. optional
	var mediaRepo repository.MediaRepository
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
			Endpoint:      cfg.MinIO.Endpoint,
			User:          cfg.MinIO.User,
			Password:      cfg.MinIO.Password,
			BucketName:    cfg.MinIO.Bucket,
			UseSSL:        cfg.MinIO.UseSSL,
			RetryCount:    cfg.MinIO.RetryCount,
			RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal(fmt.Sprintf("connect minio err : %v", err))
		}
		mediaRepo = repository.NewMinIOMediaRepository(minioClient)
	} else {
		logger.Log.Warn("minio endpoint not set, media uploads disabled")
	}

	// 4. kafka writer, message.created event stream. optional
	var eventRepo repository.EventRepository
	if len(cfg.Kafka.Brokers) > 0 {
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal(fmt.Sprintf("connect kafka err : %v", err))
		}
		defer writer.Close()
		eventRepo = repository.NewKafkaEventRepository(writer)
	} else {
		logger.Log.Warn("kafka brokers not set, message events disabled")
	}

	// 5. repositories
	chatRepo := repository.NewMongoChatRepository(mongo.Database)
	msgRepo := repository.NewMongoMessageRepository(mongo.Database)

	// 6. use cases
	presence := app.NewPresenceRegistry()
	chatUC := app.NewChatUseCase(chatRepo, msgRepo)
	deliveryUC := app.NewDeliveryUseCase(chatRepo, msgRepo, presence, eventRepo)

	// 7. fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.MessagingServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	var rateLimit fiber.Handler
	if cfg.RateLimitMax > 0 {
		rateLimit = middlewares.RateLimit(redisClient, middlewares.RateLimitConfig{
			Max:    cfg.RateLimitMax,
			Window: cfg.RateLimitWindow,
		})
	}

	router.RegisterRoutes(r,
		app.NewMessagingHTTPHandler(chatUC, deliveryUC, mediaRepo),
		app.NewMessagingWebsocketHandler(chatUC, deliveryUC, presence),
		rateLimit,
	)

	// Listen
	port := ":" + cfg.Port
	log.Printf("Messaging Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
