package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/croudly/experience-api/internal/infrastructure/configs"
	"github.com/croudly/experience-api/internal/infrastructure/contracts"
	"github.com/croudly/experience-api/internal/infrastructure/events"
	"github.com/croudly/experience-api/internal/infrastructure/identity"
	"github.com/croudly/experience-api/internal/infrastructure/logging"
	"github.com/croudly/experience-api/internal/infrastructure/messaging"
	"github.com/croudly/experience-api/internal/infrastructure/storage"
	"github.com/croudly/experience-api/internal/infrastructure/tracing"
	"github.com/croudly/experience-api/internal/persistence/db"
	"github.com/croudly/experience-api/internal/persistence/repository"
	"github.com/croudly/experience-api/internal/presentation/api"
	"github.com/croudly/experience-api/internal/presentation/handler/health"
	"github.com/croudly/experience-api/internal/presentation/handler/media"
	"github.com/croudly/experience-api/internal/presentation/handler/messages"
	"github.com/croudly/experience-api/internal/presentation/handler/rooms"
)

const (
	serviceName = "experience-api"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())
	logger.Init()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	mongoClient, err := db.NewMongoClient(ctx, &db.MongoConfig{
		URI:               cfg.Mongo.URI,
		Database:          cfg.Mongo.Database,
		ConnectionTimeout: cfg.Mongo.ConnectionTimeout,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer db.DisconnectMongo(ctx, mongoClient)

	database := db.GetDatabase(mongoClient, &db.MongoConfig{Database: cfg.Mongo.Database})

	roomRepository := repository.NewRoomRepository(database)
	auditRepository := repository.NewRoomAuditLogRepository(database)

	if err := roomRepository.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure room indexes: %v", err)
	}
	if err := auditRepository.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure audit indexes: %v", err)
	}

	rabbitmq, err := messaging.NewRabbitMQ(cfg.RabbitMQ.URI)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitmq.Close()

	log.Println("Starting RabbitMQ connection")

	if err := rabbitmq.DeclareAndBindQueue(messaging.RoomsQueue, roomRoutingKeys()); err != nil {
		log.Fatal(err)
	}

	roomPublisher := events.NewRoomPublisher(rabbitmq)

	roomConsumer := events.NewRoomConsumer(rabbitmq, auditRepository, logger)
	if err := roomConsumer.Listen(); err != nil {
		log.Fatal(err)
	}

	mediaStore, err := newMediaStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	identityProvider := identity.NewJWTProvider(cfg.Identity.JWTSecret)

	roomHandler := rooms.NewHandler(roomRepository, roomPublisher, logger)
	healthHandler := health.NewHandler()
	messageHandler := messages.NewHandler(roomRepository, roomPublisher, logger)
	mediaHandler := media.NewHandler(roomRepository, mediaStore, logger)

	app := api.NewApplication(*cfg, roomHandler, healthHandler, messageHandler, mediaHandler, identityProvider, logger)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		health.SetUnhealthy()
		log.Fatal(err)
	}
}

func newMediaStore(cfg *configs.Config) (storage.MediaStore, error) {
	if cfg.Media.Driver == "s3" {
		return storage.NewS3Store(storage.S3Config{
			Bucket:        cfg.Media.Bucket,
			Region:        cfg.Media.Region,
			Endpoint:      cfg.Media.Endpoint,
			PublicBaseURL: cfg.Media.PublicBaseURL,
		})
	}
	return storage.NewLocalStore(cfg.Media.LocalPath, cfg.Media.PublicBaseURL)
}

// roomRoutingKeys lists every routing key the audit consumer cares about.
func roomRoutingKeys() []string {
	return []string{
		contracts.EventRoomCreated,
		contracts.EventRoomDeleted,
		contracts.EventPrivacyToggled,
		contracts.EventMemberJoined,
		contracts.EventMemberLeft,
		contracts.EventMemberRemoved,
		contracts.EventMemberBlocked,
		contracts.EventRoleAssigned,
		contracts.EventModeratorRemoved,
		contracts.EventMessagePosted,
	}
}
