package main

import (
	"context"
	"fmt"
	"orphancare/config"
	"orphancare/domain"
	"orphancare/locker"
	"orphancare/middleware"
	"orphancare/services/orphanage/delivery"
	"orphancare/services/orphanage/repository"
	"orphancare/services/orphanage/usecase"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startHTTP(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run migrations before serving")
	return cmd
}

type deps struct {
	db          *gorm.DB
	redisClient *redis.Client
	locker      domain.KeyLocker
	events      domain.AdoptionEventPublisher
	files       domain.FileStore
	closers     []func() error
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Errorf("Error during shutdown: %v", err)
		}
	}
}

// bootDeps acquires every process-wide handle. Failure to reach the database
// is fatal, the optional redis, broker and blob backends are only fatal when
// explicitly configured.
func bootDeps(ctx context.Context) (*deps, error) {
	d := &deps{}

	db, err := config.BootDB()
	if err != nil {
		return nil, err
	}
	d.db = db
	d.closers = append(d.closers, func() error { return config.CloseDB(db) })

	redisClient, err := config.InitRedis(ctx)
	if err != nil {
		d.close()
		return nil, err
	}
	if redisClient != nil {
		d.redisClient = redisClient
		d.locker = locker.NewRedis(redisClient, config.GetLockTTL())
		d.closers = append(d.closers, redisClient.Close)
	} else {
		d.locker = locker.NewMemory()
	}

	conn, err := config.InitRabbitMQ()
	if err != nil {
		d.close()
		return nil, err
	}
	if conn != nil {
		d.closers = append(d.closers, conn.Close)
		events, closeCh, err := repository.NewEventSender(conn, config.GetAdoptionEventsQueue())
		if err != nil {
			d.close()
			return nil, fmt.Errorf("failed to declare event queue: %w", err)
		}
		d.events = events
		d.closers = append(d.closers, closeCh)
	} else {
		d.events = repository.NewNoopSender()
	}

	blobCfg := config.GetBlobConfig()
	switch blobCfg.Driver {
	case "s3":
		store, err := repository.NewS3Store(ctx, blobCfg)
		if err != nil {
			d.close()
			return nil, err
		}
		d.files = store
	case "memory", "":
		d.files = repository.NewMemoryStore(blobCfg.PublicBaseURL)
	default:
		d.close()
		return nil, fmt.Errorf("unknown BLOB_DRIVER %q", blobCfg.Driver)
	}

	return d, nil
}

// newApp wires repositories, use cases and handlers onto a fiber app.
func newApp(d *deps, jwt *middleware.JWT) *fiber.App {
	app := fiber.New(config.GetFiberConfig())

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetCORSOrigins(),
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	timeout := config.GetRequestTimeout()
	guard := repository.NewGuard()

	// Regis repo
	childRepo := repository.NewChildRepository(d.db, guard)
	adoptionRepo := repository.NewAdoptionRepository(d.db, guard)
	donationRepo := repository.NewDonationRepository(d.db, guard)
	userRepo := repository.NewUserRepository(d.db, guard)

	// Usecase
	adoptionUC := usecase.NewAdoptionUseCase(adoptionRepo, d.locker, d.events, timeout)
	childUC := usecase.NewChildUseCase(childRepo, d.files, d.locker, timeout)
	donationUC := usecase.NewDonationUseCase(donationRepo, timeout)
	authUC := usecase.NewAuthUseCase(userRepo, jwt, timeout)
	userUC := usecase.NewUserUseCase(userRepo, timeout)
	uploadUC := usecase.NewUploadUseCase(d.files, timeout)

	// Delivery
	api := app.Group(config.GetBasePath())
	auth := middleware.AuthRequired(jwt)
	delivery.NewHealthDelivery(api, d.db, d.redisClient)
	delivery.NewUserDelivery(api, auth, authUC, userUC)
	delivery.NewChildDelivery(api, auth, childUC)
	delivery.NewAdoptionDelivery(api, auth, adoptionUC)
	delivery.NewDonationDelivery(api, auth, donationUC)
	delivery.NewUploadDelivery(api, auth, uploadUC)

	return app
}

func startHTTP(ctx context.Context, migrate bool) error {
	log.Info("Starting HTTP")

	secret, err := config.GetJWTSecret()
	if err != nil {
		log.Fatal(err)
	}

	d, err := bootDeps(ctx)
	if err != nil {
		log.Fatalf("Failed to boot dependencies: %v", err)
	}
	defer d.close()

	if migrate {
		if err := config.Migrate(d.db); err != nil {
			log.Fatalf("Failed to migrate: %v", err)
		}
		if err := config.SeedAdmin(d.db, config.GetAdminSeed()); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
	}

	app := newApp(d, middleware.NewJWT(secret, config.GetJWTTTL()))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server on %s", config.GetFiberListenAddress())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Errorf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
	return nil
}
