package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/xxcode2/shadowpay-sub000/backend-service/auth"
	"github.com/xxcode2/shadowpay-sub000/backend-service/cache"
	"github.com/xxcode2/shadowpay-sub000/backend-service/kafka"
	"github.com/xxcode2/shadowpay-sub000/backend-service/middleware"
	"github.com/xxcode2/shadowpay-sub000/backend-service/notify"
	"github.com/xxcode2/shadowpay-sub000/backend-service/relayer"
	"github.com/xxcode2/shadowpay-sub000/backend-service/routes"
	"github.com/xxcode2/shadowpay-sub000/backend-service/service"
	"github.com/xxcode2/shadowpay-sub000/backend-service/store"
)

func openStore(cfg Config) store.LinkStore {
	switch cfg.StoreDriver {
	case "file":
		st, err := store.OpenFileStore(cfg.StorePath)
		if err != nil {
			log.Fatalf("failed to open file store: %v", err)
		}
		log.Printf("link store: file (%s)", cfg.StorePath)
		return st
	case "postgres":
		st, err := store.OpenPostgresStore(cfg.DSN())
		if err != nil {
			log.Fatalf("failed to connect link db: %v", err)
		}
		log.Println("link store: postgres")
		return st
	default:
		log.Println("link store: memory")
		return store.NewMemoryStore()
	}
}

func main() {
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	st := openStore(cfg)
	linkCache := cache.Connect(cfg.RedisAddr)
	producer := kafka.NewProducer(cfg.KafkaBroker)
	notifier := notify.NewNotifier(cfg.TelegramToken, cfg.TelegramChat)
	relayerClient := relayer.NewClient(cfg.RelayerURL, cfg.RelayerAPIKey, cfg.RelayerTimeout)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.AdminWallets)
	svc := service.NewLinkService(st, relayerClient, linkCache, producer, notifier, cfg.RelayerTimeout)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
	}))

	startTime := time.Now()
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":     true,
			"store":  cfg.StoreDriver,
			"uptime": time.Since(startTime).String(),
		})
	})

	routes.RegisterAuthRoutes(app, issuer, cfg.LoginPrefix)
	routes.RegisterLinkRoutes(app, svc, middleware.AuthRequired(issuer))

	log.Printf("backend-service running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("fiber error:", err)
	}
}
