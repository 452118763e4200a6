package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/xxcode2/shadowpay-sub000/relayer-service/middleware"
	"github.com/xxcode2/shadowpay-sub000/relayer-service/privacycash"
	"github.com/xxcode2/shadowpay-sub000/relayer-service/routes"
	"github.com/xxcode2/shadowpay-sub000/relayer-service/wallet"
)

func main() {
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	feePayer, err := wallet.Load(cfg.FeePayerKey, cfg.FeePayerKeyFile, cfg.RPCURL)
	if err != nil {
		log.Fatalf("failed to load fee payer: %v", err)
	}
	log.Printf("fee payer: %s", feePayer.PublicKey())

	protocol := privacycash.NewClient(cfg.ProtocolURL, cfg.ProtocolTimeout)

	app := fiber.New()
	app.Use(logger.New())

	routes.RegisterRelayerRoutes(app, protocol, feePayer, middleware.KeyRequired(cfg.APIKey))

	log.Printf("relayer-service running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("fiber error:", err)
	}
}
