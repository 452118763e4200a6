package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xxcode2/shadowpay-sub000/relayer-service/controller"
	"github.com/xxcode2/shadowpay-sub000/relayer-service/privacycash"
	"github.com/xxcode2/shadowpay-sub000/relayer-service/wallet"
)

func RegisterRelayerRoutes(app *fiber.App, protocol *privacycash.Client, feePayer *wallet.FeePayer, keyMiddleware fiber.Handler) {
	rc := controller.NewRelayerController(protocol, feePayer)

	app.Post("/deposit", keyMiddleware, rc.Deposit)
	app.Post("/withdraw", keyMiddleware, rc.Withdraw)
	app.Get("/health", rc.Health)
}
