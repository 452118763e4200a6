package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xxcode2/shadowpay-sub000/backend-service/auth"
	"github.com/xxcode2/shadowpay-sub000/backend-service/controller"
)

func RegisterAuthRoutes(app *fiber.App, issuer *auth.TokenIssuer, messagePrefix string) {
	ac := controller.NewAuthController(issuer, messagePrefix)

	app.Post("/auth/login", ac.Login)
}
