package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xxcode2/shadowpay-sub000/backend-service/auth"
	"github.com/xxcode2/shadowpay-sub000/backend-service/controller"
	"github.com/xxcode2/shadowpay-sub000/backend-service/middleware"
	"github.com/xxcode2/shadowpay-sub000/backend-service/service"
)

func RegisterLinkRoutes(app *fiber.App, svc *service.LinkService, authMiddleware fiber.Handler) {
	lc := controller.NewLinkController(svc)

	links := app.Group("/links")
	links.Post("/", lc.Create)
	links.Get("/", authMiddleware, lc.List)
	links.Get("/all", authMiddleware, middleware.RoleRequired(auth.RoleAdmin), lc.ListAll)
	links.Get("/:id", lc.Get)
	links.Post("/:id/pay", lc.Pay)
	links.Post("/:id/claim", authMiddleware, lc.Claim)
}
