package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/xxcode2/shadowpay-sub000/backend-service/auth"
	"github.com/xxcode2/shadowpay-sub000/backend-service/service"
)

type LinkController struct {
	Service *service.LinkService
}

func NewLinkController(svc *service.LinkService) *LinkController {
	return &LinkController{Service: svc}
}

// POST /links
func (lc *LinkController) Create(c *fiber.Ctx) error {
	var body struct {
		Amount    float64         `json:"amount"`
		Token     string          `json:"token"`
		CreatorID string          `json:"creator_id"`
		Metadata  json.RawMessage `json:"metadata"`
		ExpiresAt int64           `json:"expires_at"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Token == "" || body.CreatorID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "amount, token and creator_id are required"})
	}

	in := service.CreateLinkInput{
		CreatorID: body.CreatorID,
		Amount:    decimal.NewFromFloat(body.Amount),
		Token:     body.Token,
		Metadata:  datatypes.JSON(body.Metadata),
	}
	if body.ExpiresAt > 0 {
		t := time.UnixMilli(body.ExpiresAt)
		in.ExpiresAt = &t
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	link, err := lc.Service.Create(ctx, in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"link": link})
}

// GET /links/:id
func (lc *LinkController) Get(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	link, err := lc.Service.Get(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"link": link})
}

// List returns the caller's links; admins see every link.
func (lc *LinkController) List(c *fiber.Ctx) error {
	wallet := c.Locals("wallet").(string)
	role := c.Locals("role").(string)

	creator := wallet
	if role == auth.RoleAdmin {
		creator = ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	links, err := lc.Service.List(ctx, creator)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"links": links})
}

// ListAll returns every link regardless of creator. Route is admin-gated.
func (lc *LinkController) ListAll(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	links, err := lc.Service.List(ctx, "")
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"links": links})
}

// POST /links/:id/pay
func (lc *LinkController) Pay(c *fiber.Ctx) error {
	var body struct {
		Amount      float64 `json:"amount"`
		Token       string  `json:"token"`
		PayerWallet string  `json:"payerWallet"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Token == "" || body.PayerWallet == "" {
		return c.Status(400).JSON(fiber.Map{"error": "amount, token and payerWallet are required"})
	}

	link, err := lc.Service.Pay(context.Background(), c.Params("id"), service.PayInput{
		Amount:      decimal.NewFromFloat(body.Amount),
		Token:       body.Token,
		PayerWallet: body.PayerWallet,
	})
	if err != nil {
		return respondError(c, err)
	}

	tx := ""
	if link.TxHash != nil {
		tx = *link.TxHash
	}
	return c.JSON(fiber.Map{"link": link, "tx": tx})
}

// POST /links/:id/claim
func (lc *LinkController) Claim(c *fiber.Ctx) error {
	var body struct {
		RecipientWallet string `json:"recipientWallet"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.RecipientWallet == "" {
		return c.Status(400).JSON(fiber.Map{"error": "recipientWallet is required"})
	}

	link, err := lc.Service.Claim(context.Background(), c.Params("id"), body.RecipientWallet)
	if err != nil {
		return respondError(c, err)
	}

	tx := ""
	if link.WithdrawTx != nil {
		tx = *link.WithdrawTx
	}
	return c.JSON(fiber.Map{"link": link, "tx": tx})
}

func respondError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrUnsupportedToken),
		errors.Is(err, service.ErrBadAmount),
		errors.Is(err, service.ErrBadExpiry),
		errors.Is(err, service.ErrBadWallet),
		errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrNotPaid),
		errors.Is(err, service.ErrAlreadyWithdrawn),
		errors.Is(err, service.ErrExpired):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
