package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/xxcode2/shadowpay-sub000/backend-service/auth"
)

type AuthController struct {
	Issuer        *auth.TokenIssuer
	MessagePrefix string
}

func NewAuthController(issuer *auth.TokenIssuer, messagePrefix string) *AuthController {
	return &AuthController{Issuer: issuer, MessagePrefix: messagePrefix}
}

// Login handles POST /auth/login. The client signs the login message with
// its wallet key; a valid signature proves control of the address and earns
// a session token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var body struct {
		PublicKey string `json:"publicKey"`
		Message   string `json:"message"`
		Signature string `json:"signature"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.PublicKey == "" || body.Message == "" || body.Signature == "" {
		return c.Status(400).JSON(fiber.Map{"error": "publicKey, message and signature are required"})
	}

	if err := auth.CheckLoginMessage(body.Message, ac.MessagePrefix); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "unexpected login message"})
	}

	if err := auth.VerifyWalletSignature(body.PublicKey, body.Message, body.Signature); err != nil {
		if errors.Is(err, auth.ErrBadPublicKey) {
			return c.Status(400).JSON(fiber.Map{"error": "invalid public key"})
		}
		return c.Status(401).JSON(fiber.Map{"error": "invalid signature"})
	}

	token, expiresAt, err := ac.Issuer.Issue(body.PublicKey)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to issue token"})
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
	})
}
