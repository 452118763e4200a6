package controller

import (
	"context"
	"log"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gofiber/fiber/v2"

	"github.com/xxcode2/shadowpay-sub000/relayer-service/privacycash"
	"github.com/xxcode2/shadowpay-sub000/relayer-service/wallet"
)

var supportedTokens = map[string]bool{
	"SOL":  true,
	"USDC": true,
}

type RelayerController struct {
	Protocol *privacycash.Client
	FeePayer *wallet.FeePayer
}

func NewRelayerController(protocol *privacycash.Client, feePayer *wallet.FeePayer) *RelayerController {
	return &RelayerController{Protocol: protocol, FeePayer: feePayer}
}

// POST /deposit
func (rc *RelayerController) Deposit(c *fiber.Ctx) error {
	var body struct {
		LinkID         string `json:"linkId"`
		AmountLamports int64  `json:"amountLamports"`
		Token          string `json:"token"`
		PayerWallet    string `json:"payerWallet"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.LinkID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "linkId is required"})
	}
	if body.AmountLamports <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "amountLamports must be positive"})
	}
	if !supportedTokens[body.Token] {
		return c.Status(400).JSON(fiber.Map{"error": "unsupported token"})
	}
	if _, err := solana.PublicKeyFromBase58(body.PayerWallet); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payer wallet"})
	}

	outcome, err := rc.Protocol.Deposit(context.Background(), privacycash.DepositParams{
		LinkID:         body.LinkID,
		AmountLamports: body.AmountLamports,
		Token:          body.Token,
		PayerWallet:    body.PayerWallet,
		FeePayer:       rc.FeePayer.PublicKey().String(),
	})
	if err != nil {
		log.Printf("deposit for link %s failed: %v", body.LinkID, err)
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("deposit for link %s confirmed (tx %s)", body.LinkID, outcome.Tx)
	return c.JSON(fiber.Map{
		"commitment": outcome.Commitment,
		"tx":         outcome.Tx,
	})
}

// POST /withdraw
func (rc *RelayerController) Withdraw(c *fiber.Ctx) error {
	var body struct {
		LinkID          string `json:"linkId"`
		Commitment      string `json:"commitment"`
		AmountLamports  int64  `json:"amountLamports"`
		Token           string `json:"token"`
		RecipientWallet string `json:"recipientWallet"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.LinkID == "" || body.Commitment == "" {
		return c.Status(400).JSON(fiber.Map{"error": "linkId and commitment are required"})
	}
	if body.AmountLamports <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "amountLamports must be positive"})
	}
	if !supportedTokens[body.Token] {
		return c.Status(400).JSON(fiber.Map{"error": "unsupported token"})
	}
	if _, err := solana.PublicKeyFromBase58(body.RecipientWallet); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid recipient wallet"})
	}

	outcome, err := rc.Protocol.Withdraw(context.Background(), privacycash.WithdrawParams{
		LinkID:          body.LinkID,
		Commitment:      body.Commitment,
		AmountLamports:  body.AmountLamports,
		Token:           body.Token,
		RecipientWallet: body.RecipientWallet,
		FeePayer:        rc.FeePayer.PublicKey().String(),
	})
	if err != nil {
		log.Printf("withdraw for link %s failed: %v", body.LinkID, err)
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("withdraw for link %s confirmed (tx %s)", body.LinkID, outcome.Tx)
	return c.JSON(fiber.Map{"tx": outcome.Tx})
}

// GET /health
func (rc *RelayerController) Health(c *fiber.Ctx) error {
	resp := fiber.Map{
		"ok":       true,
		"feePayer": rc.FeePayer.PublicKey().String(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if balance, err := rc.FeePayer.Balance(ctx); err == nil {
		resp["balanceLamports"] = balance
	} else {
		log.Printf("fee payer balance check failed: %v", err)
	}

	return c.JSON(resp)
}
