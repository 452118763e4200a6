package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/xxcode2/shadowpay-sub000/backend-service/cache"
	"github.com/xxcode2/shadowpay-sub000/backend-service/kafka"
	"github.com/xxcode2/shadowpay-sub000/backend-service/model"
	"github.com/xxcode2/shadowpay-sub000/backend-service/notify"
	"github.com/xxcode2/shadowpay-sub000/backend-service/relayer"
	"github.com/xxcode2/shadowpay-sub000/backend-service/store"
)

var (
	ErrLinkNotFound      = errors.New("link not found")
	ErrUnsupportedToken  = errors.New("unsupported token")
	ErrBadAmount         = errors.New("amount must be a positive token amount")
	ErrBadExpiry         = errors.New("expires_at must be in the future")
	ErrBadWallet         = errors.New("invalid wallet address")
	ErrAmountMismatch    = errors.New("amount or token does not match link")
	ErrAlreadyPaid       = errors.New("link already paid")
	ErrNotPaid           = errors.New("link has not been paid")
	ErrAlreadyWithdrawn  = errors.New("link already withdrawn")
	ErrExpired           = errors.New("link expired")
	ErrMissingCommitment = errors.New("paid link has no commitment")
)

type CreateLinkInput struct {
	CreatorID string
	Amount    decimal.Decimal
	Token     string
	Metadata  datatypes.JSON
	ExpiresAt *time.Time
}

type PayInput struct {
	Amount      decimal.Decimal
	Token       string
	PayerWallet string
}

// LinkService owns the link lifecycle. Every transition runs under a
// per-link lock and commits through the store's compare-and-swap, so a
// link accepts at most one deposit and one withdrawal.
type LinkService struct {
	store       store.LinkStore
	relayer     relayer.DepositService
	cache       *cache.LinkCache
	producer    *kafka.Producer
	notifier    *notify.Notifier
	callTimeout time.Duration
	locks       *keyedMutex
}

func NewLinkService(st store.LinkStore, rel relayer.DepositService, c *cache.LinkCache, p *kafka.Producer, n *notify.Notifier, callTimeout time.Duration) *LinkService {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &LinkService{
		store:       st,
		relayer:     rel,
		cache:       c,
		producer:    p,
		notifier:    n,
		callTimeout: callTimeout,
		locks:       newKeyedMutex(),
	}
}

func (s *LinkService) Create(ctx context.Context, in CreateLinkInput) (model.Link, error) {
	if in.Amount.Sign() <= 0 {
		return model.Link{}, ErrBadAmount
	}

	token := strings.ToUpper(strings.TrimSpace(in.Token))
	if !model.SupportedToken(token) {
		return model.Link{}, ErrUnsupportedToken
	}
	if _, ok := model.MinorUnits(in.Amount, token); !ok {
		return model.Link{}, ErrBadAmount
	}

	if _, err := solana.PublicKeyFromBase58(in.CreatorID); err != nil {
		return model.Link{}, ErrBadWallet
	}

	if in.ExpiresAt != nil && !in.ExpiresAt.After(time.Now()) {
		return model.Link{}, ErrBadExpiry
	}

	link := model.Link{
		ID:        uuid.New().String()[:8],
		CreatorID: in.CreatorID,
		Amount:    in.Amount,
		Token:     token,
		Status:    model.StatusCreated,
		Metadata:  in.Metadata,
		CreatedAt: time.Now(),
		ExpiresAt: in.ExpiresAt,
	}

	created, err := s.store.Create(ctx, link)
	if err != nil {
		return model.Link{}, fmt.Errorf("create link: %w", err)
	}

	s.cache.SetLink(ctx, created)
	s.producer.PublishLinkCreatedEvent(created.View(time.Now()))

	return created.View(time.Now()), nil
}

func (s *LinkService) Get(ctx context.Context, id string) (model.Link, error) {
	if link, ok := s.cache.GetLink(ctx, id); ok {
		return link.View(time.Now()), nil
	}

	link, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Link{}, ErrLinkNotFound
	}
	if err != nil {
		return model.Link{}, fmt.Errorf("get link: %w", err)
	}

	s.cache.SetLink(ctx, link)
	return link.View(time.Now()), nil
}

// List returns the creator's links newest first. An empty creatorID lists
// every link; the handler reserves that for admins.
func (s *LinkService) List(ctx context.Context, creatorID string) ([]model.Link, error) {
	links, err := s.store.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	now := time.Now()
	views := make([]model.Link, 0, len(links))
	for _, l := range links {
		views = append(views, l.View(now))
	}
	return views, nil
}

// Pay deposits the link's face value into the shielded pool via the
// relayer and advances the link to paid. The deposit call happens exactly
// once; nothing is persisted unless it succeeds.
func (s *LinkService) Pay(ctx context.Context, id string, in PayInput) (model.Link, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	link, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Link{}, ErrLinkNotFound
	}
	if err != nil {
		return model.Link{}, fmt.Errorf("get link: %w", err)
	}

	if _, err := solana.PublicKeyFromBase58(in.PayerWallet); err != nil {
		return model.Link{}, ErrBadWallet
	}

	switch link.Status {
	case model.StatusPaid:
		return model.Link{}, ErrAlreadyPaid
	case model.StatusWithdrawn:
		return model.Link{}, ErrAlreadyWithdrawn
	}
	if link.Expired(time.Now()) {
		return model.Link{}, ErrExpired
	}

	token := strings.ToUpper(strings.TrimSpace(in.Token))
	if !in.Amount.Equal(link.Amount) || token != link.Token {
		return model.Link{}, ErrAmountMismatch
	}

	minor, ok := model.MinorUnits(link.Amount, link.Token)
	if !ok {
		return model.Link{}, fmt.Errorf("link %s amount %s not representable in %s minor units", id, link.Amount, link.Token)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	res, err := s.relayer.Deposit(callCtx, relayer.DepositRequest{
		LinkID:         id,
		AmountLamports: minor,
		Token:          link.Token,
		PayerWallet:    in.PayerWallet,
	})
	if err != nil {
		return model.Link{}, fmt.Errorf("deposit for link %s: %w", id, err)
	}

	now := time.Now()
	updated, err := s.store.UpdateIfStatus(ctx, id, model.StatusCreated, func(l *model.Link) {
		l.Status = model.StatusPaid
		l.Commitment = &res.Commitment
		l.TxHash = &res.Tx
		l.PaymentCount++
		l.PaidAt = &now
	})
	if errors.Is(err, store.ErrStatusConflict) {
		log.Printf("CRITICAL: deposit for link %s succeeded (tx %s) but the link left status created concurrently; commitment unrecorded", id, res.Tx)
		return model.Link{}, ErrAlreadyPaid
	}
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("CRITICAL: deposit for link %s succeeded (tx %s) but the link no longer exists", id, res.Tx)
		return model.Link{}, ErrLinkNotFound
	}
	if err != nil {
		return model.Link{}, fmt.Errorf("record deposit for link %s: %w", id, err)
	}

	s.cache.InvalidateLink(ctx, id)
	s.producer.PublishLinkPaidEvent(updated.View(now))
	s.notifier.LinkPaid(updated.ID, updated.Token, updated.Amount.String())
	log.Printf("Link %s paid: %s %s (tx %s)", updated.ID, updated.Amount, updated.Token, res.Tx)

	return updated.View(now), nil
}

// Claim withdraws a paid link's funds to the recipient wallet via the
// relayer and advances the link to withdrawn. Expiry never blocks a claim:
// funds already in the pool stay claimable.
func (s *LinkService) Claim(ctx context.Context, id, recipientWallet string) (model.Link, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	link, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Link{}, ErrLinkNotFound
	}
	if err != nil {
		return model.Link{}, fmt.Errorf("get link: %w", err)
	}

	if _, err := solana.PublicKeyFromBase58(recipientWallet); err != nil {
		return model.Link{}, ErrBadWallet
	}

	switch link.Status {
	case model.StatusCreated:
		return model.Link{}, ErrNotPaid
	case model.StatusWithdrawn:
		return model.Link{}, ErrAlreadyWithdrawn
	}

	if link.Commitment == nil || *link.Commitment == "" {
		log.Printf("CRITICAL: link %s is paid but has no commitment; refusing withdrawal", id)
		s.notifier.InvariantViolation(id)
		return model.Link{}, ErrMissingCommitment
	}

	minor, ok := model.MinorUnits(link.Amount, link.Token)
	if !ok {
		return model.Link{}, fmt.Errorf("link %s amount %s not representable in %s minor units", id, link.Amount, link.Token)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	res, err := s.relayer.Withdraw(callCtx, relayer.WithdrawRequest{
		LinkID:          id,
		Commitment:      *link.Commitment,
		AmountLamports:  minor,
		Token:           link.Token,
		RecipientWallet: recipientWallet,
	})
	if err != nil {
		return model.Link{}, fmt.Errorf("withdraw for link %s: %w", id, err)
	}

	now := time.Now()
	updated, err := s.store.UpdateIfStatus(ctx, id, model.StatusPaid, func(l *model.Link) {
		l.Status = model.StatusWithdrawn
		l.WithdrawTx = &res.Tx
		l.WithdrawnAt = &now
	})
	if errors.Is(err, store.ErrStatusConflict) {
		log.Printf("CRITICAL: withdrawal for link %s succeeded (tx %s) but the link left status paid concurrently", id, res.Tx)
		return model.Link{}, ErrAlreadyWithdrawn
	}
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("CRITICAL: withdrawal for link %s succeeded (tx %s) but the link no longer exists", id, res.Tx)
		return model.Link{}, ErrLinkNotFound
	}
	if err != nil {
		return model.Link{}, fmt.Errorf("record withdrawal for link %s: %w", id, err)
	}

	s.cache.InvalidateLink(ctx, id)
	s.producer.PublishLinkWithdrawnEvent(updated.View(now))
	s.notifier.LinkWithdrawn(updated.ID, updated.Token, updated.Amount.String())
	log.Printf("Link %s withdrawn: %s %s (tx %s)", updated.ID, updated.Amount, updated.Token, res.Tx)

	return updated.View(now), nil
}
