package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type LinkStatus string

const (
	StatusCreated   LinkStatus = "created"
	StatusPaid      LinkStatus = "paid"
	StatusWithdrawn LinkStatus = "withdrawn"

	// StatusExpired is derived at read time, never stored.
	StatusExpired LinkStatus = "expired"
)

// Link is one intended payment: created empty, funded once by a payer
// (deposit into the privacy pool), withdrawn once by a recipient.
type Link struct {
	ID           string          `gorm:"primaryKey;size:16" json:"id"`
	CreatorID    string          `gorm:"size:44;index" json:"creator_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,9)" json:"amount"`
	Token        string          `gorm:"size:10" json:"token"`
	Status       LinkStatus      `gorm:"size:16;index" json:"status"`
	Commitment   *string         `gorm:"size:128" json:"commitment"`
	TxHash       *string         `gorm:"size:88" json:"tx_hash,omitempty"`
	WithdrawTx   *string         `gorm:"size:88" json:"withdraw_tx,omitempty"`
	PaymentCount int             `json:"payment_count"`
	Metadata     datatypes.JSON  `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	WithdrawnAt  *time.Time      `json:"withdrawn_at,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
}

func (Link) TableName() string {
	return "links"
}

// Expired reports whether the payment window has closed.
func (l Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// EffectiveStatus is the status reported to clients. A lapsed deadline
// overlays "expired" on created and paid links; withdrawn is terminal and
// always reads back as withdrawn.
func (l Link) EffectiveStatus(now time.Time) LinkStatus {
	if l.Status != StatusWithdrawn && l.Expired(now) {
		return StatusExpired
	}
	return l.Status
}

// View returns a copy with the expired overlay applied, ready for JSON.
func (l Link) View(now time.Time) Link {
	l.Status = l.EffectiveStatus(now)
	return l
}
