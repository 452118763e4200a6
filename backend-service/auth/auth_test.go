package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
)

func TestVerifyWalletSignature(t *testing.T) {
	wallet := solana.NewWallet()
	msg := "ShadowPay login: 1700000000"
	sig, err := wallet.PrivateKey.Sign([]byte(msg))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	t.Run("valid signature", func(t *testing.T) {
		if err := VerifyWalletSignature(wallet.PublicKey().String(), msg, sig.String()); err != nil {
			t.Errorf("valid signature rejected: %v", err)
		}
	})

	t.Run("tampered message", func(t *testing.T) {
		err := VerifyWalletSignature(wallet.PublicKey().String(), msg+" tampered", sig.String())
		if !errors.Is(err, ErrBadSignature) {
			t.Errorf("got %v, want ErrBadSignature", err)
		}
	})

	t.Run("signature from another wallet", func(t *testing.T) {
		other := solana.NewWallet()
		err := VerifyWalletSignature(other.PublicKey().String(), msg, sig.String())
		if !errors.Is(err, ErrBadSignature) {
			t.Errorf("got %v, want ErrBadSignature", err)
		}
	})

	t.Run("malformed public key", func(t *testing.T) {
		err := VerifyWalletSignature("not-a-key", msg, sig.String())
		if !errors.Is(err, ErrBadPublicKey) {
			t.Errorf("got %v, want ErrBadPublicKey", err)
		}
	})

	t.Run("malformed signature", func(t *testing.T) {
		err := VerifyWalletSignature(wallet.PublicKey().String(), msg, "zzz")
		if !errors.Is(err, ErrBadSignature) {
			t.Errorf("got %v, want ErrBadSignature", err)
		}
	})
}

func TestCheckLoginMessage(t *testing.T) {
	if err := CheckLoginMessage("ShadowPay login: now", "ShadowPay login"); err != nil {
		t.Errorf("prefixed message rejected: %v", err)
	}
	if err := CheckLoginMessage("transfer all my funds", "ShadowPay login"); !errors.Is(err, ErrMessageRejected) {
		t.Errorf("got %v, want ErrMessageRejected", err)
	}
	if err := CheckLoginMessage("anything", ""); err != nil {
		t.Errorf("empty prefix should accept any message, got %v", err)
	}
}

func TestTokenIssuer(t *testing.T) {
	adminWallet := solana.NewWallet().PublicKey().String()
	userWallet := solana.NewWallet().PublicKey().String()
	issuer := NewTokenIssuer("test-secret", time.Hour, []string{adminWallet})

	t.Run("issue and verify round trip", func(t *testing.T) {
		token, exp, err := issuer.Issue(userWallet)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if !exp.After(time.Now()) {
			t.Errorf("expiry %v not in the future", exp)
		}

		id, err := issuer.Verify(token)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if id.Wallet != userWallet {
			t.Errorf("wallet = %q, want %q", id.Wallet, userWallet)
		}
		if id.Role != RoleUser {
			t.Errorf("role = %q, want %q", id.Role, RoleUser)
		}
	})

	t.Run("admin wallet gets admin role", func(t *testing.T) {
		token, _, err := issuer.Issue(adminWallet)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		id, err := issuer.Verify(token)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if id.Role != RoleAdmin {
			t.Errorf("role = %q, want %q", id.Role, RoleAdmin)
		}
	})

	t.Run("tampered token rejected", func(t *testing.T) {
		token, _, _ := issuer.Issue(userWallet)
		if _, err := issuer.Verify(token + "x"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", time.Hour, nil)
		token, _, _ := other.Issue(userWallet)
		if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		shortLived := NewTokenIssuer("test-secret", -time.Minute, nil)
		token, _, _ := shortLived.Issue(userWallet)
		if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})
}
