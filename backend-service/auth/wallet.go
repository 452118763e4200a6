package auth

import (
	"crypto/ed25519"
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrBadPublicKey    = errors.New("invalid public key")
	ErrBadSignature    = errors.New("signature verification failed")
	ErrMessageRejected = errors.New("login message rejected")
)

// VerifyWalletSignature checks an ed25519 signature produced by a Solana
// wallet over message against the claimed base58 public key. Both the key
// and the signature arrive base58-encoded.
func VerifyWalletSignature(publicKey, message, signature string) error {
	pub, err := solana.PublicKeyFromBase58(publicKey)
	if err != nil {
		return ErrBadPublicKey
	}
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return ErrBadSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(pub.Bytes()), []byte(message), sig[:]) {
		return ErrBadSignature
	}
	return nil
}

// CheckLoginMessage enforces the application-chosen message prefix so a
// signature over arbitrary content cannot be replayed as a login.
func CheckLoginMessage(message, requiredPrefix string) error {
	if requiredPrefix != "" && !strings.HasPrefix(message, requiredPrefix) {
		return ErrMessageRejected
	}
	return nil
}
