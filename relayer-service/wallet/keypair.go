package wallet

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// FeePayer holds the relayer's keypair. Withdrawals are fee-shielded: the
// recipient pays no gas, this key does.
type FeePayer struct {
	key solana.PrivateKey
	rpc *rpc.Client
}

// Load reads the keypair from a base58 private key or a solana-keygen file;
// the base58 form wins when both are set.
func Load(privateKey, keyFile, rpcURL string) (*FeePayer, error) {
	var key solana.PrivateKey
	var err error

	switch {
	case privateKey != "":
		key, err = solana.PrivateKeyFromBase58(privateKey)
		if err != nil {
			return nil, fmt.Errorf("parse fee payer key: %w", err)
		}
	case keyFile != "":
		key, err = solana.PrivateKeyFromSolanaKeygenFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read fee payer keyfile: %w", err)
		}
	default:
		return nil, fmt.Errorf("no fee payer key configured")
	}

	return &FeePayer{key: key, rpc: rpc.New(rpcURL)}, nil
}

func (f *FeePayer) PublicKey() solana.PublicKey {
	return f.key.PublicKey()
}

// Balance returns the fee payer's lamport balance at finalized commitment.
func (f *FeePayer) Balance(ctx context.Context) (uint64, error) {
	out, err := f.rpc.GetBalance(ctx, f.PublicKey(), rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("fee payer balance: %w", err)
	}
	return out.Value, nil
}
