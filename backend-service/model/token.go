package model

import "github.com/shopspring/decimal"

// tokenDecimals maps supported asset symbols to minor-unit decimals
// (lamports for SOL, SPL base units for USDC).
var tokenDecimals = map[string]int32{
	"SOL":  9,
	"USDC": 6,
}

func SupportedToken(symbol string) bool {
	_, ok := tokenDecimals[symbol]
	return ok
}

// MinorUnits converts a face amount to the token's smallest unit. The second
// return is false for unknown tokens or amounts with sub-minor precision.
func MinorUnits(amount decimal.Decimal, token string) (int64, bool) {
	dec, ok := tokenDecimals[token]
	if !ok {
		return 0, false
	}
	shifted := amount.Shift(dec)
	if !shifted.IsInteger() {
		return 0, false
	}
	return shifted.IntPart(), true
}
