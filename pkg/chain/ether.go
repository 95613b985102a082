package chain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ParseEther converts a decimal ether amount such as "0.05" to wei.
// An empty string parses as zero.
func ParseEther(amount string) (*big.Int, error) {
	if amount == "" {
		return big.NewInt(0), nil
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid ether amount %q: %w", amount, err)
	}
	if dec.IsNegative() {
		return nil, fmt.Errorf("negative ether amount %q", amount)
	}

	wei := dec.Shift(18)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("ether amount %q has more than 18 decimal places", amount)
	}

	return wei.BigInt(), nil
}

// FormatEther renders a wei amount as a decimal ether string.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}
