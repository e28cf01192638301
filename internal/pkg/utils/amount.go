package utils

import (
	"math/big"
	"strings"

	ethmath "github.com/ethereum/go-ethereum/common/math"
)

// ResourcePrecision is the fixed-point multiplier of raw resource amounts.
// Resource and unit balances carry 9 decimals on chain.
const ResourcePrecision = 1_000_000_000

// ResourceDecimals is the number of decimal places in ResourcePrecision.
const ResourceDecimals = 9

var precisionBig = big.NewInt(ResourcePrecision)

// FormatAmount renders a raw fixed-point amount as a human-decimal string.
// Only integer arithmetic is used so no precision is ever lost; trailing
// zeros of the fractional part are stripped. nil and zero render as "0".
// Example: 1500000000 => "1.5", 1000000000 => "1".
func FormatAmount(raw *big.Int) string {
	if raw == nil || raw.Sign() == 0 {
		return "0"
	}

	whole := new(big.Int)
	remainder := new(big.Int)
	whole.QuoRem(raw, precisionBig, remainder)

	if remainder.Sign() == 0 {
		return whole.String()
	}

	decimalPart := remainder.String()
	for len(decimalPart) < ResourceDecimals {
		decimalPart = "0" + decimalPart
	}
	decimalPart = strings.TrimRight(decimalPart, "0")
	if decimalPart == "" {
		return whole.String()
	}

	return whole.String() + "." + decimalPart
}

// ParseAmount converts a balance value as reported by the indexer (decimal or
// 0x-prefixed hex) into a raw big.Int. It fails soft: empty, malformed,
// bare-"0x" or negative input yields zero, so one bad record reads as
// "nothing to withdraw" instead of aborting the whole aggregation.
func ParseAmount(value string) *big.Int {
	value = strings.TrimSpace(value)
	if value == "" || value == "0x" {
		return big.NewInt(0)
	}

	parsed, ok := ethmath.ParseBig256(value)
	if !ok || parsed == nil || parsed.Sign() < 0 {
		return big.NewInt(0)
	}
	return parsed
}

// CombineU256 reconstitutes a two-word contract return value as
// low + (high << 128). Either half may be nil and reads as zero.
func CombineU256(low, high *big.Int) *big.Int {
	result := new(big.Int)
	if high != nil {
		result.Lsh(high, 128)
	}
	if low != nil {
		result.Add(result, low)
	}
	return result
}
