package starknet

import (
	"fmt"
	"math/big"

	"bridge_checker/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Selector computes the starknet entry point selector for a function name:
// keccak256 of the name truncated to 250 bits.
func Selector(name string) string {
	hash := new(big.Int).SetBytes(crypto.Keccak256([]byte(name)))
	mask := new(big.Int).Lsh(big.NewInt(1), 250)
	mask.Sub(mask, big.NewInt(1))
	hash.And(hash, mask)
	return hexutil.EncodeBig(hash)
}

// EncodeFelt renders a big.Int as a 0x-prefixed felt for calldata.
func EncodeFelt(v *big.Int) string {
	if v == nil || v.Sign() == 0 {
		return "0x0"
	}
	return hexutil.EncodeBig(v)
}

// DecodeBalanceWords decodes the return words of a balance query. The token
// contracts answer in one of two shapes: a single-word scalar, or a two-word
// u256 split as (low, high) that reconstitutes as low + (high << 128). Any
// other shape is an error; callers must not guess.
func DecodeBalanceWords(words []string) (*big.Int, error) {
	switch len(words) {
	case 1:
		return utils.ParseAmount(words[0]), nil
	case 2:
		low := utils.ParseAmount(words[0])
		high := utils.ParseAmount(words[1])
		return utils.CombineU256(low, high), nil
	default:
		return nil, fmt.Errorf("unexpected balance result shape: %d words", len(words))
	}
}
