package starknet

import (
	"math/big"
	"testing"
)

func TestSelector(t *testing.T) {
	// Known selector of the ERC20 balance_of entry point.
	const wantBalanceOf = "0x35a73cd311a05d46deda634c5ee045db92f811b4e74bca4437fcb5302b7af33"
	if got := Selector("balance_of"); got != wantBalanceOf {
		t.Errorf("Selector(balance_of) = %s, want %s", got, wantBalanceOf)
	}

	// Selectors must fit in 250 bits regardless of input.
	limit := new(big.Int).Lsh(big.NewInt(1), 250)
	for _, name := range []string{"withdraw", "transfer", "a", ""} {
		sel := Selector(name)
		v, ok := new(big.Int).SetString(sel[2:], 16)
		if !ok {
			t.Fatalf("Selector(%q) produced non-hex output %q", name, sel)
		}
		if v.Cmp(limit) >= 0 {
			t.Errorf("Selector(%q) exceeds 250 bits", name)
		}
	}
}

func TestEncodeFelt(t *testing.T) {
	if got := EncodeFelt(nil); got != "0x0" {
		t.Errorf("EncodeFelt(nil) = %s", got)
	}
	if got := EncodeFelt(big.NewInt(0)); got != "0x0" {
		t.Errorf("EncodeFelt(0) = %s", got)
	}
	if got := EncodeFelt(big.NewInt(255)); got != "0xff" {
		t.Errorf("EncodeFelt(255) = %s", got)
	}
}

func TestDecodeBalanceWords(t *testing.T) {
	got, err := DecodeBalanceWords([]string{"0x2a"})
	if err != nil {
		t.Fatalf("single word: %v", err)
	}
	if got.Int64() != 42 {
		t.Errorf("single word = %s, want 42", got)
	}

	got, err = DecodeBalanceWords([]string{"0x1", "0x1"})
	if err != nil {
		t.Fatalf("two words: %v", err)
	}
	want := new(big.Int).Lsh(big.NewInt(1), 128)
	want.Add(want, big.NewInt(1))
	if got.Cmp(want) != 0 {
		t.Errorf("two words = %s, want %s", got, want)
	}

	if _, err := DecodeBalanceWords(nil); err == nil {
		t.Error("expected error for zero words")
	}
	if _, err := DecodeBalanceWords([]string{"0x1", "0x2", "0x3"}); err == nil {
		t.Error("expected error for three words")
	}
}
