// Package domain holds the pair/side/fee shapes shared by every component
// of the pricing core. It has no dependency on any other internal package.
package domain

import "strings"

// NativeSentinel is the address used by callers to mean "the chain's native
// coin" rather than an ERC20-style token. It must be rewritten to its
// canonical wrapped Token via WrapNative before it reaches pricing.
const NativeSentinel = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

// Token identifies a priceable asset. Address is the case-normalized
// (lowercase) hex address; two Tokens with equal Address are identical
// regardless of Decimals or any symbol a caller may carry alongside it.
type Token struct {
	Address  string
	Decimals uint8
}

// NewToken normalizes addr to lowercase and clamps Decimals into [0, 38].
func NewToken(addr string, decimals uint8) Token {
	if decimals > 38 {
		decimals = 38
	}

	return Token{
		Address:  strings.ToLower(addr),
		Decimals: decimals,
	}
}

// Equal reports whether two tokens refer to the same address. Decimals are
// not compared: the address is the sole identity key.
func (t Token) Equal(other Token) bool {
	return t.Address == other.Address
}

// IsNative reports whether t is the native-coin sentinel.
func (t Token) IsNative() bool {
	return t.Address == NativeSentinel
}

// WrapNative rewrites t to wrapped if t is the native sentinel, otherwise
// returns t unchanged. Adapters that set NeedWrapNative call this before
// doing any pool lookups.
func WrapNative(t Token, wrapped Token) Token {
	if t.IsNative() {
		return wrapped
	}

	return t
}
