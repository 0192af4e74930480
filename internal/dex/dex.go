package dex

import (
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

// SigKind classifies the router functions we know how to decode.
// This is the single source of truth for all selector types.
type SigKind int

const (
	SigUnknown SigKind = iota

	// Uniswap V2 router swaps
	SigSwapExactTokensForTokens
	SigSwapTokensForExactTokens
	SigSwapExactETHForTokens
	SigSwapExactTokensForETH
	SigSwapETHForExactTokens

	// Fee-on-transfer variants (same head layouts as their base forms)
	SigSwapExactETHForTokensSupportingFeeOnTransferTokens
	SigSwapExactTokensForETHSupportingFeeOnTransferTokens
	SigSwapExactTokensForTokensSupportingFeeOnTransferTokens

	// Uniswap V3 router (tuple argument with packed path bytes)
	SigV3ExactInput
	SigV3ExactOutput
)

// Family groups selectors by ABI shape. Unknown selectors still get a
// report, just an empty one.
type Family string

const (
	FamilyV2      Family = "v2"
	FamilyV3      Family = "v3"
	FamilyUnknown Family = "unknown"
)

// Fields holds decoded argument values keyed by field name. Amounts
// and deadlines are *big.Int; addresses are lowercase 0x hex strings.
type Fields map[string]any

// Uint returns the named field as *big.Int if present.
func (f Fields) Uint(name string) (*big.Int, bool) {
	v, ok := f[name].(*big.Int)
	return v, ok
}

// Addr returns the named field as an address hex string if present.
func (f Fields) Addr(name string) (string, bool) {
	v, ok := f[name].(string)
	return v, ok
}

type sigEntry struct {
	sig  string
	kind SigKind
}

// Selectors are derived from the canonical signature strings rather
// than hardcoded hex, so selector and layout can never drift apart.
var sigList = []sigEntry{
	{"swapExactTokensForTokens(uint256,uint256,address[],address,uint256)", SigSwapExactTokensForTokens},
	{"swapTokensForExactTokens(uint256,uint256,address[],address,uint256)", SigSwapTokensForExactTokens},
	{"swapExactETHForTokens(uint256,address[],address,uint256)", SigSwapExactETHForTokens},
	{"swapExactTokensForETH(uint256,uint256,address[],address,uint256)", SigSwapExactTokensForETH},
	{"swapETHForExactTokens(uint256,address[],address,uint256)", SigSwapETHForExactTokens},

	{"swapExactETHForTokensSupportingFeeOnTransferTokens(uint256,address[],address,uint256)", SigSwapExactETHForTokensSupportingFeeOnTransferTokens},
	{"swapExactTokensForETHSupportingFeeOnTransferTokens(uint256,uint256,address[],address,uint256)", SigSwapExactTokensForETHSupportingFeeOnTransferTokens},
	{"swapExactTokensForTokensSupportingFeeOnTransferTokens(uint256,uint256,address[],address,uint256)", SigSwapExactTokensForTokensSupportingFeeOnTransferTokens},

	{"exactInput((bytes,address,uint256,uint256,uint256))", SigV3ExactInput},
	{"exactOutput((bytes,address,uint256,uint256,uint256))", SigV3ExactOutput},
}

var (
	selectorToKind map[[4]byte]SigKind
	kindToSelector map[SigKind][4]byte
)

func init() {
	selectorToKind = make(map[[4]byte]SigKind, len(sigList))
	kindToSelector = make(map[SigKind][4]byte, len(sigList))
	for _, entry := range sigList {
		sel := keccak4(entry.sig)
		selectorToKind[sel] = entry.kind
		kindToSelector[entry.kind] = sel
	}
}

func keccak4(signature string) [4]byte {
	hash := crypto.Keccak256([]byte(signature))
	var sel [4]byte
	copy(sel[:], hash[:4])
	return sel
}

// Classify maps raw calldata (selector included) to a SigKind.
// Anything shorter than 4 bytes or not in the registry is SigUnknown.
func Classify(input []byte) SigKind {
	if len(input) < 4 {
		return SigUnknown
	}
	var sel [4]byte
	copy(sel[:], input[:4])
	if kind, exists := selectorToKind[sel]; exists {
		return kind
	}
	return SigUnknown
}

// SelectorOf is the reverse lookup: the 4-byte selector for a kind.
func SelectorOf(kind SigKind) ([4]byte, bool) {
	sel, ok := kindToSelector[kind]
	return sel, ok
}

// SelectorHex renders a selector as 8 lowercase hex characters.
func SelectorHex(sel [4]byte) string {
	return hex.EncodeToString(sel[:])
}

// KindFamily maps a SigKind to its ABI family.
func KindFamily(kind SigKind) Family {
	switch kind {
	case SigV3ExactInput, SigV3ExactOutput:
		return FamilyV3
	case SigUnknown:
		return FamilyUnknown
	default:
		return FamilyV2
	}
}

// KindToName returns the readable function name for a kind.
func KindToName(kind SigKind) string {
	switch kind {
	case SigSwapExactTokensForTokens:
		return "swapExactTokensForTokens"
	case SigSwapTokensForExactTokens:
		return "swapTokensForExactTokens"
	case SigSwapExactETHForTokens:
		return "swapExactETHForTokens"
	case SigSwapExactTokensForETH:
		return "swapExactTokensForETH"
	case SigSwapETHForExactTokens:
		return "swapETHForExactTokens"
	case SigSwapExactETHForTokensSupportingFeeOnTransferTokens:
		return "swapExactETHForTokensSupportingFeeOnTransferTokens"
	case SigSwapExactTokensForETHSupportingFeeOnTransferTokens:
		return "swapExactTokensForETHSupportingFeeOnTransferTokens"
	case SigSwapExactTokensForTokensSupportingFeeOnTransferTokens:
		return "swapExactTokensForTokensSupportingFeeOnTransferTokens"
	case SigV3ExactInput:
		return "exactInput"
	case SigV3ExactOutput:
		return "exactOutput"
	default:
		return "unknown"
	}
}

// SlippageGuard names the decoded field that carries the caller's
// slippage protection (minimum-out or maximum-in) for a kind. The
// second return is false when the guard lives outside calldata
// (msg.value caps ETH-in exact-output swaps) or the kind is unknown.
func SlippageGuard(kind SigKind) (string, bool) {
	switch kind {
	case SigSwapExactTokensForTokens, SigSwapExactTokensForETH,
		SigSwapTokensForExactTokens,
		SigSwapExactTokensForETHSupportingFeeOnTransferTokens,
		SigSwapExactTokensForTokensSupportingFeeOnTransferTokens:
		return "amount1", true
	case SigSwapExactETHForTokens, SigSwapExactETHForTokensSupportingFeeOnTransferTokens:
		return "amount0", true
	case SigV3ExactInput:
		return "amountOutMin", true
	case SigV3ExactOutput:
		return "amountInMax", true
	}
	return "", false
}
