// Package v2 decodes the fixed-head Uniswap V2 router swap layouts.
package v2

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/lovradikk/slipsentry/internal/calldata"
	"github.com/lovradikk/slipsentry/internal/dex"
)

// layout describes where each argument sits in the head for one
// selector group. New selectors only need a table entry.
type layout struct {
	amountArgs  []string // field name per leading amount word, in order
	pathArg     int      // head index of the path[] offset word
	toArg       int
	deadlineArg int
}

var (
	// amountIn/amountOut + guard, path at arg 2
	tokenLayout = layout{amountArgs: []string{"amount0", "amount1"}, pathArg: 2, toArg: 3, deadlineArg: 4}
	// single leading amount, ETH side comes from msg.value, path at arg 1
	ethLayout = layout{amountArgs: []string{"amount0"}, pathArg: 1, toArg: 2, deadlineArg: 3}

	layouts = map[dex.SigKind]layout{
		dex.SigSwapExactTokensForTokens:                              tokenLayout,
		dex.SigSwapTokensForExactTokens:                              tokenLayout,
		dex.SigSwapExactTokensForETH:                                 tokenLayout,
		dex.SigSwapExactTokensForETHSupportingFeeOnTransferTokens:    tokenLayout,
		dex.SigSwapExactTokensForTokensSupportingFeeOnTransferTokens: tokenLayout,
		dex.SigSwapExactETHForTokens:                                 ethLayout,
		dex.SigSwapETHForExactTokens:                                 ethLayout,
		dex.SigSwapExactETHForTokensSupportingFeeOnTransferTokens:    ethLayout,
	}
)

// DecodeSwap extracts the amount fields, path token list, recipient and
// deadline for a recognized V2 swap selector. The buffer is the
// calldata after the selector. Passing a kind outside the V2 set is a
// caller contract violation and fails with UnknownV2Layout.
func DecodeSwap(buf calldata.Buffer, kind dex.SigKind) (dex.Fields, []string, error) {
	lay, ok := layouts[kind]
	if !ok {
		return nil, nil, calldata.Errf(calldata.KindUnknownV2Layout, "kind %q has no v2 layout", dex.KindToName(kind))
	}

	fields := dex.Fields{}
	for i, name := range lay.amountArgs {
		v, ok := buf.Uint(i)
		if !ok {
			return nil, nil, calldata.Errf(calldata.KindTruncatedHead, "head word %d missing (len %d)", i, len(buf))
		}
		fields[name] = v
	}

	tokens, err := decodePathAt(buf, lay.pathArg)
	if err != nil {
		return nil, nil, err
	}

	to, ok := buf.Address(lay.toArg)
	if !ok {
		return nil, nil, calldata.Errf(calldata.KindTruncatedHead, "head word %d missing (len %d)", lay.toArg, len(buf))
	}
	fields["to"] = calldata.AddressHex(to)

	deadline, ok := buf.Uint(lay.deadlineArg)
	if !ok {
		return nil, nil, calldata.Errf(calldata.KindTruncatedHead, "head word %d missing (len %d)", lay.deadlineArg, len(buf))
	}
	fields["deadline"] = deadline

	return fields, tokens, nil
}

// decodePathAt reads the dynamic address[] whose offset word sits at
// head index argIndex. An empty array is legal; the heuristics flag it.
func decodePathAt(buf calldata.Buffer, argIndex int) ([]string, error) {
	offWord, ok := buf.Uint(argIndex)
	if !ok {
		return nil, calldata.Errf(calldata.KindTruncatedHead, "head word %d missing (len %d)", argIndex, len(buf))
	}
	if !calldata.IsOffsetLike(offWord, len(buf)) {
		return nil, calldata.Errf(calldata.KindDynamicHeadOutOfBounds, "bad offset %s for path[]", offWord)
	}
	off := int(offWord.Int64())

	ln := calldata.ToUint256(buf[off : off+calldata.WordSize])
	if !ln.IsInt64() {
		return nil, calldata.Errf(calldata.KindPathTruncated, "path[] length %s not addressable", ln)
	}
	n := int(ln.Int64())
	if n == 0 {
		return []string{}, nil
	}

	// n address words follow the length word; divide instead of
	// multiplying the attacker-controlled count, which can wrap
	if n > (len(buf)-off-calldata.WordSize)/calldata.WordSize {
		return nil, calldata.Errf(calldata.KindPathTruncated, "path[] of %d elements at %d overruns buffer (len %d)", n, off, len(buf))
	}
	tokens := make([]string, 0, n)
	base := off + calldata.WordSize
	for i := 0; i < n; i++ {
		elem := base + i*calldata.WordSize
		// addresses are right-aligned in their 32-byte words
		tokens = append(tokens, calldata.AddressHex(common.BytesToAddress(buf[elem+12:elem+32])))
	}
	return tokens, nil
}
