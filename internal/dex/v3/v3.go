// Package v3 decodes the Uniswap V3 router exactInput/exactOutput
// tuple argument and its packed fee path.
package v3

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/lovradikk/slipsentry/internal/calldata"
	"github.com/lovradikk/slipsentry/internal/dex"
)

const (
	tokenLen  = 20
	feeLen    = 3
	headWords = 5
)

// DecodeExact decodes the single tuple argument of exactInput or
// exactOutput: (bytes path, address recipient, uint256 deadline,
// uint256 amount, uint256 amountLimit). Word 3 and 4 keep their
// positions across both selectors but change meaning, so the field
// names depend on the kind.
func DecodeExact(buf calldata.Buffer, kind dex.SigKind) (dex.Fields, []string, error) {
	if buf.NumWords() < headWords {
		return nil, nil, calldata.Errf(calldata.KindV3StructTooShort, "v3 struct needs %d head words, have %d", headWords, buf.NumWords())
	}

	pathOff, _ := buf.Uint(0)
	if !calldata.IsOffsetLike(pathOff, len(buf)) {
		return nil, nil, calldata.Errf(calldata.KindDynamicHeadOutOfBounds, "bad offset %s for path bytes", pathOff)
	}
	_, pathBytes, err := calldata.ReadDynamic(buf, int(pathOff.Int64()))
	if err != nil {
		return nil, nil, err
	}

	recipient, _ := buf.Address(1)
	deadline, _ := buf.Uint(2)
	amount3, _ := buf.Uint(3)
	amount4, _ := buf.Uint(4)

	fields := dex.Fields{
		"recipient": calldata.AddressHex(recipient),
		"deadline":  deadline,
	}
	if kind == dex.SigV3ExactInput {
		fields["amountIn"] = amount3
		fields["amountOutMin"] = amount4
	} else {
		fields["amountOut"] = amount3
		fields["amountInMax"] = amount4
	}

	return fields, ParsePath(pathBytes), nil
}

// ParsePath walks the packed V3 path encoding: token(20) then repeated
// fee(3)+token(20), ending on a token. Anything shorter than one token
// yields an empty list, and a trailing fee with no token after it is
// dropped rather than rejected; the heuristics layer decides what a
// degenerate path means.
func ParsePath(b []byte) []string {
	tokens := []string{}
	if len(b) < tokenLen {
		return tokens
	}
	tokens = append(tokens, calldata.AddressHex(common.BytesToAddress(b[:tokenLen])))
	i := tokenLen
	for i < len(b) {
		if i+feeLen+tokenLen > len(b) {
			break
		}
		i += feeLen
		tokens = append(tokens, calldata.AddressHex(common.BytesToAddress(b[i:i+tokenLen])))
		i += tokenLen
	}
	return tokens
}
