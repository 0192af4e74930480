package calldata

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// WordSize is the width of one ABI head slot.
const WordSize = 32

// Buffer is the calldata payload after the 4-byte selector has been
// stripped. All offsets inside a Buffer are relative to its first byte.
type Buffer []byte

// Normalize converts hex text (with or without 0x prefix, any case)
// into raw bytes. Odd length or non-hex characters fail with
// KindMalformedHex.
func Normalize(text string) ([]byte, error) {
	h := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(text), "0x"))
	if len(h)%2 != 0 {
		return nil, Errf(KindMalformedHex, "hex length must be even, got %d", len(h))
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return nil, Errf(KindMalformedHex, "invalid hex: %v", err)
	}
	return raw, nil
}

// Word returns the i-th 32-byte head slot. The second return is false
// when the buffer does not hold i+1 full words; callers must treat
// that as a truncated head, never as zero padding.
func (b Buffer) Word(i int) ([]byte, bool) {
	off := i * WordSize
	if off < 0 || off+WordSize > len(b) {
		return nil, false
	}
	return b[off : off+WordSize], true
}

// NumWords reports how many full head words the buffer holds.
func (b Buffer) NumWords() int {
	return len(b) / WordSize
}

// Uint interprets the i-th word as a big-endian unsigned integer.
func (b Buffer) Uint(i int) (*big.Int, bool) {
	w, ok := b.Word(i)
	if !ok {
		return nil, false
	}
	return ToUint256(w), true
}

// Address extracts the right-aligned 20-byte address from the i-th word.
func (b Buffer) Address(i int) (common.Address, bool) {
	w, ok := b.Word(i)
	if !ok {
		return common.Address{}, false
	}
	return common.BytesToAddress(w[12:32]), true
}

// ToUint256 is the big-endian unsigned reading of a word. Empty input
// is zero.
func ToUint256(w []byte) *big.Int {
	return new(big.Int).SetBytes(w)
}

// IsOffsetLike reports whether v is plausible as a relative byte offset
// into a buffer of the given total length: word-aligned and leaving
// room for at least one length word.
func IsOffsetLike(v *big.Int, total int) bool {
	if v.Sign() < 0 || !v.IsUint64() {
		return false
	}
	u := v.Uint64()
	return u%WordSize == 0 && u+WordSize <= uint64(total)
}

// ReadDynamic reads a length-prefixed dynamic value at an absolute byte
// offset: one length word followed by exactly that many content bytes.
// The offset must already have passed IsOffsetLike; this is a
// bounds-checked raw reader, not an offset validator.
func ReadDynamic(b Buffer, off int) (int, []byte, error) {
	if off < 0 || off+WordSize > len(b) {
		return 0, nil, Errf(KindDynamicHeadOutOfBounds, "dynamic head at %d points out of bounds (len %d)", off, len(b))
	}
	ln := ToUint256(b[off : off+WordSize])
	// compare without adding to the attacker-controlled length word:
	// off+32+ln can wrap past the int range
	if !ln.IsInt64() || ln.Int64() > int64(len(b)-off-WordSize) {
		return 0, nil, Errf(KindDynamicBodyTruncated, "dynamic body of %s bytes at %d overruns buffer (len %d)", ln, off, len(b))
	}
	n := int(ln.Int64())
	return n, b[off+WordSize : off+WordSize+n], nil
}

// AddressHex formats a 20-byte address as lowercase 0x-prefixed hex.
func AddressHex(a common.Address) string {
	return hexutil.Encode(a[:])
}
