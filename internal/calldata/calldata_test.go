package calldata

import (
	"bytes"
	"math/big"
	"testing"
)

func word(v uint64) []byte {
	w := make([]byte, WordSize)
	big.NewInt(int64(v)).FillBytes(w)
	return w
}

func TestNormalize(t *testing.T) {
	raw, err := Normalize("0x38ED1739")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !bytes.Equal(raw, []byte{0x38, 0xed, 0x17, 0x39}) {
		t.Fatalf("unexpected bytes: %x", raw)
	}

	if _, err := Normalize("0xabc"); KindOf(err) != KindMalformedHex {
		t.Fatalf("odd length should be MalformedHex, got %v", err)
	}
	if _, err := Normalize("zz"); KindOf(err) != KindMalformedHex {
		t.Fatalf("non-hex should be MalformedHex, got %v", err)
	}
	if raw, err := Normalize("38ed1739"); err != nil || len(raw) != 4 {
		t.Fatalf("prefix must be optional: %x %v", raw, err)
	}
}

func TestIsOffsetLike(t *testing.T) {
	total := 96
	cases := []struct {
		v    int64
		want bool
	}{
		{0, true},
		{32, true},
		{64, true}, // total - 32, last valid slot
		{96, false},
		{16, false},
		{-32, false},
	}
	for _, c := range cases {
		if got := IsOffsetLike(big.NewInt(c.v), total); got != c.want {
			t.Errorf("IsOffsetLike(%d, %d) = %v, want %v", c.v, total, got, c.want)
		}
	}

	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	if IsOffsetLike(huge, total) {
		t.Error("offsets beyond uint64 must be rejected")
	}
}

func TestWordRequiresFullSlot(t *testing.T) {
	buf := Buffer(make([]byte, 40)) // one full word plus a short tail
	if _, ok := buf.Word(0); !ok {
		t.Fatal("word 0 should be available")
	}
	if _, ok := buf.Word(1); ok {
		t.Fatal("partial final chunk must not be readable as a word")
	}
	if n := buf.NumWords(); n != 1 {
		t.Fatalf("NumWords = %d, want 1", n)
	}
}

func TestReadDynamic(t *testing.T) {
	content := []byte{0xde, 0xad, 0xbe, 0xef}
	buf := Buffer(append(word(uint64(len(content))), content...))

	// exact boundary: off + 32 + length == len(buf)
	n, body, err := ReadDynamic(buf, 0)
	if err != nil {
		t.Fatalf("boundary read failed: %v", err)
	}
	if n != 4 || !bytes.Equal(body, content) {
		t.Fatalf("got n=%d body=%x", n, body)
	}

	// declared length overruns by one byte
	over := Buffer(append(word(5), content...))
	if _, _, err := ReadDynamic(over, 0); KindOf(err) != KindDynamicBodyTruncated {
		t.Fatalf("want DynamicBodyTruncated, got %v", err)
	}

	// head itself out of bounds
	if _, _, err := ReadDynamic(buf, len(buf)); KindOf(err) != KindDynamicHeadOutOfBounds {
		t.Fatalf("want DynamicHeadOutOfBounds, got %v", err)
	}
}

// Length words near the int64 ceiling must fail the bounds check, not
// wrap it and panic on the slice.
func TestReadDynamicHugeLength(t *testing.T) {
	buf := Buffer(word(1<<63 - 1))
	if _, _, err := ReadDynamic(buf, 0); KindOf(err) != KindDynamicBodyTruncated {
		t.Fatalf("2^63-1 length: want DynamicBodyTruncated, got %v", err)
	}

	// a length word beyond int64 entirely
	w := make([]byte, WordSize)
	w[0] = 0x01
	if _, _, err := ReadDynamic(Buffer(w), 0); KindOf(err) != KindDynamicBodyTruncated {
		t.Fatalf("2^248 length: want DynamicBodyTruncated, got %v", err)
	}
}

func TestToUint256(t *testing.T) {
	if ToUint256(nil).Sign() != 0 {
		t.Fatal("empty input must read as zero")
	}
	if ToUint256(word(1000)).Int64() != 1000 {
		t.Fatal("big-endian read mismatch")
	}
}

func TestAddressExtraction(t *testing.T) {
	w := make([]byte, WordSize)
	for i := 12; i < 32; i++ {
		w[i] = byte(i)
	}
	buf := Buffer(w)
	addr, ok := buf.Address(0)
	if !ok {
		t.Fatal("address word missing")
	}
	got := AddressHex(addr)
	if got != "0x0c0d0e0f101112131415161718191a1b1c1d1e1f" {
		t.Fatalf("unexpected address %s", got)
	}
}
