package helpers

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ShortAddress shortens a 0x-prefixed address for display.
func ShortAddress(addr string) string {
	if len(addr) > 10 {
		return addr[:6] + "..." + addr[len(addr)-4:]
	}
	return addr
}

// FormatDeadline renders a swap deadline for display. Zero means the
// transaction never expires; values that fit a unix timestamp are
// shown as wall-clock time.
func FormatDeadline(deadline *big.Int) string {
	if deadline == nil {
		return "-"
	}
	if deadline.Sign() == 0 {
		return "none (0)"
	}
	if deadline.IsInt64() {
		return time.Unix(deadline.Int64(), 0).UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s (beyond unix range)", deadline)
}

// IsDeadAddress checks if an address is a known burn address.
func IsDeadAddress(addr common.Address) bool {
	deadAddresses := []common.Address{
		common.HexToAddress("0x0000000000000000000000000000000000000000"),
		common.HexToAddress("0x000000000000000000000000000000000000dEaD"),
		common.HexToAddress("0x0000000000000000000000000000000000000001"),
	}

	for _, dead := range deadAddresses {
		if addr == dead {
			return true
		}
	}

	return false
}
