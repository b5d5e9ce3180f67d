package tx

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Address prefixes for payment addresses. Stake (reward) addresses are not
// valid payout destinations.
const (
	MainnetAddrPrefix = "addr"
	TestnetAddrPrefix = "addr_test"
)

// DecodeAddress decodes a bech32 payment address into its raw ledger bytes
// for wire encoding. Ledger addresses exceed the 90-character bech32 limit,
// so the length check is disabled; the checksum is still enforced.
func DecodeAddress(addr string) ([]byte, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	hrp, data, err := bech32.DecodeNoLimit(strings.ToLower(addr))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, addr, err)
	}
	if hrp != MainnetAddrPrefix && hrp != TestnetAddrPrefix {
		return nil, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidAddress, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, addr, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %q: empty payload", ErrInvalidAddress, addr)
	}
	return raw, nil
}
