package tx

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"

	"github.com/bomlabs/airdrop-go/asset"
	"github.com/bomlabs/airdrop-go/utxo"
)

var testPolicy = strings.Repeat("dd", 28)

var testParams = ProtocolParameters{
	MinFeeA:      44,
	MinFeeB:      155_381,
	MinUTXOValue: 1_000_000,
}

// testAddr builds a valid mainnet base address whose payload is filled with
// the seed byte.
func testAddr(t *testing.T, seed byte) string {
	t.Helper()
	raw := make([]byte, 57)
	raw[0] = 0x01 // base address header, mainnet
	for i := 1; i < len(raw); i++ {
		raw[i] = seed
	}
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode(MainnetAddrPrefix, conv)
	require.NoError(t, err)
	return addr
}

func testTxID(seed byte) string {
	return strings.Repeat(fmt.Sprintf("%02x", seed), 32)
}

func nativeUTXO(t *testing.T, seed byte, lovelace uint64) utxo.UTXO {
	t.Helper()
	return utxo.UTXO{
		TxID:    testTxID(seed),
		Index:   0,
		Address: testAddr(t, 0xee),
		Value:   asset.FromNative(lovelace),
	}
}

func tokenUTXO(t *testing.T, seed byte, lovelace uint64, name string, qty int64) utxo.UTXO {
	t.Helper()
	u := nativeUTXO(t, seed, 0)
	bag, err := asset.FromNative(lovelace).WithQuantity(
		asset.Class{PolicyID: testPolicy, Name: name}, big.NewInt(qty))
	require.NoError(t, err)
	u.Value = bag
	return u
}

func mustPool(t *testing.T, utxos ...utxo.UTXO) *utxo.Set {
	t.Helper()
	pool, err := utxo.NewSet(utxos)
	require.NoError(t, err)
	return pool
}
