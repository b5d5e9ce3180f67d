package utxo

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomlabs/airdrop-go/asset"
)

var testPolicy = strings.Repeat("cc", 28)

// testTxID builds a distinct 64-char hex transaction id from a seed.
func testTxID(seed byte) string {
	return strings.Repeat(fmt.Sprintf("%02x", seed), 32)
}

func nativeUTXO(seed byte, index uint32, lovelace uint64) UTXO {
	return UTXO{
		TxID:    testTxID(seed),
		Index:   index,
		Address: "addr1sender",
		Value:   asset.FromNative(lovelace),
	}
}

func tokenUTXO(t *testing.T, seed byte, index uint32, lovelace uint64, name string, qty int64) UTXO {
	t.Helper()
	bag, err := asset.FromNative(lovelace).WithQuantity(
		asset.Class{PolicyID: testPolicy, Name: name}, big.NewInt(qty))
	require.NoError(t, err)
	u := nativeUTXO(seed, index, 0)
	u.Value = bag
	return u
}

func TestNewSet(t *testing.T) {
	s, err := NewSet([]UTXO{
		nativeUTXO(1, 0, 100),
		nativeUTXO(1, 1, 50),
		nativeUTXO(2, 0, 25),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Size())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, uint64(175), s.TotalNative())
}

func TestNewSet_Empty(t *testing.T) {
	s, err := NewSet(nil)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, uint64(0), s.TotalNative())
	assert.True(t, s.TotalAssets().IsEmpty())
}

func TestNewSet_DuplicateUTXO(t *testing.T) {
	_, err := NewSet([]UTXO{
		nativeUTXO(1, 0, 100),
		nativeUTXO(1, 0, 50),
	})
	assert.ErrorIs(t, err, ErrDuplicateUTXO)
}

func TestNewSet_InvalidTxID(t *testing.T) {
	u := nativeUTXO(1, 0, 100)
	u.TxID = "short"
	_, err := NewSet([]UTXO{u})
	assert.ErrorIs(t, err, ErrInvalidTxID)

	u.TxID = strings.Repeat("ZZ", 32)
	_, err = NewSet([]UTXO{u})
	assert.ErrorIs(t, err, ErrInvalidTxID)
}

func TestTotalAssets(t *testing.T) {
	s, err := NewSet([]UTXO{
		nativeUTXO(1, 0, 100),
		tokenUTXO(t, 2, 0, 5, "01", 3),
		tokenUTXO(t, 3, 0, 5, "01", 4),
	})
	require.NoError(t, err)

	total := s.TotalAssets()
	assert.Equal(t, uint64(110), total.NativeAmount())
	assert.Equal(t, big.NewInt(7),
		total.Quantity(asset.Class{PolicyID: testPolicy, Name: "01"}))
}

func TestRemove(t *testing.T) {
	a := nativeUTXO(1, 0, 100)
	b := nativeUTXO(2, 0, 50)
	s, err := NewSet([]UTXO{a, b})
	require.NoError(t, err)

	smaller := s.Remove(a.Ref())
	assert.Equal(t, 1, smaller.Size())
	assert.False(t, smaller.Contains(a.Ref()))
	assert.True(t, smaller.Contains(b.Ref()))

	// The original pool is untouched.
	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Contains(a.Ref()))

	// Removing an absent ref is a no-op.
	assert.Equal(t, 1, smaller.Remove(a.Ref()).Size())
}

func TestRefString(t *testing.T) {
	r := Ref{TxID: testTxID(7), Index: 3}
	assert.Equal(t, testTxID(7)+"#3", r.String())
}
