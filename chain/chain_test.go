package chain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomlabs/airdrop-go/asset"
	"github.com/bomlabs/airdrop-go/tx"
)

var testPolicy = strings.Repeat("ab", 28)

func testTxID(seed byte) string {
	return strings.Repeat(fmt.Sprintf("%02x", seed), 32)
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{URL: srv.URL, ProjectID: "test-project"})
	require.NoError(t, err)
	return c
}

func TestResolveConfig(t *testing.T) {
	resolved, err := ResolveConfig(Config{Network: "preprod", ProjectID: "pid"})
	require.NoError(t, err)
	assert.Equal(t, NetworkPresets["preprod"], resolved.URL)

	// Explicit URL wins over the network preset.
	resolved, err = ResolveConfig(Config{URL: "http://localhost:9999", Network: "mainnet", ProjectID: "pid"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", resolved.URL)

	_, err = ResolveConfig(Config{Network: "devnet", ProjectID: "pid"})
	assert.ErrorIs(t, err, ErrUnknownNetwork)

	_, err = ResolveConfig(Config{Network: "mainnet"})
	assert.ErrorIs(t, err, ErrMissingProjectID)
}

func TestClientUTXOs(t *testing.T) {
	addr := "addr1testaddress"
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-project", r.Header.Get("project_id"))
		fmt.Fprintf(w, `[
			{"tx_hash": %q, "output_index": 0, "address": %q,
			 "amount": [{"unit": "lovelace", "quantity": "42000000"}]},
			{"tx_hash": %q, "output_index": 1, "address": %q,
			 "amount": [
				{"unit": "lovelace", "quantity": "2000000"},
				{"unit": %q, "quantity": "7"}
			 ]}
		]`, testTxID(1), addr, testTxID(1), addr, testPolicy+"0001")
	}))

	pool, err := client.UTXOs(context.Background(), addr)
	require.NoError(t, err)
	require.Equal(t, 2, pool.Size())
	assert.Equal(t, uint64(44_000_000), pool.TotalNative())

	assets := pool.TotalAssets()
	assert.Equal(t, big.NewInt(7),
		assets.Quantity(asset.Class{PolicyID: testPolicy, Name: "0001"}))
}

func TestClientUTXOs_Pagination(t *testing.T) {
	var pages []string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		if page != "1" {
			fmt.Fprint(w, `[]`)
			return
		}
		// A full page forces a fetch of the next one.
		rows := make([]string, utxoPageSize)
		for i := range rows {
			rows[i] = fmt.Sprintf(
				`{"tx_hash": %q, "output_index": %d, "amount": [{"unit": "lovelace", "quantity": "1000000"}]}`,
				testTxID(9), i)
		}
		fmt.Fprintf(w, "[%s]", strings.Join(rows, ","))
	}))

	pool, err := client.UTXOs(context.Background(), "addr1whatever")
	require.NoError(t, err)
	assert.Equal(t, utxoPageSize, pool.Size())
	assert.Equal(t, []string{"1", "2"}, pages)
}

func TestClientUTXOs_UnknownAddressIsEmpty(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	pool, err := client.UTXOs(context.Background(), "addr1neverfunded")
	require.NoError(t, err)
	assert.True(t, pool.IsEmpty())
}

func TestClientUTXOs_AuthFailure(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.UTXOs(context.Background(), "addr1whatever")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestClientUTXOs_BadQuantity(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"tx_hash": %q, "output_index": 0,
			"amount": [{"unit": "lovelace", "quantity": "not-a-number"}]}]`, testTxID(1))
	}))

	_, err := client.UTXOs(context.Background(), "addr1whatever")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

// A lovelace quantity past the uint64 range must be rejected at the edge,
// before it can wrap inside the selection arithmetic.
func TestClientUTXOs_LovelaceOverflow(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"tx_hash": %q, "output_index": 0,
			"amount": [{"unit": "lovelace", "quantity": "18446744073709551621"}]}]`, testTxID(1))
	}))

	_, err := client.UTXOs(context.Background(), "addr1whatever")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

// Overflow across summed rows is caught the same way as a single huge row.
func TestClientUTXOs_LovelaceOverflowAcrossRows(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"tx_hash": %q, "output_index": 0,
			"amount": [
				{"unit": "lovelace", "quantity": "18446744073709551615"},
				{"unit": "lovelace", "quantity": "1"}
			]}]`, testTxID(1))
	}))

	_, err := client.UTXOs(context.Background(), "addr1whatever")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClientProtocolParameters(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epochs/latest/parameters", r.URL.Path)
		fmt.Fprint(w, `{"min_fee_a": 44, "min_fee_b": 155381, "min_utxo": "1000000"}`)
	}))

	params, err := client.ProtocolParameters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tx.ProtocolParameters{
		MinFeeA:      44,
		MinFeeB:      155_381,
		MinUTXOValue: 1_000_000,
	}, params)
}

func TestClientProtocolParameters_BadMinUTXO(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"min_fee_a": 44, "min_fee_b": 155381, "min_utxo": "lots"}`)
	}))

	_, err := client.ProtocolParameters(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClassFromUnit(t *testing.T) {
	class, err := classFromUnit("lovelace")
	require.NoError(t, err)
	assert.Equal(t, asset.Lovelace, class)

	class, err = classFromUnit(testPolicy + "000de140")
	require.NoError(t, err)
	assert.Equal(t, testPolicy, class.PolicyID)
	assert.Equal(t, "000de140", class.Name)

	// Policy id alone is a valid unit for a nameless asset.
	class, err = classFromUnit(testPolicy)
	require.NoError(t, err)
	assert.Empty(t, class.Name)

	_, err = classFromUnit("abcd")
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = classFromUnit(strings.Repeat("zz", 28) + "0001")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestMockLedger(t *testing.T) {
	mock := &MockLedger{
		ProtocolParametersFn: func(ctx context.Context) (tx.ProtocolParameters, error) {
			return tx.ProtocolParameters{MinFeeA: 1, MinFeeB: 2, MinUTXOValue: 3}, nil
		},
	}
	params, err := mock.ProtocolParameters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), params.MinFeeA)
}
