package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bomlabs/airdrop-go/asset"
	"github.com/bomlabs/airdrop-go/tx"
	"github.com/bomlabs/airdrop-go/utxo"
)

// utxoPageSize is the Blockfrost maximum page size for UTXO listings.
const utxoPageSize = 100

// Client is a Blockfrost HTTP client implementing Ledger.
type Client struct {
	baseURL   string
	projectID string
	client    *http.Client
}

// Compile-time interface check.
var _ Ledger = (*Client)(nil)

// NewClient creates a ledger client from a resolved Config. The underlying
// HTTP client keeps a small connection pool for page sequences.
func NewClient(cfg Config) (*Client, error) {
	resolved, err := ResolveConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   resolved.URL,
		projectID: resolved.ProjectID,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}, nil
}

// utxoRow is one entry of the /addresses/{address}/utxos response.
type utxoRow struct {
	TxHash      string      `json:"tx_hash"`
	OutputIndex uint32      `json:"output_index"`
	Address     string      `json:"address"`
	Amount      []amountRow `json:"amount"`
}

// amountRow is one unit/quantity pair: unit is "lovelace" or the
// concatenation of hex policy id and hex asset name.
type amountRow struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// paramsRow is the subset of /epochs/latest/parameters the core needs.
type paramsRow struct {
	MinFeeA uint64 `json:"min_fee_a"`
	MinFeeB uint64 `json:"min_fee_b"`
	MinUTXO string `json:"min_utxo"`
}

// UTXOs fetches every unspent output of the address, paging until the API
// returns a short page. A 404 means the ledger has never seen the address,
// which is an empty pool rather than an error.
func (c *Client) UTXOs(ctx context.Context, address string) (*utxo.Set, error) {
	var all []utxo.UTXO
	for page := 1; ; page++ {
		path := fmt.Sprintf("/addresses/%s/utxos?count=%d&page=%d",
			url.PathEscape(address), utxoPageSize, page)

		var rows []utxoRow
		found, err := c.get(ctx, path, &rows)
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}

		for _, row := range rows {
			u, err := rowToUTXO(row, address)
			if err != nil {
				return nil, err
			}
			all = append(all, u)
		}
		if len(rows) < utxoPageSize {
			break
		}
	}
	return utxo.NewSet(all)
}

// ProtocolParameters fetches the current epoch's pricing constants.
func (c *Client) ProtocolParameters(ctx context.Context) (tx.ProtocolParameters, error) {
	var row paramsRow
	found, err := c.get(ctx, "/epochs/latest/parameters", &row)
	if err != nil {
		return tx.ProtocolParameters{}, err
	}
	if !found {
		return tx.ProtocolParameters{}, fmt.Errorf("%w: no protocol parameters", ErrInvalidResponse)
	}
	minUTXO, err := strconv.ParseUint(row.MinUTXO, 10, 64)
	if err != nil {
		return tx.ProtocolParameters{}, fmt.Errorf("%w: min_utxo %q: %w", ErrInvalidResponse, row.MinUTXO, err)
	}
	return tx.ProtocolParameters{
		MinFeeA:      row.MinFeeA,
		MinFeeB:      row.MinFeeB,
		MinUTXOValue: minUTXO,
	}, nil
}

// get performs an authenticated GET and decodes the JSON body into result.
// It returns found=false for a 404 without touching result.
func (c *Client) get(ctx context.Context, path string, result interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("chain: create request: %w", err)
	}
	req.Header.Set("project_id", c.projectID)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusPaymentRequired:
		return false, fmt.Errorf("%w: HTTP %d", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return false, fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return false, fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}
	return true, nil
}

// rowToUTXO converts an API row into a core UTXO, parsing each unit string
// and its decimal quantity into the value bag.
func rowToUTXO(row utxoRow, fallbackAddr string) (utxo.UTXO, error) {
	addr := row.Address
	if addr == "" {
		addr = fallbackAddr
	}
	bag := asset.NewBag()
	for _, a := range row.Amount {
		qty, ok := new(big.Int).SetString(a.Quantity, 10)
		if !ok || qty.Sign() < 0 {
			return utxo.UTXO{}, fmt.Errorf("%w: quantity %q for unit %q",
				ErrInvalidResponse, a.Quantity, a.Unit)
		}
		class, err := classFromUnit(a.Unit)
		if err != nil {
			return utxo.UTXO{}, err
		}
		total := new(big.Int).Add(bag.Quantity(class), qty)
		// Native amounts feed uint64 arithmetic downstream; an overflowing
		// quantity is a broken response, not a big wallet.
		if class.IsNative() && !total.IsUint64() {
			return utxo.UTXO{}, fmt.Errorf("%w: lovelace quantity %s overflows",
				ErrInvalidResponse, total)
		}
		with, err := bag.WithQuantity(class, total)
		if err != nil {
			return utxo.UTXO{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		bag = with
	}
	return utxo.UTXO{
		TxID:    row.TxHash,
		Index:   row.OutputIndex,
		Address: addr,
		Value:   bag,
	}, nil
}

// classFromUnit parses a Blockfrost unit string: "lovelace" for the native
// class, otherwise 56 hex chars of policy id followed by the hex asset name.
func classFromUnit(unit string) (asset.Class, error) {
	if unit == "lovelace" {
		return asset.Lovelace, nil
	}
	if len(unit) < asset.PolicyIDHexLen {
		return asset.Class{}, fmt.Errorf("%w: unit %q", ErrInvalidResponse, unit)
	}
	class := asset.Class{
		PolicyID: unit[:asset.PolicyIDHexLen],
		Name:     unit[asset.PolicyIDHexLen:],
	}
	if err := class.Validate(); err != nil {
		return asset.Class{}, fmt.Errorf("%w: unit %q: %w", ErrInvalidResponse, unit, err)
	}
	return class, nil
}
