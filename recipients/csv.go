// Package recipients ingests the airdrop recipient list: a CSV of
// destination addresses and whole-ADA amounts. It produces validated
// payouts, failing fast on the first malformed row -- partial lists are
// never returned.
package recipients

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bomlabs/airdrop-go/asset"
	"github.com/bomlabs/airdrop-go/tx"
)

// Column headers recognized in the recipient CSV.
const (
	addressColumn = "address"
	amountColumn  = "ada value"
)

var lovelacePerADA = decimal.NewFromInt(asset.LovelacePerADA)

// ReadFile reads payouts from a CSV file.
func ReadFile(path string) ([]tx.Payout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recipients: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Read parses payouts from CSV data. The first record is a header row that
// must contain "address" and "ADA Value" columns (case-insensitive); other
// columns are ignored. Amounts are parsed as exact decimals and scaled to
// lovelace -- float arithmetic never touches the money path. Row order is
// preserved.
func Read(r io.Reader) ([]tx.Payout, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRecipients
	}
	if err != nil {
		return nil, fmt.Errorf("recipients: read header: %w", err)
	}

	addrCol, amountCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case addressColumn:
			addrCol = i
		case amountColumn:
			amountCol = i
		}
	}
	if addrCol < 0 {
		return nil, fmt.Errorf("%w: address", ErrMissingColumn)
	}
	if amountCol < 0 {
		return nil, fmt.Errorf("%w: ADA Value", ErrMissingColumn)
	}

	var (
		payouts []tx.Payout
		seen    = make(map[string]struct{})
		line    = 1
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("recipients: read row: %w", err)
		}
		line++
		if len(record) <= addrCol || len(record) <= amountCol {
			return nil, fmt.Errorf("%w: line %d has %d columns", ErrMalformedRow, line, len(record))
		}

		address := strings.TrimSpace(record[addrCol])
		if _, err := tx.DecodeAddress(address); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := seen[address]; dup {
			return nil, fmt.Errorf("%w: %s on line %d", ErrDuplicateAddress, address, line)
		}
		seen[address] = struct{}{}

		amount, err := parseADA(strings.TrimSpace(record[amountCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		payouts = append(payouts, tx.Payout{Address: address, Amount: amount})
	}

	if len(payouts) == 0 {
		return nil, ErrNoRecipients
	}
	return payouts, nil
}

// parseADA converts a decimal ADA string to a positive lovelace amount.
func parseADA(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	lovelace := d.Mul(lovelacePerADA)
	if !lovelace.IsInteger() {
		return 0, fmt.Errorf("%w: %q is finer than one lovelace", ErrInvalidAmount, s)
	}
	if lovelace.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNonPositiveAmount, s)
	}
	bi := lovelace.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("%w: %q exceeds the native supply", ErrInvalidAmount, s)
	}
	return bi.Uint64(), nil
}
