package tx

import (
	"encoding/json"
	"fmt"
	"io"
)

// EternlEnvelopeType is the envelope type string wallets expect for an
// unsigned Conway-era transaction.
const EternlEnvelopeType = "Tx ConwayEra"

// EternlExport is the wallet import file format: a typed envelope around
// the hex-encoded CBOR transaction.
type EternlExport struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

// EternlExport packages the result for wallet import.
func (r *Result) EternlExport(description string) EternlExport {
	return EternlExport{
		Type:        EternlEnvelopeType,
		Description: description,
		CborHex:     r.CborHex(),
	}
}

// WriteEternl writes the wallet import JSON to w.
func (r *Result) WriteEternl(w io.Writer, description string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.EternlExport(description)); err != nil {
		return fmt.Errorf("tx: write eternl export: %w", err)
	}
	return nil
}
