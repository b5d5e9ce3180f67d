package tx

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/bomlabs/airdrop-go/asset"
)

// Body field keys in the transaction body map.
const (
	bodyKeyInputs  = 0
	bodyKeyOutputs = 1
	bodyKeyFee     = 2
	bodyKeyTTL     = 3
)

// encMode is the canonical encoder shared by all serialization: core
// deterministic map ordering and shortest-form integers, so identical
// drafts always produce byte-identical output and size estimation is exact.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		BigIntConvert: cbor.BigIntConvertShortest,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("tx: cbor encoder init: %v", err))
	}
}

// wireInput is the on-wire input reference: [txid, index].
type wireInput struct {
	_     struct{} `cbor:",toarray"`
	TxID  []byte
	Index uint32
}

// wireOutput is the on-wire output: [address, value].
type wireOutput struct {
	_       struct{} `cbor:",toarray"`
	Address []byte
	Value   wireValue
}

// wireValue encodes a Bag as the ledger value form: a bare unsigned integer
// for pure lovelace, or [coin, {policy: {name: quantity}}] when any other
// asset class is present.
type wireValue struct {
	bag asset.Bag
}

func (v wireValue) MarshalCBOR() ([]byte, error) {
	coin := v.bag.NativeAmount()
	rest := v.bag.WithoutNative()
	if rest.IsEmpty() {
		return encMode.Marshal(coin)
	}

	multi := make(map[cbor.ByteString]map[cbor.ByteString]*big.Int)
	for _, c := range rest.Classes() {
		policy, err := hex.DecodeString(c.PolicyID)
		if err != nil {
			return nil, fmt.Errorf("policy id %q: %w", c.PolicyID, err)
		}
		name, err := hex.DecodeString(c.Name)
		if err != nil {
			return nil, fmt.Errorf("asset name %q: %w", c.Name, err)
		}
		pk := cbor.ByteString(policy)
		if multi[pk] == nil {
			multi[pk] = make(map[cbor.ByteString]*big.Int)
		}
		multi[pk][cbor.ByteString(name)] = rest.Quantity(c)
	}

	tuple := struct {
		_     struct{} `cbor:",toarray"`
		Coin  uint64
		Multi map[cbor.ByteString]map[cbor.ByteString]*big.Int
	}{Coin: coin, Multi: multi}
	return encMode.Marshal(tuple)
}

// wireBody is the integer-keyed transaction body map.
type wireBody struct {
	Inputs  []wireInput  `cbor:"0,keyasint"`
	Outputs []wireOutput `cbor:"1,keyasint"`
	Fee     uint64       `cbor:"2,keyasint"`
	TTL     *uint64      `cbor:"3,keyasint,omitempty"`
}

// wireTx is the unsigned transaction envelope:
// [body, witness set, validity flag, auxiliary data].
type wireTx struct {
	_       struct{} `cbor:",toarray"`
	Body    wireBody
	Witness struct{} // empty until the wallet signs
	IsValid bool
	AuxData *wireAuxData
}

// wireAuxData is the auxiliary metadata map, keyed by metadata label.
type wireAuxData map[uint64]wireMetadatum

// wireMetadatum is the CIP-20 message payload under label 674.
type wireMetadatum struct {
	Msg []string `cbor:"msg"`
}

// body lowers the draft to its wire form. Address decoding happens here so
// a draft built from validated payouts cannot fail late with a surprise.
func (d *Draft) body() (wireBody, error) {
	inputs := make([]wireInput, len(d.Inputs))
	for i, in := range d.Inputs {
		raw, err := hex.DecodeString(in.TxID)
		if err != nil {
			return wireBody{}, fmt.Errorf("%w: input txid %q: %w", ErrSerialize, in.TxID, err)
		}
		inputs[i] = wireInput{TxID: raw, Index: in.Index}
	}

	outputs := make([]wireOutput, len(d.Outputs))
	for i, out := range d.Outputs {
		raw, err := DecodeAddress(out.Address)
		if err != nil {
			return wireBody{}, fmt.Errorf("%w: output %d: %w", ErrSerialize, i, err)
		}
		outputs[i] = wireOutput{Address: raw, Value: wireValue{bag: out.Value}}
	}

	return wireBody{
		Inputs:  inputs,
		Outputs: outputs,
		Fee:     d.Fee,
		TTL:     d.TTL,
	}, nil
}

// BodyBytes serializes the transaction body alone. The transaction id is
// the blake2b-256 digest of exactly these bytes.
func (d *Draft) BodyBytes() ([]byte, error) {
	body, err := d.body()
	if err != nil {
		return nil, err
	}
	data, err := encMode.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %w", ErrSerialize, err)
	}
	return data, nil
}

// Bytes serializes the full unsigned transaction envelope, including the
// empty witness set and any auxiliary metadata. Fee estimation measures
// these bytes.
func (d *Draft) Bytes() ([]byte, error) {
	body, err := d.body()
	if err != nil {
		return nil, err
	}
	env := wireTx{Body: body, IsValid: true}
	if d.Metadata != nil && !d.Metadata.IsEmpty() {
		aux := wireAuxData{MetadataLabelMsg: wireMetadatum{Msg: d.Metadata.Messages}}
		env.AuxData = &aux
	}
	data, err := encMode.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope: %w", ErrSerialize, err)
	}
	return data, nil
}

// TxID computes the hex transaction id: blake2b-256 over the body bytes.
func (d *Draft) TxID() (string, error) {
	body, err := d.BodyBytes()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
