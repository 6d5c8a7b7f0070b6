// Package wire implements the versioned binary envelope for receipts. The
// payload is deterministic CBOR, so encoding the same receipt twice yields
// identical bytes and digests over encodings are stable.
package wire

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/receipt"
)

// Version is the only envelope version this codec reads or writes.
const Version uint32 = 1

// envelope frames a receipt body with its version and variant tag. The body
// stays raw until the tag is known, so an unknown kind is rejected without
// ever parsing attacker-shaped bytes into the wrong type.
type envelope struct {
	Version uint32          `cbor:"1,keyasint"`
	Kind    receipt.Kind    `cbor:"2,keyasint"`
	Body    cbor.RawMessage `cbor:"3,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		MaxArrayElements: 134217728,
		MaxMapPairs:      134217728,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Encode serializes a receipt into the versioned envelope.
func Encode(r *receipt.Receipt) ([]byte, error) {
	if r == nil || r.Inner == nil {
		return nil, core.NewError(core.CodeDecode, "encode", "receipt has no inner variant")
	}
	body, err := encMode.Marshal(r.Inner)
	if err != nil {
		return nil, core.NewError(core.CodeDecode, "encode", "cannot serialize receipt body").WithCause(err)
	}
	out, err := encMode.Marshal(envelope{Version: Version, Kind: r.Inner.Kind(), Body: body})
	if err != nil {
		return nil, core.NewError(core.CodeDecode, "encode", "cannot serialize envelope").WithCause(err)
	}
	return out, nil
}

// Decode parses and structurally validates a receipt from envelope bytes.
// Cryptographic checks are not run here; a decoded receipt is well-formed,
// not trusted.
func Decode(data []byte) (*receipt.Receipt, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, core.NewError(core.CodeDecode, "decode", "malformed envelope").WithCause(err)
	}
	if env.Version != Version {
		return nil, core.NewError(core.CodeDecode, "decode",
			"unsupported envelope version %d, expected %d", env.Version, Version)
	}

	var inner receipt.InnerReceipt
	switch env.Kind {
	case receipt.KindSegment:
		inner = new(receipt.SegmentReceipt)
	case receipt.KindComposite:
		inner = new(receipt.CompositeReceipt)
	case receipt.KindSuccinct:
		inner = new(receipt.SuccinctReceipt)
	case receipt.KindWrapped:
		inner = new(receipt.WrappedReceipt)
	default:
		return nil, core.NewError(core.CodeUnsupportedVariant, "decode",
			"unknown receipt kind %d", env.Kind)
	}
	if err := decMode.Unmarshal(env.Body, inner); err != nil {
		return nil, core.NewError(core.CodeDecode, "decode", "malformed receipt body").WithCause(err)
	}

	if err := validateInner(inner); err != nil {
		return nil, core.NewError(core.CodeDecode, "decode", "invalid receipt").WithCause(err)
	}
	return &receipt.Receipt{Inner: inner}, nil
}

func validateInner(inner receipt.InnerReceipt) error {
	switch r := inner.(type) {
	case *receipt.SegmentReceipt:
		return r.Validate()
	case *receipt.CompositeReceipt:
		return r.Validate()
	case *receipt.SuccinctReceipt:
		return r.Validate()
	case *receipt.WrappedReceipt:
		return r.Validate()
	default:
		return core.NewError(core.CodeUnsupportedVariant, "decode", "unknown receipt variant %T", inner)
	}
}
