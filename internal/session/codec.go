package session

import (
	"encoding/json"
	"fmt"

	"github.com/justinabrahms/checkers/internal/checkers"
)

// Codec converts snapshots to and from their stored form.
type Codec interface {
	Name() string
	Encode(snap checkers.Snapshot) ([]byte, error)
	Decode(data []byte) (checkers.Snapshot, error)
}

// JSONCodec stores the snapshot wire format as is.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(snap checkers.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

func (JSONCodec) Decode(data []byte) (checkers.Snapshot, error) {
	return checkers.ParseSnapshot(data)
}

// CBORCodec stores snapshots as DAG-CBOR.
type CBORCodec struct{}

func (CBORCodec) Name() string { return "cbor" }

func (CBORCodec) Encode(snap checkers.Snapshot) ([]byte, error) {
	return checkers.EncodeCBOR(snap)
}

func (CBORCodec) Decode(data []byte) (checkers.Snapshot, error) {
	return checkers.DecodeCBOR(data)
}

// CodecByName resolves a configured codec name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "cbor":
		return CBORCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
