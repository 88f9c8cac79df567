package superjson

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// EncodeToCompressed encodes v and compresses the emitted envelope
// with zstd. Meant for transporting large envelopes; the frame is
// self-describing, no length prefix is added.
func EncodeToCompressed(v *Value) ([]byte, error) {
	env, err := Encode(v)
	if err != nil {
		return nil, err
	}
	data, err := EmitEnvelope(env)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("superjson: zstd: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// DecodeFromCompressed decompresses a zstd frame produced by
// EncodeToCompressed (or any zstd-compressed envelope) and decodes it.
func DecodeFromCompressed(data []byte) (*Value, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("superjson: zstd: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("superjson: zstd: %w", err)
	}
	env, err := ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return Decode(env)
}
