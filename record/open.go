package record

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/viewbox"
	"go.uber.org/zap"
)

var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil)
	})
)

// Open decodes data into a V that may alias it and bundles the two, so the
// aliases cannot outlive or observe changes to the buffer. Open takes
// ownership of data: the caller must not touch it afterwards unless Open
// fails, in which case the *viewbox.BuildError[[]byte] hands it back.
func Open[V any](c *Codec, data []byte) (*viewbox.Box[[]byte, V], error) {
	return viewbox.TryNew(data, func(buf *[]byte) (V, error) {
		var v V
		err := c.Decode(*buf, &v)
		return v, err
	})
}

// Compress wraps an encoded record in a zstd frame.
func Compress(encoded []byte) ([]byte, error) {
	enc, err := zstdEncoder()
	if err != nil {
		return nil, fmt.Errorf("record: zstd encoder: %w", err)
	}
	return enc.EncodeAll(encoded, make([]byte, 0, len(encoded))), nil
}

// OpenCompressed decompresses a frame produced by Compress into a fresh
// buffer and opens it. The decompressed buffer is owned by the box.
func OpenCompressed[V any](c *Codec, compressed []byte) (*viewbox.Box[[]byte, V], error) {
	dec, err := zstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("record: zstd decoder: %w", err)
	}
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("record: decompress: %w", err)
	}
	Logger().Debug("record: decompressed",
		zap.Int("compressed", len(compressed)),
		zap.Int("raw", len(raw)))
	return Open[V](c, raw)
}
