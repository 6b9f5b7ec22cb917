package objectstore

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	encoder     *zstd.Encoder
	encoderOnce sync.Once
	encoderErr  error

	decoder     *zstd.Decoder
	decoderOnce sync.Once
	decoderErr  error
)

func getEncoder() (*zstd.Encoder, error) {
	encoderOnce.Do(func() {
		encoder, encoderErr = zstd.NewWriter(nil)
	})
	return encoder, encoderErr
}

func getDecoder() (*zstd.Decoder, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil)
	})
	return decoder, decoderErr
}

// compress zstd-encodes data. Used by Store.Put when a blob exceeds the
// configured compression_threshold.
func compress(data []byte) ([]byte, error) {
	enc, err := getEncoder()
	if err != nil {
		return nil, fmt.Errorf("objectstore: init zstd encoder: %w", err)
	}
	return enc.EncodeAll(data, nil), nil
}

// decompress reverses compress. The package-level decoder is safe for
// concurrent one-shot DecodeAll calls, per klauspost/compress/zstd's docs.
func decompress(data []byte) ([]byte, error) {
	dec, err := getDecoder()
	if err != nil {
		return nil, fmt.Errorf("objectstore: init zstd decoder: %w", err)
	}
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("objectstore: decompress: %w", err)
	}
	return out, nil
}
