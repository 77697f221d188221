package object

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Loose objects are stored zstd-compressed. A single encoder and decoder are
// shared; EncodeAll and DecodeAll are safe for concurrent use.
var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func initCodec() {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
}

func compressZstd(data []byte) ([]byte, error) {
	initCodec()
	if codecErr != nil {
		return nil, codecErr
	}
	return encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	initCodec()
	if codecErr != nil {
		return nil, codecErr
	}
	return decoder.DecodeAll(data, nil)
}
