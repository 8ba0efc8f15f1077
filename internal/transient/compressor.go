package transient

import (
	"fmt"
	"github.com/klauspost/compress/zstd"
	"promod/internal/transient/interfaces"
)

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (interfaces.CompressorInterface, func(), error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		_ = encoder.Close()
		return nil, nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	z := &ZstdCompression{encoder: encoder, decoder: decoder}
	return z, z.Close, nil
}
