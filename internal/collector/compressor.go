package collector

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/sa03134/soomgo-competitor-tracker/internal/collector/interfaces"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

const (
	defaultArchiveLevel = "best"
	// A decoded archive larger than this is treated as corrupt.
	maxArchiveBytes = 64 << 20
)

// ZstdCompression encodes archive files. Archives are written a few times a
// day and read rarely, so the level defaults to the densest one.
type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(history []byte) ([]byte, error) {
	return z.encoder.EncodeAll(history, make([]byte, 0, len(history)/4)), nil
}

func (z *ZstdCompression) Decompress(archive []byte) ([]byte, error) {
	return z.decoder.DecodeAll(archive, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

// NewZstdCompressor builds the archive codec at storage.compression
// (fastest, default, better or best).
func NewZstdCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	name := conf.Storage.Compression
	if name == "" {
		name = defaultArchiveLevel
	}
	ok, level := zstd.EncoderLevelFromString(name)
	if !ok {
		return nil, fmt.Errorf("unknown archive compression level %q", name)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxArchiveBytes))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}
