package cache

import "github.com/klauspost/compress/zstd"

type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

type PlainCodec struct{}

func (PlainCodec) Encode(data []byte) ([]byte, error) { return data, nil }
func (PlainCodec) Decode(data []byte) ([]byte, error) { return data, nil }

type ZstdCodec struct{}

func (z ZstdCodec) Encode(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

func (z ZstdCodec) Decode(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}
