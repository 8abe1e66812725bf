package artifactstore

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/rpggio/trendify/internal/domain/artifact"
)

// Portable envelope layout, big-endian:
//
//	magic "TRND" | version u8 | codec u8 | raw length u32 | xxhash64 u64 | body
const (
	envelopeMagic   = "TRND"
	envelopeVersion = 1
	headerSize      = 4 + 1 + 1 + 4 + 8
	maxPayload      = 64 << 20
)

// envelopeError is a structural problem with a portable file.
type envelopeError struct {
	reason string
	err    error
}

func (e *envelopeError) Error() string {
	if e.err != nil {
		return e.reason + ": " + e.err.Error()
	}
	return e.reason
}

func (e *envelopeError) Unwrap() error { return e.err }

func encodePortable(a *artifact.Artifact, codec Codec) ([]byte, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding artifact json: %w", err)
	}
	if len(raw) > maxPayload {
		return nil, fmt.Errorf("artifact json is %d bytes, limit is %d", len(raw), maxPayload)
	}
	body, used, err := compress(codec, raw)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(body))
	buf.WriteString(envelopeMagic)
	buf.WriteByte(envelopeVersion)
	buf.WriteByte(byte(used))
	var header [12]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(raw)))
	binary.BigEndian.PutUint64(header[4:12], xxhash.Sum64(raw))
	buf.Write(header[:])
	buf.Write(body)
	return buf.Bytes(), nil
}

func decodePortable(data []byte) (*artifact.Artifact, error) {
	if len(data) < headerSize {
		return nil, &envelopeError{reason: fmt.Sprintf("truncated header: %d bytes", len(data))}
	}
	if string(data[0:4]) != envelopeMagic {
		return nil, &envelopeError{reason: "bad magic"}
	}
	if v := data[4]; v != envelopeVersion {
		return nil, &envelopeError{reason: fmt.Sprintf("unsupported envelope version %d", v)}
	}
	codec := Codec(data[5])
	rawLen := binary.BigEndian.Uint32(data[6:10])
	sum := binary.BigEndian.Uint64(data[10:18])
	if rawLen > maxPayload {
		return nil, &envelopeError{reason: fmt.Sprintf("declared length %d exceeds limit", rawLen)}
	}

	raw, err := decompress(codec, data[headerSize:], int(rawLen))
	if err != nil {
		return nil, &envelopeError{reason: "decompressing body", err: err}
	}
	if len(raw) != int(rawLen) {
		return nil, &envelopeError{reason: fmt.Sprintf("length mismatch: declared %d, got %d", rawLen, len(raw))}
	}
	if xxhash.Sum64(raw) != sum {
		return nil, &envelopeError{reason: "checksum mismatch"}
	}

	var a artifact.Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &envelopeError{reason: "decoding artifact json", err: err}
	}
	return &a, nil
}
