package artifactstore

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/rpggio/trendify/internal/domain/artifact"
)

func encodeNative(a *artifact.Artifact) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return nil, fmt.Errorf("encoding artifact gob: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeNative(data []byte) (*artifact.Artifact, error) {
	var a artifact.Artifact
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&a); err != nil {
		return nil, &envelopeError{reason: "decoding artifact gob", err: err}
	}
	return &a, nil
}
