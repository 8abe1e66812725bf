// Package artifactstore persists model artifacts as files, in a format
// chosen by suffix.
package artifactstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/repository"
)

// FileStore implements artifact.Store on the local filesystem.
type FileStore struct {
	codec  Codec
	logger *slog.Logger
}

var (
	_ artifact.Store           = (*FileStore)(nil)
	_ repository.ArtifactStore = (*FileStore)(nil)
)

// NewFileStore creates a store that compresses portable files with codec.
func NewFileStore(codec Codec, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileStore{codec: codec, logger: logger}
}

// Save writes a to path. Nothing is written for an unsupported suffix, and
// a failed write never leaves a partial file behind.
func (s *FileStore) Save(ctx context.Context, a *artifact.Artifact, path string) error {
	const op = "save artifact"

	format, err := artifact.FormatFor(op, path)
	if err != nil {
		return err
	}
	if a == nil {
		return errors.New("save artifact: nil artifact")
	}

	var data []byte
	switch format {
	case artifact.FormatNative:
		data, err = encodeNative(a)
	case artifact.FormatPortable:
		data, err = encodePortable(a, s.codec)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug("artifact written", "path", path, "format", format, "bytes", len(data))
	return nil
}

// Load reads and validates the artifact at path.
func (s *FileStore) Load(ctx context.Context, path string) (*artifact.Artifact, error) {
	const op = "load artifact"

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.PathError(op, domain.KindFileNotFound, path, nil)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	format, err := artifact.FormatFor(op, path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &domain.OpError{Op: op, Kind: domain.KindCorruptArtifact, Path: path, Reason: "path is a directory"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var a *artifact.Artifact
	switch format {
	case artifact.FormatNative:
		a, err = decodeNative(data)
	case artifact.FormatPortable:
		a, err = decodePortable(data)
	}
	if err != nil {
		var envErr *envelopeError
		if errors.As(err, &envErr) {
			return nil, &domain.OpError{Op: op, Kind: domain.KindCorruptArtifact, Path: path, Reason: envErr.reason, Err: envErr.err}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.Validate(); err != nil {
		var opErr *domain.OpError
		if errors.As(err, &opErr) {
			opErr.Op = op
			opErr.Path = path
		}
		return nil, err
	}
	s.logger.Debug("artifact read", "path", path, "format", format, "artifact_id", a.ID)
	return a, nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".trendify-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
