// Package storage owns the output directory and the bounded in-memory
// registry of recent outputs backing the gallery resource.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"imagegen-mcp/internal/domain/generation"
	"imagegen-mcp/internal/infrastructure/config"
	"imagegen-mcp/utils/apperrors"
)

// Store writes generated payloads to the output directory with collision-free
// sortable names and tracks recent outputs in a FIFO-bounded registry.
// Filename reservation and registry mutation are serialized behind one mutex;
// no lock is ever held across a disk write or a provider call.
type Store struct {
	dir      string
	capacity int
	log      zerolog.Logger

	mu        sync.Mutex
	entries   []generation.GeneratedAsset
	lastStamp string
	seq       int
}

// NewStore creates the store and its output directory.
func NewStore(cfg *config.Config) (*Store, error) {
	logger := log.With().Str("component", "output-store").Logger()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	logger.Info().
		Str("path", cfg.OutputDir).
		Int("registry_capacity", cfg.RegistryCapacity).
		Msg("output store initialized")

	return &Store{
		dir:      cfg.OutputDir,
		capacity: cfg.RegistryCapacity,
		log:      logger,
	}, nil
}

// Dir returns the resolved output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the payload to a fresh file and registers the asset. The
// registry is appended only after the write succeeds, so a failed or
// cancelled write never corrupts registry ordering; at worst an unregistered
// orphan file remains on disk.
func (s *Store) Save(ctx context.Context, payload []byte, mimeType string, req *generation.GenerationRequest, model string) (*generation.GeneratedAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageError, "call cancelled before write", err)
	}

	now := time.Now()
	name := s.reserveFilename(req.Kind, mimeType, now)
	path := filepath.Join(s.dir, name)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageError,
			fmt.Sprintf("failed to create output directory %s", s.dir), err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorageError,
			fmt.Sprintf("failed to write %s", path), err)
	}

	asset := generation.GeneratedAsset{
		Path:         path,
		Kind:         assetKind(req.Kind),
		CreatedAt:    now,
		SourcePrompt: req.Prompt,
		Model:        model,
		SizeBytes:    int64(len(payload)),
	}

	s.mu.Lock()
	s.entries = append(s.entries, asset)
	if len(s.entries) > s.capacity {
		// FIFO eviction; the file itself is never deleted.
		s.entries = s.entries[len(s.entries)-s.capacity:]
	}
	s.mu.Unlock()

	s.log.Debug().
		Str("path", path).
		Int("bytes", len(payload)).
		Msg("asset written")

	return &asset, nil
}

// Recent returns up to limit assets, most recent first. It never touches the
// disk; the registry is the single source for the gallery resource.
func (s *Store) Recent(limit int) []generation.GeneratedAsset {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]generation.GeneratedAsset, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// reserveFilename picks a unique, sortable name. Saves landing in the same
// second receive an increasing numeric suffix.
func (s *Store) reserveFilename(kind generation.RequestKind, mimeType string, now time.Time) string {
	stamp := now.Format("20060102_150405")

	s.mu.Lock()
	if stamp == s.lastStamp {
		s.seq++
	} else {
		s.lastStamp = stamp
		s.seq = 0
	}
	seq := s.seq
	s.mu.Unlock()

	name := fmt.Sprintf("%s_%s", filePrefix(kind), stamp)
	if seq > 0 {
		name = fmt.Sprintf("%s_%d", name, seq)
	}
	return name + "." + extensionForMIME(mimeType, kind)
}

func filePrefix(kind generation.RequestKind) string {
	switch kind {
	case generation.KindImageEdit:
		return "edited"
	case generation.KindImageBlend:
		return "blended"
	case generation.KindTextGeneration:
		return "text"
	default:
		return "generated"
	}
}

func assetKind(kind generation.RequestKind) generation.AssetKind {
	if kind.IsImage() {
		return generation.AssetImage
	}
	return generation.AssetText
}

func extensionForMIME(mimeType string, kind generation.RequestKind) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "text/plain":
		return "txt"
	}
	if kind.IsImage() {
		return "png"
	}
	return "txt"
}
