package documents

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
	"chainregistry/pkg/platform/sentinel"
)

// Store stages, retrieves and serves documents from a local Backend.
type Store struct {
	backend   Backend
	validator *Validator
	metrics   *Metrics
	logger    *slog.Logger

	mu    sync.Mutex
	views map[domain.ContentHash]map[uuid.UUID]*View
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func WithValidator(v *Validator) Option {
	return func(s *Store) {
		s.validator = v
	}
}

func New(backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("document backend is required")
	}
	s := &Store{
		backend: backend,
		logger:  slog.Default(),
		views:   make(map[domain.ContentHash]map[uuid.UUID]*View),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Stage encodes raw, persists it under its content hash if absent and returns
// the hash. Staging identical bytes again returns the same hash and writes
// nothing.
func (s *Store) Stage(ctx context.Context, raw []byte) (domain.ContentHash, error) {
	if err := s.validator.Validate(raw); err != nil {
		s.metrics.incStaged("rejected")
		return "", err
	}

	payload := Encode(raw)
	hash := HashPayload(payload)

	stored, err := s.backend.SaveIfAbsent(ctx, hash, payload)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist document")
	}

	result := "stored"
	if !stored {
		result = "deduplicated"
	}
	s.metrics.incStaged(result)
	s.metrics.observeSize(len(raw))
	s.logger.DebugContext(ctx, "document staged",
		"content_hash", hash,
		"result", result,
		"bytes", len(raw),
	)
	return hash, nil
}

// Retrieve returns the staged document for hash. Unknown or malformed hashes
// yield a not_found error.
func (s *Store) Retrieve(ctx context.Context, hash domain.ContentHash) (*Document, error) {
	key, err := domain.ParseContentHash(string(hash))
	if err != nil {
		s.metrics.incRetrieved("miss")
		return nil, notFound(hash)
	}

	payload, err := s.backend.Load(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.incRetrieved("miss")
		return nil, notFound(key)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	// A backend returning bytes for another key is a corruption, not a hit.
	if HashPayload(payload) != key {
		s.logger.ErrorContext(ctx, "document payload does not match its key", "content_hash", key)
		s.metrics.incRetrieved("miss")
		return nil, notFound(key)
	}

	s.metrics.incRetrieved("hit")
	return &Document{Hash: key, Mime: Sniff(payload), Payload: payload}, nil
}

// Open retrieves hash and returns a transient view over its decoded bytes. The
// view stays readable until Release is called for the same hash.
func (s *Store) Open(ctx context.Context, hash domain.ContentHash) (*View, error) {
	doc, err := s.Retrieve(ctx, hash)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(doc.Payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeMalformed, "stored document cannot be decoded")
	}

	view := &View{ID: uuid.New(), Hash: doc.Hash, Mime: doc.Mime, data: raw}

	s.mu.Lock()
	byID, ok := s.views[doc.Hash]
	if !ok {
		byID = make(map[uuid.UUID]*View)
		s.views[doc.Hash] = byID
	}
	byID[view.ID] = view
	s.mu.Unlock()

	s.metrics.addViews(1)
	return view, nil
}

// Release revokes every live view of hash and reports how many were revoked.
// The persisted payload is left untouched.
func (s *Store) Release(hash domain.ContentHash) int {
	s.mu.Lock()
	byID := s.views[hash]
	delete(s.views, hash)
	s.mu.Unlock()

	for _, v := range byID {
		v.revoke()
	}
	s.metrics.addViews(-len(byID))
	return len(byID)
}

// Count reports how many distinct payloads the backend holds.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.backend.Count(ctx)
}

func notFound(hash domain.ContentHash) error {
	return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound,
		fmt.Sprintf("document %s not found locally", hash.Short()))
}

// View is a revocable handle over decoded document bytes.
type View struct {
	ID   uuid.UUID
	Hash domain.ContentHash
	Mime MimeHint

	mu      sync.RWMutex
	data    []byte
	revoked bool
}

// Bytes returns the decoded document or sentinel.ErrRevoked once released.
func (v *View) Bytes() ([]byte, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.revoked {
		return nil, sentinel.ErrRevoked
	}
	return v.data, nil
}

func (v *View) revoke() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.revoked = true
	v.data = nil
}
