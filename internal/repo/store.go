package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Skotchmaster/pc_store/internal/models"
)

var (
	// ErrStorage wraps every I/O failure of a backend.
	ErrStorage = errors.New("storage")
	// ErrNoDocument is returned by a Backend that has nothing stored yet.
	ErrNoDocument = errors.New("document does not exist")
)

// Backend persists the serialized document as one opaque unit.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Store is the single access point to the document. View and Update hold
// one process-wide lock for the whole load/mutate/save cycle, so writers in
// this process queue instead of overwriting each other. Other processes
// sharing the same backend are not coordinated.
type Store struct {
	backend Backend
	logger  *slog.Logger
	mu      sync.Mutex
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Load returns the current document, bootstrapping an empty one when the
// backend has none or holds syntactically invalid JSON. A well-formed
// document that does not decode is reported as ErrStorage and left as is.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the stored document.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

// View loads the document and passes it to fn. Changes fn makes are not
// saved.
func (s *Store) View(ctx context.Context, fn func(doc *models.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update loads the document, lets fn mutate it and saves it when fn returns
// nil. An error from fn discards the mutation.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

func (s *Store) load(ctx context.Context) (*models.Document, error) {
	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNoDocument) {
		s.logger.Info("document_bootstrap", "reason", "document missing")
		return s.reset(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %w", ErrStorage, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		s.logger.Warn("document_reset", "reason", "empty document, replacing with empty collections")
		return s.reset(ctx)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			s.logger.Warn("document_reset", "reason", "invalid json, replacing with empty document", "error", err)
			return s.reset(ctx)
		}
		// well-formed but unexpected shape: never overwrite it
		return nil, fmt.Errorf("%w: decode document: %w", ErrStorage, err)
	}
	doc.Normalize()
	return &doc, nil
}

func (s *Store) reset(ctx context.Context) (*models.Document, error) {
	doc := models.EmptyDocument()
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc *models.Document) error {
	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode document: %w", ErrStorage, err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: write document: %w", ErrStorage, err)
	}
	return nil
}
