// Package service wraps the split engine with persistence: every operation
// mutates a ledger, which recomputes itself, and the fresh snapshot is saved
// through a storage.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/billsplit/internal/ledger"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

// Service opens and creates ledger sessions backed by a store.
type Service struct {
	store      storage.Store
	logger     *slog.Logger
	metrics    *Metrics
	ledgerOpts []ledger.Option
}

// Option configures a Service.
type Option func(*serviceConfig)

type serviceConfig struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
	ledgerOpts []ledger.Option
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

// WithRegisterer registers the service metrics with reg.
// Defaults to a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *serviceConfig) { c.registerer = reg }
}

// WithLedgerOptions passes options to every ledger the service builds.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(c *serviceConfig) { c.ledgerOpts = append(c.ledgerOpts, opts...) }
}

// New creates a Service with the given storage backend.
func New(store storage.Store, opts ...Option) *Service {
	cfg := serviceConfig{
		logger:     slog.Default(),
		registerer: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service{
		store:      store,
		logger:     cfg.logger,
		metrics:    NewMetrics(cfg.registerer),
		ledgerOpts: append([]ledger.Option{ledger.WithLogger(cfg.logger)}, cfg.ledgerOpts...),
	}
}

// Create starts a new ledger for the event and stores it.
func (s *Service) Create(ctx context.Context, eventName string) (*Session, error) {
	start := time.Now()
	l := ledger.New(eventName, s.ledgerOpts...)
	sess, err := s.create(ctx, l)
	s.record("Create", sess.idOrEmpty(), start, err)
	return sess, err
}

// Import stores a ledger record as a new ledger. The record's ID and
// derived fields are ignored.
func (s *Service) Import(ctx context.Context, rec models.Ledger) (*Session, error) {
	start := time.Now()
	rec.ID = ""
	rec.CreatedAt = 0
	rec.UpdatedAt = 0

	l, err := ledger.FromRecord(rec, s.ledgerOpts...)
	if err != nil {
		s.record("Import", "", start, err)
		return nil, err
	}
	sess, err := s.create(ctx, l)
	s.record("Import", sess.idOrEmpty(), start, err)
	return sess, err
}

func (s *Service) create(ctx context.Context, l *ledger.Ledger) (*Session, error) {
	snap := l.Snapshot()
	if err := s.store.CreateLedger(ctx, &snap); err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}
	l.SetStorageMeta(snap.ID, snap.CreatedAt, snap.UpdatedAt)
	return &Session{svc: s, ledger: l}, nil
}

// Open loads a stored ledger. Derived state is recomputed on load.
func (s *Service) Open(ctx context.Context, ledgerID string) (*Session, error) {
	rec, err := s.store.GetLedger(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	l, err := ledger.FromRecord(*rec, s.ledgerOpts...)
	if err != nil {
		return nil, fmt.Errorf("stored ledger %s is invalid: %w", ledgerID, err)
	}
	return &Session{svc: s, ledger: l}, nil
}

// List returns all stored ledgers.
func (s *Service) List(ctx context.Context) ([]models.LedgerInfo, error) {
	infos, err := s.store.ListLedgers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	return infos, nil
}

// Delete removes a stored ledger.
func (s *Service) Delete(ctx context.Context, ledgerID string) error {
	start := time.Now()
	err := s.store.DeleteLedger(ctx, ledgerID)
	if err != nil {
		err = fmt.Errorf("failed to delete ledger: %w", err)
	}
	s.record("Delete", ledgerID, start, err)
	return err
}

// record logs the operation and updates metrics.
func (s *Service) record(op, ledgerID string, start time.Time, err error) {
	elapsed := time.Since(start)
	switch {
	case err == nil:
		s.metrics.observe(op, resultOK, elapsed.Seconds())
		s.logger.Info("Ledger op ok",
			"op", op,
			"ledger_id", ledgerID,
			"duration_ms", elapsed.Milliseconds(),
		)
	case ledger.IsValidation(err):
		s.metrics.observe(op, resultInvalid, elapsed.Seconds())
		s.logger.Warn("Ledger op rejected",
			"op", op,
			"ledger_id", ledgerID,
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
	default:
		s.metrics.observe(op, resultError, elapsed.Seconds())
		s.logger.Error("Ledger op failed",
			"op", op,
			"ledger_id", ledgerID,
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}

// Session is one open ledger. It is not safe for concurrent use.
type Session struct {
	svc    *Service
	ledger *ledger.Ledger
}

// ID returns the stored ledger's ID.
func (s *Session) ID() string { return s.ledger.ID() }

func (s *Session) idOrEmpty() string {
	if s == nil {
		return ""
	}
	return s.ID()
}

// Snapshot returns the current ledger state.
func (s *Session) Snapshot() models.Ledger { return s.ledger.Snapshot() }

// Apply runs fn against the ledger and saves the result.
//
// If fn returns an error, or saving fails, the ledger is rolled back to its
// state before the call and nothing is saved.
func (s *Session) Apply(ctx context.Context, op string, fn func(l *ledger.Ledger) error) error {
	start := time.Now()
	err := s.apply(ctx, fn)
	s.svc.record(op, s.ID(), start, err)
	return err
}

func (s *Session) apply(ctx context.Context, fn func(l *ledger.Ledger) error) error {
	before := s.ledger.Snapshot()

	if err := fn(s.ledger); err != nil {
		s.rollback(before)
		return err
	}

	snap := s.ledger.Snapshot()
	if err := s.svc.store.UpdateLedger(ctx, &snap); err != nil {
		s.rollback(before)
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	s.ledger.SetStorageMeta(snap.ID, snap.CreatedAt, snap.UpdatedAt)
	return nil
}

func (s *Session) rollback(before models.Ledger) {
	restored, err := ledger.FromRecord(before, s.svc.ledgerOpts...)
	if err != nil {
		// A snapshot of a valid ledger always restores.
		panic(errors.Join(errors.New("service: rollback failed"), err))
	}
	s.ledger = restored
}
