package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/idilsaglam/sprint/internal/model"
	"github.com/idilsaglam/sprint/internal/plan"
	"github.com/idilsaglam/sprint/internal/store"
)

// JSON-backed plan storage. Three keys, each a plain JSON document, so the
// files stay readable and hand-editable. Stored data is trusted as-is: no
// schema version, no migration.

const (
	KeyPeople     = "people"
	KeyWorkItems  = "workItems"
	KeySprintDays = "sprintDays"
)

// KV is the slice of store.KV the adapter needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store loads and saves plans.
type Store struct {
	kv     KV
	logger *slog.Logger
}

func New(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{kv: kv, logger: logger}
}

// Load rebuilds a plan. Missing keys give an empty roster, no work items and
// no sprint length.
func (s *Store) Load(ctx context.Context, opts ...plan.Option) (*plan.Plan, error) {
	p := plan.New(opts...)
	if err := s.get(ctx, KeyPeople, &p.People); err != nil {
		return nil, err
	}
	if err := s.get(ctx, KeyWorkItems, &p.WorkItems); err != nil {
		return nil, err
	}
	if err := s.get(ctx, KeySprintDays, &p.SprintDays); err != nil {
		return nil, err
	}
	if p.People == nil {
		p.People = []model.Person{}
	}
	if p.WorkItems == nil {
		p.WorkItems = []model.WorkItem{}
	}
	s.logger.Debug("plan loaded",
		"people", len(p.People),
		"workItems", len(p.WorkItems),
		"sprintDays", p.SprintDays)
	return p, nil
}

// Save writes all three keys.
func (s *Store) Save(ctx context.Context, p *plan.Plan) error {
	people := p.People
	if people == nil {
		people = []model.Person{}
	}
	items := p.WorkItems
	if items == nil {
		items = []model.WorkItem{}
	}
	if err := s.put(ctx, KeyPeople, people); err != nil {
		return err
	}
	if err := s.put(ctx, KeyWorkItems, items); err != nil {
		return err
	}
	if err := s.put(ctx, KeySprintDays, p.SprintDays); err != nil {
		return err
	}
	s.logger.Debug("plan saved",
		"people", len(people),
		"workItems", len(items),
		"sprintDays", p.SprintDays)
	return nil
}

// Clear removes the three keys.
func (s *Store) Clear(ctx context.Context) error {
	for _, key := range []string{KeyPeople, KeyWorkItems, KeySprintDays} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("jsonstore: clear %s: %w", key, err)
		}
	}
	s.logger.Info("plan cleared")
	return nil
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	b, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("jsonstore: read %s: %w", key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("jsonstore: json unmarshal %s: %w", key, err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: json marshal %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, b); err != nil {
		return fmt.Errorf("jsonstore: write %s: %w", key, err)
	}
	return nil
}
