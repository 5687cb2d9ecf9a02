package jsonstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/sprint/internal/model"
	"github.com/idilsaglam/sprint/internal/plan"
	"github.com/idilsaglam/sprint/internal/store"
)

func newStore(t *testing.T) (*Store, *store.KV) {
	t.Helper()
	kv, err := store.New(context.Background(), fmt.Sprintf("mem://localhost/jsonstore/%s", t.Name()))
	require.NoError(t, err)
	return New(kv, nil), kv
}

func TestLoadEmpty(t *testing.T) {
	s, _ := newStore(t)

	p, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, p.People)
	assert.NotNil(t, p.People)
	assert.Empty(t, p.WorkItems)
	assert.NotNil(t, p.WorkItems)
	assert.Zero(t, p.SprintDays)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	p := plan.New(plan.WithColors(func() string { return "#336699" }))
	require.NoError(t, p.AddPerson("Alice", 5))
	require.NoError(t, p.AddPerson("Bob", 3))
	require.NoError(t, p.AddWorkItem(model.WorkItem{Description: "login", Days: 3, AssignTo: []string{"Bob"}}))
	require.NoError(t, p.AddWorkItem(model.WorkItem{Description: "docs", Days: 1}))
	require.NoError(t, p.SetSprintDays(10))
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.People, got.People)
	assert.Equal(t, p.WorkItems, got.WorkItems)
	assert.Equal(t, 10, got.SprintDays)
}

func TestStoredFormat(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	p := plan.New()
	p.People = []model.Person{{Name: "Alice", AvailableDays: 5}}
	p.WorkItems = []model.WorkItem{{Description: "docs", Days: 1, Color: "#ff0000"}}
	p.SprintDays = 7
	require.NoError(t, s.Save(ctx, p))

	b, err := kv.Get(ctx, KeyPeople)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Alice","availableDays":5}]`, string(b))

	b, err = kv.Get(ctx, KeyWorkItems)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"description":"docs","days":1,"color":"#ff0000"}]`, string(b))

	b, err = kv.Get(ctx, KeySprintDays)
	require.NoError(t, err)
	assert.Equal(t, "7", string(b))
}

func TestLoadMalformed(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	require.NoError(t, kv.Put(ctx, KeyPeople, []byte("{not json")))

	_, err := s.Load(ctx)
	assert.ErrorContains(t, err, "jsonstore: json unmarshal people")
}

func TestLoadNullCollections(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	require.NoError(t, kv.Put(ctx, KeyPeople, []byte("null")))
	require.NoError(t, kv.Put(ctx, KeyWorkItems, []byte("null")))

	p, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, p.People)
	assert.NotNil(t, p.WorkItems)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	p := plan.New()
	require.NoError(t, p.AddPerson("Alice", 5))
	require.NoError(t, s.Save(ctx, p))
	require.NoError(t, s.Clear(ctx))

	for _, key := range []string{KeyPeople, KeyWorkItems, KeySprintDays} {
		_, err := kv.Get(ctx, key)
		assert.ErrorIs(t, err, store.ErrNotFound, key)
	}
	// clearing twice is fine
	require.NoError(t, s.Clear(ctx))
}
