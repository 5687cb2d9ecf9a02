package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/sprint/internal/model"
	"github.com/idilsaglam/sprint/internal/plan"
	"github.com/idilsaglam/sprint/internal/store"
	"github.com/idilsaglam/sprint/internal/store/jsonstore"
	"github.com/idilsaglam/sprint/internal/ui"
)

type harness struct {
	runner *Runner
	kv     *store.KV
	store  *jsonstore.Store
	out    *bytes.Buffer
	err    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	kv, err := store.New(context.Background(), "mem://localhost/cli/"+strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	h := &harness{
		kv:    kv,
		store: jsonstore.New(kv, nil),
		out:   &bytes.Buffer{},
		err:   &bytes.Buffer{},
	}
	h.runner = &Runner{
		Out:        h.out,
		Err:        h.err,
		Store:      h.store,
		Theme:      ui.Named("mono"),
		ConfigPath: filepath.Join(t.TempDir(), "sprint.yaml"),
		BarWidth:   10,
		Colors:     func() string { return "#336699" },
	}
	return h
}

// run executes one command line and resets the buffers first.
func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return h.runner.Run(context.Background(), args)
}

func (h *harness) stdout() string { return ui.StripANSI(h.out.String()) }
func (h *harness) stderr() string { return ui.StripANSI(h.err.String()) }

func (h *harness) plan(t *testing.T) *plan.Plan {
	t.Helper()
	p, err := h.store.Load(context.Background())
	require.NoError(t, err)
	return p
}

func TestRunNoArgsPrintsHelp(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, ExitUsage, h.run())
	assert.Contains(t, h.stderr(), "Usage:")

	assert.Equal(t, ExitOK, h.run("help"))
	assert.Contains(t, h.stdout(), "add-person <name...> <days>")
}

func TestRunUnknownSubcommand(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, ExitUsage, h.run("frobnicate"))
	assert.Contains(t, h.stderr(), "unknown subcommand: frobnicate")
}

func TestScenarioAEndToEnd(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitOK, h.run("days", "5"))
	require.Equal(t, ExitOK, h.run("add-person", "Alice", "5"))
	require.Equal(t, ExitOK, h.run("add-person", "Bob", "3"))
	require.Equal(t, ExitOK, h.run("add-item", "4", "X"))
	require.Equal(t, ExitOK, h.run("add-item", "3", "Y"))
	require.Equal(t, ExitOK, h.run("add-item", "2", "Z"))

	require.Equal(t, ExitOK, h.run("show"))
	out := h.stdout()
	assert.Contains(t, out, "Effort 9/8 days")
	assert.Contains(t, out, "Alice (Capacity: 5 days, Allocated: 4 days)")
	assert.Contains(t, out, "Bob (Capacity: 3 days, Allocated: 3 days)")
	assert.Contains(t, out, "[X======..")
	assert.Contains(t, out, "Unallocated")
	assert.Contains(t, out, "- Z (2 days)")
}

func TestShowWithoutSprintLength(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("add-person", "Alice", "5"))

	require.Equal(t, ExitOK, h.run("show"))
	assert.Contains(t, h.stdout(), "No sprint length yet.")
	assert.NotContains(t, h.stdout(), "Capacity:")
}

func TestAddPerson(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitOK, h.run("add-person", "Ada", "Lovelace", "4"))
	assert.Contains(t, h.stdout(), "added Ada Lovelace (4 days)")

	assert.Equal(t, ExitUsage, h.run("add-person", "Ada", "Lovelace", "2"))
	assert.Contains(t, h.stderr(), "person already on the roster")

	assert.Equal(t, ExitUsage, h.run("add-person", "Bob", "-1"))
	assert.Equal(t, ExitUsage, h.run("add-person", "Bob", "many"))
	assert.Equal(t, ExitUsage, h.run("add-person", "Bob"))

	assert.Equal(t, []model.Person{{Name: "Ada Lovelace", AvailableDays: 4}}, h.plan(t).People)
}

func TestRemovePerson(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("add-person", "Alice", "5"))

	assert.Equal(t, ExitUsage, h.run("rm-person", "Bob"))
	assert.Contains(t, h.stderr(), "nobody called Bob")

	assert.Equal(t, ExitOK, h.run("rm-person", "Alice"))
	assert.Empty(t, h.plan(t).People)
}

func TestAddItemFlagsAndMentions(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitOK, h.run("add-item", "-color", "#F00", "-assign", "Alice, Bob", "3", "fix", "login", "@Carol"))
	require.Equal(t, ExitOK, h.run("add-item", "1", "docs"))

	items := h.plan(t).WorkItems
	require.Len(t, items, 2)
	assert.Equal(t, model.WorkItem{
		Description: "fix login",
		Days:        3,
		Color:       "#ff0000",
		AssignTo:    []string{"Alice", "Bob", "Carol"},
	}, items[0])
	assert.Equal(t, "#336699", items[1].Color)

	require.Equal(t, ExitOK, h.run("items"))
	assert.Contains(t, h.stdout(), "fix login (3 days) #ff0000 @Alice @Bob @Carol")
}

func TestAddItemRejects(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("add-item", "1", "docs"))

	assert.Equal(t, ExitUsage, h.run("add-item", "2", "docs"))
	assert.Contains(t, h.stderr(), "work item already exists")
	assert.Equal(t, ExitUsage, h.run("add-item", "-color", "teal", "2", "other"))
	assert.Equal(t, ExitUsage, h.run("add-item", "two", "other"))
	assert.Equal(t, ExitUsage, h.run("add-item", "2"))
	assert.Equal(t, ExitUsage, h.run("add-item", "-nope", "2", "x"))

	assert.Len(t, h.plan(t).WorkItems, 1)
}

func TestRemoveItem(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("add-item", "1", "write", "docs"))

	assert.Equal(t, ExitUsage, h.run("rm-item", "docs"))
	assert.Equal(t, ExitOK, h.run("rm-item", "write", "docs"))
	assert.Empty(t, h.plan(t).WorkItems)
}

func TestDays(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitOK, h.run("days", "10"))
	assert.Contains(t, h.stdout(), "sprint is 10 days")
	assert.Equal(t, 10, h.plan(t).SprintDays)

	require.Equal(t, ExitOK, h.run("days", "0"))
	assert.Contains(t, h.stdout(), "sprint length unset")

	assert.Equal(t, ExitUsage, h.run("days", "-3"))
	assert.Equal(t, ExitUsage, h.run("days"))
}

func TestPeopleListing(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("people"))
	assert.Contains(t, h.stdout(), "nobody yet")

	require.Equal(t, ExitOK, h.run("add-person", "Alice", "5"))
	require.Equal(t, ExitOK, h.run("people"))
	assert.Contains(t, h.stdout(), " 1. Alice (5 days)")
}

func TestClear(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("days", "5"))
	require.Equal(t, ExitOK, h.run("add-person", "Alice", "5"))

	require.Equal(t, ExitOK, h.run("clear"))
	assert.True(t, h.plan(t).Empty())
}

func TestExportJSON(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("days", "5"))
	require.Equal(t, ExitOK, h.run("add-person", "Alice", "5"))
	require.Equal(t, ExitOK, h.run("add-item", "2", "docs"))

	require.Equal(t, ExitOK, h.run("export"))
	var doc Export
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &doc))

	_, err := uuid.Parse(doc.ID)
	assert.NoError(t, err)
	assert.True(t, doc.Allocated)
	assert.Equal(t, 5, doc.SprintDays)
	require.Len(t, doc.Assignments, 1)
	assert.Equal(t, "Alice", doc.Assignments[0].Person)
	assert.Equal(t, 3, doc.Assignments[0].FreeCapacity)
	assert.Empty(t, doc.Unallocated)
}

func TestExportYAMLToFile(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("add-person", "Alice", "5"))
	path := filepath.Join(t.TempDir(), "plan.yaml")

	require.Equal(t, ExitOK, h.run("export", "-format", "yaml", "-o", path))
	assert.Contains(t, h.stdout(), "exported to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc Export
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.False(t, doc.Allocated)
	assert.Equal(t, []model.Person{{Name: "Alice", AvailableDays: 5}}, doc.People)
	assert.Empty(t, doc.Assignments)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitUsage, h.run("export", "-format", "xml"))
	assert.Contains(t, h.stderr(), `unknown format "xml"`)
}

func TestNewExportIDsDiffer(t *testing.T) {
	p := plan.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a, b := NewExport(p, now), NewExport(p, now)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, now, a.GeneratedAt)
}

func TestInteractiveSavesChanges(t *testing.T) {
	h := newHarness(t)
	h.runner.Interactive = func(ctx context.Context, p *plan.Plan) (*plan.Plan, bool, error) {
		require.NoError(t, p.AddPerson("Zoe", 2))
		return p, true, nil
	}

	require.Equal(t, ExitOK, h.run("ui"))
	assert.Contains(t, h.stdout(), "saved")
	assert.Equal(t, []model.Person{{Name: "Zoe", AvailableDays: 2}}, h.plan(t).People)
}

func TestInteractiveClearRemovesStoredKeys(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitOK, h.run("add-person", "Alice", "3"))
	require.Equal(t, ExitOK, h.run("add-item", "2", "a"))
	require.Equal(t, ExitOK, h.run("days", "5"))
	h.runner.Interactive = func(ctx context.Context, p *plan.Plan) (*plan.Plan, bool, error) {
		p.Clear()
		return p, true, nil
	}

	require.Equal(t, ExitOK, h.run("ui"))
	assert.Contains(t, h.stdout(), "cleared")
	for _, key := range []string{jsonstore.KeyPeople, jsonstore.KeyWorkItems, jsonstore.KeySprintDays} {
		_, err := h.kv.Get(context.Background(), key)
		assert.ErrorIs(t, err, store.ErrNotFound, key)
	}
}

func TestInteractiveWithoutChangesDoesNotSave(t *testing.T) {
	h := newHarness(t)
	h.runner.Interactive = func(ctx context.Context, p *plan.Plan) (*plan.Plan, bool, error) {
		return p, false, nil
	}
	require.Equal(t, ExitOK, h.run("tui"))
	assert.Empty(t, h.stdout())
}

func TestInteractiveError(t *testing.T) {
	h := newHarness(t)
	h.runner.Interactive = func(ctx context.Context, p *plan.Plan) (*plan.Plan, bool, error) {
		return nil, false, errors.New("no terminal")
	}
	assert.Equal(t, ExitError, h.run("ui"))
	assert.Contains(t, h.stderr(), "ui: no terminal")
}

func TestInit(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitOK, h.run("init"))
	assert.Contains(t, h.stdout(), "wrote ")
	assert.FileExists(t, h.runner.ConfigPath)

	require.Equal(t, ExitOK, h.run("init"))
	assert.Contains(t, h.stdout(), "already exists")
}

type brokenStore struct{}

func (brokenStore) Load(context.Context, ...plan.Option) (*plan.Plan, error) {
	return nil, errors.New("disk on fire")
}
func (brokenStore) Save(context.Context, *plan.Plan) error { return errors.New("disk on fire") }
func (brokenStore) Clear(context.Context) error            { return errors.New("disk on fire") }

func TestStoreFailuresExitOne(t *testing.T) {
	h := newHarness(t)
	h.runner.Store = brokenStore{}

	assert.Equal(t, ExitError, h.run("show"))
	assert.Contains(t, h.stderr(), "load: disk on fire")
	assert.Equal(t, ExitError, h.run("add-person", "Alice", "3"))
	assert.Equal(t, ExitError, h.run("clear"))
}
