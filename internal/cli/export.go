package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/sprint/internal/model"
	"github.com/idilsaglam/sprint/internal/plan"
	"github.com/idilsaglam/sprint/internal/ui"
)

// Export is the document written by the export subcommand.
// Allocated is false when no sprint length is set; Assignments and
// Unallocated are then empty.
type Export struct {
	ID          string             `json:"id" yaml:"id"`
	GeneratedAt time.Time          `json:"generatedAt" yaml:"generatedAt"`
	SprintDays  int                `json:"sprintDays" yaml:"sprintDays"`
	People      []model.Person     `json:"people" yaml:"people"`
	WorkItems   []model.WorkItem   `json:"workItems" yaml:"workItems"`
	Allocated   bool               `json:"allocated" yaml:"allocated"`
	Assignments []model.Assignment `json:"assignments" yaml:"assignments"`
	Unallocated []model.WorkItem   `json:"unallocated" yaml:"unallocated"`
}

// NewExport snapshots p and its allocation.
func NewExport(p *plan.Plan, now time.Time) Export {
	c := p.Clone()
	doc := Export{
		ID:          uuid.NewString(),
		GeneratedAt: now.UTC(),
		SprintDays:  c.SprintDays,
		People:      c.People,
		WorkItems:   c.WorkItems,
		Assignments: []model.Assignment{},
		Unallocated: []model.WorkItem{},
	}
	if res, ok := c.Allocate(); ok {
		doc.Allocated = true
		doc.Assignments = res.Assignments
		doc.Unallocated = res.Unallocated
	}
	return doc
}

// Encode renders doc as "json" or "yaml".
func (doc Export) Encode(format string) ([]byte, error) {
	switch format {
	case "json":
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json marshal: %w", err)
		}
		return append(b, '\n'), nil
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("yaml marshal: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("yaml marshal: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
}

func (r *Runner) doExport(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(r.Err)
	format := fs.String("format", "json", "json or yaml")
	out := fs.String("o", "", "output file or afs URL (default stdout)")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() != 0 {
		return r.usage("sprint export [-format json|yaml] [-o file]")
	}

	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	doc := NewExport(p, time.Now())
	data, err := doc.Encode(*format)
	if err != nil {
		ui.Fail(r.Err, r.Theme, "export: "+err.Error())
		return ExitUsage
	}

	if *out == "" || *out == "-" {
		if _, err := r.Out.Write(data); err != nil {
			ui.Fail(r.Err, r.Theme, "export: "+err.Error())
			return ExitError
		}
		return ExitOK
	}

	dest := url.Normalize(*out, file.Scheme)
	if err := afs.New().Upload(ctx, dest, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		r.logger().Error("export failed", "dest", dest, "err", err)
		ui.Fail(r.Err, r.Theme, "export: "+err.Error())
		return ExitError
	}
	r.logger().Info("plan exported", "id", doc.ID, "dest", dest, "format", *format)
	ui.OK(r.Out, r.Theme, "exported to "+*out)
	return ExitOK
}
