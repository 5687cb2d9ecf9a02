// Package plan owns the editable state of one sprint: the roster, the work
// items and the sprint length. It validates edits before they reach the
// allocator and hands the allocator copies, never its own slices.
package plan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/idilsaglam/sprint/internal/allocator"
	"github.com/idilsaglam/sprint/internal/model"
	"github.com/idilsaglam/sprint/internal/palette"
)

// Plan is the state behind one sprint board.
// The zero value is usable; colors then come from palette.Random.
type Plan struct {
	People     []model.Person
	WorkItems  []model.WorkItem
	SprintDays int

	newColor func() string
}

// Option tunes a Plan built by New.
type Option func(*Plan)

// WithColors replaces the generator used for work items added without a color.
func WithColors(fn func() string) Option {
	return func(p *Plan) { p.newColor = fn }
}

// New returns an empty plan.
func New(opts ...Option) *Plan {
	p := &Plan{
		People:    []model.Person{},
		WorkItems: []model.WorkItem{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddPerson appends someone to the roster.
func (p *Plan) AddPerson(name string, availableDays int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if availableDays < 0 {
		return fmt.Errorf("%w: %s has %d", ErrNegativeDays, name, availableDays)
	}
	if p.personIndex(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePerson, name)
	}
	p.People = append(p.People, model.Person{Name: name, AvailableDays: availableDays})
	return nil
}

// RemovePerson drops the first person called name and reports whether anyone was removed.
// Work items naming them keep their constraint.
func (p *Plan) RemovePerson(name string) bool {
	i := p.personIndex(strings.TrimSpace(name))
	if i < 0 {
		return false
	}
	p.People = slices.Delete(p.People, i, i+1)
	return true
}

// AddWorkItem validates and appends a work item.
// Blank and repeated AssignTo names are dropped; a missing color is generated.
func (p *Plan) AddWorkItem(item model.WorkItem) error {
	item.Description = strings.TrimSpace(item.Description)
	if item.Description == "" {
		return ErrEmptyDescription
	}
	if item.Days < 0 {
		return fmt.Errorf("%w: %q takes %d", ErrNegativeDays, item.Description, item.Days)
	}
	if p.workItemIndex(item.Description) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateWorkItem, item.Description)
	}

	if strings.TrimSpace(item.Color) == "" {
		item.Color = p.color()
	} else {
		c, err := palette.Normalize(item.Color)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidColor, err)
		}
		item.Color = c
	}
	item.AssignTo = cleanNames(item.AssignTo)

	p.WorkItems = append(p.WorkItems, item)
	return nil
}

// RemoveWorkItem drops the first work item with the given description.
func (p *Plan) RemoveWorkItem(description string) bool {
	i := p.workItemIndex(strings.TrimSpace(description))
	if i < 0 {
		return false
	}
	p.WorkItems = slices.Delete(p.WorkItems, i, i+1)
	return true
}

// SetSprintDays sets the sprint length. Zero means "not set yet".
func (p *Plan) SetSprintDays(days int) error {
	if days < 0 {
		return fmt.Errorf("%w: sprint of %d", ErrNegativeDays, days)
	}
	p.SprintDays = days
	return nil
}

// Clear forgets everyone and everything.
func (p *Plan) Clear() {
	p.People = []model.Person{}
	p.WorkItems = []model.WorkItem{}
	p.SprintDays = 0
}

// Empty reports whether the plan holds nothing at all.
func (p *Plan) Empty() bool {
	return len(p.People) == 0 && len(p.WorkItems) == 0 && p.SprintDays == 0
}

// Ready reports whether there is a usable sprint length to allocate against.
func (p *Plan) Ready() bool { return p.SprintDays > 0 }

// Allocate runs the allocator on a copy of the current state.
// ok is false, and nothing is computed, when the sprint length is not set.
func (p *Plan) Allocate() (res model.Result, ok bool) {
	if !p.Ready() {
		return model.Result{}, false
	}
	c := p.Clone()
	return allocator.Allocate(c.People, c.SprintDays, c.WorkItems), true
}

// Clone returns a deep copy sharing nothing with p.
func (p *Plan) Clone() *Plan {
	c := &Plan{
		People:     slices.Clone(p.People),
		WorkItems:  make([]model.WorkItem, len(p.WorkItems)),
		SprintDays: p.SprintDays,
		newColor:   p.newColor,
	}
	if c.People == nil {
		c.People = []model.Person{}
	}
	for i, it := range p.WorkItems {
		it.AssignTo = slices.Clone(it.AssignTo)
		c.WorkItems[i] = it
	}
	return c
}

// TotalAvailable sums everyone's capacity for the current sprint length.
func (p *Plan) TotalAvailable() int {
	total := 0
	for _, person := range p.People {
		total += min(person.AvailableDays, p.SprintDays)
	}
	return total
}

// TotalEffort sums the days of all work items.
func (p *Plan) TotalEffort() int {
	total := 0
	for _, it := range p.WorkItems {
		total += it.Days
	}
	return total
}

func (p *Plan) color() string {
	if p.newColor != nil {
		return p.newColor()
	}
	return palette.Random()
}

func (p *Plan) personIndex(name string) int {
	return slices.IndexFunc(p.People, func(x model.Person) bool { return x.Name == name })
}

func (p *Plan) workItemIndex(description string) int {
	return slices.IndexFunc(p.WorkItems, func(x model.WorkItem) bool { return x.Description == description })
}

func cleanNames(names []string) []string {
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}
