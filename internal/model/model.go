package model

import "strings"

// Person is someone on the sprint roster.
// Name is the key within a roster; AvailableDays is what they can give this sprint.
type Person struct {
	Name          string `json:"name" yaml:"name"`
	AvailableDays int    `json:"availableDays" yaml:"availableDays"`
}

// WorkItem is a unit of work to place with exactly one person.
// Color is display-only. AssignTo, when it holds any non-blank name,
// restricts the item to those people.
type WorkItem struct {
	Description string   `json:"description" yaml:"description"`
	Days        int      `json:"days" yaml:"days"`
	Color       string   `json:"color,omitempty" yaml:"color,omitempty"`
	AssignTo    []string `json:"assignTo,omitempty" yaml:"assignTo,omitempty"`
}

// Constrained reports whether the item may only go to the people in AssignTo.
// Blank names don't count, so an item with only "" in AssignTo is unconstrained.
func (w WorkItem) Constrained() bool {
	for _, name := range w.AssignTo {
		if strings.TrimSpace(name) != "" {
			return true
		}
	}
	return false
}

// Allows reports whether name may receive the item.
// Names in AssignTo are compared with surrounding spaces removed.
func (w WorkItem) Allows(name string) bool {
	if !w.Constrained() {
		return true
	}
	for _, n := range w.AssignTo {
		if strings.TrimSpace(n) == name {
			return true
		}
	}
	return false
}

// Assignment is the derived per-person allocation of one run.
type Assignment struct {
	Person       string     `json:"person" yaml:"person"`
	Tasks        []WorkItem `json:"tasks" yaml:"tasks"`
	Capacity     int        `json:"capacity" yaml:"capacity"`
	FreeCapacity int        `json:"freeCapacity" yaml:"freeCapacity"`
}

// Allocated is the number of days handed out to the person.
func (a Assignment) Allocated() int { return a.Capacity - a.FreeCapacity }

// Result is the output of one allocation run.
type Result struct {
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
	Unallocated []WorkItem   `json:"unallocated" yaml:"unallocated"`
}

// Lookup returns the person holding the work item with the given description.
// ok is false when the item is unallocated or unknown.
func (r Result) Lookup(description string) (person string, ok bool) {
	for _, a := range r.Assignments {
		for _, t := range a.Tasks {
			if t.Description == description {
				return a.Person, true
			}
		}
	}
	return "", false
}
