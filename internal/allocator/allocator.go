// Package allocator places work items with people for one sprint using a
// greedy first-fit-decreasing heuristic.
//
// Allocate is a pure function: it does no I/O, keeps no state between calls
// and never modifies its arguments, so it may be called from any number of
// goroutines at once. It is not an optimal packer; an item can end up
// unallocated even when another placement order would have fit everything.
package allocator

import (
	"sort"

	"github.com/idilsaglam/sprint/internal/model"
)

// pending is a work item waiting to be placed.
// index is its position in the input and breaks effort ties.
type pending struct {
	index int
	item  model.WorkItem
}

// Allocate assigns items to people for a sprint of sprintDays days.
//
// Every person gets capacity min(AvailableDays, sprintDays). Constrained items
// are placed before unconstrained ones, larger before smaller, input order
// breaking ties. Before each placement the people are re-ordered by free
// capacity (most free first, tied people keeping the order the previous
// re-ordering left them in) and the item goes to the first eligible person it
// fits. Items that fit nobody are returned in
// Unallocated, in the order they were tried.
//
// Assignments come back in the order of the last re-ordering, or roster order
// when there was nothing to place. Callers should not call Allocate without a
// positive sprintDays; with zero every capacity is zero and only zero-day items
// can be placed.
func Allocate(people []model.Person, sprintDays int, items []model.WorkItem) model.Result {
	records := make([]*model.Assignment, len(people))
	for i, p := range people {
		capacity := min(p.AvailableDays, sprintDays)
		records[i] = &model.Assignment{
			Person:       p.Name,
			Tasks:        []model.WorkItem{},
			Capacity:     capacity,
			FreeCapacity: capacity,
		}
	}

	unallocated := []model.WorkItem{}
	for _, p := range processingOrder(items) {
		sortByFreeCapacity(records)
		if slot := firstFit(records, p.item); slot != nil {
			slot.Tasks = append(slot.Tasks, p.item)
			slot.FreeCapacity -= p.item.Days
			continue
		}
		unallocated = append(unallocated, p.item)
	}

	assignments := make([]model.Assignment, len(records))
	for i, r := range records {
		assignments[i] = *r
	}
	return model.Result{Assignments: assignments, Unallocated: unallocated}
}

// processingOrder returns a copy of items in placement order: constrained
// first, then by days descending, then by input position.
func processingOrder(items []model.WorkItem) []pending {
	order := make([]pending, len(items))
	for i, it := range items {
		it.AssignTo = append([]string(nil), it.AssignTo...)
		order[i] = pending{index: i, item: it}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if ca, cb := a.item.Constrained(), b.item.Constrained(); ca != cb {
			return ca
		}
		if a.item.Days != b.item.Days {
			return a.item.Days > b.item.Days
		}
		return a.index < b.index
	})
	return order
}

// sortByFreeCapacity orders records with the most free capacity first.
// The sort is stable and runs on the live slice, so people with equal free
// capacity keep the order the previous placement left them in.
func sortByFreeCapacity(records []*model.Assignment) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FreeCapacity > records[j].FreeCapacity
	})
}

func firstFit(records []*model.Assignment, item model.WorkItem) *model.Assignment {
	for _, r := range records {
		if !item.Allows(r.Person) {
			continue
		}
		if r.FreeCapacity >= item.Days {
			return r
		}
	}
	return nil
}
