package plan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/sprint/internal/model"
)

// ParseDays reads a non-negative day count.
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number of days", ErrBadInput, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeDays, n)
	}
	return n, nil
}

// ParsePerson reads "<name...> <days>", e.g. "Ada Lovelace 4".
func ParsePerson(s string) (name string, days int, err error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("%w: want \"<name> <days>\"", ErrBadInput)
	}
	days, err = ParseDays(fields[len(fields)-1])
	if err != nil {
		return "", 0, err
	}
	return strings.Join(fields[:len(fields)-1], " "), days, nil
}

// ParseWorkItem reads "<days> <description...>". Words of the form @name are
// taken out of the description and become assignees:
//
//	3 fix login flow @alice @bob
func ParseWorkItem(s string) (model.WorkItem, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return model.WorkItem{}, fmt.Errorf("%w: want \"<days> <description>\"", ErrBadInput)
	}
	days, err := ParseDays(fields[0])
	if err != nil {
		return model.WorkItem{}, err
	}

	var words, assignTo []string
	for _, f := range fields[1:] {
		if len(f) > 1 && strings.HasPrefix(f, "@") {
			assignTo = append(assignTo, f[1:])
			continue
		}
		words = append(words, f)
	}
	if len(words) == 0 {
		return model.WorkItem{}, ErrEmptyDescription
	}
	return model.WorkItem{
		Description: strings.Join(words, " "),
		Days:        days,
		AssignTo:    assignTo,
	}, nil
}

// SplitNames splits a comma separated list of names, dropping blanks.
func SplitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
