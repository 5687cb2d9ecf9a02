package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/idilsaglam/sprint/internal/config"
	"github.com/idilsaglam/sprint/internal/logging"
	"github.com/idilsaglam/sprint/internal/model"
	"github.com/idilsaglam/sprint/internal/plan"
	"github.com/idilsaglam/sprint/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// DefaultBarWidth is the capacity bar width used by show.
const DefaultBarWidth = 40

// PlanStore persists the plan between invocations.
type PlanStore interface {
	Load(ctx context.Context, opts ...plan.Option) (*plan.Plan, error)
	Save(ctx context.Context, p *plan.Plan) error
	Clear(ctx context.Context) error
}

// Interactive runs the full-screen view on p and returns the edited plan
// and whether anything changed.
type Interactive func(ctx context.Context, p *plan.Plan) (*plan.Plan, bool, error)

// Runner executes one subcommand.
type Runner struct {
	Out, Err io.Writer
	Store    PlanStore
	Theme    ui.Theme
	Logger   *slog.Logger

	// ConfigPath is where init writes the default config.
	ConfigPath string

	// BarWidth overrides DefaultBarWidth when positive.
	BarWidth int

	// Colors, when set, replaces random work item colors.
	Colors func() string

	// Interactive backs the ui subcommand.
	Interactive Interactive
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.Nop()
	}
	return r.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		PrintHelp(r.Err)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]
	r.logger().Debug("command", "name", cmd, "args", a)

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.Out)
		return ExitOK

	case "show", "ls":
		return r.doShow(ctx)

	case "people":
		return r.doPeople(ctx)

	case "items":
		return r.doItems(ctx)

	case "days":
		if len(a) != 1 {
			return r.usage("sprint days <n>")
		}
		return r.doDays(ctx, a[0])

	case "add-person":
		if len(a) < 2 {
			return r.usage("sprint add-person <name...> <days>")
		}
		return r.doAddPerson(ctx, strings.Join(a, " "))

	case "rm-person":
		if len(a) == 0 {
			return r.usage("sprint rm-person <name...>")
		}
		return r.doRemovePerson(ctx, strings.Join(a, " "))

	case "add-item":
		return r.doAddItem(ctx, a)

	case "rm-item":
		if len(a) == 0 {
			return r.usage("sprint rm-item <description...>")
		}
		return r.doRemoveItem(ctx, strings.Join(a, " "))

	case "clear":
		return r.doClear(ctx)

	case "export":
		return r.doExport(ctx, a)

	case "ui", "tui":
		return r.doInteractive(ctx)

	case "init":
		return r.doInit()
	}

	ui.Fail(r.Err, r.Theme, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.Err)
	PrintHelp(r.Err)
	return ExitUsage
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `sprint - plan who does what this sprint

Usage:
  sprint [flags] <subcommand> [args]

Flags:
  -config <path>     config file (default sprint.yaml)
  -store <dir|url>   where the plan is kept (overrides config and SPRINT_STORE)
  -theme <name>      classic, neon or mono
  -v                 debug logging

Subcommands:
  show               Show the allocation board (alias: ls)
  people             List the roster
  items              List work items
  days <n>           Set the sprint length in days (0 unsets)
  add-person <name...> <days>
                     Add someone with the days they can give
  rm-person <name...>
                     Remove someone from the roster
  add-item [-color #hex] [-assign a,b] <days> <description...>
                     Add a work item; @name words also restrict who may take it
  rm-item <description...>
                     Remove a work item
  clear              Remove everyone and everything
  export [-format json|yaml] [-o file]
                     Write the plan and its allocation
  ui                 Interactive board (alias: tui)
  init               Write a default sprint.yaml

Examples:
  sprint days 10
  sprint add-person Alice 8
  sprint add-item 3 fix login flow @alice
  sprint show
`)
}

// -------------- subcommand impls ----------------

func (r *Runner) doShow(ctx context.Context) int {
	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	res, ok := p.Allocate()
	if !ok {
		ui.Panel(r.Out, r.Theme, []string{
			r.Theme.Title.Render("Sprint"),
			r.Theme.Muted.Render("No sprint length yet."),
			"",
			r.Theme.Muted.Render("Tip: set one with `sprint days 10`"),
		})
		return ExitOK
	}

	lines := []string{
		fmt.Sprintf("%s   %s %d days  %s %d  %s %d  %s %d/%d days",
			r.Theme.Title.Render("Sprint"),
			r.Theme.Accent.Render("Length"), p.SprintDays,
			r.Theme.Accent.Render("People"), len(p.People),
			r.Theme.Accent.Render("Items"), len(p.WorkItems),
			r.Theme.Accent.Render("Effort"), p.TotalEffort(), p.TotalAvailable()),
		ui.Summary(r.Theme, res, 20),
		"",
	}
	lines = append(lines, ui.Board(r.Theme, res, r.barWidth())...)
	ui.Panel(r.Out, r.Theme, lines)
	return ExitOK
}

func (r *Runner) doPeople(ctx context.Context) int {
	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	lines := []string{r.Theme.Title.Render("People")}
	if len(p.People) == 0 {
		lines = append(lines, r.Theme.Muted.Render("nobody yet"))
	}
	for i, person := range p.People {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			r.Theme.Muted.Render(fmt.Sprintf("%2d.", i+1)),
			person.Name,
			r.Theme.Muted.Render(fmt.Sprintf("(%d days)", person.AvailableDays))))
	}
	ui.Panel(r.Out, r.Theme, lines)
	return ExitOK
}

func (r *Runner) doItems(ctx context.Context) int {
	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	lines := []string{r.Theme.Title.Render("Work items")}
	if len(p.WorkItems) == 0 {
		lines = append(lines, r.Theme.Muted.Render("nothing yet"))
	}
	for i, it := range p.WorkItems {
		lines = append(lines, fmt.Sprintf("%s %s",
			r.Theme.Muted.Render(fmt.Sprintf("%2d.", i+1)), itemLine(r.Theme, it)))
	}
	ui.Panel(r.Out, r.Theme, lines)
	return ExitOK
}

func (r *Runner) doDays(ctx context.Context, arg string) int {
	days, err := plan.ParseDays(arg)
	if err != nil {
		return r.invalid("days", err)
	}
	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	if err := p.SetSprintDays(days); err != nil {
		return r.invalid("days", err)
	}
	if code := r.save(ctx, p); code != ExitOK {
		return code
	}
	r.logger().Info("sprint length set", "days", days)
	if days == 0 {
		ui.OK(r.Out, r.Theme, "sprint length unset")
	} else {
		ui.OK(r.Out, r.Theme, fmt.Sprintf("sprint is %d days", days))
	}
	return ExitOK
}

func (r *Runner) doAddPerson(ctx context.Context, input string) int {
	name, days, err := plan.ParsePerson(input)
	if err != nil {
		return r.invalid("add-person", err)
	}
	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	if err := p.AddPerson(name, days); err != nil {
		return r.invalid("add-person", err)
	}
	if code := r.save(ctx, p); code != ExitOK {
		return code
	}
	r.logger().Info("person added", "name", name, "availableDays", days)
	ui.OK(r.Out, r.Theme, fmt.Sprintf("added %s (%d days)", name, days))
	return ExitOK
}

func (r *Runner) doRemovePerson(ctx context.Context, name string) int {
	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	if !p.RemovePerson(name) {
		ui.Fail(r.Err, r.Theme, "rm-person: nobody called "+name)
		fmt.Fprintln(r.Err, r.Theme.Muted.Render("Hint: run `sprint people` to see the roster"))
		return ExitUsage
	}
	if code := r.save(ctx, p); code != ExitOK {
		return code
	}
	r.logger().Info("person removed", "name", name)
	ui.OK(r.Out, r.Theme, "removed "+name)
	return ExitOK
}

func (r *Runner) doAddItem(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("add-item", flag.ContinueOnError)
	fs.SetOutput(r.Err)
	color := fs.String("color", "", "display color as #rrggbb")
	assign := fs.String("assign", "", "comma separated people who may take the item")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 2 {
		return r.usage("sprint add-item [-color #hex] [-assign a,b] <days> <description...>")
	}

	item, err := plan.ParseWorkItem(strings.Join(fs.Args(), " "))
	if err != nil {
		return r.invalid("add-item", err)
	}
	item.Color = *color
	item.AssignTo = append(plan.SplitNames(*assign), item.AssignTo...)

	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	if err := p.AddWorkItem(item); err != nil {
		return r.invalid("add-item", err)
	}
	if code := r.save(ctx, p); code != ExitOK {
		return code
	}
	added := p.WorkItems[len(p.WorkItems)-1]
	r.logger().Info("work item added",
		"description", added.Description,
		"days", added.Days,
		"assignTo", added.AssignTo)
	ui.OK(r.Out, r.Theme, "added "+itemLine(r.Theme, added))
	return ExitOK
}

func (r *Runner) doRemoveItem(ctx context.Context, description string) int {
	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	if !p.RemoveWorkItem(description) {
		ui.Fail(r.Err, r.Theme, fmt.Sprintf("rm-item: no work item %q", description))
		fmt.Fprintln(r.Err, r.Theme.Muted.Render("Hint: run `sprint items` to see them"))
		return ExitUsage
	}
	if code := r.save(ctx, p); code != ExitOK {
		return code
	}
	r.logger().Info("work item removed", "description", description)
	ui.OK(r.Out, r.Theme, "removed "+description)
	return ExitOK
}

func (r *Runner) doClear(ctx context.Context) int {
	if err := r.Store.Clear(ctx); err != nil {
		r.logger().Error("clear failed", "err", err)
		ui.Fail(r.Err, r.Theme, "clear: "+err.Error())
		return ExitError
	}
	ui.OK(r.Out, r.Theme, "cleared")
	return ExitOK
}

func (r *Runner) doInteractive(ctx context.Context) int {
	if r.Interactive == nil {
		ui.Fail(r.Err, r.Theme, "ui: no interactive view available")
		return ExitError
	}
	p, code := r.load(ctx)
	if p == nil {
		return code
	}
	edited, changed, err := r.Interactive(ctx, p)
	if err != nil {
		r.logger().Error("interactive view failed", "err", err)
		ui.Fail(r.Err, r.Theme, "ui: "+err.Error())
		return ExitError
	}
	if !changed {
		return ExitOK
	}
	if edited.Empty() {
		return r.doClear(ctx)
	}
	if code := r.save(ctx, edited); code != ExitOK {
		return code
	}
	ui.OK(r.Out, r.Theme, "saved")
	return ExitOK
}

func (r *Runner) doInit() int {
	path := r.ConfigPath
	if path == "" {
		path = config.FileName
	}
	created, err := config.Ensure(path)
	if err != nil {
		ui.Fail(r.Err, r.Theme, "init: "+err.Error())
		return ExitError
	}
	if !created {
		ui.OK(r.Out, r.Theme, path+" already exists")
		return ExitOK
	}
	r.logger().Info("config written", "path", path)
	ui.OK(r.Out, r.Theme, "wrote "+path)
	return ExitOK
}

// -------------- helpers --------------

func (r *Runner) load(ctx context.Context) (*plan.Plan, int) {
	var opts []plan.Option
	if r.Colors != nil {
		opts = append(opts, plan.WithColors(r.Colors))
	}
	p, err := r.Store.Load(ctx, opts...)
	if err != nil {
		r.logger().Error("load failed", "err", err)
		ui.Fail(r.Err, r.Theme, "load: "+err.Error())
		return nil, ExitError
	}
	return p, ExitOK
}

func (r *Runner) save(ctx context.Context, p *plan.Plan) int {
	if err := r.Store.Save(ctx, p); err != nil {
		r.logger().Error("save failed", "err", err)
		ui.Fail(r.Err, r.Theme, "save: "+err.Error())
		return ExitError
	}
	return ExitOK
}

func (r *Runner) usage(text string) int {
	ui.Fail(r.Err, r.Theme, "usage: "+text)
	return ExitUsage
}

// invalid reports a rejected edit. Validation problems are the caller's
// fault and exit as usage errors.
func (r *Runner) invalid(cmd string, err error) int {
	ui.Fail(r.Err, r.Theme, cmd+": "+err.Error())
	if isValidation(err) {
		return ExitUsage
	}
	return ExitError
}

func isValidation(err error) bool {
	for _, target := range []error{
		plan.ErrBadInput,
		plan.ErrEmptyName,
		plan.ErrDuplicatePerson,
		plan.ErrEmptyDescription,
		plan.ErrDuplicateWorkItem,
		plan.ErrNegativeDays,
		plan.ErrInvalidColor,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (r *Runner) barWidth() int {
	if r.BarWidth > 0 {
		return r.BarWidth
	}
	return DefaultBarWidth
}

func itemLine(t ui.Theme, it model.WorkItem) string {
	line := fmt.Sprintf("%s %s", it.Description, t.Muted.Render(fmt.Sprintf("(%d days)", it.Days)))
	if it.Color != "" {
		line += " " + t.Muted.Render(it.Color)
	}
	if it.Constrained() {
		line += " " + t.Pending.Render("@"+strings.Join(it.AssignTo, " @"))
	}
	return line
}
