package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo/stores/taskfilestore"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo/stores/taskpgxstore"
	"github.com/jrazmi/taskboard/infrastructure/postgresdb"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// SeedFixture stores a fixture document under a name in task_fixtures. The
// document is read from -file, or the embedded default fixture when -file is
// not given. It is checked against the task document shape before it is
// written unless -no-validate is set.
func SeedFixture(ctx context.Context, log *logger.Logger, args []string, db postgresdb.Querier) error {
	fs := flag.NewFlagSet("seed-fixture", flag.ContinueOnError)
	name := fs.String("name", taskpgxstore.DefaultName, "fixture name")
	file := fs.String("file", "", "path to a fixture JSON document")
	noValidate := fs.Bool("no-validate", false, "store the document without checking its shape")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}

	var source tasksrepo.Storer = taskfilestore.NewDefault(log)
	if *file != "" {
		source = taskfilestore.NewFromPath(log, *file)
	}

	doc, err := source.Fixture(ctx)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	count := -1
	if !*noValidate {
		tasks, err := tasksrepo.ParseDocument(doc)
		if err != nil {
			return fmt.Errorf("validate fixture: %w", err)
		}
		count = len(tasks)
	}

	if err := taskpgxstore.NewStore(log, db, *name).Save(ctx, doc); err != nil {
		return fmt.Errorf("save fixture: %w", err)
	}

	log.InfoContext(ctx, "fixture seeded", "name", *name, "tasks", count)
	return nil
}

// ShowFixture writes a summary of the named fixture to w: one line per task
// followed by the status and priority counts.
func ShowFixture(ctx context.Context, log *logger.Logger, args []string, db postgresdb.Querier, w io.Writer) error {
	fs := flag.NewFlagSet("show-fixture", flag.ContinueOnError)
	name := fs.String("name", taskpgxstore.DefaultName, "fixture name")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}

	doc, err := taskpgxstore.NewStore(log, db, *name).Fixture(ctx)
	if err != nil {
		return fmt.Errorf("load fixture: %w", err)
	}
	tasks, err := tasksrepo.ParseDocument(doc)
	if err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	return printSummary(w, tasks)
}

func printSummary(w io.Writer, tasks []tasksrepo.Task) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintf(w, "%-6s %-12s %-7s %-16s %s\n", t.ID, t.Status, t.Priority, t.AssignedTo.Name, t.Title); err != nil {
			return err
		}
	}

	stats := tasksrepo.Summarize(tasks)
	fmt.Fprintf(w, "\n%d tasks\n", stats.Total)
	for _, s := range tasksrepo.Statuses {
		fmt.Fprintf(w, "  %-12s %d\n", s, stats.ByStatus[s])
	}
	for _, p := range tasksrepo.Priorities {
		fmt.Fprintf(w, "  %-12s %d\n", p, stats.ByPriority[p])
	}
	return nil
}
