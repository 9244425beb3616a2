package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/elmbuild/internal/errors"
	"git.home.luguber.info/inful/elmbuild/internal/eventstore"
	"git.home.luguber.info/inful/elmbuild/internal/pipeline"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of events to show" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return errors.ValidationFailed("history.path", "build history is not enabled in the configuration")
	}

	store, err := eventstore.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "open build history").
			WithContext("path", cfg.History.Path)
	}
	defer func() { _ = store.Close() }()

	events, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return errors.InternalError("read build history", err)
	}
	return printHistory(g.Stdout, events)
}

func printHistory(out io.Writer, events []eventstore.Event) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tBUILD\tEVENT\tOUTPUT\tDETAIL")
	for _, e := range events {
		var payload pipeline.BuildEvent
		_ = json.Unmarshal(e.Payload, &payload)
		detail := ""
		switch {
		case payload.Error != "":
			detail = payload.Error
		case payload.Bytes > 0:
			detail = fmt.Sprintf("%d bytes in %dms", payload.Bytes, payload.DurationMS)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format(time.RFC3339), shortID(e.BuildID), e.Type, payload.Output, detail)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
