// omsdash CLI entry point
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/config"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/ingest"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/registry"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/taskstore"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	versionFlag := flag.Bool("version", false, "Print version and exit")
	eventsFlag := flag.String("events", "-", "JSONL event stream to follow (\"-\" for stdin)")
	tasksFlag := flag.String("tasks", "", "JSON task-issue file polled for changes")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("omsdash %s\n", version)
		return
	}

	logger := config.NewLogger()
	defer logger.Close()

	prefs := config.LoadPreferences()

	feed := registry.NewFeed()
	reg := registry.New()

	store, err := taskstore.Open()
	if err != nil {
		// The dashboard still works without the snapshot cache; the
		// task pane just waits for the first poll.
		fmt.Fprintf(os.Stderr, "warning: task snapshot store unavailable: %v\n", err)
		logger.Printf("main: open task store: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var poller *taskstore.Poller
	if *tasksFlag != "" {
		source := fileTaskSource(*tasksFlag)
		poller = taskstore.NewPoller(source, store, logger, time.Duration(prefs.PollSeconds)*time.Second)
		go poller.Run(ctx)
	}

	in := os.Stdin
	if *eventsFlag != "" && *eventsFlag != "-" {
		f, err := os.Open(*eventsFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: open event stream: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	router := ingest.NewRouter(feed, reg, logger)
	go func() {
		if err := router.Run(ctx, in); err != nil && ctx.Err() == nil {
			logger.Printf("main: event stream ended: %v", err)
		}
	}()

	m := tui.InitialModel(feed, reg, store, prefs, logger, version)
	if err := tui.Run(m, feed, reg, poller); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// fileTaskSource polls a JSON file containing either a bare issue
// array or an object with a "tasks" list.
func fileTaskSource(path string) taskstore.SourceFunc {
	return func(ctx context.Context) ([]domain.TaskIssue, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var issues []domain.TaskIssue
		if err := json.Unmarshal(data, &issues); err == nil {
			return issues, nil
		}
		var wrapper struct {
			Tasks []domain.TaskIssue `json:"tasks"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return wrapper.Tasks, nil
	}
}
