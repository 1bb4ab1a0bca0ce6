// Package ingest follows the orchestrator's JSONL event stream and
// routes each event into the session feed and the agent registry.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/config"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/registry"
)

// maxLineBytes bounds a single event line; tool results can be large.
const maxLineBytes = 4 << 20

// Router fans one event stream out to the dashboard's data sources.
type Router struct {
	feed   *registry.Feed
	reg    *registry.Registry
	logger *config.Logger
}

// NewRouter creates a router. logger may be nil.
func NewRouter(feed *registry.Feed, reg *registry.Registry, logger *config.Logger) *Router {
	return &Router{feed: feed, reg: reg, logger: logger}
}

// Route dispatches one event: every event lands in the session feed;
// agent-attributed events additionally update that agent's registry
// entry.
func (r *Router) Route(ev domain.Event) {
	r.feed.Append(ev)

	agentID := domain.Str(ev, "agentId")
	if agentID == "" {
		return
	}

	if lifecycle := strings.ToLower(domain.Str(ev, "lifecycle")); lifecycle != "" {
		switch lifecycle {
		case "spawned", "started", "start":
			r.reg.Upsert(domain.AgentInfo{
				ID:     agentID,
				Role:   domain.Str(ev, "role"),
				TaskID: domain.Str(domain.Map(ev, "data"), "taskId"),
				Status: "running",
			})
		case "finished", "stopped", "done":
			r.reg.SetStatus(agentID, "finished")
		case "failed":
			r.reg.SetStatus(agentID, "failed")
		default:
			r.reg.SetStatus(agentID, lifecycle)
		}
	}

	if u := domain.Map(ev, "usage"); u != nil {
		r.reg.AddUsage(agentID, domain.Usage{
			Input:       int(domain.Num(u, "input")),
			Output:      int(domain.Num(u, "output")),
			CacheRead:   int(domain.Num(u, "cacheRead")),
			CacheWrite:  int(domain.Num(u, "cacheWrite")),
			TotalTokens: int(domain.Num(u, "totalTokens")),
			Cost:        domain.Num(u, "cost"),
		})
	}

	r.reg.Append(agentID, ev)
}

// Run decodes JSONL events from in and routes them until EOF or ctx
// cancellation. Undecodable lines are logged and skipped; the stream
// keeps flowing.
func (r *Router) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev domain.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			r.logger.Printf("ingest: skip undecodable line: %v", err)
			continue
		}
		r.Route(ev)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return nil
}
