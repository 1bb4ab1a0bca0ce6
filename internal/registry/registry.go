// Package registry tracks the live agents of an orchestration session.
// It is a passive in-memory snapshot store: the event ingest layer
// feeds it, the dashboard reads from it. It makes no orchestration
// decisions of its own.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"
)

// Registry holds per-agent state keyed by agent id. A notification
// callback fires after every event append so the dashboard can
// re-render without polling.
type Registry struct {
	mu      sync.RWMutex
	agents  map[string]*domain.AgentInfo
	onEvent func(agentID string)
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{agents: make(map[string]*domain.AgentInfo)}
}

// OnEvent registers the change callback. The callback runs on the
// appending goroutine and must not call back into the registry.
func (r *Registry) OnEvent(fn func(agentID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvent = fn
}

// Upsert inserts or refreshes an agent's snapshot, preserving the
// existing event log and spawn time on update.
func (r *Registry) Upsert(info domain.AgentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.agents[info.ID]
	if !ok {
		if info.SpawnedAt.IsZero() {
			info.SpawnedAt = time.Now()
		}
		copied := info
		r.agents[info.ID] = &copied
		return
	}
	events := cur.Events
	spawned := cur.SpawnedAt
	*cur = info
	cur.Events = events
	cur.SpawnedAt = spawned
}

// SetStatus updates one agent's status and activity time. Unknown ids
// are ignored.
func (r *Registry) SetStatus(agentID, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.agents[agentID]; ok {
		a.Status = status
		a.LastActivity = time.Now()
	}
}

// AddUsage accumulates token accounting onto an agent.
func (r *Registry) AddUsage(agentID string, u domain.Usage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[agentID]
	if !ok {
		return
	}
	a.Usage.Input += u.Input
	a.Usage.Output += u.Output
	a.Usage.CacheRead += u.CacheRead
	a.Usage.CacheWrite += u.CacheWrite
	a.Usage.TotalTokens += u.TotalTokens
	a.Usage.Cost += u.Cost
}

// Append adds one event to an agent's log, creating the agent on first
// sight, and fires the change callback.
func (r *Registry) Append(agentID string, ev domain.Event) {
	r.mu.Lock()
	a, ok := r.agents[agentID]
	if !ok {
		a = &domain.AgentInfo{ID: agentID, SpawnedAt: time.Now()}
		r.agents[agentID] = a
	}
	a.Events = append(a.Events, ev)
	a.LastActivity = time.Now()
	fn := r.onEvent
	r.mu.Unlock()

	if fn != nil {
		fn(agentID)
	}
}

// Agents returns a snapshot of all agents ordered by spawn time, ties
// broken by id so the pane order is stable.
func (r *Registry) Agents() []domain.AgentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AgentInfo, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SpawnedAt.Equal(out[j].SpawnedAt) {
			return out[i].SpawnedAt.Before(out[j].SpawnedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// EventCount returns the current length of one agent's log.
func (r *Registry) EventCount(agentID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.agents[agentID]; ok {
		return len(a.Events)
	}
	return 0
}
