// Package session provides an explicit store of in-flight conversations.
//
// Each conversation owns its own agent (and therefore its own tool-server
// process); the store only maps ids to conversations. Queries within one
// conversation are sequential, but distinct conversations are independent
// and may run in parallel.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/maudeview/agent-go/internal/agent"
)

// Conversation couples a stable id with the agent instance serving it.
type Conversation struct {
	ID        string
	CreatedAt time.Time

	agent *agent.Agent

	// mu serializes queries: turns within one conversation never run
	// concurrently because each depends on the previous turn's output.
	mu sync.Mutex
}

// Query runs one request/response cycle on this conversation.
func (c *Conversation) Query(ctx context.Context, text string) (*agent.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.agent.Query(ctx, text)
}

// Store is a registry of live conversations keyed by id.
type Store struct {
	log *slog.Logger

	mu    sync.RWMutex
	convs map[string]*Conversation
}

// NewStore creates an empty conversation store.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{
		log:   log.With("component", "session"),
		convs: make(map[string]*Conversation, 8),
	}
}

// Create starts a new agent for the given config and registers it under a
// fresh ULID. The agent's tool server is spawned before the conversation
// becomes visible; a failed start registers nothing.
func (s *Store) Create(ctx context.Context, cfg agent.Config) (*Conversation, error) {
	a := agent.New(cfg)

	if err := a.Start(ctx); err != nil {
		return nil, fmt.Errorf("start conversation agent: %w", err)
	}

	conv := &Conversation{
		ID:        ulid.Make().String(),
		CreatedAt: time.Now(),
		agent:     a,
	}

	s.mu.Lock()
	s.convs[conv.ID] = conv
	s.mu.Unlock()

	s.log.Info("Conversation created", "id", conv.ID)

	return conv, nil
}

// Get returns the conversation with the given id, if present.
func (s *Store) Get(id string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.convs[id]

	return conv, ok
}

// List returns the ids of all live conversations.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.convs))
	for id := range s.convs {
		ids = append(ids, id)
	}

	return ids
}

// Remove stops the conversation's agent and drops it from the store.
// Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	conv, ok := s.convs[id]
	delete(s.convs, id)
	s.mu.Unlock()

	if !ok {
		return
	}

	conv.agent.Stop()
	s.log.Info("Conversation removed", "id", id)
}

// Len reports how many conversations are live.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.convs)
}

// Close stops every live conversation concurrently and empties the store.
func (s *Store) Close() {
	s.mu.Lock()
	convs := make([]*Conversation, 0, len(s.convs))

	for _, conv := range s.convs {
		convs = append(convs, conv)
	}

	s.convs = make(map[string]*Conversation)
	s.mu.Unlock()

	eg := &errgroup.Group{}

	for _, conv := range convs {
		eg.Go(func() error {
			conv.agent.Stop()

			return nil
		})
	}

	_ = eg.Wait()

	s.log.Info("All conversations stopped", "count", len(convs))
}
