// internal/progress/checkpoint.go
//
// Background progress writer.
// Responsibilities:
//   - Queue checkpoints from games and write them on a single goroutine.
//   - Bound every write with a timeout; log failures, never surface them.
//   - Drop writes when the queue is full so gameplay never blocks.
//   - Flush/Close barriers for shutdown and tests.

package progress

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chainpop/apps/go-server/internal/game"
)

// DefaultQueueDepth bounds pending writes per Checkpointer.
const DefaultQueueDepth = 64

type write struct {
	player string
	rec    Record
	done   chan struct{} // non-nil for flush barriers
}

// Checkpointer writes progress in the background. Gameplay never waits on
// it: a full queue drops the write, and failures are only logged.
type Checkpointer struct {
	store   Store
	timeout time.Duration
	queue   chan write

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewCheckpointer starts the writer goroutine. timeout bounds each write.
func NewCheckpointer(st Store, timeout time.Duration, depth int) *Checkpointer {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	c := &Checkpointer{store: st, timeout: timeout, queue: make(chan write, depth)}
	c.wg.Add(1)
	go c.run()
	return c
}

// Checkpoint queues r for playerID.
func (c *Checkpointer) Checkpoint(playerID string, r Record) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		log.Warn().Str("player", playerID).Msg("checkpoint after close dropped")
		return
	}
	select {
	case c.queue <- write{player: playerID, rec: r}:
	default:
		log.Warn().Str("player", playerID).Int("level", r.Level).Msg("checkpoint queue full, dropped")
	}
}

// For binds the Checkpointer to one player as a game.Checkpointer.
func (c *Checkpointer) For(playerID string) game.Checkpointer {
	return game.CheckpointFunc(func(cp game.Checkpoint) {
		c.Checkpoint(playerID, Record{Score: cp.Score, Move: cp.Move, Level: cp.Level})
	})
}

// Flush blocks until every write queued before it has been attempted.
func (c *Checkpointer) Flush() {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	done := make(chan struct{})
	c.queue <- write{done: done}
	c.mu.RUnlock()
	<-done
}

// Close drains the queue and stops the writer.
func (c *Checkpointer) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Checkpointer) run() {
	defer c.wg.Done()
	for w := range c.queue {
		if w.done != nil {
			close(w.done)
			continue
		}
		c.write(w)
	}
}

// write updates the stored document, creating it when the player has none.
func (c *Checkpointer) write(w write) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	err := c.store.Update(ctx, w.player, w.rec)
	if errors.Is(err, ErrNotFound) {
		err = c.store.Create(ctx, w.player, w.rec)
	}
	if err != nil {
		log.Warn().Err(err).Str("player", w.player).Int("level", w.rec.Level).Msg("checkpoint failed")
		return
	}
	log.Debug().Str("player", w.player).Int("level", w.rec.Level).Int("score", w.rec.Score).Int("move", w.rec.Move).Msg("checkpoint saved")
}
