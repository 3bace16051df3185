package playback

import (
	"context"
	"log"
	"sync"

	"github.com/EfeIsmail21/live-translation/model"
)

// Player renders one clip on the kiosk speaker, blocking until playback
// finishes or ctx is cancelled.
type Player interface {
	Play(ctx context.Context, clip model.Clip) error
}

// Controller enforces the single-playback rule: at most one turn is audible
// at any time. Toggling the playing turn stops it; toggling another turn
// replaces the current one with no externally observable idle gap.
type Controller struct {
	// OnComplete, when set before the first Toggle, is invoked after a
	// playback runs to natural completion (not after an explicit stop).
	OnComplete func(turnID string)

	mu      sync.Mutex
	player  Player
	current string
	cancel  context.CancelFunc
	gen     uint64
}

func NewController(player Player) *Controller {
	return &Controller{player: player}
}

// Current returns the id of the playing turn, or "" when idle.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Toggle starts playback of the turn, or stops it if it is the one currently
// playing. Any other active playback is stopped first. Reports whether the
// turn is now playing.
func (c *Controller) Toggle(turnID string, clip model.Clip) bool {
	c.mu.Lock()

	if c.current == turnID {
		c.stopLocked()
		c.mu.Unlock()
		return false
	}
	c.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.current = turnID
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.run(ctx, gen, turnID, clip)
	return true
}

func (c *Controller) run(ctx context.Context, gen uint64, turnID string, clip model.Clip) {
	err := c.player.Play(ctx, clip)

	c.mu.Lock()
	if c.gen != gen {
		// A newer playback took over; nothing to clear.
		c.mu.Unlock()
		return
	}
	c.current = ""
	c.cancel = nil
	done := c.OnComplete
	c.mu.Unlock()

	if ctx.Err() != nil {
		return // explicit stop, not a completion
	}
	if err != nil {
		log.Printf("playback: turn %s: %v", turnID, err)
		return
	}
	if done != nil {
		done(turnID)
	}
}

// StopAll stops any active playback. Safe to call in any state.
func (c *Controller) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// stopLocked cancels the active playback. Caller holds c.mu. Stopping an
// already stopped controller is a no-op.
func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.current = ""
}
