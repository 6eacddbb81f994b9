package view

import (
	"context"
	"time"

	"github.com/matzehuels/reasongraph/pkg/drag"
	apperr "github.com/matzehuels/reasongraph/pkg/errors"
	"github.com/matzehuels/reasongraph/pkg/observability"
)

// DragStart begins dragging node id from pointer position (x, y).
func (c *Component) DragStart(id string, x, y float64) error { return c.DragStartAs("", id, x, y) }

// DragMove moves the pin of a dragged node to (x, y).
func (c *Component) DragMove(id string, x, y float64) error { return c.DragMoveAs("", id, x, y) }

// DragEnd releases a dragged node.
func (c *Component) DragEnd(id string) error { return c.DragEndAs("", id) }

// DragStartAs begins a drag owned by owner. Only the same owner can move
// or end it; a new graph cancels it.
func (c *Component) DragStartAs(owner, id string, x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mountedLocked(); err != nil {
		return err
	}
	reheat := len(c.drags.Active()) == 0
	if err := c.drags.StartAs(owner, id, x, y); err != nil {
		return err
	}
	if reheat {
		c.settled = false
		c.heatedAt = time.Now()
		observability.Layout().OnReheat(context.Background(), id)
	}
	c.logger.Debug("drag start", "node", id, "owner", owner, "x", x, "y", y)
	return nil
}

// DragMoveAs moves the pin of a drag owned by owner.
func (c *Component) DragMoveAs(owner, id string, x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mountedLocked(); err != nil {
		return err
	}
	return c.drags.MoveAs(owner, id, x, y)
}

// DragEndAs releases a drag owned by owner.
func (c *Component) DragEndAs(owner, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mountedLocked(); err != nil {
		return err
	}
	if err := c.drags.EndAs(owner, id); err != nil {
		return err
	}
	c.logger.Debug("drag end", "node", id, "owner", owner)
	return nil
}

// ReleaseDrags ends every drag owned by owner and returns the released
// node ids.
func (c *Component) ReleaseDrags(owner string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drags == nil {
		return nil
	}
	ids := c.drags.Release(owner)
	if len(ids) > 0 {
		c.logger.Debug("drags released", "owner", owner, "nodes", ids)
	}
	return ids
}

// DragState returns the drag state of node id.
func (c *Component) DragState(id string) drag.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drags == nil {
		return drag.Free
	}
	return c.drags.State(id)
}

func (c *Component) mountedLocked() error {
	if !c.mounted {
		return apperr.New(apperr.ErrCodeInvalidInput, "component is not mounted")
	}
	return nil
}
