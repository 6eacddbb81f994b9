// Package drag implements pointer dragging of layout nodes.
//
// Each node is either [Free] or [Dragging]. Starting a drag pins the node to
// the pointer; moving updates the pin; ending clears it. The first active
// drag reheats the layout so neighbours follow the pointer, and the last one
// to end lets it cool down again. Drags on different nodes are independent;
// a node cannot be dragged twice at once.
//
// Every drag belongs to an owner token, such as a socket client id. Only
// the owner can move or end it. The plain methods use the empty owner.
package drag

import (
	"slices"

	apperr "github.com/matzehuels/reasongraph/pkg/errors"
	"github.com/matzehuels/reasongraph/pkg/force"
)

// State is the drag state of a single node.
type State int

const (
	Free State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "free"
}

// Layout is the part of a force simulation a drag needs.
type Layout interface {
	Pin(id string, x, y float64) error
	Unpin(id string) error
	SetAlphaTarget(t float64)
	Restart()
}

var _ Layout = (*force.Simulation)(nil)

// Controller tracks drag gestures against one layout.
// It is not safe for concurrent use.
type Controller struct {
	layout Layout
	heat   float64
	// active maps dragged node ids to their owner.
	active map[string]string
}

// New creates a controller that reheats the layout to force.DragAlphaTarget.
func New(l Layout) *Controller {
	return &Controller{
		layout: l,
		heat:   force.DragAlphaTarget,
		active: make(map[string]string),
	}
}

// Start moves a node from free to dragging and pins it at (x, y).
func (c *Controller) Start(id string, x, y float64) error { return c.StartAs("", id, x, y) }

// Move updates the pin of a dragged node to (x, y).
func (c *Controller) Move(id string, x, y float64) error { return c.MoveAs("", id, x, y) }

// End releases a dragged node. When no drag remains the layout is allowed
// to cool down.
func (c *Controller) End(id string) error { return c.EndAs("", id) }

// StartAs starts a drag of id owned by owner.
func (c *Controller) StartAs(owner, id string, x, y float64) error {
	if _, busy := c.active[id]; busy {
		return apperr.New(apperr.ErrCodeNodeBusy, "node %q is already being dragged", id)
	}
	if err := c.layout.Pin(id, x, y); err != nil {
		return err
	}
	if len(c.active) == 0 {
		c.layout.SetAlphaTarget(c.heat)
		c.layout.Restart()
	}
	c.active[id] = owner
	return nil
}

// MoveAs updates the pin of a drag owned by owner.
func (c *Controller) MoveAs(owner, id string, x, y float64) error {
	if err := c.check(owner, id); err != nil {
		return err
	}
	return c.layout.Pin(id, x, y)
}

// EndAs releases a drag owned by owner.
func (c *Controller) EndAs(owner, id string) error {
	if err := c.check(owner, id); err != nil {
		return err
	}
	return c.release(id)
}

// Release ends every drag owned by owner and returns their ids.
func (c *Controller) Release(owner string) []string {
	var ids []string
	for _, id := range c.Active() {
		if c.active[id] == owner {
			_ = c.release(id)
			ids = append(ids, id)
		}
	}
	return ids
}

// Cancel ends every active drag.
func (c *Controller) Cancel() {
	for _, id := range c.Active() {
		_ = c.release(id)
	}
}

func (c *Controller) check(owner, id string) error {
	got, ok := c.active[id]
	if !ok {
		return apperr.New(apperr.ErrCodeInvalidInput, "node %q is not being dragged", id)
	}
	if got != owner {
		return apperr.New(apperr.ErrCodeNodeBusy, "node %q is dragged by another pointer", id)
	}
	return nil
}

func (c *Controller) release(id string) error {
	delete(c.active, id)
	if len(c.active) == 0 {
		c.layout.SetAlphaTarget(0)
	}
	return c.layout.Unpin(id)
}

// State returns the drag state of a node.
func (c *Controller) State(id string) State {
	if _, ok := c.active[id]; ok {
		return Dragging
	}
	return Free
}

// Active returns the IDs of dragged nodes in sorted order.
func (c *Controller) Active() []string {
	ids := make([]string, 0, len(c.active))
	for id := range c.active {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
