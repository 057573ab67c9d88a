package firmata

import (
	"context"
	"errors"

	"periph.io/x/conn/v3/gpio"
)

var errNoPins = errors.New("no pins to wait on")

// readLevels snapshots the current level of every pin, enforcing input modes.
func (c *Client) readLevels(pins []Pin) ([]gpio.Level, error) {
	levels := make([]gpio.Level, len(pins))
	for i, p := range pins {
		v, err := c.DigitalRead(p)
		if err != nil {
			return nil, err
		}
		levels[i] = v
	}
	return levels, nil
}

func levelsDiffer(a, b []gpio.Level) bool {
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}

// waitGeneric blocks until the level of at least one of the pins differs from
// the snapshot taken on entry, and returns the snapshot and the changed
// levels. The notification stream is shared by all waiters, so a wakeup does
// not imply these pins changed; the snapshot comparison guards against
// spurious wakeups by re-checking and blocking again.
func (c *Client) waitGeneric(ctx context.Context, pins []Pin) (before, after []gpio.Level, err error) {
	if len(pins) == 0 {
		return nil, nil, errNoPins
	}

	before, err = c.readLevels(pins)
	if err != nil {
		return nil, nil, err
	}

	for {
		// Register before re-reading so a report landing between the
		// two is not lost.
		ch := c.wakeUp()

		after, err = c.readLevels(pins)
		if err != nil {
			c.releaseWakeUp(ch)
			return nil, nil, err
		}
		if levelsDiffer(before, after) {
			c.releaseWakeUp(ch)
			return before, after, nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			c.releaseWakeUp(ch)
			return nil, nil, ctx.Err()
		case <-c.done:
			c.releaseWakeUp(ch)
			return nil, nil, c.lastErr()
		}
	}
}

// WaitFor blocks until the pin's level changes and returns the new level.
func (c *Client) WaitFor(ctx context.Context, p Pin) (gpio.Level, error) {
	levels, err := c.WaitAny(ctx, p)
	if err != nil {
		return gpio.Low, err
	}
	return levels[0], nil
}

// WaitAny blocks until at least one of the pins changes level and returns the
// new levels of all of them.
func (c *Client) WaitAny(ctx context.Context, pins ...Pin) ([]gpio.Level, error) {
	_, after, err := c.waitGeneric(ctx, pins)
	return after, err
}

// WaitAnyHigh blocks until one of the pins transitions from low to high and
// returns the new levels. If every pin is already high it first waits for a
// low transition, so an instantaneous match never counts as an edge.
func (c *Client) WaitAnyHigh(ctx context.Context, pins ...Pin) ([]gpio.Level, error) {
	return c.waitAnyEdge(ctx, gpio.High, pins)
}

// WaitAnyLow is the symmetric counterpart of WaitAnyHigh for high-to-low
// transitions.
func (c *Client) WaitAnyLow(ctx context.Context, pins ...Pin) ([]gpio.Level, error) {
	return c.waitAnyEdge(ctx, gpio.Low, pins)
}

func (c *Client) waitAnyEdge(ctx context.Context, target gpio.Level, pins []Pin) ([]gpio.Level, error) {
	if len(pins) == 0 {
		return nil, errNoPins
	}

	levels, err := c.readLevels(pins)
	if err != nil {
		return nil, err
	}

	allAtTarget := true
	for _, l := range levels {
		if l != target {
			allAtTarget = false
			break
		}
	}
	if allAtTarget {
		if _, err := c.waitAnyEdge(ctx, !target, pins); err != nil {
			return nil, err
		}
	}

	for {
		before, after, err := c.waitGeneric(ctx, pins)
		if err != nil {
			return nil, err
		}
		for i := range after {
			if before[i] == !target && after[i] == target {
				return after, nil
			}
		}
	}
}
