package firmata

import (
	"context"
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// pulsePollInterval bounds the busy-poll of PulseIn. Small enough to resolve
// pulses in the millisecond range, large enough not to peg a core.
const pulsePollInterval = 50 * time.Microsecond

// Time runs fn and returns its result together with the elapsed wall-clock
// time, measured on the monotonic clock.
func Time[T any](fn func() (T, error)) (T, time.Duration, error) {
	start := time.Now()
	v, err := fn()
	return v, time.Since(start), err
}

// TimeOut races fn against a budget. If fn completes strictly before the
// budget elapses its result is returned with ok set. If the budget expires
// first the context handed to fn is canceled, fn's return is awaited so
// nothing is left half-done, and TimeOut reports (zero, false, nil): running
// out of budget is an outcome for the caller to handle, not an error.
func TimeOut[T any](budget time.Duration, fn func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	v, err := fn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return v, true, nil
}

// PulseIn measures the duration of the next pulse of the given level on an
// input pin: it polls until the pin reads level, then times how long the pin
// holds it. With a positive timeout the whole two-phase measurement runs
// under that budget and exceeding it yields ok == false rather than a partial
// duration. The pin's cached value is busy-polled rather than waited on, so
// resolution is bounded by the poll interval and the board's sampling rate.
func (c *Client) PulseIn(ctx context.Context, p Pin, level gpio.Level, timeout time.Duration) (time.Duration, bool, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	d, err := c.pulseIn(ctx, p, level)
	if errors.Is(err, context.DeadlineExceeded) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return d, true, nil
}

func (c *Client) pulseIn(ctx context.Context, p Pin, level gpio.Level) (time.Duration, error) {
	if err := c.spinUntil(ctx, p, level); err != nil {
		return 0, err
	}
	start := time.Now()
	if err := c.spinUntil(ctx, p, !level); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (c *Client) spinUntil(ctx context.Context, p Pin, level gpio.Level) error {
	for {
		v, err := c.DigitalRead(p)
		if err != nil {
			return err
		}
		if v == level {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return c.lastErr()
		default:
		}
		time.Sleep(pulsePollInterval)
	}
}
