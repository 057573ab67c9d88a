package firmata

import (
	"context"
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
)

func TestTime(t *testing.T) {
	v, elapsed, err := Time(func() (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 7, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Errorf("result = %d, want 7", v)
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 20ms", elapsed)
	}
}

func TestTimeError(t *testing.T) {
	sentinel := errors.New("boom")
	_, _, err := Time(func() (int, error) { return 0, sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want the action's error", err)
	}
}

func TestTimeOut(t *testing.T) {
	// Completion strictly before the budget returns the wrapped result.
	v, ok, err := TimeOut(time.Second, func(ctx context.Context) (string, error) {
		return "done", nil
	})
	if err != nil || !ok || v != "done" {
		t.Fatalf("TimeOut() = (%q, %t, %v), want (done, true, nil)", v, ok, err)
	}

	// Budget expiry is an absent result, not an error.
	v, ok, err = TimeOut(30*time.Millisecond, func(ctx context.Context) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	if err != nil {
		t.Fatalf("TimeOut() err = %v, want nil on expiry", err)
	}
	if ok || v != "" {
		t.Fatalf("TimeOut() = (%q, %t), want absent result", v, ok)
	}

	// Other failures of the action pass through.
	sentinel := errors.New("boom")
	_, ok, err = TimeOut(time.Second, func(ctx context.Context) (string, error) {
		return "", sentinel
	})
	if ok || !errors.Is(err, sentinel) {
		t.Fatalf("TimeOut() = (%t, %v), want the action's error", ok, err)
	}
}

func TestPulseIn(t *testing.T) {
	c, conn := newTestClient(t)
	if err := c.SetPinMode(D(2), PinFuncDigitalInput); err != nil {
		t.Fatal(err)
	}

	const hold = 60 * time.Millisecond
	go func() {
		time.Sleep(20 * time.Millisecond)
		conn.inject(digitalReportFrame(0, 0x04)...)
		time.Sleep(hold)
		conn.inject(digitalReportFrame(0, 0x00)...)
	}()

	d, ok, err := c.PulseIn(context.Background(), D(2), gpio.High, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("PulseIn() reported absent without a timeout budget")
	}
	// The measured duration tracks how long the level was held, within
	// scheduling slack.
	if d < hold/3 || d > 10*hold {
		t.Errorf("PulseIn() = %v, want roughly %v", d, hold)
	}
}

func TestPulseInWrongMode(t *testing.T) {
	c, _ := newTestClient(t)
	if _, _, err := c.PulseIn(context.Background(), D(2), gpio.High, time.Second); !errors.Is(err, ErrWrongPinMode) {
		t.Fatalf("PulseIn(unconfigured) = %v, want ErrWrongPinMode", err)
	}
}

func TestPulseInTimeout(t *testing.T) {
	c, _ := newTestClient(t)
	if err := c.SetPinMode(D(2), PinFuncDigitalInput); err != nil {
		t.Fatal(err)
	}

	// The pin never pulses: the budget expires and the result is absent,
	// not an error and not a partial duration.
	d, ok, err := c.PulseIn(context.Background(), D(2), gpio.High, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if ok || d != 0 {
		t.Fatalf("PulseIn() = (%v, %t), want absent result", d, ok)
	}
}

func TestPulseInPartialPulseTimesOut(t *testing.T) {
	c, conn := newTestClient(t)
	if err := c.SetPinMode(D(2), PinFuncDigitalInput); err != nil {
		t.Fatal(err)
	}

	// The pulse starts but never ends within the budget; no partial
	// duration may leak out.
	go func() {
		time.Sleep(10 * time.Millisecond)
		conn.inject(digitalReportFrame(0, 0x04)...)
	}()

	d, ok, err := c.PulseIn(context.Background(), D(2), gpio.High, 60*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if ok || d != 0 {
		t.Fatalf("PulseIn() = (%v, %t), want absent result", d, ok)
	}
}
