// Package firmatareg is a process-global registry of Firmata devices, so the
// code that discovers boards (serial enumeration, configuration files) is
// decoupled from the code that uses them.
package firmatareg

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	firmata "github.com/GermanBionicSystems/firmatahost"
)

// Opener opens a handle to a registered Firmata device.
type Opener func() (*firmata.Client, error)

// Ref references a registered Firmata device.
type Ref struct {
	// Name of the device, unique across the host. Typically the serial
	// port path, e.g. "/dev/ttyACM0".
	Name string
	// Aliases are alternative names resolving to the same device.
	Aliases []string
	// Open is the factory for a handle to this device.
	Open Opener
}

var (
	mu      sync.Mutex
	byName  = map[string]*Ref{}
	byAlias = map[string]*Ref{}
)

// Open opens a Firmata device by name or alias and returns a handle to it.
//
// Specify the empty string "" to get the first available device, which is the
// recommended default unless the application knows the exact board to use.
func Open(name string) (*firmata.Client, error) {
	var r *Ref
	mu.Lock()
	if len(byName) == 0 {
		mu.Unlock()
		return nil, errors.New("firmatareg: no device found; did you forget to register one")
	}
	if len(name) == 0 {
		r = first()
	} else if r = byName[name]; r == nil {
		r = byAlias[name]
	}
	mu.Unlock()

	if r == nil {
		return nil, errors.New("firmatareg: can't open unknown device: " + strconv.Quote(name))
	}
	return r.Open()
}

// All returns a copy of every registered device reference, sorted by name.
func All() []*Ref {
	mu.Lock()
	defer mu.Unlock()
	out := make([]*Ref, 0, len(byName))
	for _, v := range byName {
		r := &Ref{Name: v.Name, Aliases: make([]string, len(v.Aliases)), Open: v.Open}
		copy(r.Aliases, v.Aliases)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Register makes a Firmata device available to Open. The name and every
// alias must be unused; aliases may not contain ':'.
func Register(name string, aliases []string, o Opener) error {
	if len(name) == 0 {
		return errors.New("firmatareg: can't register a device with no name")
	}
	if o == nil {
		return errors.New("firmatareg: can't register device " + strconv.Quote(name) + " with nil Opener")
	}
	for _, n := range append([]string{name}, aliases...) {
		if len(n) == 0 {
			return errors.New("firmatareg: can't register device " + strconv.Quote(name) + " with an empty alias")
		}
		if strings.Contains(n, ":") {
			return errors.New("firmatareg: can't register device name " + strconv.Quote(n) + " containing ':'")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, n := range append([]string{name}, aliases...) {
		if _, ok := byName[n]; ok {
			return errors.New("firmatareg: name " + strconv.Quote(n) + " is already registered")
		}
		if _, ok := byAlias[n]; ok {
			return errors.New("firmatareg: name " + strconv.Quote(n) + " is already an alias")
		}
	}

	r := &Ref{Name: name, Aliases: make([]string, len(aliases)), Open: o}
	copy(r.Aliases, aliases)
	byName[name] = r
	for _, alias := range aliases {
		byAlias[alias] = r
	}
	return nil
}

// Unregister removes a previously registered device, e.g. when the board's
// USB adapter is unplugged.
func Unregister(name string) error {
	mu.Lock()
	defer mu.Unlock()
	r := byName[name]
	if r == nil {
		return errors.New("firmatareg: can't unregister unknown device name " + strconv.Quote(name))
	}
	delete(byName, name)
	for _, alias := range r.Aliases {
		delete(byAlias, alias)
	}
	return nil
}

// first returns the registered device with the lexically smallest name. Must
// be called with mu held.
func first() *Ref {
	var r *Ref
	for n, v := range byName {
		if r == nil || n < r.Name {
			r = v
		}
	}
	return r
}
