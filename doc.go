// Package firmata is a host-side driver for boards speaking the Firmata
// protocol over a byte stream, typically a serial port.
//
// The driver turns typed pin operations (mode assignment, digital and analog
// reads and writes, sampling-interval configuration, pulse measurement) into
// protocol messages, enforces pin-mode preconditions, and provides blocking,
// context-bounded waits for the asynchronous value reports the board streams
// back.
//
// A Client owns the connection. Outbound commands are issued in call order on
// a single logical channel. A background goroutine decodes the inbound stream,
// applies value reports to the per-pin state table in delivery order and wakes
// any blocked waiters. Cached reads (DigitalRead, AnalogRead) never block;
// only the explicit Wait calls and QueryFirmware do.
package firmata
