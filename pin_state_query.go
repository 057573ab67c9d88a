package firmata

import (
	"fmt"

	"periph.io/x/conn/v3/pin"
)

// PinStateResponse is the board's answer to a pin state query. State is the
// configuration-dependent value: output level for outputs, pull-up status for
// inputs.
type PinStateResponse struct {
	Pin   uint8
	Mode  pin.Func
	State int
}

func parsePinStateResponse(data []byte) (PinStateResponse, error) {
	if len(data) < 2 {
		return PinStateResponse{}, fmt.Errorf("%w: pin state response too short: %s", ErrProtocol, SprintHexArray(data))
	}
	response := PinStateResponse{
		Pin:  data[0],
		Mode: pinModeToFuncMap[data[1]],
	}
	for i, b := range data[2:] {
		response.State |= int(b) << (i * 7)
	}
	return response, nil
}

func (p PinStateResponse) String() string {
	return fmt.Sprintf("pin(%d) mode(%s) state(%d)", p.Pin, p.Mode, p.State)
}
