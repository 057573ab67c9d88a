package firmata

import (
	"fmt"
)

// FirmwareReport is the board's answer to a firmware query. Name holds the
// raw two-byte string payload.
type FirmwareReport struct {
	Major byte
	Minor byte
	Name  []byte
}

func (r FirmwareReport) String() string {
	return fmt.Sprintf("%s [%d.%d]", TwoByteString(r.Name), r.Major, r.Minor)
}
