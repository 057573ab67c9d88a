package firmata

type SysExCmd uint8

// SysEx sub-commands spoken by this driver.
const (
	SysExAnalogMappingQuery    SysExCmd = 0x69 // ask for mapping of analog pin names to pin numbers
	SysExAnalogMappingResponse SysExCmd = 0x6A // reply with mapping info
	SysExCapabilityQuery       SysExCmd = 0x6B // ask for supported modes and resolution of all pins
	SysExCapabilityResponse    SysExCmd = 0x6C // reply with supported modes and resolution
	SysExPinStateQuery         SysExCmd = 0x6D // ask for a pin's current mode and state (different from value)
	SysExPinStateResponse      SysExCmd = 0x6E // reply with a pin's current mode and state (different from value)
	SysExExtendedAnalog        SysExCmd = 0x6F // analog write (PWM, Servo, etc.) to any pin
	SysExStringData            SysExCmd = 0x71 // a string message with 14-bits per char
	SysExReportFirmware        SysExCmd = 0x79 // report name and version of the firmware
	SysExSamplingInterval      SysExCmd = 0x7A // the interval at which analog input is sampled (default = 19ms)
	SysExNonRealtime           SysExCmd = 0x7E // MIDI Reserved for non-realtime messages
	SysExRealtime              SysExCmd = 0x7F // MIDI Reserved for realtime messages
)

var sysExCmdToStringMap = map[SysExCmd]string{
	SysExAnalogMappingQuery:    "AnalogMappingQuery",
	SysExAnalogMappingResponse: "AnalogMappingResponse",
	SysExCapabilityQuery:       "CapabilityQuery",
	SysExCapabilityResponse:    "CapabilityResponse",
	SysExPinStateQuery:         "PinStateQuery",
	SysExPinStateResponse:      "PinStateResponse",
	SysExExtendedAnalog:        "ExtendedAnalog",
	SysExStringData:            "StringData",
	SysExReportFirmware:        "ReportFirmware",
	SysExSamplingInterval:      "SamplingInterval",
	SysExNonRealtime:           "NonRealtime",
	SysExRealtime:              "Realtime",
}

func (s SysExCmd) String() string {
	if v, ok := sysExCmdToStringMap[s]; ok {
		return v
	}

	return "Unknown"
}
