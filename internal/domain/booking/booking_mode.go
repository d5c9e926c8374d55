package booking

import "fmt"

// Mode represents the category of a booking record.
type Mode string

const (
	ModeFlight Mode = "flight"
	ModeHotel  Mode = "hotel"
	ModeTrain  Mode = "train"
	ModeBus    Mode = "bus"
)

// Modes lists every canonical booking mode in a stable order.
var Modes = []Mode{ModeFlight, ModeHotel, ModeTrain, ModeBus}

// referencePrefixes maps each mode to the prefix of its generated reference.
var referencePrefixes = map[Mode]string{
	ModeFlight: "FL",
	ModeHotel:  "HT",
	ModeTrain:  "TR",
	ModeBus:    "BS",
}

// IsValid returns true if the mode is a recognized booking mode.
func (m Mode) IsValid() bool {
	_, exists := referencePrefixes[m]
	return exists
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// ParseMode converts a string to a Mode, returning an error if invalid.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid booking mode: %s", s)
	}
	return mode, nil
}
