package relay

import "strings"

// LineKind classifies one line of device output.
type LineKind int

const (
	// KindUnknown lines carry no recognized tag and are dropped.
	KindUnknown LineKind = iota
	// KindMessage lines carry a decoded payload to forward.
	KindMessage
	// KindStatus lines report device state and are only logged.
	KindStatus
)

const messagePrefix = "MESSAGE:"

var statusWords = map[string]bool{
	"READY": true,
	"ERROR": true,
}

// Line is a device output line parsed once at the boundary. For
// KindMessage, Text is the payload with the tag stripped; for KindStatus
// it is the status word.
type Line struct {
	Kind LineKind
	Text string
}

// Parse classifies a raw line from the device.
func Parse(raw string) Line {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, messagePrefix); ok {
		return Line{Kind: KindMessage, Text: strings.TrimSpace(rest)}
	}
	if statusWords[raw] {
		return Line{Kind: KindStatus, Text: raw}
	}
	return Line{Kind: KindUnknown, Text: raw}
}
