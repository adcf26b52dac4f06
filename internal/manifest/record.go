package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one utterance entry from a manifest.
type Record struct {
	// ID is the zero-based ordinal of the record within the manifest. It is
	// stable across loads of the same file and unique within a collection.
	ID int
	// AudioPath references the utterance's audio resource.
	AudioPath string
	// Text is the transcript. It may be empty.
	Text string
	// Duration carries the manifest-declared duration when present. An
	// unknown duration is resolved later by probing the audio resource.
	Duration Duration
	// Metadata holds every manifest field beyond the known ones, in their
	// original order.
	Metadata Metadata
}

// Duration is a tagged optional number of seconds.
type Duration struct {
	seconds float64
	known   bool
}

// Seconds wraps a known duration value.
func Seconds(v float64) Duration {
	return Duration{seconds: v, known: true}
}

// UnknownDuration marks a duration that must be resolved from the audio
// resource.
func UnknownDuration() Duration {
	return Duration{}
}

// Known reports whether the duration was declared by the manifest.
func (d Duration) Known() bool { return d.known }

// Value returns the declared duration in seconds. It is only meaningful when
// Known reports true.
func (d Duration) Value() float64 { return d.seconds }

// Metadata is an ordered key-value bag of pass-through manifest fields.
type Metadata struct {
	keys   []string
	values map[string]any
}

// Len returns the number of metadata fields.
func (m Metadata) Len() int { return len(m.keys) }

// Keys returns the field names in first-appearance order.
func (m Metadata) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Get returns the raw decoded value for key.
func (m Metadata) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// String renders the value for key as a plain string, for display and
// equality filtering. Numbers print without an exponent where possible.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m.values[key]
	if !ok {
		return "", false
	}
	return renderValue(v), true
}

func (m *Metadata) set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = renderValue(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}
