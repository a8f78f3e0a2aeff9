package insight

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Well-known metric names reported by the training pipeline
const (
	MetricAccuracy  = "accuracy"
	MetricPrecision = "precision"
	MetricRecall    = "recall"
	MetricF1Score   = "f1_score"
)

// MetricKind tags the value held by a MetricValue
type MetricKind int

const (
	MetricNumber MetricKind = iota
	MetricString
)

// MetricValue is either a number or a string. Non-numeric JSON values
// (booleans, null, arrays, objects) keep their raw text as a string.
type MetricValue struct {
	Kind   MetricKind
	Number float64
	Text   string
	raw    string
}

// NumberValue creates a numeric metric value
func NumberValue(v float64) MetricValue {
	return MetricValue{Kind: MetricNumber, Number: v}
}

// StringValue creates a string metric value
func StringValue(s string) MetricValue {
	return MetricValue{Kind: MetricString, Text: s}
}

// IsNumber reports whether the value is numeric
func (v MetricValue) IsNumber() bool {
	return v.Kind == MetricNumber
}

// String returns the raw string form of the value
func (v MetricValue) String() string {
	if v.Kind == MetricNumber {
		return fmt.Sprint(v.Number)
	}
	return v.Text
}

// MetricEntry is one key/value pair of Metrics
type MetricEntry struct {
	Key   string
	Value MetricValue
}

// Metrics is the open-ended metrics map returned by the backend. Keys keep
// the order in which they appeared in the response body.
type Metrics struct {
	entries []MetricEntry
	index   map[string]int
}

// NewMetrics creates an empty metrics map
func NewMetrics() *Metrics {
	return &Metrics{index: make(map[string]int)}
}

// Set adds or replaces a metric. Replacing keeps the original position.
func (m *Metrics) Set(key string, value MetricValue) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, MetricEntry{Key: key, Value: value})
}

// Get returns the value stored under key
func (m *Metrics) Get(key string) (MetricValue, bool) {
	if m == nil {
		return MetricValue{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return MetricValue{}, false
	}
	return m.entries[i].Value, true
}

// Number returns the numeric value stored under key. Missing keys and
// non-numeric values report false.
func (m *Metrics) Number(key string) (float64, bool) {
	v, ok := m.Get(key)
	if !ok || !v.IsNumber() {
		return 0, false
	}
	return v.Number, true
}

// NumberPtr is Number shaped for FormatPercentage
func (m *Metrics) NumberPtr(key string) *float64 {
	v, ok := m.Number(key)
	if !ok {
		return nil
	}
	return &v
}

// Entries returns the metrics in response order
func (m *Metrics) Entries() []MetricEntry {
	if m == nil {
		return nil
	}
	out := make([]MetricEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Keys returns metric names in response order
func (m *Metrics) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of metrics
func (m *Metrics) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Ratios returns the numeric values within [0, 1] in order. Counts and
// other unbounded numbers are left out.
func (m *Metrics) Ratios() []float64 {
	var values []float64
	for _, e := range m.Entries() {
		if e.Value.IsNumber() && e.Value.Number >= 0 && e.Value.Number <= 1 {
			values = append(values, e.Value.Number)
		}
	}
	return values
}

// ParseMetrics decodes a JSON object into Metrics, preserving key order
func ParseMetrics(body []byte) (*Metrics, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("metrics payload is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("metrics payload must be a JSON object, got %s", root.Type)
	}

	metrics := NewMetrics()
	root.ForEach(func(key, value gjson.Result) bool {
		metrics.Set(key.String(), valueFromResult(value))
		return true
	})
	return metrics, nil
}

func valueFromResult(value gjson.Result) MetricValue {
	switch value.Type {
	case gjson.Number:
		return MetricValue{Kind: MetricNumber, Number: value.Num, raw: value.Raw}
	case gjson.String:
		return MetricValue{Kind: MetricString, Text: value.Str, raw: value.Raw}
	case gjson.Null:
		return MetricValue{Kind: MetricString, Text: "null", raw: value.Raw}
	default:
		// true/false and nested JSON keep their literal text
		return MetricValue{Kind: MetricString, Text: value.Raw, raw: value.Raw}
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Metrics) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMetrics(data)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// MarshalJSON writes the metrics back in their original order. Values that
// came from a response are written with their original JSON text.
func (m *Metrics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if e.Value.raw != "" {
			buf.WriteString(e.Value.raw)
			continue
		}
		var val []byte
		if e.Value.IsNumber() {
			val, err = json.Marshal(e.Value.Number)
		} else {
			val, err = json.Marshal(e.Value.Text)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
