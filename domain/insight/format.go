package insight

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is rendered for absent values
const NotAvailable = "N/A"

var spanish = message.NewPrinter(language.Spanish)

// FormatPercentage renders a ratio as a percentage with two decimals
func FormatPercentage(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", *value*100)
}

// FormatMetricValue renders numbers as percentages and anything else as
// its raw string form
func FormatMetricValue(v MetricValue) string {
	if v.IsNumber() {
		return FormatPercentage(&v.Number)
	}
	return v.String()
}

// HumanizeKey turns a metric key into a label ("f1_score" -> "f1 score")
func HumanizeKey(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// FormatCount renders a record count with Spanish digit grouping
func FormatCount(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	if *value == math.Trunc(*value) && math.Abs(*value) < 1e15 {
		return spanish.Sprintf("%d", int64(*value))
	}
	return spanish.Sprintf("%.2f", *value)
}

// FormatSentiment renders the positive sentiment share with one decimal
func FormatSentiment(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", *value)
}

// FormatPlain renders a number the shortest way that round-trips
func FormatPlain(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
