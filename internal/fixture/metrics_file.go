package fixture

import (
	"fmt"
	"os"

	"civia/adapters/excel"
	"civia/domain/insight"
)

// LoadMetricsFile reads metrics from a workbook in the export layout
func LoadMetricsFile(path string) (*insight.Metrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metrics workbook: %w", err)
	}
	defer f.Close()

	metrics, err := excel.ReadMetrics(f)
	if err != nil {
		return nil, err
	}
	if metrics.Len() == 0 {
		return nil, fmt.Errorf("metrics workbook %s has no rows", path)
	}
	return metrics, nil
}
