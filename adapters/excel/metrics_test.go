package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"civia/domain/insight"
)

func TestWriteMetricsLayout(t *testing.T) {
	metrics, err := insight.ParseMetrics([]byte(`{"accuracy":0.9423,"f1_score":0.88,"model":"naive_bayes"}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, metrics))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	header, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Métrica", header)

	label, err := f.GetCellValue(SheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "f1 score", label)

	formatted, err := f.GetCellValue(SheetName, "D2")
	require.NoError(t, err)
	assert.Equal(t, "94.23%", formatted)

	text, err := f.GetCellValue(SheetName, "C4")
	require.NoError(t, err)
	assert.Equal(t, "naive_bayes", text)
}

func TestReadMetricsKeepsOrderAndKinds(t *testing.T) {
	metrics := insight.NewMetrics()
	metrics.Set("recall", insight.NumberValue(0.75))
	metrics.Set("accuracy", insight.NumberValue(0.5))
	metrics.Set("model", insight.StringValue("svm"))

	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, metrics))

	back, err := ReadMetrics(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"recall", "accuracy", "model"}, back.Keys())
	n, ok := back.Number("recall")
	require.True(t, ok)
	assert.InDelta(t, 0.75, n, 1e-9)

	v, ok := back.Get("model")
	require.True(t, ok)
	assert.False(t, v.IsNumber())
	assert.Equal(t, "svm", v.Text)
}

func TestReadMetricsRejectsGarbage(t *testing.T) {
	_, err := ReadMetrics(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
