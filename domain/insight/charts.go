package insight

// ChartReference names one of the PNG visualizations produced by the
// training pipeline
type ChartReference struct {
	Name  string
	Title string
}

var chartCatalog = []ChartReference{
	{Name: "impacto_por_ciudad.png", Title: "Impacto Social por Ciudad"},
	{Name: "categorias_urgentes.png", Title: "Categorías Urgentes"},
	{Name: "internet_vs_urgencia.png", Title: "Internet vs Urgencia"},
	{Name: "sentimiento_promedio.png", Title: "Sentimiento Promedio"},
	{Name: "temas_detectados.png", Title: "Temas Detectados"},
	{Name: "categorias_impacto.png", Title: "Categorías de Mayor Impacto"},
	{Name: "reportes_por_genero.png", Title: "Reportes por Género"},
}

// Charts returns the fixed chart catalog in display order
func Charts() []ChartReference {
	out := make([]ChartReference, len(chartCatalog))
	copy(out, chartCatalog)
	return out
}

// IsKnownChart reports whether name belongs to the catalog
func IsKnownChart(name string) bool {
	for _, c := range chartCatalog {
		if c.Name == name {
			return true
		}
	}
	return false
}
