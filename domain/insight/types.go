package insight

// PipelineRunResult is returned by the backend after a training run
type PipelineRunResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ExplanationResult carries the AI generated dashboard explanation.
// Either field may be present.
type ExplanationResult struct {
	Explanation string `json:"explanation,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Text returns the explanation, falling back to the message
func (e ExplanationResult) Text() string {
	if e.Explanation != "" {
		return e.Explanation
	}
	return e.Message
}

// KpiSnapshot is the four-field numeric summary shown on the Dashboard and
// Train pages. A nil field was absent from the backend response.
type KpiSnapshot struct {
	TotalRecords      *float64 `json:"total_registros"`
	PositiveSentiment *float64 `json:"sentimiento_positivo"`
	ActiveCategories  *float64 `json:"categorias_activas"`
	IdentifiedTopics  *float64 `json:"temas_identificados"`
}

// ZeroKpis is the snapshot displayed before the first successful fetch
func ZeroKpis() KpiSnapshot {
	return KpiSnapshot{
		TotalRecords:      pointer(0.0),
		PositiveSentiment: pointer(0.0),
		ActiveCategories:  pointer(0.0),
		IdentifiedTopics:  pointer(0.0),
	}
}

// NewKpiSnapshot builds a snapshot with every field present
func NewKpiSnapshot(totalRecords, positiveSentiment, activeCategories, identifiedTopics float64) KpiSnapshot {
	return KpiSnapshot{
		TotalRecords:      pointer(totalRecords),
		PositiveSentiment: pointer(positiveSentiment),
		ActiveCategories:  pointer(activeCategories),
		IdentifiedTopics:  pointer(identifiedTopics),
	}
}

// Clone returns a deep copy so callers never share field pointers
func (k KpiSnapshot) Clone() KpiSnapshot {
	return KpiSnapshot{
		TotalRecords:      clonePtr(k.TotalRecords),
		PositiveSentiment: clonePtr(k.PositiveSentiment),
		ActiveCategories:  clonePtr(k.ActiveCategories),
		IdentifiedTopics:  clonePtr(k.IdentifiedTopics),
	}
}

func pointer[T any](v T) *T {
	return &v
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return pointer(*v)
}
