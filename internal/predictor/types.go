package predictor

// Class labels as encoded by the service.
const (
	Malignant = 0
	Benign    = 1
)

// FeaturesResponse is the body of GET /api/features.
type FeaturesResponse struct {
	Features []string `json:"features"`
	Count    int      `json:"count,omitempty"`
}

// ModelInfo is the body of GET /api/model-info.
type ModelInfo struct {
	Description   string   `json:"description"`
	FeaturesCount int      `json:"features_count"`
	ModelType     string   `json:"model_type"`
	Classes       []string `json:"classes,omitempty"`
}

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	Features []float64 `json:"features"`
}

// Probabilities holds per-class percentages.
type Probabilities struct {
	Malignant float64 `json:"malignant"`
	Benign    float64 `json:"benign"`
}

// Result is a successful prediction.
type Result struct {
	Prediction    int           `json:"prediction"`
	Label         string        `json:"label,omitempty"`
	Confidence    float64       `json:"confidence"`
	Probabilities Probabilities `json:"probabilities"`
}

// IsMalignant reports whether the predicted class is malignant.
func (r *Result) IsMalignant() bool {
	return r.Prediction == Malignant
}

// Title returns the display name of the predicted class.
func (r *Result) Title() string {
	if r.IsMalignant() {
		return "Malignant"
	}
	return "Benign"
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}
