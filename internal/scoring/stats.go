package scoring

import "math"

// Stats is presentational metadata attached to recommendation responses.
// None of it comes from a trained model.
type Stats struct {
	Accuracy     float64 `json:"accuracy"`
	TrainingSize int     `json:"trainingSize"`
	ModelType    string  `json:"modelType"`
}

var modelTypes = map[string]string{
	"movie": "Collaborative Filtering",
	"music": "Content-Based Filtering",
}

// Stats draws cosmetic model statistics for the given category.
func (e *Engine) Stats(category string) Stats {
	model, ok := modelTypes[category]
	if !ok {
		model = "Hybrid Recommender"
	}

	accuracy := 85 + e.src.Float64()*10

	return Stats{
		Accuracy:     math.Round(accuracy*10) / 10,
		TrainingSize: 10000 + e.src.IntN(40001),
		ModelType:    model,
	}
}
