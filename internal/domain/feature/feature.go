// Package feature defines the per-task input contracts shared by training
// and serving. Field order is part of the contract: the scaler and every
// model see columns in exactly this order.
package feature

// Field names.
const (
	NDVI        = "ndvi"
	NDVIPrev    = "ndvi_prev"
	NDVIChange  = "ndvi_change"
	RedBand     = "red_band"
	NIRBand     = "nir_band"
	BlueBand    = "blue_band"
	GreenBand   = "green_band"
	CloudCover  = "cloud_cover"
	Temperature = "temperature"
	Humidity    = "humidity"
)

// Target columns.
const (
	TargetNDVI7DayAhead = "ndvi_7day_ahead"
	TargetIsChange      = "is_change"
	TargetRiskLevel     = "risk_level"
)

// Task identifies one prediction problem.
type Task string

const (
	TaskNDVI   Task = "ndvi_forecast"
	TaskChange Task = "change_detection"
	TaskRisk   Task = "risk_classification"
)

// Model names used for artifacts, metrics keys and the health listing.
const (
	ModelNDVI   = "ndvi_predictor"
	ModelChange = "change_detector"
	ModelRisk   = "risk_classifier"
)

var (
	ndviFields   = []string{NDVIPrev, NDVIChange, RedBand, NIRBand, CloudCover, Temperature, Humidity}
	changeFields = []string{NDVI, NDVIPrev, NDVIChange, RedBand, NIRBand, CloudCover, Temperature}
	riskFields   = []string{NDVI, NDVIChange, RedBand, NIRBand, CloudCover, Temperature, Humidity}
	scalerFields = []string{NDVI, NDVIPrev, NDVIChange, RedBand, NIRBand, CloudCover, Temperature, Humidity}
)

// Tasks returns every task in canonical order.
func Tasks() []Task {
	return []Task{TaskNDVI, TaskChange, TaskRisk}
}

// ModelNames returns the model names in canonical order.
func ModelNames() []string {
	return []string{ModelNDVI, ModelChange, ModelRisk}
}

// ScalerFields is the union of all task fields, in the order the shared
// scaler is fit.
func ScalerFields() []string {
	return clone(scalerFields)
}

// Fields returns the ordered input fields of the task.
func (t Task) Fields() []string {
	switch t {
	case TaskNDVI:
		return clone(ndviFields)
	case TaskChange:
		return clone(changeFields)
	case TaskRisk:
		return clone(riskFields)
	default:
		return nil
	}
}

// Target returns the training target column of the task.
func (t Task) Target() string {
	switch t {
	case TaskNDVI:
		return TargetNDVI7DayAhead
	case TaskChange:
		return TargetIsChange
	case TaskRisk:
		return TargetRiskLevel
	default:
		return ""
	}
}

// ModelName returns the name of the model serving the task.
func (t Task) ModelName() string {
	switch t {
	case TaskNDVI:
		return ModelNDVI
	case TaskChange:
		return ModelChange
	case TaskRisk:
		return ModelRisk
	default:
		return ""
	}
}

func (t Task) String() string {
	return string(t)
}

func clone(fields []string) []string {
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}
