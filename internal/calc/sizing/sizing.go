// Package sizing implements the size chart lookups and the
// measurement-based size recommendation. Tables are static data; the
// only logic here is range containment and nearest-boundary matching.
package sizing

import "errors"

type Category string

const (
	CategoryMensShirts    Category = "mens_shirts"
	CategoryWomensDresses Category = "womens_dresses"
	CategoryMensShoes     Category = "mens_shoes"
	CategoryWomensShoes   Category = "womens_shoes"
)

type System string

const (
	SystemCN System = "CN"
	SystemUS System = "US"
	SystemEU System = "EU"
	SystemUK System = "UK"
)

// Measure identifies which body measurement a table is keyed on.
const (
	MeasureChestCM      = "chest_cm"
	MeasureFootLengthCM = "foot_length_cm"
)

// Confidence qualifies a recommendation: exact when the measurement
// falls inside a row's range, approximate when the nearest boundary was
// chosen instead.
type Confidence string

const (
	ConfidenceExact       Confidence = "exact"
	ConfidenceApproximate Confidence = "approximate"
)

type WeightUnit string

const (
	UnitGram     WeightUnit = "g"
	UnitKilogram WeightUnit = "kg"
	UnitOunce    WeightUnit = "oz"
	UnitPound    WeightUnit = "lb"
)

var (
	ErrUnknownCategory    = errors.New("unknown_category")
	ErrUnknownSystem      = errors.New("unknown_system")
	ErrUnknownSize        = errors.New("unknown_size")
	ErrUnknownWeightUnit  = errors.New("unknown_weight_unit")
	ErrInvalidMeasurement = errors.New("invalid_measurement")
)

// Row is one size across all systems with its measurement range
// [MinCM, MaxCM).
type Row struct {
	Labels map[System]string
	MinCM  float64
	MaxCM  float64
}

type table struct {
	measure string
	rows    []Row
}

type Recommendation struct {
	Row        Row
	Measure    string
	Confidence Confidence
}

func Categories() []Category {
	return []Category{
		CategoryMensShirts,
		CategoryWomensDresses,
		CategoryMensShoes,
		CategoryWomensShoes,
	}
}

func validSystem(system System) bool {
	switch system {
	case SystemCN, SystemUS, SystemEU, SystemUK:
		return true
	}
	return false
}

// Chart returns the full table for a category along with the measure it
// is keyed on.
func Chart(category Category) ([]Row, string, error) {
	t, ok := tables[category]
	if !ok {
		return nil, "", ErrUnknownCategory
	}
	return t.rows, t.measure, nil
}

// Convert finds the row carrying the given size label in the given
// system; the row then yields the label in every other system.
func Convert(category Category, system System, label string) (*Row, error) {
	t, ok := tables[category]
	if !ok {
		return nil, ErrUnknownCategory
	}
	if !validSystem(system) {
		return nil, ErrUnknownSystem
	}
	for i := range t.rows {
		if t.rows[i].Labels[system] == label {
			row := t.rows[i]
			return &row, nil
		}
	}
	return nil, ErrUnknownSize
}

// Recommend picks the row whose measurement range contains the value.
// When no range contains it, the closest boundary wins and the
// recommendation is marked approximate rather than exact.
func Recommend(category Category, measurementCM float64) (*Recommendation, error) {
	t, ok := tables[category]
	if !ok {
		return nil, ErrUnknownCategory
	}
	if measurementCM <= 0 {
		return nil, ErrInvalidMeasurement
	}

	for i := range t.rows {
		if measurementCM >= t.rows[i].MinCM && measurementCM < t.rows[i].MaxCM {
			return &Recommendation{
				Row:        t.rows[i],
				Measure:    t.measure,
				Confidence: ConfidenceExact,
			}, nil
		}
	}

	nearest := t.rows[0]
	best := boundaryDistance(nearest, measurementCM)
	for _, row := range t.rows[1:] {
		if d := boundaryDistance(row, measurementCM); d < best {
			best = d
			nearest = row
		}
	}
	return &Recommendation{
		Row:        nearest,
		Measure:    t.measure,
		Confidence: ConfidenceApproximate,
	}, nil
}

func boundaryDistance(row Row, v float64) float64 {
	if v < row.MinCM {
		return row.MinCM - v
	}
	if v >= row.MaxCM {
		return v - row.MaxCM
	}
	return 0
}

// ConvertWeight converts between supported weight units via grams.
func ConvertWeight(value float64, from, to WeightUnit) (float64, error) {
	if value < 0 {
		return 0, ErrInvalidMeasurement
	}
	fromGrams, ok := gramsPerUnit[from]
	if !ok {
		return 0, ErrUnknownWeightUnit
	}
	toGrams, ok := gramsPerUnit[to]
	if !ok {
		return 0, ErrUnknownWeightUnit
	}
	return value * fromGrams / toGrams, nil
}
