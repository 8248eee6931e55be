package scoring

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Band maps a lower bound to a label. Bands are checked in order and the
// first band whose Min is not above the value wins.
type Band struct {
	Min   float64 `yaml:"min" json:"min"`
	Label string  `yaml:"label" json:"label"`
}

// GapBand maps an upper bound (inclusive) on a gap to a status.
type GapBand struct {
	Max    float64   `yaml:"max" json:"max"`
	Status GapStatus `yaml:"status" json:"status"`
}

// Tables holds the configuration data the scoring arithmetic consults.
type Tables struct {
	CategoryWeights    map[AssessmentType]map[string]float64 `yaml:"category_weights"`
	Badges             map[AssessmentType][]Band             `yaml:"badges"`
	RegionMultipliers  map[string]float64                    `yaml:"region_multipliers"`
	CompatibilityBands []Band                                `yaml:"compatibility_bands"`
	GapBands           []GapBand                             `yaml:"gap_bands"`
}

// UnratedBadge is returned when no badge band applies.
const UnratedBadge = "Unrated"

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() *Tables {
	return &Tables{
		CategoryWeights: map[AssessmentType]map[string]float64{
			HighValueMan: {
				"Mental Traits":                   1.3,
				"Emotional Traits":                1.0,
				"Physical Traits":                 0.8,
				"Financial Traits":                1.5,
				"Family & Cultural Compatibility": 1.0,
				"Conflict Resolution Style":       1.2,
			},
			BridalPrice: {
				"Mental Traits":                   1.0,
				"Emotional Traits":                1.2,
				"Physical Traits":                 1.0,
				"Financial Traits":                0.9,
				"Family & Cultural Compatibility": 1.5,
				"Conflict Resolution Style":       1.2,
			},
			WifeMaterial: {
				"Mental Traits":                   1.0,
				"Emotional Traits":                1.2,
				"Physical Traits":                 1.5,
				"Financial Traits":                0.8,
				"Family & Cultural Compatibility": 1.3,
				"Conflict Resolution Style":       1.2,
			},
		},
		Badges: map[AssessmentType][]Band{
			HighValueMan: {
				{Min: 90, Label: "Elite Provider"},
				{Min: 80, Label: "High-Value Leader"},
				{Min: 70, Label: "Balanced Provider"},
				{Min: 60, Label: "Developing Provider"},
				{Min: 0, Label: "Needs Improvement"},
			},
			BridalPrice: {
				{Min: 90, Label: "Premium Bride"},
				{Min: 80, Label: "High-Value Partner"},
				{Min: 70, Label: "Traditional Value"},
				{Min: 60, Label: "Growing Potential"},
				{Min: 0, Label: "Needs Development"},
			},
			WifeMaterial: {
				{Min: 90, Label: "Exceptional Partner"},
				{Min: 80, Label: "Strong Life Partner"},
				{Min: 70, Label: "Balanced Partner"},
				{Min: 60, Label: "Growing Partner"},
				{Min: 0, Label: "Needs Growth"},
			},
		},
		RegionMultipliers: map[string]float64{
			"africa":          1.2,
			"west_africa":     1.3,
			"east_africa":     1.1,
			"north_africa":    1.0,
			"southern_africa": 1.15,
			"asia":            0.9,
			"europe":          0.8,
			"north_america":   0.85,
			"south_america":   0.75,
			"oceania":         0.7,
			"global":          1.0,
		},
		CompatibilityBands: []Band{
			{Min: 90, Label: "Perfect Match"},
			{Min: 80, Label: "Highly Compatible"},
			{Min: 70, Label: "Good Match"},
			{Min: 60, Label: "Compatible"},
			{Min: 50, Label: "Moderate Compatibility"},
			{Min: 40, Label: "Some Challenges"},
			{Min: 30, Label: "Significant Differences"},
			{Min: 0, Label: "Major Incompatibilities"},
		},
		GapBands: []GapBand{
			{Max: 10, Status: SelfAware},
			{Max: 25, Status: BlindSpot},
		},
	}
}

// LoadTables reads a YAML file and overlays it on the defaults. Sections
// missing from the file keep their default values.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scoring tables")
	}
	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal scoring tables")
	}

	t := DefaultTables()
	if override.CategoryWeights != nil {
		t.CategoryWeights = override.CategoryWeights
	}
	if override.Badges != nil {
		t.Badges = override.Badges
	}
	if override.RegionMultipliers != nil {
		t.RegionMultipliers = override.RegionMultipliers
	}
	if override.CompatibilityBands != nil {
		t.CompatibilityBands = override.CompatibilityBands
	}
	if override.GapBands != nil {
		t.GapBands = override.GapBands
	}
	return t, nil
}

func (t *Tables) categoryWeight(at AssessmentType, category string) float64 {
	if w, ok := t.CategoryWeights[at][category]; ok {
		return w
	}
	return 1.0
}

func (t *Tables) regionMultiplier(region string) float64 {
	if m, ok := t.RegionMultipliers[region]; ok {
		return m
	}
	return 1.0
}

func (t *Tables) gapStatus(gap float64) GapStatus {
	for _, b := range t.GapBands {
		if gap <= b.Max {
			return b.Status
		}
	}
	return Delusional
}

func lookupBand(bands []Band, value float64, fallback string) string {
	for _, b := range bands {
		if value >= b.Min {
			return b.Label
		}
	}
	return fallback
}
