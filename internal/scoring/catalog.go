package scoring

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MaxRating is the top of the 1-5 rating scale every question uses.
const MaxRating = 5

// AssessmentType identifies one of the self-assessment variants.
type AssessmentType string

const (
	HighValueMan AssessmentType = "high-value-man"
	WifeMaterial AssessmentType = "wife-material"
	BridalPrice  AssessmentType = "bridal-price"
)

// AssessmentTypes lists every supported assessment type.
var AssessmentTypes = []AssessmentType{HighValueMan, WifeMaterial, BridalPrice}

// Valid reports whether t is a known assessment type.
func (t AssessmentType) Valid() bool {
	for _, known := range AssessmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Question is one statement of the catalog, rated by the respondent.
type Question struct {
	ID       string  `yaml:"id" json:"id"`
	Category string  `yaml:"category" json:"category"`
	Text     string  `yaml:"text" json:"text"`
	Weight   float64 `yaml:"weight,omitempty" json:"weight"`
}

// Category describes a scoring category and how the client renders it.
type Category struct {
	Name        string `yaml:"name" json:"name"`
	Color       string `yaml:"color" json:"color"`
	Description string `yaml:"description" json:"description"`
	Gradient    string `yaml:"gradient" json:"gradient"`
}

// Catalog is the static question catalog. It is immutable after load.
type Catalog struct {
	Categories      []Category                `yaml:"categories"`
	QuestionSets    map[string][]Question     `yaml:"question_sets"`
	AssessmentTypes map[AssessmentType]string `yaml:"assessment_types"`
}

//go:embed questions.yaml
var questionsYAML []byte

var defaultCatalog = mustLoadCatalog(questionsYAML)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// LoadCatalog parses a catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal catalog YAML")
	}
	for set, questions := range c.QuestionSets {
		for i := range questions {
			if questions[i].Weight == 0 {
				questions[i].Weight = 1
			}
		}
		c.QuestionSets[set] = questions
	}
	for t, set := range c.AssessmentTypes {
		if _, ok := c.QuestionSets[set]; !ok {
			return nil, errors.Errorf("assessment type %q references unknown question set %q", t, set)
		}
	}
	return &c, nil
}

func mustLoadCatalog(data []byte) *Catalog {
	c, err := LoadCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Questions returns the questions of an assessment type in declared order,
// or nil for an unknown type.
func (c *Catalog) Questions(t AssessmentType) []Question {
	set, ok := c.AssessmentTypes[t]
	if !ok {
		return nil
	}
	return c.QuestionSets[set]
}

// CategoryNames returns the declared category order.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// Category looks up a category by name.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// QuestionsByCategory groups the questions of t by category name.
func (c *Catalog) QuestionsByCategory(t AssessmentType) map[string][]Question {
	grouped := make(map[string][]Question)
	for _, q := range c.Questions(t) {
		grouped[q.Category] = append(grouped[q.Category], q)
	}
	return grouped
}
