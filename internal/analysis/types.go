// Package analysis implements the two-stage product analysis pipeline:
// a fast label/profile identification call followed by a slower
// competitive-research call, both delegated to a grounded LLM endpoint.
package analysis

// ProductProfile holds the identity and label facts of one product.
// It is produced exactly once per session and never mutated afterwards.
type ProductProfile struct {
	Name             string     `json:"name"`
	Brand            string     `json:"brand"`
	NetWeight        string     `json:"netWeight"`
	Price            string     `json:"price"`
	Type             string     `json:"type"`
	Origin           string     `json:"origin"`
	Manufacturer     string     `json:"manufacturer"`
	Importer         string     `json:"importer"`
	LabelIngredients string     `json:"labelIngredients"`
	Ingredients      []string   `json:"ingredients"`
	Additives        []Additive `json:"additives"`
	Allergens        []string   `json:"allergens"`
	Specs            Specs      `json:"specs"`
}

// Additive is a single E-number/codex entry with its functional role.
type Additive struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Function string `json:"function"`
}

// Specs are free-text measurement estimates; any may be absent or "N/A".
type Specs struct {
	Moisture      string `json:"moisture"`
	Brix          string `json:"brix"`
	Texture       string `json:"texture"`
	FlavorProfile string `json:"flavorProfile"`
}

// AnalysisInsights is the second-stage enrichment. Every field is optional:
// keys absent from the model response stay zero-valued, and consumers must
// treat each field as possibly empty.
type AnalysisInsights struct {
	Competitors  []Competitor  `json:"competitors,omitempty"`
	RadarChart   []RadarPoint  `json:"radarChart,omitempty"`
	SWOT         *SWOT         `json:"swot,omitempty"`
	Improvements []Improvement `json:"improvements,omitempty"`
	Reviews      *Reviews      `json:"reviews,omitempty"`
	Persona      *Persona      `json:"persona,omitempty"`
}

// Competitor is a comparable product discovered by the model.
type Competitor struct {
	Name      string            `json:"name"`
	Price     string            `json:"price"`
	USP       string            `json:"usp"`
	Nutrition Nutrition         `json:"nutrition"`
	Sensory   map[string]string `json:"sensory,omitempty"`
}

// Nutrition values are free text with embedded units (e.g. "450 kcal").
type Nutrition struct {
	Energy string `json:"energy"`
	Sugar  string `json:"sugar"`
	Fat    string `json:"fat"`
}

// RadarPoint is one axis of the fixed five-axis sensory radar.
type RadarPoint struct {
	Axis  string  `json:"axis"`
	Score float64 `json:"score"`
}

type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type Improvement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Reviews struct {
	Summary   string       `json:"summary"`
	KeyThemes []string     `json:"keyThemes"`
	Items     []ReviewItem `json:"items"`
}

type ReviewItem struct {
	Source  string  `json:"source"`
	Rating  float64 `json:"rating"`
	Content string  `json:"content"`
}

type Persona struct {
	TargetAudience     string   `json:"targetAudience"`
	ExpansionPotential []string `json:"expansionPotential"`
}
