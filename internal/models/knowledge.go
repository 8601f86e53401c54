package models

// KnowledgeEntry holds agronomic facts for one crop
type KnowledgeEntry struct {
	PlantingSeason string   `json:"planting_season,omitempty"`
	HarvestTime    string   `json:"harvest_time,omitempty"`
	WaterNeeds     string   `json:"water_needs,omitempty"`
	SoilType       string   `json:"soil_type,omitempty"`
	Spacing        string   `json:"spacing,omitempty"`
	Fertilizer     string   `json:"fertilizer,omitempty"`
	Pests          []string `json:"pests,omitempty"`
	Diseases       []string `json:"diseases,omitempty"`
}

// IsZero reports whether the entry carries no data
func (e KnowledgeEntry) IsZero() bool {
	return e.PlantingSeason == "" && e.HarvestTime == "" && e.WaterNeeds == "" &&
		e.SoilType == "" && e.Spacing == "" && e.Fertilizer == "" &&
		len(e.Pests) == 0 && len(e.Diseases) == 0
}

// WeatherSnapshot is the normalized current weather for a location
type WeatherSnapshot struct {
	Location    string `json:"location"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Humidity    string `json:"humidity"`
	Forecast    string `json:"forecast"`
}

// MarketPrice is a demo price quote for a crop
type MarketPrice struct {
	Price string `json:"price"`
	Trend string `json:"trend"`
}

// PestReport is the answer of the pest/disease identification stub
type PestReport struct {
	Query           string   `json:"query"`
	PossibleIssues  []string `json:"possible_issues"`
	Recommendations []string `json:"recommendations"`
}

// LanguageInfo describes a supported language
type LanguageInfo struct {
	Code Language `json:"code"`
	Name string   `json:"name"`
}
