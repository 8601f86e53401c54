// Package knowledge holds the static agronomic reference data used by the assistant.
//
// A Base is built once at startup and never mutated afterwards, so it is safe
// for concurrent reads from any number of request goroutines.
package knowledge

import (
	"sort"
	"strings"

	"farmer-chatbot/internal/models"
)

// WeatherPatterns describes the Zambian seasons
type WeatherPatterns struct {
	RainySeason     string
	DrySeason       string
	AverageRainfall string
}

// Base is the read-only knowledge base
type Base struct {
	crops     map[string]models.KnowledgeEntry
	cropNames []string
	regions   []string
	weather   WeatherPatterns
	soils     map[string]string
	prices    map[string]models.MarketPrice
	languages []models.LanguageInfo
}

// Default returns the knowledge base for Zambian smallholder farming
func Default() *Base {
	return &Base{
		crops: map[string]models.KnowledgeEntry{
			"maize": {
				PlantingSeason: "November to December",
				HarvestTime:    "April to June",
				WaterNeeds:     "Moderate to high",
				SoilType:       "Well-drained loamy soil",
				Spacing:        "75cm x 25cm",
				Fertilizer:     "NPK 10-20-10 or 12-24-12",
				Pests:          []string{"Fall armyworm", "Stem borers", "Aphids"},
				Diseases:       []string{"Maize streak virus", "Grey leaf spot", "Rust"},
			},
			"cassava": {
				PlantingSeason: "October to December",
				HarvestTime:    "8-18 months after planting",
				WaterNeeds:     "Low to moderate",
				SoilType:       "Sandy loam to clay loam",
				Spacing:        "1m x 1m",
				Fertilizer:     "NPK 12-24-12",
				Pests:          []string{"Cassava mealybug", "Green mite"},
				Diseases:       []string{"Cassava mosaic virus", "Bacterial blight"},
			},
			"groundnuts": {
				PlantingSeason: "November to December",
				HarvestTime:    "4-5 months after planting",
				WaterNeeds:     "Moderate",
				SoilType:       "Sandy loam",
				Spacing:        "60cm x 15cm",
				Fertilizer:     "NPK 12-24-12",
				Pests:          []string{"Aphids", "Thrips"},
				Diseases:       []string{"Groundnut rosette virus", "Leaf spot"},
			},
		},
		cropNames: []string{
			"maize", "cassava", "sweet potato", "groundnuts", "soybeans",
			"cotton", "tobacco", "sugarcane", "coffee", "tea", "sunflower",
			"sorghum", "millet", "beans", "cowpeas", "pigeon peas",
		},
		regions: []string{
			"Lusaka", "Copperbelt", "Central", "Eastern", "Western",
			"Southern", "Northern", "North-Western", "Luapula", "Muchinga",
		},
		weather: WeatherPatterns{
			RainySeason:     "November to April",
			DrySeason:       "May to October",
			AverageRainfall: "800-1400mm annually",
		},
		soils: map[string]string{
			"sandy": "Good for root crops like cassava",
			"clay":  "Good for rice and vegetables",
			"loamy": "Best for most crops including maize",
		},
		prices: map[string]models.MarketPrice{
			"maize":      {Price: "K180/50kg", Trend: "stable"},
			"cassava":    {Price: "K65/kg", Trend: "rising"},
			"groundnuts": {Price: "K120/kg", Trend: "stable"},
			"soybeans":   {Price: "K200/kg", Trend: "falling"},
		},
		languages: []models.LanguageInfo{
			{Code: models.English, Name: "English"},
			{Code: models.Bemba, Name: "Bemba"},
			{Code: models.Nyanja, Name: "Nyanja"},
			{Code: models.Tonga, Name: "Tonga"},
			{Code: models.Lozi, Name: "Lozi"},
		},
	}
}

// Crop looks up a crop entry, ignoring case and surrounding spaces
func (b *Base) Crop(name string) (models.KnowledgeEntry, bool) {
	entry, ok := b.crops[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return models.KnowledgeEntry{}, false
	}
	return cloneEntry(entry), true
}

// CropInformation returns the entry for a crop, or a zero entry if unknown
func (b *Base) CropInformation(name string) models.KnowledgeEntry {
	entry, _ := b.Crop(name)
	return entry
}

// CropNames returns the known Zambian crops in their canonical order
func (b *Base) CropNames() []string {
	return append([]string(nil), b.cropNames...)
}

// Regions returns the Zambian provinces
func (b *Base) Regions() []string {
	return append([]string(nil), b.regions...)
}

// Weather returns the seasonal weather patterns
func (b *Base) Weather() WeatherPatterns {
	return b.weather
}

// SoilTypes returns the soil types with advice, sorted
func (b *Base) SoilTypes() []string {
	types := make([]string, 0, len(b.soils))
	for soil := range b.soils {
		types = append(types, soil)
	}
	sort.Strings(types)
	return types
}

// SoilAdvice returns the note for a soil type
func (b *Base) SoilAdvice(soil string) (string, bool) {
	note, ok := b.soils[strings.ToLower(strings.TrimSpace(soil))]
	return note, ok
}

// MarketPrices returns the demo price table
func (b *Base) MarketPrices() map[string]models.MarketPrice {
	prices := make(map[string]models.MarketPrice, len(b.prices))
	for crop, price := range b.prices {
		prices[crop] = price
	}
	return prices
}

// Languages returns the supported language catalogue in display order
func (b *Base) Languages() []models.LanguageInfo {
	return append([]models.LanguageInfo(nil), b.languages...)
}

// LanguageName returns the display name for a language code
func (b *Base) LanguageName(lang models.Language) (string, bool) {
	for _, l := range b.languages {
		if l.Code == lang {
			return l.Name, true
		}
	}
	return "", false
}

// IdentifyPestDisease answers a symptom query with general guidance only.
// It does not diagnose: every query gets the same advice.
func (b *Base) IdentifyPestDisease(query string) models.PestReport {
	return models.PestReport{
		Query:           query,
		PossibleIssues:  []string{"Check for common symptoms"},
		Recommendations: []string{"Contact local agricultural extension officer"},
	}
}

func cloneEntry(e models.KnowledgeEntry) models.KnowledgeEntry {
	e.Pests = append([]string(nil), e.Pests...)
	e.Diseases = append([]string(nil), e.Diseases...)
	return e
}
