package service

import (
	"fmt"
	"strings"

	"farmer-chatbot/internal/knowledge"
	"farmer-chatbot/internal/llm"
	"farmer-chatbot/internal/models"
)

// SystemInstruction builds the system instruction sent with every generation
func SystemInstruction(kb *knowledge.Base) llm.InstructionFunc {
	crops := strings.Join(kb.CropNames(), ", ")
	regions := strings.Join(kb.Regions(), ", ")
	w := kb.Weather()

	var soils strings.Builder
	for _, soil := range kb.SoilTypes() {
		advice, _ := kb.SoilAdvice(soil)
		fmt.Fprintf(&soils, "\n- %s soil: %s", soil, advice)
	}

	return func(language string) string {
		return fmt.Sprintf(`You are a helpful agricultural assistant for Zambian farmers.
You have expertise in Zambian farming practices, crops, weather patterns, and local conditions.

Key Zambian crops: %s
Zambian regions: %s

Current knowledge base:
- Rainy season: %s
- Dry season: %s
- Average rainfall: %s

Soil types:%s

Respond in %s if requested, otherwise use English.
Be helpful, practical, and specific to Zambian farming conditions.
Keep responses concise but informative.`, crops, regions, w.RainySeason, w.DrySeason, w.AverageRainfall, soils.String(), language)
	}
}

func weatherPrompt(w *models.WeatherSnapshot, lang models.Language) string {
	return fmt.Sprintf("Here is the current weather for %s in Zambia: "+
		"Temperature: %s, Condition: %s, Humidity: %s. Forecast: %s. "+
		"Please summarize this weather for a Zambian farmer in %s.",
		w.Location, w.Temperature, w.Condition, w.Humidity, w.Forecast, lang)
}

func plainWeather(w *models.WeatherSnapshot) string {
	return fmt.Sprintf("Weather for %s: %s, %s, Humidity: %s. Forecast: %s",
		w.Location, w.Temperature, w.Condition, w.Humidity, w.Forecast)
}

func farmPrompt(farmContext, message string, lang models.Language) string {
	return fmt.Sprintf(`You are a helpful Zambian farming assistant. Here is the farmer's information:

%s

Farmer's Question: %s

Please provide a friendly, helpful response in %s that:
1. Addresses their specific question
2. Uses their farm information when relevant
3. Provides practical farming advice
4. Is encouraging and supportive
5. Uses simple, clear language suitable for farmers

Keep your response conversational and under 200 words.`, farmContext, message, lang)
}
