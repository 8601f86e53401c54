package service

import (
	"fmt"
	"strings"

	"farmer-chatbot/internal/models"
)

const (
	locationPrompt = "Please specify a location (e.g., 'weather in Lusaka')."

	weatherAdvice = "In Zambia, the rainy season runs from November to April, " +
		"and the dry season from May to October. Average rainfall is " +
		"800-1400mm annually. For specific weather forecasts, please " +
		"provide your location."

	cropHelp = "I can help you with information about maize, cassava, " +
		"groundnuts, and other crops grown in Zambia. What specific " +
		"crop would you like to know about?"

	pestAdvice = "Common pests in Zambia include Fall Armyworm, Stem Borers, " +
		"and Aphids. For diseases, watch out for Maize Streak Virus, " +
		"Grey Leaf Spot, and Rust. Describe the symptoms you're seeing " +
		"for more specific advice."

	marketAdvice = "Market prices vary by location and season. Current maize " +
		"prices range from K150-200 per 50kg bag. Cassava prices " +
		"are around K50-80 per kg. For the most current prices, " +
		"check with your local market."

	generalAdvice = "I'm here to help with farming advice for Zambia. You can ask me about: " +
		"• Weather and climate information\n" +
		"• Crop planting and harvesting\n" +
		"• Pest and disease management\n" +
		"• Market prices\n" +
		"• Soil and fertilizer advice\n" +
		"What would you like to know?"
)

var greetings = map[models.Language]string{
	models.English: "Hello! I'm your Zambian farming assistant. How can I help you today?",
	models.Bemba:   "Muli shani! Ndi mufyashi wenu wa Zambia. Nga ndesha ukusunga?",
	models.Nyanja:  "Moni! Ndine wothandiza a alimi a Zambia. Ndikuthandizeni bwanji?",
	models.Tonga:   "Mwapona! Ndi mufyashi wenu wa Zambia. Nga ndesha ukusunga?",
	models.Lozi:    "Lumela! Ndi mufyashi wenu wa Zambia. Nga ndesha ukusunga?",
}

// Greeting returns the fixed greeting for lang, English when unknown
func Greeting(lang models.Language) string {
	if g, ok := greetings[lang]; ok {
		return g
	}
	return greetings[models.English]
}

// ruleBased answers from canned texts when no generated answer is available
func (a *Assistant) ruleBased(intent models.Intent, lowered string, lang models.Language) string {
	switch intent {
	case models.IntentWeather:
		return a.localize(lang, weatherAdvice, "Weather information for Zambia")
	case models.IntentCrop:
		return a.cropAnswer(lowered, lang)
	case models.IntentPestDisease:
		return a.localize(lang, pestAdvice, "Pest and disease information")
	case models.IntentMarket:
		return a.localize(lang, marketAdvice, "Market price information")
	default:
		return a.localize(lang, generalAdvice, "General farming advice")
	}
}

// cropAnswer formats the first known crop mentioned that has an entry
func (a *Assistant) cropAnswer(lowered string, lang models.Language) string {
	for _, crop := range a.kb.CropNames() {
		if !strings.Contains(lowered, crop) {
			continue
		}
		info, ok := a.kb.Crop(crop)
		if !ok {
			continue
		}
		return a.localize(lang, formatCropInfo(crop, info), "Information about "+crop)
	}
	return a.localize(lang, cropHelp, "I can help with crop information")
}

// localize returns english for English (and unknown languages) and a
// language-tagged topic line for the other supported languages.
func (a *Assistant) localize(lang models.Language, english, topic string) string {
	if lang == models.English {
		return english
	}
	name, ok := a.kb.LanguageName(lang)
	if !ok {
		return english
	}
	return name + ": " + topic
}

func formatCropInfo(crop string, info models.KnowledgeEntry) string {
	return fmt.Sprintf(`Here's information about %s:

🌱 Planting Season: %s
🌾 Harvest Time: %s
💧 Water Needs: %s
🌍 Soil Type: %s
📏 Spacing: %s
🌿 Fertilizer: %s

🐛 Common Pests: %s
🦠 Common Diseases: %s`,
		crop,
		orNA(info.PlantingSeason),
		orNA(info.HarvestTime),
		orNA(info.WaterNeeds),
		orNA(info.SoilType),
		orNA(info.Spacing),
		orNA(info.Fertilizer),
		strings.Join(info.Pests, ", "),
		strings.Join(info.Diseases, ", "))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func farmFallback(profile models.FarmerProfile) string {
	name := strings.TrimSpace(profile.FullName)
	if name == "" {
		name = "farmer"
	}
	return fmt.Sprintf("Hello %s! I can see you have %d farm(s). How can I help you with your farming today?",
		name, len(profile.Farms))
}
