package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"farmer-chatbot/internal/intent"
	"farmer-chatbot/internal/knowledge"
	"farmer-chatbot/internal/llm"
	"farmer-chatbot/internal/models"
	"farmer-chatbot/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	langs   []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt, language string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.langs = append(f.langs, language)
	return f.reply, f.err
}

func (f *fakeGenerator) Close() error { return nil }

func (f *fakeGenerator) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{"provider": "fake"}
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeWeather struct {
	snapshot  *models.WeatherSnapshot
	err       error
	locations []string
}

func (f *fakeWeather) Fetch(_ context.Context, location string) (*models.WeatherSnapshot, error) {
	f.locations = append(f.locations, location)
	return f.snapshot, f.err
}

var lusaka = &models.WeatherSnapshot{
	Location:    "Lusaka",
	Temperature: "24.0°C",
	Condition:   "Sunny",
	Humidity:    "40%",
	Forecast:    "Sunny",
}

func newAssistant(gen llm.Generator, w WeatherFetcher) *Assistant {
	kb := knowledge.Default()
	return NewAssistant(kb, intent.NewClassifier(kb.CropNames()), w, gen, zap.NewNop())
}

var failing = &fakeGenerator{err: &llm.GenerationError{Provider: "fake", Err: errors.New("quota exceeded")}}

func TestRespond_Greeting(t *testing.T) {
	tests := []struct {
		lang models.Language
		want string
	}{
		{lang: models.English, want: "Hello! I'm your Zambian farming assistant. How can I help you today?"},
		{lang: models.Bemba, want: "Muli shani! Ndi mufyashi wenu wa Zambia. Nga ndesha ukusunga?"},
		{lang: models.Nyanja, want: "Moni! Ndine wothandiza a alimi a Zambia. Ndikuthandizeni bwanji?"},
		{lang: "klingon", want: "Hello! I'm your Zambian farming assistant. How can I help you today?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			gen := &fakeGenerator{reply: "generated"}
			w := &fakeWeather{snapshot: lusaka}
			a := newAssistant(gen, w)

			reply := a.Respond(context.Background(), "Hello, what's the weather in Lusaka?", tt.lang)

			assert.Equal(t, tt.want, reply.Text)
			assert.Equal(t, PathGreeting, reply.Path)
			assert.Equal(t, models.IntentGreeting, reply.Intent)
			assert.Zero(t, gen.calls())
			assert.Empty(t, w.locations)
		})
	}
}

func TestRespond_WeatherWithoutLocation(t *testing.T) {
	gen := &fakeGenerator{reply: "generated"}
	w := &fakeWeather{snapshot: lusaka}
	a := newAssistant(gen, w)

	reply := a.Respond(context.Background(), "what's the weather", models.English)

	assert.Equal(t, "Please specify a location (e.g., 'weather in Lusaka').", reply.Text)
	assert.Equal(t, PathLocationPrompt, reply.Path)
	assert.Zero(t, gen.calls())
	assert.Empty(t, w.locations)
}

func TestRespond_WeatherFailureIsReturnedVerbatim(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "not configured", err: weather.ErrNotConfigured, want: "Weather API key not configured. Please contact support."},
		{name: "provider", err: &weather.ProviderError{Location: "Atlantis", StatusCode: 400}, want: "Could not fetch weather for 'Atlantis'. Please check the location name."},
		{name: "transport", err: &weather.TransportError{Err: errors.New("connection refused")}, want: "Weather service error: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: "generated"}
			w := &fakeWeather{err: tt.err}
			a := newAssistant(gen, w)

			reply := a.Respond(context.Background(), "weather in Atlantis", models.English)

			assert.Equal(t, tt.want, reply.Text)
			assert.Equal(t, PathWeatherError, reply.Path)
			assert.Equal(t, []string{"Atlantis"}, w.locations)
			assert.Zero(t, gen.calls())
		})
	}
}

func TestRespond_WeatherSummary(t *testing.T) {
	gen := &fakeGenerator{reply: "Sunny and dry in Lusaka, good for harvesting."}
	w := &fakeWeather{snapshot: lusaka}
	a := newAssistant(gen, w)

	reply := a.Respond(context.Background(), "Weather in Lusaka", models.Tonga)

	assert.Equal(t, "Sunny and dry in Lusaka, good for harvesting.", reply.Text)
	assert.Equal(t, PathWeatherSummary, reply.Path)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "Here is the current weather for Lusaka in Zambia: Temperature: 24.0°C, Condition: Sunny, Humidity: 40%.")
	assert.Contains(t, gen.prompts[0], "Please summarize this weather for a Zambian farmer in tonga.")
	assert.Equal(t, []string{"tonga"}, gen.langs)
}

func TestRespond_WeatherPlainWhenGenerationFails(t *testing.T) {
	for _, gen := range []llm.Generator{failing, llm.Unavailable{}} {
		a := newAssistant(gen, &fakeWeather{snapshot: lusaka})

		reply := a.Respond(context.Background(), "weather Lusaka", models.English)

		assert.Equal(t, "Weather for Lusaka: 24.0°C, Sunny, Humidity: 40%. Forecast: Sunny", reply.Text)
		assert.Equal(t, PathWeatherPlain, reply.Path)
	}
}

func TestRespond_Generated(t *testing.T) {
	gen := &fakeGenerator{reply: "Plant maize after the first good rains."}
	a := newAssistant(gen, &fakeWeather{})

	reply := a.Respond(context.Background(), "  When do I plant Maize?  ", models.Bemba)

	assert.Equal(t, "Plant maize after the first good rains.", reply.Text)
	assert.Equal(t, PathGenerated, reply.Path)
	assert.Equal(t, models.IntentCrop, reply.Intent)
	assert.Equal(t, []string{"When do I plant Maize?"}, gen.prompts, "original casing goes to the model")
	assert.Equal(t, []string{"bemba"}, gen.langs)
}

func TestRespond_RuleBasedFallback(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		lang     models.Language
		intent   models.Intent
		contains string
	}{
		{name: "crop sheet", text: "Tell me about maize", lang: models.English, intent: models.IntentCrop, contains: "🌱 Planting Season: November to December"},
		{name: "crop sheet capitalized", text: "Tell me about MAIZE", lang: models.English, intent: models.IntentCrop, contains: "🐛 Common Pests: Fall armyworm, Stem borers, Aphids"},
		{name: "crop without entry", text: "how do I grow sorghum", lang: models.English, intent: models.IntentCrop, contains: "What specific crop would you like to know about?"},
		{name: "crop other language", text: "cassava", lang: models.Lozi, intent: models.IntentCrop, contains: "Lozi: Information about cassava"},
		{name: "pest", text: "insects everywhere", lang: models.English, intent: models.IntentPestDisease, contains: "Fall Armyworm"},
		{name: "pest nyanja", text: "fungus on leaves", lang: models.Nyanja, intent: models.IntentPestDisease, contains: "Nyanja: Pest and disease information"},
		{name: "market", text: "Where can I sell?", lang: models.English, intent: models.IntentMarket, contains: "K150-200 per 50kg bag"},
		{name: "general", text: "Tell me a story", lang: models.English, intent: models.IntentGeneral, contains: "• Market prices\n"},
		{name: "general bemba", text: "Tell me a story", lang: models.Bemba, intent: models.IntentGeneral, contains: "Bemba: General farming advice"},
		{name: "unknown language uses english", text: "Tell me a story", lang: "french", intent: models.IntentGeneral, contains: "I'm here to help with farming advice for Zambia."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, gen := range []llm.Generator{failing, llm.Unavailable{}, &fakeGenerator{reply: "  "}} {
				a := newAssistant(gen, &fakeWeather{})

				reply := a.Respond(context.Background(), tt.text, tt.lang)

				assert.Equal(t, PathRuleBased, reply.Path)
				assert.Equal(t, tt.intent, reply.Intent)
				assert.Contains(t, reply.Text, tt.contains)
			}
		})
	}
}

func TestRespond_MaizeSheet(t *testing.T) {
	a := newAssistant(llm.Unavailable{}, &fakeWeather{})

	reply := a.Respond(context.Background(), "Tell me about maize", models.English)

	want := "Here's information about maize:\n\n" +
		"🌱 Planting Season: November to December\n" +
		"🌾 Harvest Time: April to June\n" +
		"💧 Water Needs: Moderate to high\n" +
		"🌍 Soil Type: Well-drained loamy soil\n" +
		"📏 Spacing: 75cm x 25cm\n" +
		"🌿 Fertilizer: NPK 10-20-10 or 12-24-12\n\n" +
		"🐛 Common Pests: Fall armyworm, Stem borers, Aphids\n" +
		"🦠 Common Diseases: Maize streak virus, Grey leaf spot, Rust"
	assert.Equal(t, want, reply.Text)
}

var banda = models.FarmerProfile{
	FullName: "Mary Banda",
	Location: "Chongwe",
	Farms: []models.Farm{
		{Name: "Banda Farm", Size: "3", Location: "Chongwe"},
		{Name: "River Plot", Size: "1"},
	},
}

func TestRespondToFarmer_Generated(t *testing.T) {
	gen := &fakeGenerator{reply: "Mary, your Banda Farm maize looks on track."}
	a := newAssistant(gen, &fakeWeather{})

	reply := a.RespondToFarmer(context.Background(), "How is my maize doing?", models.English, banda)

	assert.Equal(t, "Mary, your Banda Farm maize looks on track.", reply.Text)
	assert.Equal(t, PathFarmGenerated, reply.Path)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "Farmer: Mary Banda\nLocation: Chongwe\nTotal Farms: 2\n")
	assert.Contains(t, gen.prompts[0], "Farmer's Question: How is my maize doing?")
	assert.Contains(t, gen.prompts[0], "Please provide a friendly, helpful response in english that:")
}

func TestRespondToFarmer_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		profile models.FarmerProfile
		want    string
	}{
		{name: "two farms", profile: banda, want: "Hello Mary Banda! I can see you have 2 farm(s). How can I help you with your farming today?"},
		{name: "no farms no name", profile: models.FarmerProfile{}, want: "Hello farmer! I can see you have 0 farm(s). How can I help you with your farming today?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, gen := range []llm.Generator{failing, llm.Unavailable{}} {
				a := newAssistant(gen, &fakeWeather{})

				reply := a.RespondToFarmer(context.Background(), "Tell me about maize", models.English, tt.profile)

				assert.Equal(t, tt.want, reply.Text)
				assert.Equal(t, PathFarmFallback, reply.Path)
				assert.NotContains(t, reply.Text, "Planting Season", "farm-aware path never uses the generic rule-based text")
			}
		})
	}
}

func TestRespondToFarmer_PreRoutes(t *testing.T) {
	gen := &fakeGenerator{reply: "generated"}
	a := newAssistant(gen, &fakeWeather{snapshot: lusaka})

	greeting := a.RespondToFarmer(context.Background(), "good morning", models.Lozi, banda)
	assert.Equal(t, PathGreeting, greeting.Path)
	assert.Equal(t, "Lumela! Ndi mufyashi wenu wa Zambia. Nga ndesha ukusunga?", greeting.Text)

	noLocation := a.RespondToFarmer(context.Background(), "forecast", models.English, banda)
	assert.Equal(t, PathLocationPrompt, noLocation.Path)

	assert.Zero(t, gen.calls())
}

func TestRespond_Concurrent(t *testing.T) {
	a := newAssistant(llm.Unavailable{}, &fakeWeather{})

	var wg sync.WaitGroup
	results := make([]Reply, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = a.Respond(context.Background(), "Tell me about cassava", models.English)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
		assert.NotEmpty(t, r.Text)
	}
}

func TestSystemInstruction(t *testing.T) {
	instr := SystemInstruction(knowledge.Default())("nyanja")

	assert.Contains(t, instr, "Key Zambian crops: maize, cassava, sweet potato")
	assert.Contains(t, instr, "Zambian regions: Lusaka, Copperbelt")
	assert.Contains(t, instr, "- Rainy season: November to April")
	assert.Contains(t, instr, "Soil types:\n- clay soil: Good for rice and vegetables\n- loamy soil: Best for most crops including maize\n- sandy soil: Good for root crops like cassava")
	assert.Contains(t, instr, "Respond in nyanja if requested, otherwise use English.")
}
