// Package service holds the response orchestrator.
//
// Every message goes through the same pre-route: greetings are answered from
// a fixed table and weather questions take the hybrid live-weather path.
// Everything else is answered by the language model, and when that is not
// possible, from canned rule-based texts (generic entry point) or from a
// farmer-specific fallback (farm-aware entry point). Collaborator failures
// never escape: every request ends in non-empty text.
package service

import (
	"context"
	"strings"

	"farmer-chatbot/internal/farmctx"
	"farmer-chatbot/internal/knowledge"
	"farmer-chatbot/internal/llm"
	"farmer-chatbot/internal/location"
	"farmer-chatbot/internal/models"
	"farmer-chatbot/internal/weather"

	"go.uber.org/zap"
)

// Path names the branch that produced a reply
type Path string

const (
	PathGreeting       Path = "greeting"
	PathLocationPrompt Path = "location_prompt"
	PathWeatherError   Path = "weather_error"
	PathWeatherSummary Path = "weather_summary"
	PathWeatherPlain   Path = "weather_plain"
	PathGenerated      Path = "generated"
	PathRuleBased      Path = "rule_based"
	PathFarmGenerated  Path = "farm_generated"
	PathFarmFallback   Path = "farm_fallback"
)

// Reply is the composed answer to one message
type Reply struct {
	Text   string
	Intent models.Intent
	Path   Path
}

// Classifier maps a message to an intent
type Classifier interface {
	Classify(text string) models.Intent
}

// WeatherFetcher returns live weather for a location
type WeatherFetcher interface {
	Fetch(ctx context.Context, location string) (*models.WeatherSnapshot, error)
}

// Assistant is the response orchestrator. It holds no per-request state and
// is safe for concurrent use.
type Assistant struct {
	kb         *knowledge.Base
	classifier Classifier
	weather    WeatherFetcher
	generator  llm.Generator
	logger     *zap.Logger
}

// NewAssistant creates the orchestrator
func NewAssistant(
	kb *knowledge.Base,
	classifier Classifier,
	weather WeatherFetcher,
	generator llm.Generator,
	logger *zap.Logger,
) *Assistant {
	return &Assistant{
		kb:         kb,
		classifier: classifier,
		weather:    weather,
		generator:  generator,
		logger:     logger,
	}
}

// Respond answers a message without farmer context
func (a *Assistant) Respond(ctx context.Context, text string, lang models.Language) Reply {
	intent, lowered := a.classify(text)
	if reply, done := a.preRoute(ctx, text, intent, lang); done {
		return reply
	}

	answer, err := a.generator.Generate(ctx, strings.TrimSpace(text), string(lang))
	if usable(answer, err) {
		return Reply{Text: answer, Intent: intent, Path: PathGenerated}
	}
	a.logger.Info("Falling back to rule-based response",
		zap.String("intent", string(intent)),
		zap.Error(err))

	return Reply{Text: a.ruleBased(intent, lowered, lang), Intent: intent, Path: PathRuleBased}
}

// RespondToFarmer answers a message grounded in the farmer's own records
func (a *Assistant) RespondToFarmer(ctx context.Context, text string, lang models.Language, profile models.FarmerProfile) Reply {
	intent, _ := a.classify(text)
	if reply, done := a.preRoute(ctx, text, intent, lang); done {
		return reply
	}

	prompt := farmPrompt(farmctx.Build(profile), strings.TrimSpace(text), lang)
	answer, err := a.generator.Generate(ctx, prompt, string(lang))
	if usable(answer, err) {
		return Reply{Text: answer, Intent: intent, Path: PathFarmGenerated}
	}
	a.logger.Info("Falling back to farmer greeting",
		zap.Int("farms", len(profile.Farms)),
		zap.Error(err))

	return Reply{Text: farmFallback(profile), Intent: intent, Path: PathFarmFallback}
}

func (a *Assistant) classify(text string) (models.Intent, string) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	return a.classifier.Classify(lowered), lowered
}

// preRoute handles greetings and weather. done is false for every other intent.
func (a *Assistant) preRoute(ctx context.Context, text string, intent models.Intent, lang models.Language) (Reply, bool) {
	switch intent {
	case models.IntentGreeting:
		return Reply{Text: Greeting(lang), Intent: intent, Path: PathGreeting}, true
	case models.IntentWeather:
		return a.weatherReply(ctx, text, lang), true
	}
	return Reply{}, false
}

func (a *Assistant) weatherReply(ctx context.Context, text string, lang models.Language) Reply {
	reply := Reply{Intent: models.IntentWeather}

	loc := location.Extract(strings.TrimSpace(text))
	if loc == "" {
		reply.Text, reply.Path = locationPrompt, PathLocationPrompt
		return reply
	}

	snapshot, err := a.weather.Fetch(ctx, loc)
	if err != nil {
		a.logger.Warn("Weather lookup failed", zap.String("location", loc), zap.Error(err))
		reply.Text, reply.Path = weather.UserMessage(err), PathWeatherError
		return reply
	}

	summary, err := a.generator.Generate(ctx, weatherPrompt(snapshot, lang), string(lang))
	if usable(summary, err) {
		reply.Text, reply.Path = summary, PathWeatherSummary
		return reply
	}
	a.logger.Debug("Weather summary unavailable, using plain rendering", zap.Error(err))

	reply.Text, reply.Path = plainWeather(snapshot), PathWeatherPlain
	return reply
}

func usable(answer string, err error) bool {
	return err == nil && strings.TrimSpace(answer) != ""
}

// ModelInfo describes the generator in use
func (a *Assistant) ModelInfo() map[string]interface{} {
	return a.generator.GetModelInfo()
}
