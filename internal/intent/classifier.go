// Package intent classifies farmer messages into coarse routing categories.
//
// Classification is rule based: an ordered list of (intent, predicate) rules
// is evaluated and the first match wins, so greetings pre-empt everything
// else. Anything that can Classify a string can stand in for this type.
package intent

import (
	"strings"

	"farmer-chatbot/internal/models"
)

var (
	greetingKeywords = []string{"hello", "hi", "good morning", "good afternoon", "good evening"}
	weatherKeywords  = []string{"weather", "rain", "temperature", "climate", "forecast"}
	cropKeywords     = []string{"plant", "grow", "harvest", "fertilizer", "soil"}
	pestKeywords     = []string{"pest", "disease", "sick", "damage", "insect", "fungus"}
	marketKeywords   = []string{"price", "market", "sell", "buy", "cost", "kwacha"}
)

// Rule maps a predicate over the lowercased message to an intent
type Rule struct {
	Intent  models.Intent
	Matches func(msg string) bool
}

// Classifier is a keyword-based intent classifier
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the default rule set. cropNames are matched as
// substrings for the crop intent in addition to the farming verbs.
func NewClassifier(cropNames []string) *Classifier {
	crops := make([]string, len(cropNames))
	for i, name := range cropNames {
		crops[i] = strings.ToLower(name)
	}

	return &Classifier{
		rules: []Rule{
			{Intent: models.IntentGreeting, Matches: containsAny(greetingKeywords)},
			{Intent: models.IntentWeather, Matches: containsAny(weatherKeywords)},
			{Intent: models.IntentCrop, Matches: func(msg string) bool {
				return containsAny(cropKeywords)(msg) || containsAny(crops)(msg)
			}},
			{Intent: models.IntentPestDisease, Matches: containsAny(pestKeywords)},
			{Intent: models.IntentMarket, Matches: containsAny(marketKeywords)},
		},
	}
}

// NewClassifierWithRules creates a classifier over a custom rule list
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the intent of the first matching rule, or general
func (c *Classifier) Classify(text string) models.Intent {
	msg := normalize(text)
	for _, rule := range c.rules {
		if rule.Matches(msg) {
			return rule.Intent
		}
	}
	return models.IntentGeneral
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsAny(keywords []string) func(string) bool {
	return func(msg string) bool {
		for _, kw := range keywords {
			if strings.Contains(msg, kw) {
				return true
			}
		}
		return false
	}
}
