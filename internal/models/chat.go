package models

import "strings"

// Language is the advisory language hint sent along with a message
type Language string

const (
	English Language = "english"
	Bemba   Language = "bemba"
	Nyanja  Language = "nyanja"
	Tonga   Language = "tonga"
	Lozi    Language = "lozi"
)

// ParseLanguage normalizes a language code from a request.
// Empty input means English; "njanja" is the legacy spelling of Nyanja.
func ParseLanguage(code string) Language {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case "":
		return English
	case "njanja":
		return Nyanja
	}
	return Language(code)
}

// Intent is the coarse category a message is routed to
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentWeather     Intent = "weather"
	IntentCrop        Intent = "crop"
	IntentPestDisease Intent = "pest_disease"
	IntentMarket      Intent = "market"
	IntentGeneral     Intent = "general"
)

// ChatRequest for POST /api/chat
type ChatRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

// ChatResponse for POST /api/chat
type ChatResponse struct {
	Response string   `json:"response"`
	Language Language `json:"language"`
}

// AskRequest for POST /api/ask. Email or phone identifies the farmer.
type AskRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// AskResponse for POST /api/ask
type AskResponse struct {
	Response string `json:"response"`
}

// FarmSummaryRequest for POST /api/farm-summary
type FarmSummaryRequest struct {
	Email string `json:"email" binding:"required"`
}
