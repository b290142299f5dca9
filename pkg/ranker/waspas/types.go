package waspas

import "github.com/panbanda/qosrank/pkg/models"

// DefaultLambda weighs WSM and WPM equally.
const DefaultLambda = 0.5

// Alternative holds the per-alternative model values.
type Alternative struct {
	ID    string  `json:"id" toon:"id"`
	WSM   float64 `json:"wsm" toon:"wsm"`
	WPM   float64 `json:"wpm" toon:"wpm"`
	Score float64 `json:"score" toon:"score"`
	Rank  int     `json:"rank" toon:"rank"`
}

// Analysis is the full WASPAS outcome.
type Analysis struct {
	Lambda       float64        `json:"lambda" toon:"lambda"`
	Alternatives []Alternative  `json:"alternatives" toon:"alternatives"`
	Ranking      models.Ranking `json:"-" toon:"-"`
}
