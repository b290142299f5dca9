package vikor

import "github.com/panbanda/qosrank/pkg/models"

// DefaultV weighs group utility and individual regret equally.
const DefaultV = 0.5

// Alternative holds the per-alternative VIKOR measures.
type Alternative struct {
	ID   string  `json:"id" toon:"id"`
	S    float64 `json:"s" toon:"s"` // group utility
	R    float64 `json:"r" toon:"r"` // individual regret
	Q    float64 `json:"q" toon:"q"` // compromise measure, lower is better
	Rank int     `json:"rank" toon:"rank"`
}

// Analysis is the full VIKOR outcome.
type Analysis struct {
	V            float64          `json:"v" toon:"v"`
	Ideal        []float64        `json:"ideal" toon:"ideal"`
	AntiIdeal    []float64        `json:"anti_ideal" toon:"anti_ideal"`
	Alternatives []Alternative    `json:"alternatives" toon:"alternatives"`
	Warnings     []models.Warning `json:"warnings,omitempty" toon:"warnings"`
	Ranking      models.Ranking   `json:"-" toon:"-"`
}
