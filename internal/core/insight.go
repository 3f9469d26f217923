package core

const (
	InsightIncrease InsightType = "increase"
	InsightDecrease InsightType = "decrease"
)

type InsightType string

// Insight is a plain-English month-over-month spending change for one
// category. Delta is this month minus last month; Pct is the absolute
// percent change, 100 when last month had no spend.
type Insight struct {
	Type     InsightType `json:"type"`
	Category string      `json:"category"`
	Delta    float64     `json:"delta"`
	Pct      int         `json:"pct"`
	Message  string      `json:"message"`
}
