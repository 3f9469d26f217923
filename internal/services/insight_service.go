package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

// Noise gate: a change has to be worth mentioning both in dollars and in
// percent before it surfaces, and only the few largest moves are kept.
const (
	minInsightDelta = 25.0
	minInsightPct   = 25
	maxInsights     = 3
)

// InsightService compares a month's per-category spend to the prior month's.
type InsightService struct {
	spend SpendReader
}

func NewInsightService(spend SpendReader) *InsightService {
	return &InsightService{spend: spend}
}

// MonthInsights returns the notable month-over-month category changes for
// the given month. The two month reads are independent and run concurrently.
func (s *InsightService) MonthInsights(ctx context.Context, monthKey string) ([]core.Insight, error) {
	prevKey := core.PrevMonthKey(monthKey)

	var current, previous []core.CategorySpend
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.spend.SpendByCategoryForMonth(gctx, monthKey)
		if err != nil {
			return fmt.Errorf("current month spend: %w", err)
		}
		current = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.spend.SpendByCategoryForMonth(gctx, prevKey)
		if err != nil {
			return fmt.Errorf("previous month spend: %w", err)
		}
		previous = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ComputeInsights(current, previous), nil
}

// ComputeInsights derives insights from two per-category spend sets.
// Percent change is 100 when the prior month had no spend in the category.
func ComputeInsights(current, previous []core.CategorySpend) []core.Insight {
	prevByCategory := make(map[string]float64, len(previous))
	for _, cs := range previous {
		prevByCategory[cs.Category] = cs.Spend
	}

	var out []core.Insight
	for _, cur := range current {
		prev := prevByCategory[cur.Category]
		delta := cur.Spend - prev
		if prev == 0 && cur.Spend == 0 {
			continue
		}

		pct := 100
		if prev > 0 {
			pct = int(math.Round(delta / prev * 100))
		}
		if math.Abs(delta) < minInsightDelta || abs(pct) < minInsightPct {
			continue
		}

		insight := core.Insight{
			Category: cur.Category,
			Delta:    delta,
			Pct:      abs(pct),
		}
		if delta >= 0 {
			insight.Type = core.InsightIncrease
			insight.Message = fmt.Sprintf("Spending in %s is up %d%% ($%.0f) vs last month.",
				cur.Category, insight.Pct, math.Abs(delta))
		} else {
			insight.Type = core.InsightDecrease
			insight.Message = fmt.Sprintf("Spending in %s is down %d%% ($%.0f) vs last month.",
				cur.Category, insight.Pct, math.Abs(delta))
		}
		out = append(out, insight)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Delta) > math.Abs(out[j].Delta)
	})
	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
