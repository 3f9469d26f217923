package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

// BudgetStatus pairs a budget target with the month's actual spend.
type BudgetStatus struct {
	Category      string  `json:"category"`
	MonthlyTarget float64 `json:"monthlyTarget"`
	Spent         float64 `json:"spent"`
}

// MonthOverview is the read model backing the budget and report screens.
type MonthOverview struct {
	MonthKey   string               `json:"monthKey"`
	TotalSpent float64              `json:"totalSpent"`
	ByCategory []core.CategorySpend `json:"byCategory"`
	Budgets    []BudgetStatus       `json:"budgets"`
	Categories []string             `json:"categories"`
}

// ReportService computes the monthly read-side aggregates.
type ReportService struct {
	spend   SpendReader
	budgets BudgetStore
}

func NewReportService(spend SpendReader, budgets BudgetStore) *ReportService {
	return &ReportService{spend: spend, budgets: budgets}
}

// MonthOverview gathers total spend, per-category spend, budgets and the
// month's category list. The reads are independent so they are issued
// concurrently and awaited jointly.
func (s *ReportService) MonthOverview(ctx context.Context, monthKey string) (MonthOverview, error) {
	overview := MonthOverview{MonthKey: monthKey}

	var budgets []core.Budget
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.spend.SumSpentForMonth(gctx, monthKey)
		if err != nil {
			return fmt.Errorf("total spend: %w", err)
		}
		overview.TotalSpent = total
		return nil
	})
	g.Go(func() error {
		byCat, err := s.spend.SpendByCategoryForMonth(gctx, monthKey)
		if err != nil {
			return fmt.Errorf("spend by category: %w", err)
		}
		overview.ByCategory = byCat
		return nil
	})
	g.Go(func() error {
		cats, err := s.spend.DistinctCategories(gctx, monthKey)
		if err != nil {
			return fmt.Errorf("distinct categories: %w", err)
		}
		overview.Categories = cats
		return nil
	})
	g.Go(func() error {
		b, err := s.budgets.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("budgets: %w", err)
		}
		budgets = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return MonthOverview{}, err
	}

	spentByCategory := make(map[string]float64, len(overview.ByCategory))
	for _, cs := range overview.ByCategory {
		spentByCategory[cs.Category] = cs.Spend
	}
	for _, b := range budgets {
		overview.Budgets = append(overview.Budgets, BudgetStatus{
			Category:      b.Category,
			MonthlyTarget: b.MonthlyTarget,
			Spent:         spentByCategory[b.Category],
		})
	}
	return overview, nil
}
