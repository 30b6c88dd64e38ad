package service

import (
	"context"

	"github.com/montanaflynn/stats"
)

// CatalogSummary aggregates the whole catalog
type CatalogSummary struct {
	Count         int            `json:"count"`
	TotalQuantity int64          `json:"totalQuantity"`
	MinPrice      float64        `json:"minPrice"`
	MaxPrice      float64        `json:"maxPrice"`
	MeanPrice     float64        `json:"meanPrice"`
	MedianPrice   float64        `json:"medianPrice"`
	ByCategory    map[string]int `json:"byCategory"`
	ByStatus      map[string]int `json:"byStatus,omitempty"`
}

// Summary computes price statistics and per category/status counts
func (s *ProductService) Summary(ctx context.Context) (*CatalogSummary, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sum := &CatalogSummary{
		Count:      len(rows),
		ByCategory: make(map[string]int),
	}
	if len(rows) == 0 {
		return sum, nil
	}

	prices := make(stats.Float64Data, 0, len(rows))
	for _, p := range rows {
		f, _ := p.Price.Float64()
		prices = append(prices, f)
		sum.TotalQuantity += int64(p.Quantity)
		sum.ByCategory[p.Category]++
		if p.Status != "" {
			if sum.ByStatus == nil {
				sum.ByStatus = make(map[string]int)
			}
			sum.ByStatus[p.Status]++
		}
	}

	// errors only occur on empty input
	sum.MinPrice, _ = prices.Min()
	sum.MaxPrice, _ = prices.Max()
	mean, _ := prices.Mean()
	sum.MeanPrice, _ = stats.Round(mean, 2)
	median, _ := prices.Median()
	sum.MedianPrice, _ = stats.Round(median, 2)
	return sum, nil
}
