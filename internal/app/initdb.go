package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/tradecatalog/config"
	"github.com/talkincode/tradecatalog/internal/domain"
	"github.com/talkincode/tradecatalog/internal/repository"
	"go.uber.org/zap"
)

type demoProduct struct {
	Name        string
	Symbol      string
	Category    string
	Price       string
	Quantity    int
	Description string
	Status      string
}

var demoProducts = []demoProduct{
	{"Apple Stock", "AAPL", "STOCKS", "150.25", 100, "Apple Inc. Common Stock - Leading technology company", domain.StatusActive},
	{"Microsoft Stock", "MSFT", "STOCKS", "378.85", 75, "Microsoft Corporation Common Stock", domain.StatusActive},
	{"Bitcoin", "BTC", "CRYPTO", "43250.00", 5, "Bitcoin cryptocurrency", domain.StatusActive},
	{"Ethereum", "ETH", "CRYPTO", "2280.50", 20, "Ethereum cryptocurrency", domain.StatusInactive},
	{"Gold Futures", "GC", "FUTURES", "2034.10", 10, "COMEX gold futures contract", domain.StatusActive},
	{"US Treasury Bond", "UST10Y", "BONDS", "98.75", 500, "10 year US treasury note", domain.StatusDiscontinued},
}

// seedDemoProducts inserts the demo catalog and returns the number of new rows.
// Rows already present by symbol or name are left untouched.
func seedDemoProducts(ctx context.Context, p CatalogProvider) int {
	repo := repository.NewGormProductRepository(p.DB())
	withStatus := p.Config().Catalog.Profile == config.ProfileStatus
	inserted := 0
	for _, d := range demoProducts {
		existing, err := repo.FindBySymbol(ctx, d.Symbol)
		if err == nil && existing == nil {
			existing, err = repo.FindByName(ctx, d.Name)
		}
		if err != nil {
			zap.L().Error("failed to query demo product", zap.String("symbol", d.Symbol), zap.Error(err))
			return inserted
		}
		if existing != nil {
			continue
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		row := &domain.Product{
			Name:        d.Name,
			Description: d.Description,
			Price:       decimal.RequireFromString(d.Price),
			Quantity:    d.Quantity,
			Category:    d.Category,
			Symbol:      domain.NormalizeSymbol(d.Symbol),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if withStatus {
			row.Status = d.Status
		}
		if err := repo.Save(ctx, row); err != nil {
			zap.L().Error("failed to create demo product", zap.String("symbol", d.Symbol), zap.Error(err))
			continue
		}
		inserted++
	}
	if inserted > 0 {
		zap.L().Info("initialized demo products", zap.Int("count", inserted))
	}
	return inserted
}
