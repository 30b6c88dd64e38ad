package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/tradecatalog/config"
	"github.com/talkincode/tradecatalog/internal/domain"
	"github.com/talkincode/tradecatalog/internal/pkg/clock"
	"github.com/talkincode/tradecatalog/internal/repository"
)

var testStart = time.Date(2026, 1, 20, 17, 0, 0, 0, time.UTC)

func newTestService(profile string) (*ProductService, *repository.MemoryProductRepository, *clock.MockClock) {
	repo := repository.NewMemoryProductRepository(profile == config.ProfileSymbol)
	clk := clock.NewMockClock(testStart)
	return NewProductService(repo, clk, profile), repo, clk
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func qty(n int) *int {
	return &n
}

func str(s string) *string {
	return &s
}

func appleInput() ProductInput {
	return ProductInput{
		Name:        "Apple Stock",
		Description: "Apple Inc. Common Stock",
		Price:       price("150.25"),
		Quantity:    qty(100),
		Category:    "STOCKS",
		Symbol:      "AAPL",
	}
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestCreateThenGet(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	ctx := context.Background()

	created, err := svc.Create(ctx, appleInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, testStart, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Empty(t, created.Status)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	bySymbol, err := svc.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, created, bySymbol)
}

func TestCreateTrimsInput(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	in := appleInput()
	in.Name = "  Apple Stock "
	in.Symbol = " AAPL "

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Apple Stock", created.Name)
	assert.Equal(t, "AAPL", created.Symbol)
}

func TestCreateAcceptsProductNameAlias(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileStatus)
	in := appleInput()
	in.Name = ""
	in.ProductName = "Apple Stock"

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Apple Stock", created.Name)
}

func TestCreateValidationSymbolProfile(t *testing.T) {
	svc, repo, _ := newTestService(config.ProfileSymbol)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		fields []string
	}{
		{"negative price", func(in *ProductInput) { in.Price = price("-5") }, []string{"price"}},
		{"price below minimum", func(in *ProductInput) { in.Price = price("0.001") }, []string{"price"}},
		{"too many decimals", func(in *ProductInput) { in.Price = price("1.005") }, []string{"price"}},
		{"missing price", func(in *ProductInput) { in.Price = nil }, []string{"price"}},
		{"price too large", func(in *ProductInput) { in.Price = price("10000000000000") }, []string{"price"}},
		{"negative quantity", func(in *ProductInput) { in.Quantity = qty(-1) }, []string{"quantity"}},
		{"missing quantity", func(in *ProductInput) { in.Quantity = nil }, []string{"quantity"}},
		{"blank name", func(in *ProductInput) { in.Name = "   " }, []string{"name"}},
		{"blank description", func(in *ProductInput) { in.Description = "" }, []string{"description"}},
		{"blank category", func(in *ProductInput) { in.Category = "\t" }, []string{"category"}},
		{"missing symbol", func(in *ProductInput) { in.Symbol = "" }, []string{"symbol"}},
		{"everything missing", func(in *ProductInput) { *in = ProductInput{} },
			[]string{"name", "description", "category", "symbol", "price", "quantity"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := appleInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ElementsMatch(t, tt.fields, validationFields(t, err))
		})
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "rejected input must not be persisted")
}

func TestCreateAllowsZeroQuantityUnderSymbolProfile(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	in := appleInput()
	in.Quantity = qty(0)
	in.Price = price("0.01")
	_, err := svc.Create(context.Background(), in)
	assert.NoError(t, err)
}

func TestCreateAcceptsLargestPrice(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	in := appleInput()
	in.Price = price("9999999999999.99")
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "9999999999999.99", created.Price.StringFixed(2))
}

func TestCreateValidationStatusProfile(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileStatus)
	ctx := context.Background()

	in := appleInput()
	in.Price = price("0")
	in.Quantity = qty(0)
	_, err := svc.Create(ctx, in)
	assert.ElementsMatch(t, []string{"price", "quantity"}, validationFields(t, err))

	in = appleInput()
	in.Symbol = ""
	_, err = svc.Create(ctx, in)
	assert.NoError(t, err, "symbol is optional under the status profile")
}

func TestCreateDefaultsStatusToActive(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileStatus)
	in := appleInput()
	in.Status = str(domain.StatusDiscontinued)

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, created.Status)
}

func TestCreateDuplicateConflicts(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	ctx := context.Background()
	_, err := svc.Create(ctx, appleInput())
	require.NoError(t, err)

	sameSymbol := appleInput()
	sameSymbol.Name = "Apple Again"
	_, err = svc.Create(ctx, sameSymbol)
	assert.ErrorIs(t, err, domain.ErrProductConflict)

	sameName := appleInput()
	sameName.Symbol = "APL2"
	_, err = svc.Create(ctx, sameName)
	assert.ErrorIs(t, err, domain.ErrProductConflict)
}

func TestMissingIDsAreNotFound(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = svc.Update(ctx, 99, appleInput())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 99), domain.ErrProductNotFound)
	_, err = svc.GetBySymbol(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	created, err := svc.Create(ctx, appleInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = svc.Update(ctx, created.ID, appleInput())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrProductNotFound)
}

func TestUpdateOverwritesAndRefreshesTimestamp(t *testing.T) {
	svc, _, clk := newTestService(config.ProfileSymbol)
	ctx := context.Background()
	created, err := svc.Create(ctx, appleInput())
	require.NoError(t, err)

	clk.Advance(time.Minute)
	in := ProductInput{
		Name:        "Apple Inc.",
		Description: "updated",
		Price:       price("151.00"),
		Quantity:    qty(5),
		Category:    "EQUITIES",
		Symbol:      "AAPL",
	}
	first, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, created.CreatedAt, first.CreatedAt)
	assert.Equal(t, testStart.Add(time.Minute), first.UpdatedAt)
	assert.Equal(t, "Apple Inc.", first.Name)
	assert.Equal(t, "EQUITIES", first.Category)
	assert.Equal(t, 5, first.Quantity)

	clk.Advance(time.Minute)
	second, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	// identical apart from updatedAt
	second.UpdatedAt = first.UpdatedAt
	assert.Equal(t, first, second)
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	in := appleInput()
	in.Price = price("-5")
	_, err := svc.Update(context.Background(), 99, in)
	assert.Equal(t, []string{"price"}, validationFields(t, err))
}

func TestUpdateConflict(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	ctx := context.Background()
	_, err := svc.Create(ctx, appleInput())
	require.NoError(t, err)

	msft := appleInput()
	msft.Name = "Microsoft"
	msft.Symbol = "MSFT"
	created, err := svc.Create(ctx, msft)
	require.NoError(t, err)

	msft.Symbol = "AAPL"
	_, err = svc.Update(ctx, created.ID, msft)
	assert.ErrorIs(t, err, domain.ErrProductConflict)
}

func TestUpdateStatusOnlyWhenSupplied(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileStatus)
	ctx := context.Background()
	created, err := svc.Create(ctx, appleInput())
	require.NoError(t, err)

	in := appleInput()
	in.Status = str(domain.StatusInactive)
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, updated.Status)

	in.Status = nil
	updated, err = svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, updated.Status)

	in.Status = str("  ")
	updated, err = svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, updated.Status)

	in.Status = str("ARCHIVED")
	_, err = svc.Update(ctx, created.ID, in)
	assert.Equal(t, []string{"status"}, validationFields(t, err))
}

func TestUpdateIgnoresStatusUnderSymbolProfile(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileSymbol)
	ctx := context.Background()
	created, err := svc.Create(ctx, appleInput())
	require.NoError(t, err)

	in := appleInput()
	in.Status = str("ANYTHING")
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Empty(t, updated.Status)
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileStatus)
	ctx := context.Background()

	inputs := []ProductInput{
		{Name: "Apple Stock", Description: "d", Price: price("150.25"), Quantity: qty(100), Category: "STOCKS", Symbol: "AAPL"},
		{Name: "Bitcoin", Description: "d", Price: price("43000"), Quantity: qty(3), Category: "CRYPTO", Symbol: "BTC"},
		{Name: "Pineapple Corp", Description: "d", Price: price("12.5"), Quantity: qty(40), Category: "STOCKS", Symbol: "PNPL"},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}
	_, err := svc.Update(ctx, 2, ProductInput{
		Name: "Bitcoin", Description: "d", Price: price("43000"), Quantity: qty(3),
		Category: "CRYPTO", Symbol: "BTC", Status: str(domain.StatusInactive),
	})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	stocks, err := svc.ListByCategory(ctx, "STOCKS")
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.Equal(t, []int64{1, 3}, []int64{stocks[0].ID, stocks[1].ID})

	empty, err := svc.ListByCategory(ctx, "BONDS")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	inactive, err := svc.ListByStatus(ctx, domain.StatusInactive)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "BTC", inactive[0].Symbol)

	found, err := svc.Search(ctx, "apple")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestSummary(t *testing.T) {
	svc, _, _ := newTestService(config.ProfileStatus)
	ctx := context.Background()

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
	assert.Empty(t, sum.ByCategory)

	for _, in := range []ProductInput{
		{Name: "A", Description: "d", Price: price("10"), Quantity: qty(1), Category: "STOCKS"},
		{Name: "B", Description: "d", Price: price("20"), Quantity: qty(2), Category: "STOCKS"},
		{Name: "C", Description: "d", Price: price("40"), Quantity: qty(3), Category: "CRYPTO"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	sum, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, int64(6), sum.TotalQuantity)
	assert.Equal(t, 10.0, sum.MinPrice)
	assert.Equal(t, 40.0, sum.MaxPrice)
	assert.Equal(t, 23.33, sum.MeanPrice)
	assert.Equal(t, 20.0, sum.MedianPrice)
	assert.Equal(t, map[string]int{"STOCKS": 2, "CRYPTO": 1}, sum.ByCategory)
	assert.Equal(t, map[string]int{domain.StatusActive: 3}, sum.ByStatus)
}
