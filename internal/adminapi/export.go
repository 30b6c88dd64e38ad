package adminapi

import (
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/tradecatalog/internal/service"
)

type productCSVRow struct {
	ID          int64  `csv:"id"`
	Name        string `csv:"name"`
	Symbol      string `csv:"symbol"`
	Category    string `csv:"category"`
	Status      string `csv:"status"`
	Price       string `csv:"price"`
	Quantity    int    `csv:"quantity"`
	Description string `csv:"description"`
	CreatedAt   string `csv:"created_at"`
	UpdatedAt   string `csv:"updated_at"`
}

func toCSVRows(rows []*service.ProductDTO) []*productCSVRow {
	res := make([]*productCSVRow, 0, len(rows))
	for _, p := range rows {
		res = append(res, &productCSVRow{
			ID:          p.ID,
			Name:        p.Name,
			Symbol:      p.Symbol,
			Category:    p.Category,
			Status:      p.Status,
			Price:       p.Price.StringFixed(2),
			Quantity:    p.Quantity,
			Description: p.Description,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
		})
	}
	return res
}

// exportProducts streams the whole catalog as CSV
func (h *ProductHandler) exportProducts(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context())
	if err != nil {
		return failFromError(c, err, "export products")
	}
	data, err := gocsv.MarshalBytes(toCSVRows(rows))
	if err != nil {
		return failFromError(c, err, "export products")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
