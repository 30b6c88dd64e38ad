package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/tradecatalog/internal/domain"
)

// ProductInput is the client supplied body of create and update.
// Server generated fields have no place here and are dropped on decode.
type ProductInput struct {
	Name        string           `json:"name"`
	ProductName string           `json:"productName,omitempty"` // alias for name
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	Category    string           `json:"category"`
	Symbol      string           `json:"symbol,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

// ProductDTO is the outward representation of a product
type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	Symbol      string          `json:"symbol,omitempty"`
	Status      string          `json:"status,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toDTO(p *domain.Product) *ProductDTO {
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
		Symbol:      p.SymbolValue(),
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toDTOs(rows []*domain.Product) []*ProductDTO {
	res := make([]*ProductDTO, 0, len(rows))
	for _, p := range rows {
		res = append(res, toDTO(p))
	}
	return res
}
