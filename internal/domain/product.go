package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product lifecycle states, used by the status profile
const (
	StatusActive       = "ACTIVE"
	StatusInactive     = "INACTIVE"
	StatusDiscontinued = "DISCONTINUED"
)

// Statuses lists every accepted product status
var Statuses = []string{StatusActive, StatusInactive, StatusDiscontinued}

// IsValidStatus reports whether s is one of Statuses
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Product is a trading product catalog record.
// Symbol is nullable so the unique index tolerates rows created under the status profile.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"size:100;not null;index"`
	Description string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	Category    string          `gorm:"size:50;not null;index"`
	Symbol      *string         `gorm:"size:32;uniqueIndex"`
	Status      string          `gorm:"size:50;index"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime:false"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "trading_products"
}

// SymbolValue returns the symbol or "" when unset
func (p *Product) SymbolValue() string {
	if p.Symbol == nil {
		return ""
	}
	return *p.Symbol
}

// Clone returns a deep copy so stored records never alias caller memory
func (p *Product) Clone() *Product {
	c := *p
	if p.Symbol != nil {
		s := *p.Symbol
		c.Symbol = &s
	}
	return &c
}

// NormalizeSymbol trims a ticker, returning nil for blank input
func NormalizeSymbol(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
