package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/talkincode/tradecatalog/config"
	"github.com/talkincode/tradecatalog/internal/domain"
	"github.com/talkincode/tradecatalog/internal/pkg/clock"
	"github.com/talkincode/tradecatalog/internal/repository"
	"go.uber.org/zap"
)

// ProductService maps DTOs to records and delegates storage to the repository.
// It holds no state between calls.
type ProductService struct {
	repo     repository.ProductRepository
	clock    clock.Clock
	profile  string
	validate *validator.Validate
}

// NewProductService creates a service for the given catalog profile
// (config.ProfileSymbol or config.ProfileStatus).
func NewProductService(repo repository.ProductRepository, clk clock.Clock, profile string) *ProductService {
	if profile != config.ProfileStatus {
		profile = config.ProfileSymbol
	}
	return &ProductService{
		repo:     repo,
		clock:    clk,
		profile:  profile,
		validate: newValidator(),
	}
}

// Profile returns the active catalog profile
func (s *ProductService) Profile() string {
	return s.profile
}

// Create persists a new product. Client ids, timestamps and status are ignored;
// the status profile starts every product as ACTIVE.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*ProductDTO, error) {
	clean, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	p := &domain.Product{
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.apply(p, clean)
	if s.profile == config.ProfileStatus {
		p.Status = domain.StatusActive
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	zap.L().Info("product created",
		zap.Int64("id", p.ID),
		zap.String("name", p.Name),
		zap.String("symbol", p.SymbolValue()))
	return toDTO(p), nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(domain.ErrProductNotFound, "id %d", id)
	}
	return toDTO(p), nil
}

func (s *ProductService) GetBySymbol(ctx context.Context, symbol string) (*ProductDTO, error) {
	p, err := s.repo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(domain.ErrProductNotFound, "symbol %s", symbol)
	}
	return toDTO(p), nil
}

func (s *ProductService) List(ctx context.Context) ([]*ProductDTO, error) {
	return s.list(s.repo.FindAll(ctx))
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]*ProductDTO, error) {
	return s.list(s.repo.FindByCategory(ctx, category))
}

func (s *ProductService) ListByStatus(ctx context.Context, status string) ([]*ProductDTO, error) {
	return s.list(s.repo.FindByStatus(ctx, status))
}

// Search matches the fragment against product names, ignoring case
func (s *ProductService) Search(ctx context.Context, fragment string) ([]*ProductDTO, error) {
	return s.list(s.repo.SearchByNameContaining(ctx, fragment))
}

// Update overwrites every mutable field of an existing product. Status changes
// only when the input carries one (status profile). Validation runs before the load.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) (*ProductDTO, error) {
	clean, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(domain.ErrProductNotFound, "id %d", id)
	}

	s.apply(p, clean)
	if clean.status != nil {
		p.Status = *clean.status
	}
	now := s.clock.Now()
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.UpdatedAt = now

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	zap.L().Info("product updated", zap.Int64("id", p.ID))
	return toDTO(p), nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(domain.ErrProductNotFound, "id %d", id)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	zap.L().Info("product deleted", zap.Int64("id", id))
	return nil
}

func (s *ProductService) apply(p *domain.Product, clean *cleanInput) {
	p.Name = clean.name
	p.Description = clean.description
	p.Price = clean.price
	p.Quantity = clean.quantity
	p.Category = clean.category
	if s.profile == config.ProfileSymbol {
		p.Symbol = clean.symbol
	} else if clean.symbol != nil {
		// symbol is optional here; an omitted symbol keeps the stored one
		p.Symbol = clean.symbol
	}
}

func (s *ProductService) list(rows []*domain.Product, err error) ([]*ProductDTO, error) {
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}
