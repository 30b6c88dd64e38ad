package repository

import (
	"context"
	"sync"

	"github.com/google/btree"
	"github.com/pkg/errors"
	"github.com/talkincode/tradecatalog/internal/domain"
)

// MemoryProductRepository keeps products in an id ordered btree.
// It enforces the same unique constraints as the SQL schema.
type MemoryProductRepository struct {
	mu         sync.RWMutex
	tree       *btree.BTreeG[*domain.Product]
	nextID     int64
	uniqueName bool
}

// NewMemoryProductRepository creates an empty repository.
// uniqueName mirrors the unique name index of the symbol profile.
func NewMemoryProductRepository(uniqueName bool) *MemoryProductRepository {
	return &MemoryProductRepository{
		tree: btree.NewG(16, func(a, b *domain.Product) bool {
			return a.ID < b.ID
		}),
		uniqueName: uniqueName,
	}
}

var _ ProductRepository = (*MemoryProductRepository)(nil)

func (r *MemoryProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.tree.Get(&domain.Product{ID: id})
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *MemoryProductRepository) FindBySymbol(_ context.Context, symbol string) (*domain.Product, error) {
	return r.firstWhere(func(p *domain.Product) bool {
		return p.Symbol != nil && *p.Symbol == symbol
	}), nil
}

func (r *MemoryProductRepository) FindByName(_ context.Context, name string) (*domain.Product, error) {
	return r.firstWhere(func(p *domain.Product) bool { return p.Name == name }), nil
}

func (r *MemoryProductRepository) FindByCategory(_ context.Context, category string) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.Category == category }), nil
}

func (r *MemoryProductRepository) FindByStatus(_ context.Context, status string) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.Status == status }), nil
}

func (r *MemoryProductRepository) SearchByNameContaining(_ context.Context, fragment string) ([]*domain.Product, error) {
	match := nameMatcher(fragment)
	return r.filter(func(p *domain.Product) bool {
		return match(p.Name)
	}), nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]*domain.Product, error) {
	return r.filter(func(*domain.Product) bool { return true }), nil
}

func (r *MemoryProductRepository) Save(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var conflict string
	r.tree.Ascend(func(other *domain.Product) bool {
		if other.ID == p.ID {
			return true
		}
		if p.Symbol != nil && other.Symbol != nil && *p.Symbol == *other.Symbol {
			conflict = "symbol " + *p.Symbol
			return false
		}
		if r.uniqueName && other.Name == p.Name {
			conflict = "name " + p.Name
			return false
		}
		return true
	})
	if conflict != "" {
		return errors.Wrap(domain.ErrProductConflict, conflict)
	}

	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	} else if p.ID > r.nextID {
		r.nextID = p.ID
	}
	r.tree.ReplaceOrInsert(p.Clone())
	return nil
}

func (r *MemoryProductRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Has(&domain.Product{ID: id}), nil
}

func (r *MemoryProductRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree.Delete(&domain.Product{ID: id})
	return nil
}

func (r *MemoryProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(r.tree.Len()), nil
}

func (r *MemoryProductRepository) firstWhere(match func(*domain.Product) bool) *domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *domain.Product
	r.tree.Ascend(func(p *domain.Product) bool {
		if match(p) {
			found = p.Clone()
			return false
		}
		return true
	})
	return found
}

func (r *MemoryProductRepository) filter(match func(*domain.Product) bool) []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := make([]*domain.Product, 0)
	r.tree.Ascend(func(p *domain.Product) bool {
		if match(p) {
			rows = append(rows, p.Clone())
		}
		return true
	})
	return rows
}
