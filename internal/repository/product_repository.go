package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/tradecatalog/internal/domain"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

const nameUniqueIndex = "idx_trading_products_name_unique"

// ProductRepository handles persistence of trading products.
// Single-record lookups return (nil, nil) when nothing matches.
type ProductRepository interface {
	// FindByID retrieves a product by primary key
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// FindBySymbol retrieves a product by its exact trading symbol
	FindBySymbol(ctx context.Context, symbol string) (*domain.Product, error)

	// FindByName retrieves a product by its exact name
	FindByName(ctx context.Context, name string) (*domain.Product, error)

	// FindByCategory retrieves all products of one category, ordered by id
	FindByCategory(ctx context.Context, category string) ([]*domain.Product, error)

	// FindByStatus retrieves all products with the given status, ordered by id
	FindByStatus(ctx context.Context, status string) ([]*domain.Product, error)

	// SearchByNameContaining matches names case-insensitively, ordered by id
	SearchByNameContaining(ctx context.Context, fragment string) ([]*domain.Product, error)

	// FindAll retrieves every product, ordered by id
	FindAll(ctx context.Context) ([]*domain.Product, error)

	// Save inserts the product when ID is zero (assigning ID) and updates it otherwise.
	// A unique constraint violation yields domain.ErrProductConflict.
	Save(ctx context.Context, p *domain.Product) error

	// ExistsByID reports whether a product with the id exists
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// DeleteByID removes a product; callers check existence first
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the number of stored products
	Count(ctx context.Context) (int64, error)
}

// Migrate creates the product table and the profile dependent name index
func Migrate(db *gorm.DB, uniqueName bool) error {
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	stmt := "DROP INDEX IF EXISTS " + nameUniqueIndex
	if uniqueName {
		stmt = "CREATE UNIQUE INDEX IF NOT EXISTS " + nameUniqueIndex + " ON trading_products (name)"
	}
	if err := db.Exec(stmt).Error; err != nil {
		return errors.Wrap(err, "sync name index")
	}
	return nil
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository.
// The db should be opened with gorm.Config{TranslateError: true}.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ ProductRepository = (*GormProductRepository)(nil)

func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormProductRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.Product, error) {
	return r.first(ctx, "symbol = ?", symbol)
}

func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *GormProductRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("category = ?", category))
}

func (r *GormProductRepository) FindByStatus(ctx context.Context, status string) ([]*domain.Product, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("status = ?", status))
}

func (r *GormProductRepository) SearchByNameContaining(ctx context.Context, fragment string) ([]*domain.Product, error) {
	db := r.db.WithContext(ctx)
	if strings.EqualFold(db.Name(), "postgres") {
		return r.find(ctx, db.Where(`name ILIKE ? ESCAPE '\'`, "%"+escapeLike(fragment)+"%"))
	}
	// sqlite LOWER only folds ASCII, so match in Go
	rows, err := r.find(ctx, db)
	if err != nil {
		return nil, err
	}
	match := nameMatcher(fragment)
	res := rows[:0]
	for _, p := range rows {
		if match(p.Name) {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *GormProductRepository) Save(ctx context.Context, p *domain.Product) error {
	db := r.db.WithContext(ctx)
	var err error
	if p.ID == 0 {
		err = db.Create(p).Error
	} else {
		err = db.Save(p).Error
	}
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return errors.Wrap(domain.ErrProductConflict, err.Error())
	}
	return errors.Wrap(err, "save product")
}

func (r *GormProductRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check product existence")
	}
	return count > 0, nil
}

func (r *GormProductRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error; err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count products")
	}
	return count, nil
}

func (r *GormProductRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where(query, args...).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "query product")
	}
	return &p, nil
}

func (r *GormProductRepository) find(_ context.Context, db *gorm.DB) ([]*domain.Product, error) {
	rows := make([]*domain.Product, 0)
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return rows, nil
}

// nameMatcher reports whether a name contains fragment under Unicode case folding
func nameMatcher(fragment string) func(name string) bool {
	fold := cases.Fold()
	needle := fold.String(fragment)
	return func(name string) bool {
		return strings.Contains(fold.String(name), needle)
	}
}

// escapeLike escapes LIKE wildcards so the fragment matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers without error translation
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
