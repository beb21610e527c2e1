package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/salescast/internal/cache"
	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/forecast"
	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/rs/zerolog/log"
)

// InventoryService keeps one stock record per product, matched case-insensitively.
type InventoryService struct {
	products *storage.Collection[[]domain.ProductRecord]
	locker   cache.Locker
}

func NewInventoryService(products *storage.Collection[[]domain.ProductRecord], locker cache.Locker) *InventoryService {
	return &InventoryService{products: products, locker: locker}
}

func (s *InventoryService) List(ctx context.Context) ([]domain.ProductRecord, error) {
	return s.products.Load(ctx, []domain.ProductRecord{})
}

// UpsertProductSales sets lastSales and stock on the matching product, or
// appends a new product. created reports which happened.
func (s *InventoryService) UpsertProductSales(ctx context.Context, product string, lastSales, stock int) (domain.ProductRecord, bool, error) {
	product = strings.TrimSpace(product)
	if err := validateProduct(product); err != nil {
		return domain.ProductRecord{}, false, err
	}
	if lastSales < 0 {
		return domain.ProductRecord{}, false, domain.NewValidationError("last_sales", "must not be negative")
	}
	if stock < 0 {
		return domain.ProductRecord{}, false, domain.NewValidationError("stock", "must not be negative")
	}

	var (
		result  domain.ProductRecord
		created bool
	)
	err := s.mutate(ctx, func(records []domain.ProductRecord) ([]domain.ProductRecord, error) {
		if i := indexOf(records, product); i >= 0 {
			records[i].LastSales = lastSales
			records[i].Stock = stock
			result = records[i]
			return records, nil
		}
		result = domain.ProductRecord{Product: product, LastSales: lastSales, Stock: stock}
		created = true
		return append(records, result), nil
	})
	if err != nil {
		return domain.ProductRecord{}, false, fmt.Errorf("failed to upsert product %s: %w", product, err)
	}

	log.Info().Str("product", result.Product).Bool("created", created).Msg("Product sales recorded")
	return result, created, nil
}

// AddStock increases stock by delta, creating the product with zero last sales
// when it is unknown. It returns the full collection.
func (s *InventoryService) AddStock(ctx context.Context, product string, delta int) ([]domain.ProductRecord, error) {
	product = strings.TrimSpace(product)
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if delta < 0 {
		return nil, domain.NewValidationError("quantity", "must not be negative")
	}

	var out []domain.ProductRecord
	err := s.mutate(ctx, func(records []domain.ProductRecord) ([]domain.ProductRecord, error) {
		if i := indexOf(records, product); i >= 0 {
			records[i].Stock += delta
		} else {
			records = append(records, domain.ProductRecord{Product: product, LastSales: 0, Stock: delta})
		}
		out = records
		return records, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add stock for %s: %w", product, err)
	}

	log.Info().Str("product", product).Int("added", delta).Msg("Stock updated")
	return out, nil
}

// Sell removes qty units from stock. The collection is left untouched when the
// product is unknown or has fewer than qty units.
func (s *InventoryService) Sell(ctx context.Context, product string, qty int) (domain.ProductRecord, error) {
	product = strings.TrimSpace(product)
	if err := validateProduct(product); err != nil {
		return domain.ProductRecord{}, err
	}
	if qty <= 0 {
		return domain.ProductRecord{}, domain.NewValidationError("sold_quantity", "must be positive")
	}

	var result domain.ProductRecord
	err := s.mutate(ctx, func(records []domain.ProductRecord) ([]domain.ProductRecord, error) {
		i := indexOf(records, product)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		if records[i].Stock < qty {
			return nil, &domain.InsufficientStockError{
				Product:   records[i].Product,
				Stock:     records[i].Stock,
				Requested: qty,
			}
		}
		records[i].Stock -= qty
		result = records[i]
		return records, nil
	})
	if err != nil {
		return domain.ProductRecord{}, fmt.Errorf("failed to sell %s: %w", product, err)
	}

	log.Info().Str("product", result.Product).Int("sold", qty).Int("stock", result.Stock).Msg("Product sold")
	return result, nil
}

// Delete removes the product and returns the remaining collection.
func (s *InventoryService) Delete(ctx context.Context, product string) ([]domain.ProductRecord, error) {
	product = strings.TrimSpace(product)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	var out []domain.ProductRecord
	err := s.mutate(ctx, func(records []domain.ProductRecord) ([]domain.ProductRecord, error) {
		i := indexOf(records, product)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		out = append(records[:i:i], records[i+1:]...)
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete product %s: %w", product, err)
	}

	log.Info().Str("product", product).Msg("Product deleted")
	return out, nil
}

// ProjectedDemand projects next-period demand for every product.
func (s *InventoryService) ProjectedDemand(ctx context.Context) ([]domain.ProductProjection, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	projections := make([]domain.ProductProjection, 0, len(records))
	for _, rec := range records {
		projections = append(projections, forecast.ProjectDemand(rec))
	}
	return projections, nil
}

// mutate runs fn over the loaded collection under the collection lock and
// saves its result. Nothing is written when fn fails.
func (s *InventoryService) mutate(ctx context.Context, fn func([]domain.ProductRecord) ([]domain.ProductRecord, error)) error {
	return s.locker.WithLock(ctx, s.products.Name(), func(ctx context.Context) error {
		records, err := s.products.Load(ctx, []domain.ProductRecord{})
		if err != nil {
			return err
		}
		updated, err := fn(records)
		if err != nil {
			return err
		}
		return s.products.Save(ctx, updated)
	})
}

func indexOf(records []domain.ProductRecord, product string) int {
	key := domain.ProductKey(product)
	for i, rec := range records {
		if rec.Key() == key {
			return i
		}
	}
	return -1
}

func validateProduct(product string) error {
	if product == "" {
		return domain.NewValidationError("product", "is required")
	}
	return nil
}
