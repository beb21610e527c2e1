package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/salescast/internal/cache"
	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/rs/zerolog/log"
)

// SalesService maintains the ordered list of monthly sales records.
type SalesService struct {
	sales  *storage.Collection[[]domain.SalesRecord]
	locker cache.Locker
}

func NewSalesService(sales *storage.Collection[[]domain.SalesRecord], locker cache.Locker) *SalesService {
	return &SalesService{sales: sales, locker: locker}
}

// List returns every record in insertion order.
func (s *SalesService) List(ctx context.Context) ([]domain.SalesRecord, error) {
	return s.sales.Load(ctx, []domain.SalesRecord{})
}

// Add appends one record and returns the full list. Repeated periods are kept
// as separate records.
func (s *SalesService) Add(ctx context.Context, period string, amount int) ([]domain.SalesRecord, error) {
	rec := domain.SalesRecord{Period: strings.TrimSpace(period), Amount: amount}
	if err := validateSalesRecord(rec, "month", "sales"); err != nil {
		return nil, err
	}

	var out []domain.SalesRecord
	err := s.locker.WithLock(ctx, s.sales.Name(), func(ctx context.Context) error {
		records, err := s.sales.Load(ctx, []domain.SalesRecord{})
		if err != nil {
			return err
		}
		records = append(records, rec)
		if err := s.sales.Save(ctx, records); err != nil {
			return err
		}
		out = records
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add sales record: %w", err)
	}

	log.Info().Str("month", rec.Period).Int("sales", rec.Amount).Msg("Sales record added")
	return out, nil
}

// AddMany appends records in order under a single lock.
func (s *SalesService) AddMany(ctx context.Context, records []domain.SalesRecord) ([]domain.SalesRecord, error) {
	cleaned, err := cleanSalesRecords(records)
	if err != nil {
		return nil, err
	}

	var out []domain.SalesRecord
	err = s.locker.WithLock(ctx, s.sales.Name(), func(ctx context.Context) error {
		existing, err := s.sales.Load(ctx, []domain.SalesRecord{})
		if err != nil {
			return err
		}
		out = append(existing, cleaned...)
		return s.sales.Save(ctx, out)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append sales records: %w", err)
	}

	log.Info().Int("added", len(cleaned)).Int("total", len(out)).Msg("Sales records appended")
	return out, nil
}

// ReplaceAll overwrites the whole collection with records.
func (s *SalesService) ReplaceAll(ctx context.Context, records []domain.SalesRecord) ([]domain.SalesRecord, error) {
	cleaned, err := cleanSalesRecords(records)
	if err != nil {
		return nil, err
	}

	err = s.locker.WithLock(ctx, s.sales.Name(), func(ctx context.Context) error {
		return s.sales.Save(ctx, cleaned)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace sales records: %w", err)
	}

	log.Info().Int("records", len(cleaned)).Msg("Sales records replaced")
	return cleaned, nil
}

// DeletePeriod removes every record labelled period and returns what remains.
func (s *SalesService) DeletePeriod(ctx context.Context, period string) ([]domain.SalesRecord, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return nil, domain.NewValidationError("month", "is required")
	}

	var remaining []domain.SalesRecord
	var removed int
	err := s.locker.WithLock(ctx, s.sales.Name(), func(ctx context.Context) error {
		records, err := s.sales.Load(ctx, []domain.SalesRecord{})
		if err != nil {
			return err
		}

		remaining = make([]domain.SalesRecord, 0, len(records))
		for _, rec := range records {
			if rec.Period == period {
				removed++
				continue
			}
			remaining = append(remaining, rec)
		}
		return s.sales.Save(ctx, remaining)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete sales for %s: %w", period, err)
	}

	log.Info().Str("month", period).Int("removed", removed).Msg("Sales records deleted")
	return remaining, nil
}

func cleanSalesRecords(records []domain.SalesRecord) ([]domain.SalesRecord, error) {
	cleaned := make([]domain.SalesRecord, 0, len(records))
	for i, rec := range records {
		rec.Period = strings.TrimSpace(rec.Period)
		if err := validateSalesRecord(rec, fmt.Sprintf("data[%d].month", i), fmt.Sprintf("data[%d].sales", i)); err != nil {
			return nil, err
		}
		cleaned = append(cleaned, rec)
	}
	return cleaned, nil
}

func validateSalesRecord(rec domain.SalesRecord, periodField, amountField string) error {
	if rec.Period == "" {
		return domain.NewValidationError(periodField, "is required")
	}
	if rec.Amount < 0 {
		return domain.NewValidationError(amountField, "must not be negative")
	}
	return nil
}
