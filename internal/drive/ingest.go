package drive

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Downloader is the part of Service the importer needs.
type Downloader interface {
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// IngestService pulls sales CSV files from Drive.
type IngestService struct {
	driveService Downloader
}

func NewIngestService(driveService Downloader) *IngestService {
	return &IngestService{driveService: driveService}
}

// FetchSales downloads fileID and parses it as a month,sales CSV.
func (s *IngestService) FetchSales(ctx context.Context, fileID string) ([]domain.SalesRecord, error) {
	var buf bytes.Buffer
	if err := s.driveService.DownloadFile(ctx, fileID, &buf); err != nil {
		return nil, err
	}

	records, err := ParseSalesCSV(&buf)
	if err != nil {
		return nil, fmt.Errorf("drive file %s: %w", fileID, err)
	}

	log.Info().Str("file_id", fileID).Int("records", len(records)).Msg("Fetched sales from Drive")
	return records, nil
}

// ParseSalesCSV reads rows with "month" and "sales" columns, in file order.
func ParseSalesCSV(r io.Reader) ([]domain.SalesRecord, error) {
	var out []domain.SalesRecord
	err := readCSV(r, []string{"month", "sales"}, func(line int, get func(string) string) error {
		month := get("month")
		if month == "" {
			return fmt.Errorf("line %d: month is empty", line)
		}
		sales, err := parseCount(get("sales"))
		if err != nil {
			return fmt.Errorf("line %d: sales: %w", line, err)
		}
		out = append(out, domain.SalesRecord{Period: month, Amount: sales})
		return nil
	})
	return out, err
}

// ParseProductsCSV reads rows with "product", "last_sales" and "stock" columns.
func ParseProductsCSV(r io.Reader) ([]domain.ProductRecord, error) {
	var out []domain.ProductRecord
	err := readCSV(r, []string{"product", "last_sales", "stock"}, func(line int, get func(string) string) error {
		product := get("product")
		if product == "" {
			return fmt.Errorf("line %d: product is empty", line)
		}
		lastSales, err := parseCount(get("last_sales"))
		if err != nil {
			return fmt.Errorf("line %d: last_sales: %w", line, err)
		}
		stock, err := parseCount(get("stock"))
		if err != nil {
			return fmt.Errorf("line %d: stock: %w", line, err)
		}
		out = append(out, domain.ProductRecord{Product: product, LastSales: lastSales, Stock: stock})
		return nil
	})
	return out, err
}

// WriteSalesCSV writes records with a month,sales header.
func WriteSalesCSV(w io.Writer, records []domain.SalesRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "sales"}); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.Period, strconv.Itoa(rec.Amount)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(r io.Reader, required []string, row func(line int, get func(string) string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := colMap[col]; !ok {
			return fmt.Errorf("missing required column: %s", col)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		get := func(col string) string {
			if idx, ok := colMap[col]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		if err := row(line, get); err != nil {
			return err
		}
	}
}

// parseCount accepts integers and integral floats such as "12.0".
func parseCount(val string) (int, error) {
	if val == "" {
		return 0, fmt.Errorf("value is empty")
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", val)
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a non-negative whole number", val)
	}
	return int(f), nil
}
