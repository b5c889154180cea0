package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fuel-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products.
//
// Recognised columns: id, name, category, unit, description, price, stock,
// active, image_url. Only name and price are required.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row. It stops at the first
// invalid row; rows before it stay imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}
	if _, ok := index["price"]; !ok {
		return 0, errors.New("missing price column")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		if blank(record) {
			continue
		}
		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Category:    domain.ParseCategory(pick(record, index, "category")),
		Unit:        pick(record, index, "unit"),
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image_url"),
		IsActive:    true,
	}
	if p.Name == "" {
		return p, errors.New("name is required")
	}
	if p.Unit == "" {
		p.Unit = defaultUnit(p.Category)
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || !price.IsPositive() {
		return p, fmt.Errorf("invalid price for %q", p.Name)
	}
	p.CurrentPrice = price.Round(2)

	if raw := pick(record, index, "stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return p, fmt.Errorf("invalid stock for %q: %s", p.Name, raw)
		}
		p.StockQuantity = &stock
	}

	if raw := pick(record, index, "active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return p, fmt.Errorf("invalid active flag for %q: %s", p.Name, raw)
		}
		p.IsActive = active
	}
	return p, nil
}

func defaultUnit(c domain.Category) string {
	if c.Measure() == domain.MeasureVolume {
		return "Liter"
	}
	return "Unit"
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
