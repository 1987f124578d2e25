package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"windstruck-api/internal/domain"
)

// ProductWriter is the part of the product repository the importer needs.
type ProductWriter interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and creates the products they list.
//
// Expected header: name,slug,price,description,images,sizes,colors,featured,tags.
// List columns are separated by ';'. A row with an empty slug and only an
// image URL adds that image to the previous product. Blank rows are ignored.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
	logger   logrus.FieldLogger
}

func NewCSVImporter(r io.Reader, products ProductWriter, logger logrus.FieldLogger) *CSVImporter {
	if logger == nil {
		logger = logrus.New()
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		products: products,
		logger:   logger.WithField("component", "importer"),
	}
}

// Summary counts what a run did.
type Summary struct {
	Imported int
	Skipped  int
}

type csvRow struct {
	line     int
	name     string
	slug     string
	rawPrice string
	desc     string
	images   []string
	sizes    []string
	colors   []string
	featured string
	tags     []string
}

// Run parses every row and creates products whose slug is not in the
// catalog yet. Existing slugs are skipped, so re-running a file is harmless.
func (i *CSVImporter) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	headers, err := i.reader.Read()
	if err != nil {
		return sum, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "slug", "price"} {
		if _, ok := index[required]; !ok {
			return sum, fmt.Errorf("missing column %q", required)
		}
	}

	var current *csvRow
	flush := func() error {
		if current == nil {
			return nil
		}
		created, err := i.save(ctx, current)
		if err != nil {
			return err
		}
		if created {
			sum.Imported++
		} else {
			sum.Skipped++
		}
		return nil
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		row := parseRow(record, index, line)
		if row == nil {
			continue
		}

		if row.slug != "" {
			if err := flush(); err != nil {
				return sum, err
			}
			current = row
			continue
		}

		// Continuation rows carry extra images for the current product.
		if row.name != "" || row.rawPrice != "" {
			return sum, fmt.Errorf("line %d: product row without slug", line)
		}
		if current == nil {
			return sum, fmt.Errorf("line %d: image row before any product", line)
		}
		current.images = append(current.images, row.images...)
	}

	if err := flush(); err != nil {
		return sum, err
	}
	return sum, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) (bool, error) {
	p, err := row.product()
	if err != nil {
		return false, fmt.Errorf("line %d: %w", row.line, err)
	}

	_, err = i.products.GetBySlug(ctx, p.Slug)
	switch {
	case err == nil:
		i.logger.WithField("slug", p.Slug).Info("slug exists, skipping")
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, fmt.Errorf("lookup product %q: %w", p.Slug, err)
	}

	if _, err := i.products.Create(ctx, p); err != nil {
		return false, fmt.Errorf("create product %q: %w", p.Slug, err)
	}
	return true, nil
}

func (r *csvRow) product() (domain.Product, error) {
	if r.name == "" || r.slug == "" || r.rawPrice == "" {
		return domain.Product{}, fmt.Errorf("invalid product row (missing required fields) for slug %q", r.slug)
	}
	price, err := decimal.NewFromString(r.rawPrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid price %q for slug %q", r.rawPrice, r.slug)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("negative price %q for slug %q", r.rawPrice, r.slug)
	}

	featured := false
	if r.featured != "" {
		featured, err = strconv.ParseBool(r.featured)
		if err != nil {
			return domain.Product{}, fmt.Errorf("invalid featured flag %q for slug %q", r.featured, r.slug)
		}
	}

	p := domain.Product{
		Name:     r.name,
		Slug:     r.slug,
		Price:    price.InexactFloat64(),
		Images:   r.images,
		Sizes:    r.sizes,
		Colors:   r.colors,
		Featured: featured,
		Tags:     r.tags,
	}
	if r.desc != "" {
		desc := r.desc
		p.Description = &desc
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) *csvRow {
	row := &csvRow{
		line:     line,
		name:     pick(record, index, "name"),
		slug:     pick(record, index, "slug"),
		rawPrice: pick(record, index, "price"),
		desc:     pick(record, index, "description"),
		images:   images,
		sizes:    splitList(pick(record, index, "sizes")),
		colors:   splitList(pick(record, index, "colors")),
		featured: pick(record, index, "featured"),
		tags:     splitList(pick(record, index, "tags")),
	}
	if row.slug == "" && row.name == "" && row.rawPrice == "" && len(row.images) == 0 {
		return nil
	}
	return row
}

// splitList returns nil for an empty cell so catalog defaults apply.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
