// Package parser turns the raw HTML of one product listing page into an
// immutable snapshot. Per-field problems degrade to absent values; only a
// page whose listing container is missing entirely fails to parse.
package parser

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/marvko/vendtrack/internal/models"
	"github.com/marvko/vendtrack/internal/normalize"
)

// StructuralParseError means the product listing container itself could not
// be located in the page. No partial snapshot is produced in that case.
type StructuralParseError struct {
	Reason string
}

func (e *StructuralParseError) Error() string {
	return "structural parse failure: " + e.Reason
}

// Quantity and price live in undistinguished <span> elements on the source
// pages, so they are recognized by the shape of their (normalized) text.
// "posledni kus" is the page's spelling for a single remaining item.
var (
	quantityTextRe = regexp.MustCompile(`^(posledni|\d+)\s(kus|kusy|kusu)!?$`)
	priceTextRe    = regexp.MustCompile(`^\d+[.,]\d+$`)
)

// Parser maps page markup to snapshots. It holds no per-page state, so one
// instance is safe for concurrent use.
type Parser struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Parser {
	return &Parser{log: log}
}

// ParseSnapshot reads the markup of one page and builds a snapshot for the
// given location. The location metadata is supplied by the caller, it is not
// extracted from the page. Products are walked in document order; the order
// index is the identity fallback for items without a source identifier.
func (p *Parser) ParseSnapshot(
	ctx context.Context,
	page io.Reader,
	locationID, locationName string,
	fetchedAt time.Time,
) (*models.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	listing := doc.Find("div.product-list, div.products").First()
	if listing.Length() == 0 {
		return nil, &StructuralParseError{Reason: "product listing container not found"}
	}

	var products []models.Product
	listing.Find("div.product").Each(func(idx int, sel *goquery.Selection) {
		product := p.buildProduct(ctx, sel, idx)
		p.log.DebugContext(
			ctx,
			"Parsed product",
			"id", product.ID,
			"name", product.Name,
			"price", product.Price,
			"quantity", product.Quantity,
		)
		products = append(products, product)
	})

	snapshot, err := models.NewSnapshot(locationID, locationName, fetchedAt, products)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot for location %s: %w", locationID, err)
	}
	return snapshot, nil
}

// buildProduct assembles one product from its field-group. Every accessor is
// total: a missing or malformed field becomes its absent value and never
// fails the record.
func (p *Parser) buildProduct(ctx context.Context, sel *goquery.Selection, position int) models.Product {
	name := strings.TrimSpace(sel.AttrOr("data-name", ""))
	nameNormalized := normalize.Name(name)

	id := strings.TrimSpace(sel.AttrOr("data-id", ""))
	if id == "" {
		id = fallbackID(nameNormalized, position)
		p.log.DebugContext(ctx, "product has no source identifier, using positional fallback",
			"name", name, "position", position, "id", id)
	}

	return models.Product{
		ID:             id,
		Name:           name,
		NameNormalized: nameNormalized,
		Category:       p.findCategory(sel),
		Price:          p.findPrice(ctx, sel, id),
		Quantity:       p.findQuantity(sel),
		Info:           cleanInfo(sel.AttrOr("data-info", "")),
		PicURL:         strings.TrimSpace(sel.AttrOr("data-photourl", "")),
		IsVegetarian:   sel.AttrOr("data-veggie", "") == "1",
		IsGlutenFree:   sel.AttrOr("data-glutenfree", "") == "1",
		IsPromo:        sel.AttrOr("data-ispromo", "") == "1",
	}
}

// fallbackID derives a deterministic identity for items the page lists
// without an identifier. The position suffix keeps repeated names unique
// within one snapshot.
func fallbackID(nameNormalized string, position int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s#%d", nameNormalized, position)))
	return hex.EncodeToString(sum[:])
}

// findQuantity reads the stock count. A "sold-out" class means a known count
// of zero even when the quantity text is gone; otherwise a missing or
// unparsable quantity span leaves the count unknown.
func (p *Parser) findQuantity(sel *goquery.Selection) models.NullInt {
	if sel.HasClass("sold-out") {
		return models.SomeInt(0)
	}

	var quantity models.NullInt
	sel.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		text := span.Text()
		if !quantityTextRe.MatchString(normalize.Name(text)) {
			return true
		}
		if count, ok := normalize.Quantity(text); ok {
			quantity = models.SomeInt(count)
		}
		return false
	})
	return quantity
}

// findPrice reads the selling price. Discounted items carry two price spans,
// full price first and current price second; the current one wins.
func (p *Parser) findPrice(ctx context.Context, sel *goquery.Selection, id string) decimal.NullDecimal {
	var texts []string
	sel.Find("span").Each(func(_ int, span *goquery.Selection) {
		text := span.Text()
		if priceTextRe.MatchString(normalize.Name(text)) {
			texts = append(texts, text)
		}
	})

	switch len(texts) {
	case 0:
		return decimal.NullDecimal{}
	case 1, 2:
		return normalize.Price(texts[len(texts)-1])
	default:
		p.log.WarnContext(ctx, "unexpected number of price elements", "id", id, "count", len(texts))
		return decimal.NullDecimal{}
	}
}

// findCategory returns the text of the nearest preceding heading, or an
// empty string when the item is not listed under one.
func (p *Parser) findCategory(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.PrevAllFiltered("h2").First().Text())
}

// cleanInfo strips the leftover "<br />" markers and blank lines the pages
// embed in the info attribute.
func cleanInfo(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		line = strings.TrimSuffix(line, "<br />")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
