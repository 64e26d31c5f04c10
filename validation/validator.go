// Package validation evaluates the product form's section rules. It is
// stateless: each call rebuilds the error map from scratch and the
// first failing rule per field wins.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/fieldpath"
)

// Step identifies a form section. Sections are ordinal, matching the
// editor's wizard order.
type Step int

const (
	StepBasic Step = iota + 1
	StepPricing
	StepDimensions
	StepMedia
	StepFeatures
)

// MaxAdditionalImages caps the additional-image list.
const MaxAdditionalImages = 10

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9\-_.]+$`)

// allowedCategories is the fixed category set, matched
// case-insensitively.
var allowedCategories = map[string]bool{
	"electronics": true,
	"clothing":    true,
	"footwear":    true,
	"home":        true,
	"beauty":      true,
	"sports":      true,
	"books":       true,
	"toys":        true,
	"grocery":     true,
	"accessories": true,
}

// Result carries blocking errors and non-blocking warnings, both keyed
// by field name with one message each.
type Result struct {
	Errors   map[string]string
	Warnings map[string]string
}

// Valid reports whether no blocking errors were recorded.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validate runs the rules for step, or for every step when allSteps is
// set, over the product document. Image counts are passed in because
// image slots live outside the document.
func Validate(doc map[string]any, mainImages, additionalImages int, step Step, allSteps bool) Result {
	res := Result{
		Errors:   make(map[string]string),
		Warnings: make(map[string]string),
	}

	if allSteps || step == StepBasic {
		validateBasic(doc, res)
	}
	if allSteps || step == StepPricing {
		validatePricing(doc, res)
	}
	if allSteps || step == StepDimensions {
		validateDimensions(doc, res)
	}
	if allSteps || step == StepMedia {
		validateMedia(mainImages, additionalImages, res)
	}
	if allSteps || step == StepFeatures {
		validateFeatures(doc, res)
	}

	return res
}

func validateBasic(doc map[string]any, res Result) {
	name := strField(doc, "name")
	if name == "" {
		setErr(res, "name", "Product name is required")
	} else if n := utf8.RuneCountInString(name); n < 3 || n > 100 {
		setErr(res, "name", "Product name must be between 3 and 100 characters")
	}

	brand := strField(doc, "brand")
	if brand == "" {
		setErr(res, "brand", "Brand is required")
	} else if n := utf8.RuneCountInString(brand); n < 2 || n > 50 {
		setErr(res, "brand", "Brand must be between 2 and 50 characters")
	}

	desc := strField(doc, "description")
	if desc == "" {
		setErr(res, "description", "Description is required")
	} else if n := utf8.RuneCountInString(desc); n < 10 || n > 5000 {
		setErr(res, "description", "Description must be between 10 and 5000 characters")
	}

	category := strField(doc, "category")
	if category == "" {
		setErr(res, "category", "Category is required")
	} else if !allowedCategories[strings.ToLower(category)] {
		setErr(res, "category", "Please select a valid category")
	}
}

func validatePricing(doc map[string]any, res Result) {
	price, priceOK := 0.0, false
	if isBlank(doc["price"]) {
		setErr(res, "price", "Price is required")
	} else if v, ok := parseAmount(doc["price"]); !ok {
		setErr(res, "price", "Price must be a number")
	} else if v <= 0 {
		setErr(res, "price", "Price must be greater than 0")
	} else if !atMostTwoDecimals(doc["price"], v) {
		setErr(res, "price", "Price can have at most 2 decimal places")
	} else {
		price, priceOK = v, true
	}

	if !isBlank(doc["originalPrice"]) {
		if v, ok := parseAmount(doc["originalPrice"]); !ok {
			setErr(res, "originalPrice", "Original price must be a number")
		} else if v <= 0 {
			setErr(res, "originalPrice", "Original price must be greater than 0")
		} else if priceOK && v < price {
			setErr(res, "originalPrice", "Original price cannot be less than the sale price")
		} else if priceOK && v > price*10 {
			// Soft warning only; a steep markdown is suspicious but
			// not forbidden.
			res.Warnings["originalPrice"] = "Original price is more than 10x the sale price"
		}
	}

	if !isBlank(doc["stockCount"]) {
		if v, ok := parseAmount(doc["stockCount"]); !ok || v < 0 || v != math.Trunc(v) {
			setErr(res, "stockCount", "Stock must be a non-negative whole number")
		}
	}

	if sku := strField(doc, "sku"); sku != "" {
		if n := len(sku); n < 3 || n > 50 || !skuPattern.MatchString(sku) {
			setErr(res, "sku", "SKU must be 3-50 characters using letters, numbers, '-', '_' or '.'")
		}
	}
}

// validateDimensions reports both the length and weight bounds under
// the combined "dimensions" key.
func validateDimensions(doc map[string]any, res Result) {
	if v, present, ok := optionalAmount(doc, "dimensions.length"); present {
		switch {
		case !ok:
			setErr(res, "dimensions", "Length must be a number")
		case v <= 0 || v > 500:
			setErr(res, "dimensions", "Length must be between 0 and 500 cm")
		}
	}
	if v, present, ok := optionalAmount(doc, "weight.value"); present {
		switch {
		case !ok:
			setErr(res, "dimensions", "Weight must be a number")
		case v <= 0 || v > 1000:
			setErr(res, "dimensions", "Weight must be between 0 and 1000 kg")
		}
	}
}

func validateMedia(mainImages, additionalImages int, res Result) {
	if mainImages == 0 {
		setErr(res, "mainImage", "Main product image is required")
	}
	if additionalImages == 0 {
		setErr(res, "additionalImages", "At least one additional image is required")
	} else if additionalImages > MaxAdditionalImages {
		setErr(res, "additionalImages", fmt.Sprintf("Maximum %d additional images allowed", MaxAdditionalImages))
	}
}

func validateFeatures(doc map[string]any, res Result) {
	features, _ := doc["features"].([]any)
	if len(features) == 0 {
		setErr(res, "features", "At least 1 feature is required")
	}
}

// setErr records a message only if the field has no error yet.
func setErr(res Result, field, msg string) {
	if _, exists := res.Errors[field]; !exists {
		res.Errors[field] = msg
	}
}

func strField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return strings.TrimSpace(s)
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// parseAmount accepts the numeric representations a form document can
// carry: Go numbers, JSON numbers and text-input strings.
func parseAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// atMostTwoDecimals checks the two-decimal rule against the raw input
// where possible, so "10.005" is caught even though it parses cleanly.
func atMostTwoDecimals(raw any, parsed float64) bool {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if i := strings.Index(s, "."); i >= 0 {
			return len(s)-i-1 <= 2
		}
		return true
	}
	scaled := parsed * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// optionalAmount reads a numeric input that may be absent. present is
// false for missing or blank values; ok reports whether a present value
// parsed as a number.
func optionalAmount(doc map[string]any, path string) (v float64, present, ok bool) {
	raw, found := fieldpath.Get(doc, fieldpath.Parse(path))
	if !found || isBlank(raw) {
		return 0, false, false
	}
	v, ok = parseAmount(raw)
	return v, true, ok
}
