package models

import "encoding/json"

// Mode distinguishes a form creating a new product from one editing an
// existing product. Edit mode diffs against the loaded snapshot; create
// mode always submits the full entity.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// DefaultProduct returns the empty product document a create-mode form
// starts from. Numeric inputs start as empty strings because they arrive
// from text fields; the validator parses them.
func DefaultProduct() map[string]any {
	return map[string]any{
		"name":             "",
		"brand":            "",
		"price":            "",
		"originalPrice":    "",
		"discount":         "",
		"category":         "",
		"subCategory":      "",
		"description":      "",
		"sku":              "",
		"stockCount":       "",
		"unit":             "piece",
		"availabilityType": "in-stock",
		"isBestSeller":     false,
		"isFeatured":       false,
		"isNewArrival":     false,
		"inStock":          true,
		"tags":             []any{},
		"features":         []any{},
		"specifications":   map[string]any{},
		"weight": map[string]any{
			"value": "",
			"unit":  "kg",
		},
		"dimensions": map[string]any{
			"length": "",
			"width":  "",
			"height": "",
			"unit":   "cm",
		},
		"shippingInfo": map[string]any{
			"dimensions":     "",
			"weight":         "",
			"isFreeShipping": false,
			"deliveryTime":   "",
			"shippingClass":  "standard",
		},
		"meta": map[string]any{
			"title":       "",
			"description": "",
			"keywords":    []any{},
		},
		"variants": []any{},
	}
}

// CloneDoc deep-copies a product document via a JSON round trip, which
// also normalizes values to the JSON type set (map[string]any, []any,
// float64, string, bool, nil).
func CloneDoc(doc map[string]any) map[string]any {
	out, ok := CloneValue(doc).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return out
}

// CloneValue deep-copies any JSON-representable value. Values that
// cannot be serialized are returned as-is.
func CloneValue(v any) any {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// MergeDraft overlays a restored autosave draft onto the default
// document. The draft wins per top-level field; fields the draft does
// not carry keep their defaults.
func MergeDraft(base, draft map[string]any) map[string]any {
	out := CloneDoc(base)
	for k, v := range draft {
		out[k] = CloneValue(v)
	}
	return out
}
