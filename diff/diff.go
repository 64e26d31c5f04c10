// Package diff computes the minimal payload to submit for a product
// form: the full cleaned document in create mode, or the set of fields
// that were both touched and actually changed in edit mode.
package diff

import (
	"bytes"
	"encoding/json"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
)

// DirtySet answers whether a field path was touched during editing.
type DirtySet interface {
	Dirty(path string) bool
}

// scalarFields is the allow-list of top-level scalar and list fields
// considered for a patch.
var scalarFields = []string{
	"name", "brand", "price", "originalPrice", "discount",
	"category", "subCategory", "description", "sku", "stockCount",
	"unit", "availabilityType",
	"isBestSeller", "isFeatured", "isNewArrival", "inStock",
	"tags", "features",
}

// compoundFields are included whole-or-nothing: if any constituent path
// is dirty and the sub-record's value differs, the entire sub-record is
// sent.
var compoundFields = []string{
	"weight", "dimensions", "shippingInfo", "meta", "specifications",
}

// ComputeChanges builds the submission payload. In edit mode a field
// appears iff its path is dirty AND its serialized value differs from
// the snapshot; untouched fields are never sent even when they differ,
// so concurrent server-side edits to unopened fields survive. The
// snapshot's identifier rides along on any non-empty edit patch.
func ComputeChanges(mode models.Mode, current, snapshot map[string]any, dirty DirtySet) map[string]any {
	if mode == models.ModeCreate {
		changes := models.CloneDoc(current)
		stripEmpty(changes)
		return changes
	}

	changes := make(map[string]any)

	for _, f := range scalarFields {
		if dirty.Dirty(f) && !valuesEqual(current[f], snapshot[f]) {
			changes[f] = models.CloneValue(current[f])
		}
	}
	for _, f := range compoundFields {
		if dirty.Dirty(f) && !valuesEqual(current[f], snapshot[f]) {
			changes[f] = models.CloneValue(current[f])
		}
	}

	if dirty.Dirty("variants") {
		curVariants, _ := current["variants"].([]any)
		snapVariants, _ := snapshot["variants"].([]any)

		var changed []any
		for i, v := range curVariants {
			if i >= len(snapVariants) || !valuesEqual(v, snapVariants[i]) {
				changed = append(changed, models.CloneValue(v))
			}
		}
		var deleted []any
		for i := len(curVariants); i < len(snapVariants); i++ {
			if id := variantID(snapVariants[i]); id != "" {
				deleted = append(deleted, id)
			}
		}
		if len(changed) > 0 {
			changes["variants"] = changed
		}
		if len(deleted) > 0 {
			changes["deletedVariantIds"] = deleted
		}
	}

	stripEmpty(changes)

	if len(changes) > 0 {
		if id, ok := snapshot["id"].(string); ok && id != "" {
			changes["id"] = id
		}
	}
	return changes
}

// valuesEqual compares two values by their JSON serialization. When
// either side cannot be serialized the values are reported unequal, so
// the differ degrades to including the field rather than dropping a
// real change.
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	da, errA := json.Marshal(a)
	db, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(da, db)
}

// variantID pulls a server-assigned identifier out of a variant record.
func variantID(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"id", "_id"} {
		if id, ok := m[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// stripEmpty drops payload fields the server has no use for: nils,
// empty objects and empty lists. Empty strings survive; they clear a
// field.
func stripEmpty(changes map[string]any) {
	for k, v := range changes {
		switch val := v.(type) {
		case nil:
			delete(changes, k)
		case map[string]any:
			if len(val) == 0 {
				delete(changes, k)
			}
		case []any:
			if len(val) == 0 {
				delete(changes, k)
			}
		}
	}
}
