package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/diff"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/formstate"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
)

func dirtyWith(paths ...string) *formstate.ChangeTracker {
	ct := formstate.NewChangeTracker()
	for _, p := range paths {
		ct.MarkDirty(p)
	}
	return ct
}

func TestCreateModeReturnsCleanedClone(t *testing.T) {
	current := map[string]any{
		"name":           "Lamp",
		"price":          "25.00",
		"tags":           []any{"home"},
		"features":       []any{},          // empty list stripped
		"specifications": map[string]any{}, // empty object stripped
		"discount":       nil,              // nil stripped
	}

	changes := diff.ComputeChanges(models.ModeCreate, current, nil, dirtyWith())

	assert.Equal(t, map[string]any{
		"name":  "Lamp",
		"price": "25.00",
		"tags":  []any{"home"},
	}, changes)

	// The result is a clone, not a view over the form value.
	changes["name"] = "Mutated"
	assert.Equal(t, "Lamp", current["name"])
}

func TestEditModeRequiresDirtyAndDifferent(t *testing.T) {
	snapshot := map[string]any{
		"id":    "prod-9",
		"name":  "A",
		"brand": "Acme",
		"price": 10.0,
	}
	current := map[string]any{
		"id":    "prod-9",
		"name":  "B",
		"brand": "Globex", // differs but untouched: must not be sent
		"price": 10.0,     // touched but unchanged: must not be sent
	}

	changes := diff.ComputeChanges(models.ModeEdit, current, snapshot, dirtyWith("name", "price"))

	assert.Equal(t, map[string]any{"name": "B", "id": "prod-9"}, changes)
}

func TestEditModeEmptyWhenNothingChanged(t *testing.T) {
	snapshot := map[string]any{"id": "prod-9", "name": "A"}
	current := map[string]any{"id": "prod-9", "name": "A"}

	changes := diff.ComputeChanges(models.ModeEdit, current, snapshot, dirtyWith("name"))

	assert.Empty(t, changes, "no id rides along on an empty patch")
}

func TestCompoundFieldIncludedWhole(t *testing.T) {
	snapshot := map[string]any{
		"id": "prod-9",
		"weight": map[string]any{
			"value": "2",
			"unit":  "kg",
		},
	}
	current := map[string]any{
		"id": "prod-9",
		"weight": map[string]any{
			"value": "3",
			"unit":  "kg",
		},
	}

	changes := diff.ComputeChanges(models.ModeEdit, current, snapshot, dirtyWith("weight.value"))

	assert.Equal(t, map[string]any{
		"weight": map[string]any{"value": "3", "unit": "kg"},
		"id":     "prod-9",
	}, changes)
}

func TestVariantDiffIndexAligned(t *testing.T) {
	snapshot := map[string]any{
		"id": "prod-9",
		"variants": []any{
			map[string]any{"id": "v1", "name": "S", "price": 5.0},
			map[string]any{"id": "v2", "name": "M", "price": 6.0},
			map[string]any{"id": "v3", "name": "L", "price": 7.0},
		},
	}
	current := map[string]any{
		"id": "prod-9",
		"variants": []any{
			map[string]any{"id": "v1", "name": "S", "price": 5.5},
		},
	}

	changes := diff.ComputeChanges(models.ModeEdit, current, snapshot, dirtyWith("variants"))

	variants := changes["variants"].([]any)
	assert.Len(t, variants, 1)
	assert.Equal(t, "v1", variants[0].(map[string]any)["id"])

	assert.ElementsMatch(t, []any{"v2", "v3"}, changes["deletedVariantIds"])
	assert.Equal(t, "prod-9", changes["id"])
}

func TestVariantDiffNewEntriesBeyondSnapshot(t *testing.T) {
	snapshot := map[string]any{
		"id":       "prod-9",
		"variants": []any{map[string]any{"id": "v1", "name": "S"}},
	}
	current := map[string]any{
		"id": "prod-9",
		"variants": []any{
			map[string]any{"id": "v1", "name": "S"}, // unchanged: skipped
			map[string]any{"name": "XL"},            // new: included
		},
	}

	changes := diff.ComputeChanges(models.ModeEdit, current, snapshot, dirtyWith("variants"))

	variants := changes["variants"].([]any)
	assert.Len(t, variants, 1)
	assert.Equal(t, "XL", variants[0].(map[string]any)["name"])
	assert.NotContains(t, changes, "deletedVariantIds")
}

func TestTruncationWithoutVariantIDs(t *testing.T) {
	snapshot := map[string]any{
		"id":       "prod-9",
		"variants": []any{map[string]any{"name": "S"}, map[string]any{"name": "M"}},
	}
	current := map[string]any{
		"id":       "prod-9",
		"variants": []any{map[string]any{"name": "S"}},
	}

	changes := diff.ComputeChanges(models.ModeEdit, current, snapshot, dirtyWith("variants"))

	// Unidentified snapshot variants cannot be reported as deleted.
	assert.Empty(t, changes)
}

func TestUnserializableValueDegradesToInclusion(t *testing.T) {
	snapshot := map[string]any{"id": "prod-9", "meta": map[string]any{"title": "x"}}
	current := map[string]any{
		"id":   "prod-9",
		"meta": map[string]any{"title": "x", "oddball": make(chan int)},
	}

	changes := diff.ComputeChanges(models.ModeEdit, current, snapshot, dirtyWith("meta.title"))

	// Comparison failed, so the whole field is included rather than a
	// real change silently dropped.
	assert.Contains(t, changes, "meta")
}
