package formstate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/autosave"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/fieldpath"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
)

// Store holds the product document being edited. Every mutation goes
// through HandleChange, which applies a copy-on-write nested update,
// marks the path dirty, and clears any validation error recorded for
// that exact field. Entity-specific helpers for tags, features,
// keywords, specifications and variants layer on top.
//
// When constructed with a draft store the whole document is persisted
// after each mutation (create-mode autosave). Draft failures are logged
// and ignored; they must never interrupt editing.
type Store struct {
	value    map[string]any
	tracker  *ChangeTracker
	errors   map[string]string
	draft    autosave.Store
	draftKey string
	logger   *zap.Logger
}

// NewStore creates a Store starting from initial. Pass a nil draft
// store to disable autosave (edit mode).
func NewStore(initial map[string]any, draft autosave.Store, draftKey string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		value:    models.CloneDoc(initial),
		tracker:  NewChangeTracker(),
		errors:   make(map[string]string),
		draft:    draft,
		draftKey: draftKey,
		logger:   logger,
	}
}

// Value returns the current document. Callers must treat it as
// read-only; all ancestors are replaced on write, so held references
// stay stable.
func (s *Store) Value() map[string]any {
	return s.value
}

// Tracker exposes the dirty-path set for diffing.
func (s *Store) Tracker() *ChangeTracker {
	return s.tracker
}

// Errors returns the current validation error map.
func (s *Store) Errors() map[string]string {
	return s.errors
}

// SetErrors replaces the validation error map wholesale.
func (s *Store) SetErrors(errs map[string]string) {
	if errs == nil {
		errs = make(map[string]string)
	}
	s.errors = errs
}

// HandleChange writes value at the field identified by name, marks the
// path (and its ancestors) dirty, and clears the field's validation
// error.
func (s *Store) HandleChange(name string, value any) {
	segs := fieldpath.Parse(name)
	if len(segs) == 0 {
		return
	}
	canonical := fieldpath.Join(segs)
	s.value = fieldpath.Set(s.value, segs, value)
	s.tracker.MarkDirty(canonical)
	delete(s.errors, canonical)
	s.persistDraft()
}

// AddTag appends a tag, lowercased and trimmed. Duplicates are detected
// case-insensitively and rejected.
func (s *Store) AddTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	tags := s.list("tags")
	for _, t := range tags {
		if str, ok := t.(string); ok && strings.EqualFold(str, tag) {
			return false
		}
	}
	s.HandleChange("tags", append(tags, tag))
	return true
}

// RemoveTag removes a tag by value (case-insensitive). The tags path
// stays dirty even after removal.
func (s *Store) RemoveTag(tag string) bool {
	tags := s.list("tags")
	next := make([]any, 0, len(tags))
	removed := false
	for _, t := range tags {
		if str, ok := t.(string); ok && strings.EqualFold(str, strings.TrimSpace(tag)) && !removed {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if removed {
		s.HandleChange("tags", next)
	}
	return removed
}

// AddFeature appends a non-empty feature line.
func (s *Store) AddFeature(feature string) bool {
	feature = strings.TrimSpace(feature)
	if feature == "" {
		return false
	}
	s.HandleChange("features", append(s.list("features"), feature))
	return true
}

// RemoveFeature removes the feature at index.
func (s *Store) RemoveFeature(index int) bool {
	return s.removeAt("features", index)
}

// AddKeyword appends a non-empty SEO keyword under meta.keywords.
func (s *Store) AddKeyword(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false
	}
	s.HandleChange("meta.keywords", append(s.list("meta.keywords"), keyword))
	return true
}

// RemoveKeyword removes the keyword at index.
func (s *Store) RemoveKeyword(index int) bool {
	return s.removeAt("meta.keywords", index)
}

// SetSpecifications replaces the specifications map wholesale.
func (s *Store) SetSpecifications(specs map[string]string) {
	doc := make(map[string]any, len(specs))
	for k, v := range specs {
		doc[k] = v
	}
	s.HandleChange("specifications", doc)
}

// AddVariant appends a variant record.
func (s *Store) AddVariant(variant map[string]any) {
	s.HandleChange("variants", append(s.list("variants"), models.CloneValue(variant)))
}

// UpdateVariant writes a single variant field; field may itself be
// nested, e.g. "attributes.color".
func (s *Store) UpdateVariant(index int, field string, value any) bool {
	if index < 0 || index >= len(s.list("variants")) || strings.TrimSpace(field) == "" {
		return false
	}
	s.HandleChange(fmt.Sprintf("variants.%d.%s", index, field), value)
	return true
}

// RemoveVariant removes the variant at index. The variants path stays
// dirty so the differ can report the truncation.
func (s *Store) RemoveVariant(index int) bool {
	return s.removeAt("variants", index)
}

// Reset restores the document to initial, clears dirty paths and
// errors, and drops any autosaved draft.
func (s *Store) Reset(initial map[string]any) {
	s.value = models.CloneDoc(initial)
	s.tracker.Clear()
	s.errors = make(map[string]string)
	s.ClearDraft()
}

// ClearDraft removes the autosaved draft, if any.
func (s *Store) ClearDraft() {
	if s.draft == nil {
		return
	}
	if err := s.draft.Remove(context.Background(), s.draftKey); err != nil {
		s.logger.Warn("Failed to clear form draft", zap.String("key", s.draftKey), zap.Error(err))
	}
}

func (s *Store) list(path string) []any {
	v, _ := fieldpath.Get(s.value, fieldpath.Parse(path))
	list, _ := v.([]any)
	return list
}

func (s *Store) removeAt(path string, index int) bool {
	list := s.list(path)
	if index < 0 || index >= len(list) {
		return false
	}
	next := make([]any, 0, len(list)-1)
	next = append(next, list[:index]...)
	next = append(next, list[index+1:]...)
	s.HandleChange(path, next)
	return true
}

func (s *Store) persistDraft() {
	if s.draft == nil {
		return
	}
	data, err := json.Marshal(s.value)
	if err != nil {
		s.logger.Warn("Failed to serialize form draft", zap.Error(err))
		return
	}
	if err := s.draft.Set(context.Background(), s.draftKey, string(data)); err != nil {
		s.logger.Warn("Failed to autosave form draft", zap.String("key", s.draftKey), zap.Error(err))
	}
}
