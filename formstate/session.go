package formstate

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/autosave"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/diff"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/validation"
)

// State names the position of a form in its lifecycle.
type State string

const (
	StateLoaded     State = "loaded"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

// ErrSubmitInFlight is returned when a submit is requested while an
// earlier one has not resolved yet.
var ErrSubmitInFlight = errors.New("submission already in progress")

// Session ties together one form's snapshot, value store, image slots,
// validation state and diffing. A session belongs to a single staff
// user, but that user's client may issue overlapping requests, so every
// exported method takes the session mutex and the accessors hand out
// copies rather than live references.
type Session struct {
	ID   uuid.UUID
	Mode models.Mode

	mu sync.Mutex

	snapshot map[string]any
	store    *Store

	mainImage         []models.ImageSlot
	additionalImages  []models.ImageSlot
	initialMain       []models.ImageSlot
	initialAdditional []models.ImageSlot
	initialMainRef    string

	warnings map[string]string
	state    State
	logger   *zap.Logger
}

// NewCreateSession opens a create-mode session from the default product
// document, merging in any autosaved draft found under draftKey. A
// malformed draft is logged and ignored.
func NewCreateSession(draft autosave.Store, draftKey string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := models.DefaultProduct()
	initial := defaults

	if draft != nil {
		if raw, err := draft.Get(context.Background(), draftKey); err != nil {
			logger.Warn("Failed to read form draft", zap.String("key", draftKey), zap.Error(err))
		} else if raw != "" {
			var saved map[string]any
			if err := json.Unmarshal([]byte(raw), &saved); err != nil {
				logger.Warn("Ignoring malformed form draft", zap.String("key", draftKey), zap.Error(err))
			} else {
				initial = models.MergeDraft(defaults, saved)
			}
		}
	}

	return &Session{
		ID:       uuid.New(),
		Mode:     models.ModeCreate,
		snapshot: defaults,
		store:    NewStore(initial, draft, draftKey, logger),
		warnings: make(map[string]string),
		state:    StateLoaded,
		logger:   logger,
	}
}

// NewEditSession opens an edit-mode session against a snapshot fetched
// from the catalog. Image slots are seeded from the persisted image
// references; edits are not autosaved since the server already holds
// the baseline.
func NewEditSession(snapshot map[string]any, mainImageURL string, additionalImageURLs []string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	snap := models.CloneDoc(snapshot)

	var main []models.ImageSlot
	if mainImageURL != "" {
		main = []models.ImageSlot{{URL: mainImageURL}}
	}
	additional := make([]models.ImageSlot, 0, len(additionalImageURLs))
	for _, u := range additionalImageURLs {
		if u != "" {
			additional = append(additional, models.ImageSlot{URL: u})
		}
	}

	s := &Session{
		ID:               uuid.New(),
		Mode:             models.ModeEdit,
		snapshot:         snap,
		store:            NewStore(snap, nil, "", logger),
		mainImage:        main,
		additionalImages: additional,
		initialMainRef:   mainImageURL,
		warnings:         make(map[string]string),
		state:            StateLoaded,
		logger:           logger,
	}
	s.initialMain = append([]models.ImageSlot(nil), main...)
	s.initialAdditional = append([]models.ImageSlot(nil), additional...)
	return s
}

// HandleChange applies a generic field mutation.
func (s *Session) HandleChange(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.HandleChange(name, value)
	s.state = StateEditing
}

func (s *Session) AddTag(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited(s.store.AddTag(tag))
}

func (s *Session) RemoveTag(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited(s.store.RemoveTag(tag))
}

func (s *Session) AddFeature(f string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited(s.store.AddFeature(f))
}

func (s *Session) RemoveFeature(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited(s.store.RemoveFeature(i))
}

func (s *Session) AddKeyword(k string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited(s.store.AddKeyword(k))
}

func (s *Session) RemoveKeyword(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited(s.store.RemoveKeyword(i))
}

func (s *Session) RemoveVariant(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited(s.store.RemoveVariant(i))
}

func (s *Session) SetSpecifications(specs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetSpecifications(specs)
	s.state = StateEditing
}

func (s *Session) AddVariant(variant map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.AddVariant(variant)
	s.state = StateEditing
}

func (s *Session) UpdateVariant(index int, field string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited(s.store.UpdateVariant(index, field, value))
}

// SetMainImage replaces the single main-image slot.
func (s *Session) SetMainImage(slot models.ImageSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mainImage = []models.ImageSlot{slot}
	s.state = StateEditing
	delete(s.store.errors, "mainImage")
}

// RemoveMainImage empties the main-image slot.
func (s *Session) RemoveMainImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mainImage = nil
	s.state = StateEditing
}

// AddAdditionalImage appends an additional-image slot, capped at
// validation.MaxAdditionalImages.
func (s *Session) AddAdditionalImage(slot models.ImageSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.additionalImages) >= validation.MaxAdditionalImages {
		return false
	}
	s.additionalImages = append(s.additionalImages, slot)
	s.state = StateEditing
	delete(s.store.errors, "additionalImages")
	return true
}

// RemoveAdditionalImage removes the additional-image slot at index.
func (s *Session) RemoveAdditionalImage(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.additionalImages) {
		return false
	}
	s.additionalImages = append(s.additionalImages[:index:index], s.additionalImages[index+1:]...)
	s.state = StateEditing
	return true
}

// ValidateStep runs the rules for one section, or for all sections when
// allSteps is set, replacing the error and warning maps. It returns
// true when no blocking error was recorded.
func (s *Session) ValidateStep(step validation.Step, allSteps bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := validation.Validate(s.store.Value(), len(s.mainImage), len(s.additionalImages), step, allSteps)
	s.store.SetErrors(res.Errors)
	s.warnings = res.Warnings
	return len(res.Errors) == 0
}

// Changes computes the submission payload: the full cleaned document in
// create mode, the minimal dirty-and-different patch in edit mode.
func (s *Session) Changes() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return diff.ComputeChanges(s.Mode, s.store.Value(), s.snapshot, s.store.Tracker())
}

// ImageChanges computes which image binaries need uploading.
func (s *Session) ImageChanges() diff.ImageChanges {
	s.mu.Lock()
	defer s.mu.Unlock()
	return diff.ComputeImageChanges(s.Mode, s.mainImage, s.additionalImages, s.initialMainRef)
}

// BeginSubmit guards against overlapping submissions.
func (s *Session) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	s.state = StateSubmitting
	return nil
}

// FinishSubmit records the submission outcome. On failure the session
// stays editable with its dirty paths intact; on success the draft is
// cleared.
func (s *Session) FinishSubmit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateEditing
		return
	}
	s.state = StateSubmitted
	if s.Mode == models.ModeCreate {
		s.store.ClearDraft()
	}
}

// Reset returns to the loaded snapshot: value, images, dirty paths,
// errors and warnings all roll back, and any autosaved draft is
// dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset(s.snapshot)
	s.mainImage = append([]models.ImageSlot(nil), s.initialMain...)
	s.additionalImages = append([]models.ImageSlot(nil), s.initialAdditional...)
	s.warnings = make(map[string]string)
	s.state = StateLoaded
}

// SnapshotID returns the identifier the snapshot was loaded with, if
// any.
func (s *Session) SnapshotID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := s.snapshot["id"].(string)
	return id
}

// Value returns a deep copy of the current document. Copying means a
// caller can serialize the result while another request keeps editing.
func (s *Session) Value() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneDoc(s.store.Value())
}

// Errors returns a copy of the current validation error map.
func (s *Session) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStringMap(s.store.Errors())
}

// Warnings returns a copy of the current warning map.
func (s *Session) Warnings() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStringMap(s.warnings)
}

func (s *Session) DirtyPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Tracker().DirtyPaths()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) MainImage() []models.ImageSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ImageSlot(nil), s.mainImage...)
}

func (s *Session) AdditionalImages() []models.ImageSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ImageSlot(nil), s.additionalImages...)
}

// edited is called with s.mu held.
func (s *Session) edited(ok bool) bool {
	if ok {
		s.state = StateEditing
	}
	return ok
}

func copyStringMap(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
