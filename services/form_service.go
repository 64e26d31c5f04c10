package services

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/apperrors"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/autosave"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/formstate"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/validation"
)

// FormService owns the live form sessions. The registry is guarded
// here; each Session guards its own state, so overlapping requests to
// the same form serialize on the session mutex.
type FormService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*formstate.Session

	catalog Catalog
	drafts  autosave.Store
	logger  *zap.Logger
}

// NewFormService creates a FormService.
func NewFormService(catalog Catalog, drafts autosave.Store, logger *zap.Logger) *FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{
		sessions: make(map[uuid.UUID]*formstate.Session),
		catalog:  catalog,
		drafts:   drafts,
		logger:   logger,
	}
}

// OpenCreate starts a create-mode session for a staff user, restoring
// any autosaved draft.
func (s *FormService) OpenCreate(_ context.Context, staffID string) (*FormView, *apperrors.Error) {
	sess := formstate.NewCreateSession(s.drafts, autosave.DraftKey(staffID), s.logger)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("Form session opened",
		zap.String("session_id", sess.ID.String()),
		zap.String("mode", string(sess.Mode)),
	)
	return viewOf(sess), nil
}

// OpenEdit fetches the product and starts an edit-mode session with it
// as the diff baseline.
func (s *FormService) OpenEdit(ctx context.Context, productID string) (*FormView, *apperrors.Error) {
	doc, err := s.catalog.FetchProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to fetch product for editing", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.New(http.StatusBadGateway, "Failed to load product", err)
	}

	// Image references live next to the entity on the wire but are
	// tracked separately from the document.
	mainURL, _ := doc["mainImage"].(string)
	var additionalURLs []string
	if list, ok := doc["additionalImages"].([]any); ok {
		for _, v := range list {
			if u, ok := v.(string); ok {
				additionalURLs = append(additionalURLs, u)
			}
		}
	}
	delete(doc, "mainImage")
	delete(doc, "additionalImages")

	if _, ok := doc["id"].(string); !ok {
		if id, ok := doc["_id"].(string); ok {
			doc["id"] = id
		}
	}

	sess := formstate.NewEditSession(doc, mainURL, additionalURLs, s.logger)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("Form session opened",
		zap.String("session_id", sess.ID.String()),
		zap.String("mode", string(sess.Mode)),
		zap.String("product_id", productID),
	)
	return viewOf(sess), nil
}

// Get returns the current view of a session.
func (s *FormService) Get(id uuid.UUID) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	return viewOf(sess), nil
}

// ApplyChange writes one field value.
func (s *FormService) ApplyChange(id uuid.UUID, field string, value any) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	sess.HandleChange(field, value)
	return viewOf(sess), nil
}

// AddTag adds a tag; case-insensitive duplicates are rejected.
func (s *FormService) AddTag(id uuid.UUID, tag string) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	if !sess.AddTag(tag) {
		return nil, apperrors.New(http.StatusConflict, "Tag already exists or is empty", nil)
	}
	return viewOf(sess), nil
}

// RemoveTag removes a tag by value.
func (s *FormService) RemoveTag(id uuid.UUID, tag string) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	if !sess.RemoveTag(tag) {
		return nil, apperrors.New(http.StatusNotFound, "Tag not found", nil)
	}
	return viewOf(sess), nil
}

// AddFeature appends a feature line.
func (s *FormService) AddFeature(id uuid.UUID, feature string) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	if !sess.AddFeature(feature) {
		return nil, apperrors.New(http.StatusBadRequest, "Feature cannot be empty", nil)
	}
	return viewOf(sess), nil
}

// RemoveFeature removes the feature at index.
func (s *FormService) RemoveFeature(id uuid.UUID, index int) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	if !sess.RemoveFeature(index) {
		return nil, apperrors.New(http.StatusNotFound, "Feature index out of range", nil)
	}
	return viewOf(sess), nil
}

// AddKeyword appends an SEO keyword.
func (s *FormService) AddKeyword(id uuid.UUID, keyword string) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	if !sess.AddKeyword(keyword) {
		return nil, apperrors.New(http.StatusBadRequest, "Keyword cannot be empty", nil)
	}
	return viewOf(sess), nil
}

// RemoveKeyword removes the keyword at index.
func (s *FormService) RemoveKeyword(id uuid.UUID, index int) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	if !sess.RemoveKeyword(index) {
		return nil, apperrors.New(http.StatusNotFound, "Keyword index out of range", nil)
	}
	return viewOf(sess), nil
}

// SetSpecifications replaces the specifications map wholesale.
func (s *FormService) SetSpecifications(id uuid.UUID, specs map[string]string) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	sess.SetSpecifications(specs)
	return viewOf(sess), nil
}

// AddVariant appends a variant record.
func (s *FormService) AddVariant(id uuid.UUID, variant map[string]any) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	sess.AddVariant(variant)
	return viewOf(sess), nil
}

// UpdateVariant writes one variant field, which may be nested such as
// "attributes.color".
func (s *FormService) UpdateVariant(id uuid.UUID, index int, field string, value any) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	if !sess.UpdateVariant(index, field, value) {
		return nil, apperrors.New(http.StatusNotFound, "Variant index out of range", nil)
	}
	return viewOf(sess), nil
}

// RemoveVariant removes the variant at index.
func (s *FormService) RemoveVariant(id uuid.UUID, index int) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	if !sess.RemoveVariant(index) {
		return nil, apperrors.New(http.StatusNotFound, "Variant index out of range", nil)
	}
	return viewOf(sess), nil
}

// UploadImage places a new binary in the main slot or appends it to the
// additional list.
func (s *FormService) UploadImage(id uuid.UUID, slot string, upload models.Upload) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	switch slot {
	case "main":
		sess.SetMainImage(models.ImageSlot{File: &upload})
	case "additional":
		if !sess.AddAdditionalImage(models.ImageSlot{File: &upload}) {
			return nil, apperrors.New(http.StatusBadRequest, "Additional image limit reached", nil)
		}
	default:
		return nil, apperrors.New(http.StatusBadRequest, "Unknown image slot", nil)
	}
	return viewOf(sess), nil
}

// RemoveImage empties the main slot or removes one additional image.
func (s *FormService) RemoveImage(id uuid.UUID, slot string, index int) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	switch slot {
	case "main":
		sess.RemoveMainImage()
	case "additional":
		if !sess.RemoveAdditionalImage(index) {
			return nil, apperrors.New(http.StatusNotFound, "Image index out of range", nil)
		}
	default:
		return nil, apperrors.New(http.StatusBadRequest, "Unknown image slot", nil)
	}
	return viewOf(sess), nil
}

// Validate runs one step's rules, or all of them. Navigation between
// steps is expected to gate on the returned result.
func (s *FormService) Validate(id uuid.UUID, step int, allSteps bool) (*FormView, bool, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, false, appErr
	}
	if !allSteps && (step < int(validation.StepBasic) || step > int(validation.StepFeatures)) {
		return nil, false, apperrors.New(http.StatusBadRequest, "Unknown form step", nil)
	}
	ok := sess.ValidateStep(validation.Step(step), allSteps)
	return viewOf(sess), ok, nil
}

// Reset rolls the session back to its loaded snapshot and drops any
// autosaved draft.
func (s *FormService) Reset(id uuid.UUID) (*FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, appErr
	}
	sess.Reset()
	return viewOf(sess), nil
}

// Submit validates every step, computes the change set and image
// deltas, and sends them to the catalog. On failure the session stays
// open with its dirty paths intact.
func (s *FormService) Submit(ctx context.Context, id uuid.UUID) (map[string]any, *FormView, *apperrors.Error) {
	sess, appErr := s.lookup(id)
	if appErr != nil {
		return nil, nil, appErr
	}

	if !sess.ValidateStep(0, true) {
		return nil, viewOf(sess), apperrors.New(http.StatusUnprocessableEntity, "Validation failed", nil)
	}
	if err := sess.BeginSubmit(); err != nil {
		return nil, viewOf(sess), apperrors.New(http.StatusConflict, "Submission already in progress", err)
	}

	changes := sess.Changes()
	images := sess.ImageChanges()

	var result map[string]any
	var err error
	switch sess.Mode {
	case models.ModeCreate:
		result, err = s.catalog.CreateProduct(ctx, changes, images)
	default:
		if len(changes) == 0 && images.Empty() {
			sess.FinishSubmit(nil)
			s.remove(id)
			return map[string]any{}, nil, nil
		}
		result, err = s.catalog.UpdateProduct(ctx, sess.SnapshotID(), changes, images)
	}

	sess.FinishSubmit(err)
	if err != nil {
		s.logger.Error("Product submission failed",
			zap.String("session_id", id.String()),
			zap.String("mode", string(sess.Mode)),
			zap.Error(err),
		)
		return nil, viewOf(sess), apperrors.New(http.StatusBadGateway, "Failed to submit product", err)
	}

	s.logger.Info("Product submitted",
		zap.String("session_id", id.String()),
		zap.String("mode", string(sess.Mode)),
	)
	s.remove(id)
	return result, nil, nil
}

// Discard drops a session. The autosaved draft is kept so a create-mode
// form can be resumed later.
func (s *FormService) Discard(id uuid.UUID) *apperrors.Error {
	if _, appErr := s.lookup(id); appErr != nil {
		return appErr
	}
	s.remove(id)
	return nil
}

func (s *FormService) lookup(id uuid.UUID) (*formstate.Session, *apperrors.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.New(http.StatusNotFound, "Form session not found", nil)
	}
	return sess, nil
}

func (s *FormService) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
