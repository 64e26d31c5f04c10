package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/apperrors"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/services"
)

type fakeFormService struct {
	openCreateCalled int
	openEditCalled   int
	lastProductID    string
	lastField        string
	lastValue        any
	validateCalled   int
	lastStep         int
	lastAll          bool
	submitErr        *apperrors.Error
}

func emptyView() *services.FormView {
	return &services.FormView{
		ID:    uuid.New().String(),
		Mode:  "create",
		State: "loaded",
		Value: map[string]any{},
	}
}

func (f *fakeFormService) OpenCreate(_ context.Context, staffID string) (*services.FormView, *apperrors.Error) {
	f.openCreateCalled++
	return emptyView(), nil
}

func (f *fakeFormService) OpenEdit(_ context.Context, productID string) (*services.FormView, *apperrors.Error) {
	f.openEditCalled++
	f.lastProductID = productID
	return emptyView(), nil
}

func (f *fakeFormService) Get(id uuid.UUID) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) ApplyChange(id uuid.UUID, field string, value any) (*services.FormView, *apperrors.Error) {
	f.lastField = field
	f.lastValue = value
	return emptyView(), nil
}

func (f *fakeFormService) AddTag(id uuid.UUID, tag string) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) RemoveTag(id uuid.UUID, tag string) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) AddFeature(id uuid.UUID, feature string) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) RemoveFeature(id uuid.UUID, index int) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) AddKeyword(id uuid.UUID, keyword string) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) RemoveKeyword(id uuid.UUID, index int) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) SetSpecifications(id uuid.UUID, specs map[string]string) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) AddVariant(id uuid.UUID, variant map[string]any) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) UpdateVariant(id uuid.UUID, index int, field string, value any) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) RemoveVariant(id uuid.UUID, index int) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) UploadImage(id uuid.UUID, slot string, upload models.Upload) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) RemoveImage(id uuid.UUID, slot string, index int) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) Validate(id uuid.UUID, step int, allSteps bool) (*services.FormView, bool, *apperrors.Error) {
	f.validateCalled++
	f.lastStep = step
	f.lastAll = allSteps
	return emptyView(), true, nil
}

func (f *fakeFormService) Reset(id uuid.UUID) (*services.FormView, *apperrors.Error) {
	return emptyView(), nil
}

func (f *fakeFormService) Submit(_ context.Context, id uuid.UUID) (map[string]any, *services.FormView, *apperrors.Error) {
	if f.submitErr != nil {
		return nil, emptyView(), f.submitErr
	}
	return map[string]any{"id": "prod-1"}, nil, nil
}

func (f *fakeFormService) Discard(id uuid.UUID) *apperrors.Error {
	return nil
}

func newTestRouter(fake *fakeFormService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewFormController(fake)
	router := gin.New()

	router.POST("/forms", controller.OpenForm)
	router.POST("/forms/:id/changes", controller.ChangeField)
	router.POST("/forms/:id/validate", controller.ValidateStep)
	router.POST("/forms/:id/submit", controller.SubmitForm)
	router.DELETE("/forms/:id", controller.DiscardForm)
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestOpenFormCreateMode(t *testing.T) {
	fake := &fakeFormService{}
	router := newTestRouter(fake)

	recorder := postJSON(router, "/forms", map[string]any{"mode": "create"})

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	if fake.openCreateCalled != 1 {
		t.Fatalf("expected OpenCreate to be called once, got %d", fake.openCreateCalled)
	}
}

func TestOpenFormEditModeRequiresProductID(t *testing.T) {
	fake := &fakeFormService{}
	router := newTestRouter(fake)

	recorder := postJSON(router, "/forms", map[string]any{"mode": "edit"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	recorder = postJSON(router, "/forms", map[string]any{"mode": "edit", "productId": "prod-7"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	if fake.lastProductID != "prod-7" {
		t.Fatalf("expected product ID prod-7, got %q", fake.lastProductID)
	}
}

func TestOpenFormRejectsUnknownMode(t *testing.T) {
	fake := &fakeFormService{}
	router := newTestRouter(fake)

	recorder := postJSON(router, "/forms", map[string]any{"mode": "upsert"})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestChangeFieldForwardsToService(t *testing.T) {
	fake := &fakeFormService{}
	router := newTestRouter(fake)
	id := uuid.New()

	recorder := postJSON(router, "/forms/"+id.String()+"/changes", map[string]any{
		"field": "variants[0].price",
		"value": "19.99",
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	if fake.lastField != "variants[0].price" || fake.lastValue != "19.99" {
		t.Fatalf("unexpected forwarded change: %q=%v", fake.lastField, fake.lastValue)
	}
}

func TestChangeFieldRejectsInvalidSessionID(t *testing.T) {
	fake := &fakeFormService{}
	router := newTestRouter(fake)

	recorder := postJSON(router, "/forms/not-a-uuid/changes", map[string]any{"field": "name", "value": "x"})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestValidateStepForwardsStepAndAll(t *testing.T) {
	fake := &fakeFormService{}
	router := newTestRouter(fake)
	id := uuid.New()

	recorder := postJSON(router, "/forms/"+id.String()+"/validate", map[string]any{"step": 2, "all": false})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if fake.validateCalled != 1 || fake.lastStep != 2 || fake.lastAll {
		t.Fatalf("unexpected validate call: step=%d all=%v", fake.lastStep, fake.lastAll)
	}

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["valid"] != true {
		t.Fatalf("expected valid=true, got %v", body["valid"])
	}
}

func TestSubmitSurfacesValidationFailureWithForm(t *testing.T) {
	fake := &fakeFormService{
		submitErr: apperrors.New(http.StatusUnprocessableEntity, "Validation failed", nil),
	}
	router := newTestRouter(fake)
	id := uuid.New()

	recorder := postJSON(router, "/forms/"+id.String()+"/submit", nil)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, recorder.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if _, ok := body["form"]; !ok {
		t.Fatal("expected failing submit to return the form state")
	}
}

func TestDiscardReturnsNoContent(t *testing.T) {
	fake := &fakeFormService{}
	router := newTestRouter(fake)
	id := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/forms/"+id.String(), nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, recorder.Code)
	}
}
