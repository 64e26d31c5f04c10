package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/autosave"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/diff"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
)

// ---- mock catalog ----

type mockCatalog struct {
	fetched    map[string]any
	fetchErr   error
	created    map[string]any
	createErr  error
	updated    map[string]any
	updateErr  error
	lastCreate map[string]any
	lastPatch  map[string]any
	lastID     string
	lastImages diff.ImageChanges
}

func (m *mockCatalog) FetchProduct(_ context.Context, id string) (map[string]any, error) {
	return m.fetched, m.fetchErr
}

func (m *mockCatalog) CreateProduct(_ context.Context, product map[string]any, images diff.ImageChanges) (map[string]any, error) {
	m.lastCreate = product
	m.lastImages = images
	return m.created, m.createErr
}

func (m *mockCatalog) UpdateProduct(_ context.Context, id string, patch map[string]any, images diff.ImageChanges) (map[string]any, error) {
	m.lastID = id
	m.lastPatch = patch
	m.lastImages = images
	return m.updated, m.updateErr
}

func fillValidForm(t *testing.T, svc *FormService, id uuid.UUID) {
	t.Helper()
	fields := map[string]any{
		"name":        "Wireless Mouse",
		"brand":       "Logitech",
		"description": "A comfortable wireless mouse with long battery life.",
		"category":    "electronics",
		"price":       "29.99",
	}
	for field, value := range fields {
		_, appErr := svc.ApplyChange(id, field, value)
		assert.Nil(t, appErr)
	}
	_, appErr := svc.AddFeature(id, "2.4GHz receiver")
	assert.Nil(t, appErr)
	_, appErr = svc.UploadImage(id, "main", models.Upload{Name: "main.png", ContentType: "image/png"})
	assert.Nil(t, appErr)
	_, appErr = svc.UploadImage(id, "additional", models.Upload{Name: "side.png", ContentType: "image/png"})
	assert.Nil(t, appErr)
}

func TestOpenEditSeparatesImagesFromDocument(t *testing.T) {
	catalog := &mockCatalog{fetched: map[string]any{
		"_id":              "prod-1",
		"name":             "Lamp",
		"mainImage":        "https://cdn/img/main.jpg",
		"additionalImages": []any{"https://cdn/img/1.jpg", "https://cdn/img/2.jpg"},
	}}
	svc := NewFormService(catalog, nil, nil)

	view, appErr := svc.OpenEdit(context.Background(), "prod-1")

	assert.Nil(t, appErr)
	assert.Equal(t, "edit", view.Mode)
	assert.NotContains(t, view.Value, "mainImage")
	assert.Equal(t, "prod-1", view.Value["id"])
	assert.Len(t, view.MainImage, 1)
	assert.Len(t, view.AdditionalImages, 2)
}

func TestOpenEditFetchFailure(t *testing.T) {
	catalog := &mockCatalog{fetchErr: errors.New("connection refused")}
	svc := NewFormService(catalog, nil, nil)

	_, appErr := svc.OpenEdit(context.Background(), "prod-1")

	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
}

func TestSubmitCreateSendsFullDocument(t *testing.T) {
	catalog := &mockCatalog{created: map[string]any{"id": "prod-new"}}
	svc := NewFormService(catalog, autosave.NewMemoryStore(), nil)

	view, _ := svc.OpenCreate(context.Background(), "staff-1")
	id := uuid.MustParse(view.ID)
	fillValidForm(t, svc, id)

	result, _, appErr := svc.Submit(context.Background(), id)

	assert.Nil(t, appErr)
	assert.Equal(t, "prod-new", result["id"])
	assert.Equal(t, "Wireless Mouse", catalog.lastCreate["name"])
	assert.NotNil(t, catalog.lastImages.Main)
	assert.Len(t, catalog.lastImages.Additional, 1)

	// The session is gone after a successful submit.
	_, appErr = svc.Get(id)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestSubmitBlocksOnValidationErrors(t *testing.T) {
	catalog := &mockCatalog{}
	svc := NewFormService(catalog, nil, nil)

	view, _ := svc.OpenCreate(context.Background(), "staff-1")
	id := uuid.MustParse(view.ID)

	_, failedView, appErr := svc.Submit(context.Background(), id)

	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.NotEmpty(t, failedView.Errors)
	assert.Nil(t, catalog.lastCreate, "catalog must not be called on validation failure")
}

func TestSubmitFailurePreservesSession(t *testing.T) {
	catalog := &mockCatalog{createErr: errors.New("upstream 500")}
	svc := NewFormService(catalog, nil, nil)

	view, _ := svc.OpenCreate(context.Background(), "staff-1")
	id := uuid.MustParse(view.ID)
	fillValidForm(t, svc, id)

	_, failedView, appErr := svc.Submit(context.Background(), id)

	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Equal(t, "editing", failedView.State)
	assert.NotEmpty(t, failedView.DirtyPaths, "edits survive a failed submission")

	// Still addressable for a retry.
	_, getErr := svc.Get(id)
	assert.Nil(t, getErr)
}

func TestSubmitEditSendsMinimalPatch(t *testing.T) {
	catalog := &mockCatalog{
		fetched: map[string]any{
			"id":          "prod-1",
			"name":        "Wireless Mouse",
			"brand":       "Logitech",
			"description": "A comfortable wireless mouse with long battery life.",
			"category":    "electronics",
			"price":       "29.99",
			"features":    []any{"2.4GHz receiver"},
			"mainImage":   "https://cdn/img/main.jpg",
			"additionalImages": []any{
				"https://cdn/img/side.jpg",
			},
		},
		updated: map[string]any{"id": "prod-1", "name": "Ergo Mouse"},
	}
	svc := NewFormService(catalog, nil, nil)

	view, appErr := svc.OpenEdit(context.Background(), "prod-1")
	assert.Nil(t, appErr)
	id := uuid.MustParse(view.ID)

	_, appErr = svc.ApplyChange(id, "name", "Ergo Mouse")
	assert.Nil(t, appErr)

	result, _, appErr := svc.Submit(context.Background(), id)

	assert.Nil(t, appErr)
	assert.Equal(t, "prod-1", catalog.lastID)
	assert.Equal(t, map[string]any{"name": "Ergo Mouse", "id": "prod-1"}, catalog.lastPatch)
	assert.True(t, catalog.lastImages.Empty())
	assert.Equal(t, "Ergo Mouse", result["name"])
}

func TestSubmitEditNoChangesShortCircuits(t *testing.T) {
	catalog := &mockCatalog{
		fetched: map[string]any{
			"id":          "prod-1",
			"name":        "Wireless Mouse",
			"brand":       "Logitech",
			"description": "A comfortable wireless mouse with long battery life.",
			"category":    "electronics",
			"price":       "29.99",
			"features":    []any{"2.4GHz receiver"},
			"mainImage":   "https://cdn/img/main.jpg",
			"additionalImages": []any{
				"https://cdn/img/side.jpg",
			},
		},
	}
	svc := NewFormService(catalog, nil, nil)

	view, _ := svc.OpenEdit(context.Background(), "prod-1")
	id := uuid.MustParse(view.ID)

	result, _, appErr := svc.Submit(context.Background(), id)

	assert.Nil(t, appErr)
	assert.Empty(t, result)
	assert.Empty(t, catalog.lastID, "no network call for an empty patch")
}

func TestConcurrentRequestsOnOneSession(t *testing.T) {
	svc := NewFormService(&mockCatalog{}, nil, nil)
	view, _ := svc.OpenCreate(context.Background(), "staff-1")
	id := uuid.MustParse(view.ID)

	// Overlapping requests from one client: writers mutate the document
	// while readers serialize views of it.
	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if n%2 == 0 {
					_, appErr := svc.ApplyChange(id, "name", fmt.Sprintf("Lamp %d-%d", n, i))
					assert.Nil(t, appErr)
				} else {
					got, appErr := svc.Get(id)
					assert.Nil(t, appErr)
					_ = got.Value["name"]
					_ = got.DirtyPaths
				}
			}
		}(n)
	}
	wg.Wait()

	got, appErr := svc.Get(id)
	assert.Nil(t, appErr)
	name, _ := got.Value["name"].(string)
	assert.True(t, strings.HasPrefix(name, "Lamp "))
	assert.Contains(t, got.DirtyPaths, "name")
}

func TestAddTagConflict(t *testing.T) {
	svc := NewFormService(&mockCatalog{}, nil, nil)
	view, _ := svc.OpenCreate(context.Background(), "staff-1")
	id := uuid.MustParse(view.ID)

	_, appErr := svc.AddTag(id, "Electronics")
	assert.Nil(t, appErr)

	_, appErr = svc.AddTag(id, "electronics")
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
}
