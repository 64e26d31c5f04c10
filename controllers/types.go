package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/apperrors"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/services"
)

// FormServiceAPI defines the interface for form session operations.
type FormServiceAPI interface {
	OpenCreate(ctx context.Context, staffID string) (*services.FormView, *apperrors.Error)
	OpenEdit(ctx context.Context, productID string) (*services.FormView, *apperrors.Error)
	Get(id uuid.UUID) (*services.FormView, *apperrors.Error)
	ApplyChange(id uuid.UUID, field string, value any) (*services.FormView, *apperrors.Error)
	AddTag(id uuid.UUID, tag string) (*services.FormView, *apperrors.Error)
	RemoveTag(id uuid.UUID, tag string) (*services.FormView, *apperrors.Error)
	AddFeature(id uuid.UUID, feature string) (*services.FormView, *apperrors.Error)
	RemoveFeature(id uuid.UUID, index int) (*services.FormView, *apperrors.Error)
	AddKeyword(id uuid.UUID, keyword string) (*services.FormView, *apperrors.Error)
	RemoveKeyword(id uuid.UUID, index int) (*services.FormView, *apperrors.Error)
	SetSpecifications(id uuid.UUID, specs map[string]string) (*services.FormView, *apperrors.Error)
	AddVariant(id uuid.UUID, variant map[string]any) (*services.FormView, *apperrors.Error)
	UpdateVariant(id uuid.UUID, index int, field string, value any) (*services.FormView, *apperrors.Error)
	RemoveVariant(id uuid.UUID, index int) (*services.FormView, *apperrors.Error)
	UploadImage(id uuid.UUID, slot string, upload models.Upload) (*services.FormView, *apperrors.Error)
	RemoveImage(id uuid.UUID, slot string, index int) (*services.FormView, *apperrors.Error)
	Validate(id uuid.UUID, step int, allSteps bool) (*services.FormView, bool, *apperrors.Error)
	Reset(id uuid.UUID) (*services.FormView, *apperrors.Error)
	Submit(ctx context.Context, id uuid.UUID) (map[string]any, *services.FormView, *apperrors.Error)
	Discard(id uuid.UUID) *apperrors.Error
}

// Request DTOs

type OpenFormRequest struct {
	Mode      string `json:"mode" validate:"required,oneof=create edit"`
	ProductID string `json:"productId" validate:"required_if=Mode edit"`
}

type FieldChangeRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

type TagRequest struct {
	Tag string `json:"tag" validate:"required"`
}

type FeatureRequest struct {
	Feature string `json:"feature" validate:"required"`
}

type KeywordRequest struct {
	Keyword string `json:"keyword" validate:"required"`
}

type SpecificationsRequest struct {
	Specifications map[string]string `json:"specifications" validate:"required"`
}

type VariantRequest struct {
	Variant map[string]any `json:"variant" validate:"required"`
}

type VariantFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

type ValidateRequest struct {
	Step int  `json:"step"`
	All  bool `json:"all"`
}
