package services

import (
	"context"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/diff"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/formstate"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
)

// Catalog is the slice of the catalog REST API the form service needs.
type Catalog interface {
	FetchProduct(ctx context.Context, id string) (map[string]any, error)
	CreateProduct(ctx context.Context, product map[string]any, images diff.ImageChanges) (map[string]any, error)
	UpdateProduct(ctx context.Context, id string, patch map[string]any, images diff.ImageChanges) (map[string]any, error)
}

// FormView is the session state returned to the admin UI after every
// operation.
type FormView struct {
	ID               string             `json:"id"`
	Mode             string             `json:"mode"`
	State            string             `json:"state"`
	Value            map[string]any     `json:"value"`
	DirtyPaths       []string           `json:"dirtyPaths"`
	Errors           map[string]string  `json:"errors"`
	Warnings         map[string]string  `json:"warnings"`
	MainImage        []models.ImageSlot `json:"mainImage"`
	AdditionalImages []models.ImageSlot `json:"additionalImages"`
}

func viewOf(sess *formstate.Session) *FormView {
	return &FormView{
		ID:               sess.ID.String(),
		Mode:             string(sess.Mode),
		State:            string(sess.State()),
		Value:            sess.Value(),
		DirtyPaths:       sess.DirtyPaths(),
		Errors:           sess.Errors(),
		Warnings:         sess.Warnings(),
		MainImage:        sess.MainImage(),
		AdditionalImages: sess.AdditionalImages(),
	}
}
