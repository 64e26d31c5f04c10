package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/apperrors"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/middleware"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/models"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/services"
)

// FormController exposes the product-form engine over HTTP for the
// admin SPA.
type FormController struct {
	service   FormServiceAPI
	validator *RequestValidator
}

func NewFormController(service FormServiceAPI) *FormController {
	return &FormController{
		service:   service,
		validator: NewRequestValidator(),
	}
}

// OpenForm starts a new form session: create mode from defaults plus
// any autosaved draft, edit mode from the fetched product.
func (fc *FormController) OpenForm(c *gin.Context) {
	var req OpenFormRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var view any
	var appErr *apperrors.Error
	if req.Mode == string(models.ModeEdit) {
		view, appErr = fc.service.OpenEdit(c.Request.Context(), req.ProductID)
	} else {
		staffID := c.GetString(middleware.UserContextKey)
		view, appErr = fc.service.OpenCreate(c.Request.Context(), staffID)
	}
	if appErr != nil {
		handleAppError(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetForm returns the session's current state.
func (fc *FormController) GetForm(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, appErr := fc.service.Get(id)
	if appErr != nil {
		handleAppError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ChangeField applies one generic field mutation.
func (fc *FormController) ChangeField(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req FieldChangeRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.ApplyChange(id, req.Field, req.Value)
	})
}

func (fc *FormController) AddTag(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req TagRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.AddTag(id, req.Tag)
	})
}

func (fc *FormController) RemoveTag(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.RemoveTag(id, c.Param("tag"))
	})
}

func (fc *FormController) AddFeature(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req FeatureRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.AddFeature(id, req.Feature)
	})
}

func (fc *FormController) RemoveFeature(c *gin.Context) {
	fc.removeAt(c, fc.service.RemoveFeature)
}

func (fc *FormController) AddKeyword(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req KeywordRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.AddKeyword(id, req.Keyword)
	})
}

func (fc *FormController) RemoveKeyword(c *gin.Context) {
	fc.removeAt(c, fc.service.RemoveKeyword)
}

// SetSpecifications replaces the specifications map wholesale.
func (fc *FormController) SetSpecifications(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req SpecificationsRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.SetSpecifications(id, req.Specifications)
	})
}

func (fc *FormController) AddVariant(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req VariantRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.AddVariant(id, req.Variant)
	})
}

func (fc *FormController) UpdateVariant(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	var req VariantFieldRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.UpdateVariant(id, index, req.Field, req.Value)
	})
}

func (fc *FormController) RemoveVariant(c *gin.Context) {
	fc.removeAt(c, fc.service.RemoveVariant)
}

// UploadImage accepts a multipart upload into the "main" or
// "additional" slot.
func (fc *FormController) UploadImage(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	slot := c.PostForm("slot")
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if !fc.validator.IsValidImageType(file) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image type. Allowed: jpeg, jpg, png, webp, gif"})
		return
	}
	if err := fc.validator.ValidateFileSize(file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	upload := models.Upload{
		Name:        file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.UploadImage(id, slot, upload)
	})
}

func (fc *FormController) RemoveImage(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	index := 0
	if raw := c.Param("index"); raw != "" {
		i, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
			return
		}
		index = i
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.RemoveImage(id, c.Param("slot"), index)
	})
}

// ValidateStep runs the rules for one section or all of them; a failing
// result blocks step navigation in the UI.
func (fc *FormController) ValidateStep(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req ValidateRequest
	if err := fc.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, valid, appErr := fc.service.Validate(id, req.Step, req.All)
	if appErr != nil {
		handleAppError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid, "form": view})
}

// ResetForm rolls the session back to its loaded snapshot.
func (fc *FormController) ResetForm(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return fc.service.Reset(id)
	})
}

// SubmitForm validates everything and sends the change set to the
// catalog. Validation failures come back with the field error map so
// the UI can surface them; the session survives submission failures
// with its edits intact.
func (fc *FormController) SubmitForm(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	result, view, appErr := fc.service.Submit(c.Request.Context(), id)
	if appErr != nil {
		if view != nil {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message, "form": view})
			return
		}
		handleAppError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": result})
}

// DiscardForm drops the session; any autosaved draft is kept.
func (fc *FormController) DiscardForm(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if appErr := fc.service.Discard(id); appErr != nil {
		handleAppError(c, appErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// respond runs op and writes the resulting view or error.
func (fc *FormController) respond(c *gin.Context, op func() (any, *apperrors.Error)) {
	view, appErr := op()
	if appErr != nil {
		handleAppError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (fc *FormController) removeAt(c *gin.Context, op func(uuid.UUID, int) (*services.FormView, *apperrors.Error)) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	fc.respond(c, func() (any, *apperrors.Error) {
		return op(id, index)
	})
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return uuid.Nil, false
	}
	return id, true
}

func handleAppError(c *gin.Context, appErr *apperrors.Error) {
	if appErr.Code >= http.StatusInternalServerError {
		zap.L().Error("Service error", zap.Error(appErr))
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
