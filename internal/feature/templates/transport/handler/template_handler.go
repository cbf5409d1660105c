// Package handler はtemplatesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stocknotes/internal/api"
	"stocknotes/internal/feature/templates/domain/entity"
	"stocknotes/internal/feature/templates/usecase"
)

// TemplatesUsecase はテンプレート操作のユースケースインターフェースを定義します。
type TemplatesUsecase interface {
	AvailableTemplates() []entity.TemplateType
	FieldsFor(t entity.TemplateType) ([]entity.TemplateField, error)
	CreateTemplateData(ctx context.Context, noteID *string, values entity.TemplateValues) (*entity.TemplateData, error)
	GetTemplateData(ctx context.Context, id string) (*entity.TemplateData, error)
	TemplateDataForNote(ctx context.Context, noteID string) (*entity.TemplateData, error)
	DeleteTemplateData(ctx context.Context, id string) error
}

// TemplateHandler はテンプレートのHTTPリクエストを処理します。
type TemplateHandler struct {
	templates TemplatesUsecase
}

// NewTemplateHandler はTemplateHandlerの新しいインスタンスを生成します。
func NewTemplateHandler(templates TemplatesUsecase) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List は利用可能なテンプレート種別とフィールドスキーマを返します。
//
// エンドポイント: GET /templates
func (h *TemplateHandler) List(c *gin.Context) {
	types := h.templates.AvailableTemplates()
	out := make([]api.TemplateTypeResponse, 0, len(types))
	for _, t := range types {
		fields, err := h.templates.FieldsFor(t)
		if err != nil {
			writeTemplateError(c, err)
			return
		}
		resp := api.TemplateTypeResponse{
			Type:        string(t),
			DisplayName: t.DisplayName(),
			Fields:      make([]api.TemplateFieldResponse, 0, len(fields)),
		}
		for _, f := range fields {
			resp.Fields = append(resp.Fields, api.TemplateFieldResponse{
				Name:  f.Name,
				Label: f.Label,
				Type:  string(f.Type),
			})
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

// Create はテンプレートへの記入内容を保存します。
// valuesは種別ごとのフィールドスキーマに一致している必要があります。
//
// エンドポイント: POST /template-data
func (h *TemplateHandler) Create(c *gin.Context) {
	var req api.CreateTemplateDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	templateType := entity.TemplateType(req.TemplateType)
	if !templateType.Valid() {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown template type"})
		return
	}
	values, err := entity.DecodeValues(templateType, req.Values)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "values do not match template schema"})
		return
	}

	data, err := h.templates.CreateTemplateData(c.Request.Context(), req.NoteID, values)
	if err != nil {
		writeTemplateError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTemplateDataResponse(data))
}

// Get は保存済みのテンプレートデータを返します。
//
// エンドポイント: GET /template-data/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	data, err := h.templates.GetTemplateData(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTemplateError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTemplateDataResponse(data))
}

// ForNote はノートに紐づくテンプレートデータを返します。
//
// エンドポイント: GET /notes/:id/template
func (h *TemplateHandler) ForNote(c *gin.Context) {
	data, err := h.templates.TemplateDataForNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTemplateError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTemplateDataResponse(data))
}

// Delete はテンプレートデータを削除します。ノート本体は残ります。
//
// エンドポイント: DELETE /template-data/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.DeleteTemplateData(c.Request.Context(), c.Param("id")); err != nil {
		writeTemplateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrTemplateDataNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrUnknownTemplateType):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("template operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func toTemplateDataResponse(data *entity.TemplateData) api.TemplateDataResponse {
	return api.TemplateDataResponse{
		ID:           data.ID,
		TemplateType: string(data.TemplateType),
		NoteID:       data.NoteID,
		CreatedDate:  data.CreatedDate.UTC().Format(time.RFC3339),
		Values:       data.FieldData,
	}
}
