package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stocknotes/internal/api"
	"stocknotes/internal/feature/notes/domain/entity"
	"stocknotes/internal/feature/notes/usecase"
)

// TagsUsecase はタグ操作のユースケースインターフェースを定義します。
type TagsUsecase interface {
	ListTags(ctx context.Context) ([]entity.Tag, error)
	SearchTags(ctx context.Context, query string) ([]entity.Tag, error)
	SuggestedTags(ctx context.Context, limit int) ([]entity.Tag, error)
	AddTagToNote(ctx context.Context, noteID, tagName string) error
	RemoveTagFromNote(ctx context.Context, noteID, tagName string) error
	DeleteTag(ctx context.Context, name string) error
}

// TagHandler はタグのHTTPリクエストを処理します。
type TagHandler struct {
	tags  TagsUsecase
	notes NotesUsecase
}

// NewTagHandler はTagHandlerの新しいインスタンスを生成します。
func NewTagHandler(tags TagsUsecase, notes NotesUsecase) *TagHandler {
	return &TagHandler{tags: tags, notes: notes}
}

// List は全タグをノート数付きで返します。
//
// エンドポイント: GET /tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.ListTags(c.Request.Context())
	if err != nil {
		writeTagError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTagResponses(tags))
}

// Search はタグを部分一致で検索します。
//
// エンドポイント: GET /tags/search?q=earn
func (h *TagHandler) Search(c *gin.Context) {
	tags, err := h.tags.SearchTags(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeTagError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTagResponses(tags))
}

// Suggested は利用頻度の高いタグを返します。
//
// エンドポイント: GET /tags/suggested?limit=5
func (h *TagHandler) Suggested(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}
	tags, err := h.tags.SuggestedTags(c.Request.Context(), limit)
	if err != nil {
		writeTagError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTagResponses(tags))
}

// Delete はタグを全ノートから外して削除します。
//
// エンドポイント: DELETE /tags/:name
func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.tags.DeleteTag(c.Request.Context(), c.Param("name")); err != nil {
		writeTagError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddToNote はノートにタグを付与します。タグは初回使用時に作成されます。
//
// エンドポイント: POST /notes/:id/tags
func (h *TagHandler) AddToNote(c *gin.Context) {
	var req api.AddTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	if err := h.tags.AddTagToNote(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		writeTagError(c, err)
		return
	}
	note, err := h.notes.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTagError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(note))
}

// RemoveFromNote はノートからタグを外します。タグ自体は残ります。
//
// エンドポイント: DELETE /notes/:id/tags/:name
func (h *TagHandler) RemoveFromNote(c *gin.Context) {
	if err := h.tags.RemoveTagFromNote(c.Request.Context(), c.Param("id"), c.Param("name")); err != nil {
		writeTagError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeTagError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNoteNotFound), errors.Is(err, usecase.ErrTagNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("tag operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func toTagResponses(tags []entity.Tag) []api.TagResponse {
	out := make([]api.TagResponse, 0, len(tags))
	for _, tag := range tags {
		out = append(out, api.TagResponse{Name: tag.Name, NoteCount: tag.NoteCount})
	}
	return out
}
