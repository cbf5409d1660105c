// Package handler はnotesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stocknotes/internal/api"
	"stocknotes/internal/feature/notes/domain/entity"
	"stocknotes/internal/feature/notes/usecase"
)

// NotesUsecase はノート操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type NotesUsecase interface {
	CreateNote(ctx context.Context, p usecase.CreateNoteParams) (*entity.Note, error)
	UpdateContent(ctx context.Context, id, content string) (*entity.Note, error)
	SaveNow(ctx context.Context, id string) (*entity.Note, error)
	SetConviction(ctx context.Context, id string, conviction *int) (*entity.Note, error)
	SetSentiment(ctx context.Context, id string, sentiment *entity.Sentiment) (*entity.Note, error)
	AttachImage(ctx context.Context, id string, raw []byte) (*entity.Note, error)
	RemoveImage(ctx context.Context, id string, index int) (*entity.Note, error)
	GetNote(ctx context.Context, id string) (*entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context) ([]entity.Note, error)
	RecentNotes(ctx context.Context, limit int) ([]entity.Note, error)
	SearchNotes(ctx context.Context, query string) ([]entity.Note, error)
	NotesForSymbol(ctx context.Context, ticker string) ([]entity.Note, error)
	NotesForTag(ctx context.Context, tagName string) ([]entity.Note, error)
	CountNotes(ctx context.Context) (int64, error)
	CountNotesThisMonth(ctx context.Context) (int64, error)
	SuggestSentiment(text string) *entity.Sentiment
}

// NoteHandler はノートのHTTPリクエストを処理します。
type NoteHandler struct {
	notes NotesUsecase
}

// NewNoteHandler はNoteHandlerの新しいインスタンスを生成します。
func NewNoteHandler(notes NotesUsecase) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// Create は新規ノートを作成します。
//
// エンドポイント: POST /notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req api.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	p := usecase.CreateNoteParams{
		Content:      req.Content,
		SymbolTicker: req.SymbolTicker,
		Conviction:   req.Conviction,
	}
	if req.Sentiment != nil {
		s := entity.Sentiment(*req.Sentiment)
		p.Sentiment = &s
	}

	note, err := h.notes.CreateNote(c.Request.Context(), p)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toNoteResponse(note))
}

// List はノート一覧を返します。クエリパラメータで絞り込みます。
//
// エンドポイント: GET /notes?limit=10 / ?symbol=AAPL / ?tag=earnings
func (h *NoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		notes []entity.Note
		err   error
	)
	switch {
	case c.Query("symbol") != "":
		notes, err = h.notes.NotesForSymbol(ctx, c.Query("symbol"))
	case c.Query("tag") != "":
		notes, err = h.notes.NotesForTag(ctx, c.Query("tag"))
	case c.Query("limit") != "":
		limit, convErr := strconv.Atoi(c.Query("limit"))
		if convErr != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid limit"})
			return
		}
		notes, err = h.notes.RecentNotes(ctx, limit)
	default:
		notes, err = h.notes.ListNotes(ctx)
	}
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponses(notes))
}

// Search はノートを全文検索します。
//
// エンドポイント: GET /notes/search?q=thesis
func (h *NoteHandler) Search(c *gin.Context) {
	notes, err := h.notes.SearchNotes(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponses(notes))
}

// Stats はノートの件数統計を返します。
//
// エンドポイント: GET /notes/stats
func (h *NoteHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.notes.CountNotes(ctx)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	month, err := h.notes.CountNotesThisMonth(ctx)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NoteStatsResponse{Total: total, ThisMonth: month})
}

// Get は単一ノートを返します。
//
// エンドポイント: GET /notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.notes.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(note))
}

// UpdateContent は本文を更新します。永続化はデバウンスされ、エンドポイントは
// 更新後の状態を即座に返します。
//
// エンドポイント: PATCH /notes/:id
func (h *NoteHandler) UpdateContent(c *gin.Context) {
	var req api.UpdateNoteContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	note, err := h.notes.UpdateContent(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(note))
}

// Save は保留中の編集を即時に永続化します。
//
// エンドポイント: POST /notes/:id/save
func (h *NoteHandler) Save(c *gin.Context) {
	note, err := h.notes.SaveNow(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(note))
}

// SetConviction は確信度（1〜10）を設定またはクリアします。
//
// エンドポイント: PUT /notes/:id/conviction
func (h *NoteHandler) SetConviction(c *gin.Context) {
	var req api.SetConvictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	note, err := h.notes.SetConviction(c.Request.Context(), c.Param("id"), req.Conviction)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(note))
}

// SetSentiment はセンチメントを設定またはクリアします。
//
// エンドポイント: PUT /notes/:id/sentiment
func (h *NoteHandler) SetSentiment(c *gin.Context) {
	var req api.SetSentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	var sentiment *entity.Sentiment
	if req.Sentiment != nil {
		s := entity.Sentiment(*req.Sentiment)
		sentiment = &s
	}
	note, err := h.notes.SetSentiment(c.Request.Context(), c.Param("id"), sentiment)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(note))
}

// SuggestSentiment は本文のキーワードからセンチメントを推定します。
//
// エンドポイント: POST /notes/suggest-sentiment
func (h *NoteHandler) SuggestSentiment(c *gin.Context) {
	var req api.SuggestSentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	var out api.SentimentSuggestionResponse
	if s := h.notes.SuggestSentiment(req.Content); s != nil {
		v := string(*s)
		out.Sentiment = &v
	}
	c.JSON(http.StatusOK, out)
}

// AttachImage はノートに画像を添付します。
//
// エンドポイント: POST /notes/:id/images
// Content-Type: multipart/form-data、フィールド: image
func (h *NoteHandler) AttachImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "image file required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	raw, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
		return
	}

	note, err := h.notes.AttachImage(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toNoteResponse(note))
}

// GetImage は添付画像をJPEGとして返します。
//
// エンドポイント: GET /notes/:id/images/:index
func (h *NoteHandler) GetImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid image index"})
		return
	}
	note, err := h.notes.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeNoteError(c, err)
		return
	}
	if index >= len(note.Images) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "image not found"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", note.Images[index])
}

// RemoveImage は指定位置の添付画像を削除します。
//
// エンドポイント: DELETE /notes/:id/images/:index
func (h *NoteHandler) RemoveImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid image index"})
		return
	}
	note, err := h.notes.RemoveImage(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(note))
}

// Delete はノートを削除します。
//
// エンドポイント: DELETE /notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.notes.DeleteNote(c.Request.Context(), c.Param("id")); err != nil {
		writeNoteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeNoteError はユースケースエラーをHTTPステータスに対応付けます。
func writeNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNoteNotFound), errors.Is(err, usecase.ErrTagNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidConviction),
		errors.Is(err, usecase.ErrInvalidSentiment),
		errors.Is(err, usecase.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrImageLimitReached):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("note operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func toNoteResponse(note *entity.Note) api.NoteResponse {
	tags := make([]string, 0, len(note.Tags))
	for _, tag := range note.Tags {
		tags = append(tags, tag.Name)
	}

	out := api.NoteResponse{
		ID:             note.ID,
		Content:        note.Content,
		SymbolTicker:   note.SymbolTicker,
		Conviction:     note.Conviction,
		Tags:           tags,
		ImageCount:     len(note.Images),
		IsSnap:         note.IsSnap,
		CreatedDate:    note.CreatedDate.UTC().Format(time.RFC3339),
		LastEditedDate: note.LastEditedDate.UTC().Format(time.RFC3339),
	}
	if note.Sentiment != nil {
		s := string(*note.Sentiment)
		out.Sentiment = &s
	}
	return out
}

func toNoteResponses(notes []entity.Note) []api.NoteResponse {
	out := make([]api.NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, toNoteResponse(&notes[i]))
	}
	return out
}
