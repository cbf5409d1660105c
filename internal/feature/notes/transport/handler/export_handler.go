package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocknotes/internal/api"
)

// ExportsUsecase はノートのドキュメント出力ユースケースを定義します。
type ExportsUsecase interface {
	ExportAllNotes(ctx context.Context) ([]byte, error)
	ExportNotesForSymbol(ctx context.Context, ticker string) ([]byte, error)
}

// ExportHandler はノートのHTMLドキュメント出力を処理します。
type ExportHandler struct {
	exports ExportsUsecase
}

// NewExportHandler はExportHandlerの新しいインスタンスを生成します。
func NewExportHandler(exports ExportsUsecase) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Notes はノートをHTMLドキュメントとして出力します。
// ?ticker= を指定すると対象銘柄のノートのみを含めます。
//
// エンドポイント: GET /export/notes
func (h *ExportHandler) Notes(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		doc []byte
		err error
	)
	if ticker := c.Query("ticker"); ticker != "" {
		doc, err = h.exports.ExportNotesForSymbol(ctx, ticker)
	} else {
		doc, err = h.exports.ExportAllNotes(ctx)
	}
	if err != nil {
		slog.Error("note export failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "export failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}
