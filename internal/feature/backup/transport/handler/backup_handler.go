// Package handler はbackupフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocknotes/internal/api"
	"stocknotes/internal/feature/backup/usecase"
)

// maxImportBytes は受け付けるバックアップファイルの上限サイズです。
// 画像がbase64で含まれるため余裕を持たせています。
const maxImportBytes = 64 << 20

// BackupUsecase はバックアップ操作のユースケースインターフェースを定義します。
type BackupUsecase interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (usecase.ImportResult, error)
}

// BackupHandler はバックアップのHTTPリクエストを処理します。
type BackupHandler struct {
	backup BackupUsecase
}

// NewBackupHandler はBackupHandlerの新しいインスタンスを生成します。
func NewBackupHandler(backup BackupUsecase) *BackupHandler {
	return &BackupHandler{backup: backup}
}

// Export は全データをJSONドキュメントとして出力します。
//
// エンドポイント: GET /backup/export
func (h *BackupHandler) Export(c *gin.Context) {
	data, err := h.backup.Export(c.Request.Context())
	if err != nil {
		slog.Error("backup export failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="stocknotes-backup.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import はバックアップJSONを取り込み、既存データを全置換します。
//
// エンドポイント: POST /backup/import
func (h *BackupHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "failed to read request body"})
		return
	}

	result, err := h.backup.Import(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidBackup) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("backup import failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "import failed"})
		return
	}

	c.JSON(http.StatusOK, api.ImportResultResponse{
		Symbols:     result.Symbols,
		Tags:        result.Tags,
		Notes:       result.Notes,
		DroppedRefs: result.DroppedRefs,
	})
}
