package router

import (
	backuphandler "stocknotes/internal/feature/backup/transport/handler"
	noteshandler "stocknotes/internal/feature/notes/transport/handler"
	symbolshandler "stocknotes/internal/feature/symbols/transport/handler"
	targetshandler "stocknotes/internal/feature/targets/transport/handler"
	templateshandler "stocknotes/internal/feature/templates/transport/handler"
	platformhandler "stocknotes/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

// Handlers は全フィーチャーのHTTPハンドラーをまとめたルーター入力です。
type Handlers struct {
	Notes     *noteshandler.NoteHandler
	Tags      *noteshandler.TagHandler
	Exports   *noteshandler.ExportHandler
	Symbols   *symbolshandler.SymbolHandler
	Targets   *targetshandler.TargetHandler
	Templates *templateshandler.TemplateHandler
	Backup    *backuphandler.BackupHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	notes := r.Group("/notes")
	{
		notes.POST("", h.Notes.Create)
		notes.GET("", h.Notes.List)
		notes.GET("/search", h.Notes.Search)
		notes.GET("/stats", h.Notes.Stats)
		notes.POST("/suggest-sentiment", h.Notes.SuggestSentiment)
		notes.GET("/:id", h.Notes.Get)
		notes.PATCH("/:id", h.Notes.UpdateContent)
		notes.DELETE("/:id", h.Notes.Delete)
		notes.POST("/:id/save", h.Notes.Save)
		notes.PUT("/:id/conviction", h.Notes.SetConviction)
		notes.PUT("/:id/sentiment", h.Notes.SetSentiment)
		notes.POST("/:id/images", h.Notes.AttachImage)
		notes.GET("/:id/images/:index", h.Notes.GetImage)
		notes.DELETE("/:id/images/:index", h.Notes.RemoveImage)
		notes.POST("/:id/tags", h.Tags.AddToNote)
		notes.DELETE("/:id/tags/:name", h.Tags.RemoveFromNote)
		notes.GET("/:id/template", h.Templates.ForNote)
	}

	tags := r.Group("/tags")
	{
		tags.GET("", h.Tags.List)
		tags.GET("/search", h.Tags.Search)
		tags.GET("/suggested", h.Tags.Suggested)
		tags.DELETE("/:name", h.Tags.Delete)
	}

	symbols := r.Group("/symbols")
	{
		symbols.GET("", h.Symbols.List)
		symbols.POST("", h.Symbols.Create)
		symbols.POST("/refresh", h.Symbols.RefreshAll)
		symbols.GET("/search", h.Symbols.Search)
		symbols.GET("/:ticker", h.Symbols.Get)
		symbols.DELETE("/:ticker", h.Symbols.Delete)
		symbols.POST("/:ticker/refresh", h.Symbols.Refresh)
		symbols.GET("/:ticker/targets/stats", h.Targets.Stats)
	}

	// 現在価格を刻んだスナップノート
	r.POST("/snaps", h.Symbols.Snap)

	targets := r.Group("/targets")
	{
		targets.POST("", h.Targets.Create)
		targets.GET("", h.Targets.List)
		targets.GET("/:id", h.Targets.Get)
		targets.PATCH("/:id", h.Targets.Update)
		targets.DELETE("/:id", h.Targets.Delete)
	}

	r.GET("/templates", h.Templates.List)
	r.POST("/template-data", h.Templates.Create)
	r.GET("/template-data/:id", h.Templates.Get)
	r.DELETE("/template-data/:id", h.Templates.Delete)

	r.GET("/backup/export", h.Backup.Export)
	r.POST("/backup/import", h.Backup.Import)

	r.GET("/export/notes", h.Exports.Notes)

	return r
}
