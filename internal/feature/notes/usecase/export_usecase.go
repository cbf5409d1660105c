package usecase

import (
	"context"
	"fmt"
	"strings"

	"stocknotes/internal/feature/notes/domain/entity"
)

// DocumentRenderer はノート列とタイトルから単一のドキュメントを生成します。
// 生成されるバイト列の形式（HTML、PDFなど）は実装に委ねられます。
type DocumentRenderer interface {
	Render(notes []entity.Note, title string) ([]byte, error)
}

// ExportUsecase はノートのドキュメント書き出しユースケースを定義します。
type ExportUsecase struct {
	notes    NoteRepository
	renderer DocumentRenderer
}

// NewExportUsecase はExportUsecaseの新しいインスタンスを生成します。
func NewExportUsecase(notes NoteRepository, renderer DocumentRenderer) *ExportUsecase {
	return &ExportUsecase{notes: notes, renderer: renderer}
}

// ExportAllNotes は全ノートを1つのドキュメントとして書き出します。
func (eu *ExportUsecase) ExportAllNotes(ctx context.Context) ([]byte, error) {
	notes, err := eu.notes.List(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := eu.renderer.Render(notes, "All Stock Notes")
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return doc, nil
}

// ExportNotesForSymbol は指定ティッカーのノートをドキュメントとして書き出します。
func (eu *ExportUsecase) ExportNotesForSymbol(ctx context.Context, ticker string) ([]byte, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	notes, err := eu.notes.ForSymbol(ctx, ticker)
	if err != nil {
		return nil, err
	}
	doc, err := eu.renderer.Render(notes, fmt.Sprintf("%s - Stock Notes", ticker))
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return doc, nil
}
