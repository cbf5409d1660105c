// Package export はノートのHTMLドキュメント出力を提供します。
package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"stocknotes/internal/feature/notes/domain/entity"
	"stocknotes/internal/feature/notes/usecase"
)

const dateFormat = "2006-01-02 15:04"

// HTMLRenderer はノート本文をMarkdownとして解釈し、単一のスタンドアロン
// HTMLドキュメントに変換します。
type HTMLRenderer struct {
	md goldmark.Markdown
}

var _ usecase.DocumentRenderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer はGFM拡張を有効にしたHTMLRendererを生成します。
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render はノート一覧をHTMLドキュメントに変換します。
// ノートは渡された順序のまま出力されます。
func (r *HTMLRenderer) Render(notes []entity.Note, title string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("<style>\n")
	buf.WriteString("body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }\n")
	buf.WriteString("article { border-bottom: 1px solid #ddd; padding: 1rem 0; }\n")
	buf.WriteString(".meta { color: #666; font-size: 0.85rem; }\n")
	buf.WriteString(".tag { background: #eef; border-radius: 3px; padding: 0 0.3rem; margin-right: 0.3rem; }\n")
	buf.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(title))

	for _, note := range notes {
		buf.WriteString("<article>\n")
		if err := r.writeHeader(&buf, note); err != nil {
			return nil, err
		}
		if err := r.md.Convert([]byte(note.Content), &buf); err != nil {
			return nil, fmt.Errorf("render note %s: %w", note.ID, err)
		}
		buf.WriteString("</article>\n")
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// writeHeader はノートのメタ情報行（日付・銘柄・確信度・センチメント・タグ）を出力します。
func (r *HTMLRenderer) writeHeader(buf *bytes.Buffer, note entity.Note) error {
	parts := []string{note.CreatedDate.Format(dateFormat)}
	if note.SymbolTicker != nil {
		parts = append(parts, html.EscapeString(*note.SymbolTicker))
	}
	if note.Sentiment != nil {
		parts = append(parts, html.EscapeString(note.Sentiment.DisplayName()))
	}
	if note.Conviction != nil {
		parts = append(parts, fmt.Sprintf("Conviction %d/10", *note.Conviction))
	}
	fmt.Fprintf(buf, "<p class=\"meta\">%s</p>\n", strings.Join(parts, " &middot; "))

	if len(note.Tags) > 0 {
		buf.WriteString("<p class=\"meta\">")
		for _, tag := range note.Tags {
			fmt.Fprintf(buf, "<span class=\"tag\">%s</span>", html.EscapeString(tag.Name))
		}
		buf.WriteString("</p>\n")
	}
	return nil
}
