// Package imaging は添付画像のリサイズとJPEG再圧縮を提供します。
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// DefaultMaxDimension は長辺のピクセル上限です。
	DefaultMaxDimension = 1200
	// DefaultMaxBytes は圧縮後のサイズ上限です。
	DefaultMaxBytes = 500 * 1024

	initialQuality = 85
	minQuality     = 40
	qualityStep    = 15
)

// Processor は画像を保存用に正規化します。長辺がmaxDimensionを超える場合は
// アスペクト比を保ったまま縮小し、JPEGとして再圧縮します。maxBytesに収まる
// まで品質を段階的に下げます。
type Processor struct {
	maxDimension int
	maxBytes     int
}

// NewProcessor はProcessorを生成します。
// maxDimensionが0以下の場合は1200、maxBytesが0以下の場合は500KiBを使用します。
func NewProcessor(maxDimension, maxBytes int) *Processor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Processor{maxDimension: maxDimension, maxBytes: maxBytes}
}

// Process は画像をデコードし、縮小・再圧縮したバイト列を返します。
// デコードできない入力にはエラーを返します。
func (p *Processor) Process(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	src = p.scaleDown(src)

	for q := initialQuality; ; q -= qualityStep {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: q}); err != nil {
			return nil, fmt.Errorf("encode image: %w", err)
		}
		if buf.Len() <= p.maxBytes || q-qualityStep < minQuality {
			return buf.Bytes(), nil
		}
	}
}

// scaleDown は長辺がmaxDimension以下になるよう縮小します。
// 既に収まっている場合は入力をそのまま返します。
func (p *Processor) scaleDown(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= p.maxDimension {
		return src
	}

	scale := float64(p.maxDimension) / float64(longest)
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
