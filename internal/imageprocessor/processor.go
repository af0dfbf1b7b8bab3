package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	startQuality    = 95
	minQuality      = 10
	qualityStep     = 5
	fallbackQuality = 50
)

// imageExtensions - форматы, которые умеем декодировать и пережимать
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Processor пережимает изображения в JPEG, чтобы уложиться в лимит размера
type Processor struct {
	quality int // JPEG quality для попыток с уменьшением (1-100)
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85 // Default quality
	}
	return &Processor{
		quality: quality,
	}
}

// IsImageExtension проверяет расширение без учета регистра
func IsImageExtension(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// JPEGFilename меняет расширение на .jpg
func JPEGFilename(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
}

// CompressToFit пережимает изображение в JPEG не больше maxSize байт:
// сначала снижает качество с 95 с шагом 5 (пока > 10), затем уменьшает размер
// 0.9, 0.8, ... 0.4 при фиксированном качестве. Если не помогло, отдает
// последний уменьшенный вариант с качеством 50.
func (p *Processor) CompressToFit(data []byte, maxSize int64) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img := flatten(src)

	for quality := startQuality; quality > minQuality; quality -= qualityStep {
		out, err := encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if int64(len(out)) <= maxSize {
			return out, nil
		}
	}

	var resized image.Image = img
	for tenths := 9; tenths >= 3; tenths-- {
		resized = p.scale(img, float64(tenths)/10)
		out, err := encodeJPEG(resized, p.quality)
		if err != nil {
			return nil, err
		}
		if int64(len(out)) <= maxSize {
			return out, nil
		}
	}

	return encodeJPEG(resized, fallbackQuality)
}

// flatten кладет изображение на белый фон, JPEG не умеет прозрачность
func flatten(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}

// scale уменьшает изображение пропорционально
func (p *Processor) scale(img image.Image, factor float64) image.Image {
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * factor)
	height := int(float64(bounds.Dy()) * factor)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
