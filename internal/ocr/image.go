package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"

	"github.com/agrostack/agridocs/internal/policy"
)

// PrepareImage returns a path safe to feed an OCR engine. Images within
// the dimension and file-size bounds pass through untouched. Oversized
// ones are downscaled aspect-preserving into a temporary PNG; the
// returned cleanup removes it.
func PrepareImage(path string) (string, func(), error) {
	noop := func() {}

	info, err := os.Stat(path)
	if err != nil {
		return "", noop, fmt.Errorf("stat image: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", noop, fmt.Errorf("open image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return "", noop, fmt.Errorf("decode image config: %w", err)
	}

	oversized := cfg.Width > policy.MaxImageDimensionPx ||
		cfg.Height > policy.MaxImageDimensionPx ||
		info.Size() > policy.MaxImageFileBytes
	if !oversized {
		return path, noop, nil
	}

	return downscale(path, cfg.Width, cfg.Height)
}

func downscale(path string, width, height int) (string, func(), error) {
	noop := func() {}

	f, err := os.Open(path)
	if err != nil {
		return "", noop, fmt.Errorf("open image: %w", err)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", noop, fmt.Errorf("decode image: %w", err)
	}

	scale := float64(policy.MaxImageDimensionPx) / float64(max(width, height))
	if scale >= 1 {
		scale = 0.5
	}
	dstW := int(float64(width) * scale)
	dstH := int(float64(height) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	tmp, err := os.CreateTemp("", "ocr-downscaled-*.png")
	if err != nil {
		return "", noop, fmt.Errorf("create temp image: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	if err := png.Encode(tmp, dst); err != nil {
		tmp.Close()
		cleanup()
		return "", noop, fmt.Errorf("encode downscaled image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("close temp image: %w", err)
	}
	return tmp.Name(), cleanup, nil
}
