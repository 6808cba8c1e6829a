package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// maxLogoBytes bounds the logo download.
const maxLogoBytes = 5 << 20

// FitToPage scales a w×h bitmap to pageWidth keeping its aspect ratio. When
// the scaled height exceeds pageHeight the height is clamped and the width
// shrinks to match. Zero or negative dimensions return ErrPageRender.
func FitToPage(w, h int, pageWidth, pageHeight float64) (float64, float64, error) {
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: empty canvas %dx%d", ErrPageRender, w, h)
	}
	width := pageWidth
	height := pageWidth * float64(h) / float64(w)
	if height > pageHeight {
		height = pageHeight
		width = pageHeight * float64(w) / float64(h)
	}
	return width, height, nil
}

// LogoDimensions reads the pixel size of an encoded logo without decoding it.
func LogoDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("logo: read size: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// FitLogo decodes a logo, fits it inside maxW×maxH without distortion and
// re-encodes it as PNG.
func FitLogo(data []byte, maxW, maxH int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("logo: decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: logo has no pixels", ErrPageRender)
	}

	var fitted image.Image = img
	if b.Dx() > maxW || b.Dy() > maxH {
		fitted = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("logo: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadLogo fetches the logo at location, an http(s) URL or a local path,
// waiting at most timeout. Any failure is logged and yields nil so the
// document renders without the image.
func LoadLogo(ctx context.Context, location string, timeout time.Duration) []byte {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}

	raw, err := readLogo(ctx, location, timeout)
	if err != nil {
		log.Printf("logo: LoadLogo: proceeding without logo %q: %v", location, err)
		return nil
	}

	fitted, err := FitLogo(raw, 600, 240)
	if err != nil {
		log.Printf("logo: LoadLogo: proceeding without logo %q: %v", location, err)
		return nil
	}
	return fitted
}

func readLogo(ctx context.Context, location string, timeout time.Duration) ([]byte, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return os.ReadFile(location)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
}
