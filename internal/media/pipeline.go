package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MasterMaxSize caps the longest edge of the stored master image.
	MasterMaxSize = 2048
	jpegQuality   = 82
	webpQuality   = 70
)

// Normalize decodes an uploaded image (JPEG, PNG or WebP), downsizes it
// so the longest edge is at most maxSize, and returns the JPEG master
// plus a WebP rendition for bandwidth-sensitive clients.
func Normalize(data []byte, maxSize int) (jpegData, webpData []byte, err error) {
	if len(data) == 0 {
		return nil, nil, ErrEmptyImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("decode image: %w", err)
	}

	img = capSize(img, maxSize)

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	var webpBuf bytes.Buffer
	if err := webp.Encode(&webpBuf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, nil, fmt.Errorf("encode webp: %w", err)
	}

	return jpegBuf.Bytes(), webpBuf.Bytes(), nil
}

// capSize downsizes img so its longest edge is at most maxSize,
// preserving aspect ratio. Images already within bounds pass through.
func capSize(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxSize
		nh = h * maxSize / w
	} else {
		nh = maxSize
		nw = w * maxSize / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
