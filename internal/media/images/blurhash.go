package images

import (
	"fmt"
	"image"
	// Cover decoders; EPUBs carry covers in any of these formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// 4x3 components keep the hash around 30 characters, plenty of detail
// for a cover placeholder. Encoding runs over a small thumbnail; the
// hash is visually identical to one computed from the full cover and
// orders of magnitude faster.
const (
	hashComponentsX = 4
	hashComponentsY = 3
	thumbnailBound  = 64
)

// ComputeBlurHash derives a BlurHash placeholder from a stored cover
// file. Returns an error when the file cannot be read or decoded.
func ComputeBlurHash(coverPath string) (string, error) {
	f, err := os.Open(coverPath)
	if err != nil {
		return "", fmt.Errorf("open cover: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode cover: %w", err)
	}

	hash, err := blurhash.Encode(hashComponentsX, hashComponentsY, thumbnail(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// thumbnail scales a cover down so its longer edge is at most
// thumbnailBound pixels, keeping the aspect ratio.
func thumbnail(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= thumbnailBound && h <= thumbnailBound {
		return img
	}

	if w > h {
		h = max(h*thumbnailBound/w, 1)
		w = thumbnailBound
	} else {
		w = max(w*thumbnailBound/h, 1)
		h = thumbnailBound
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
