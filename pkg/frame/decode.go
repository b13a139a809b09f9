package frame

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"k8s.io/klog/v2"
)

var errHEIC = errors.New("HEIC/HEIF containers are not supported, convert to JPEG first")

var heifBrands = []string{"heic", "heix", "heim", "heis", "hevc", "hevx", "mif1", "msf1"}

func isHEIF(raw []byte) bool {
	if len(raw) < 12 || string(raw[4:8]) != "ftyp" {
		return false
	}
	brand := string(raw[8:12])
	for _, b := range heifBrands {
		if brand == b {
			return true
		}
	}
	return false
}

// Decode reads a JPEG, PNG, GIF, WEBP, TIFF or BMP image.
func Decode(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, decodeError("decode", errors.New("empty input"))
	}
	if isHEIF(raw) {
		return nil, decodeError("decode", errHEIC)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, decodeError("decode", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, &Error{Kind: SurfaceAcquisition, Op: "decode", Err: fmt.Errorf("%s image is %dx%d", format, cfg.Width, cfg.Height)}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, decodeError("decode", err)
	}
	klog.V(2).Infof("decoded %s image %dx%d", format, cfg.Width, cfg.Height)
	return img, nil
}

// maxLogoBytes caps how much of a remote logo is read.
const maxLogoBytes = 32 << 20

// LoadLogo reads a custom logo from a local path or an http(s) URL.
func LoadLogo(ctx context.Context, src string) (image.Image, error) {
	var raw []byte
	var err error

	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		raw, err = fetch(ctx, src)
	} else {
		raw, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, decodeError("load logo", err)
	}

	img, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("logo %s: %w", src, err)
	}
	return img, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
}

// Orient returns img rotated or flipped so that it displays upright for the
// given EXIF orientation (1-8). Pixels are remapped exactly, never resampled.
// Unknown values leave the image untouched.
func Orient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
