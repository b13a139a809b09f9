package framer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"

	"github.com/tstromberg/exifframe/pkg/exifmeta"
	"github.com/tstromberg/exifframe/pkg/frame"
)

// renderStamp records the settings a frame was rendered with.
type renderStamp struct {
	Style     frame.Style               `json:"style"`
	Brand     frame.BrandID             `json:"brand"`
	ShowLogo  bool                      `json:"showLogo"`
	Logo      string                    `json:"logo,omitempty"`
	Font      string                    `json:"font,omitempty"`
	Exiftool  bool                      `json:"exiftool"`
	Sidecars  bool                      `json:"sidecars"`
	Overrides map[exifmeta.Field]string `json:"overrides,omitempty"`
}

// stamp returns the encoded render settings of c. Empty overrides are left
// out, as they do not change the record.
func (c *Config) stamp() ([]byte, error) {
	rs := renderStamp{
		Style:    c.Style,
		Brand:    c.Brand,
		ShowLogo: c.ShowLogo,
		Logo:     c.Logo,
		Font:     c.FontPath,
		Exiftool: c.Exiftool,
		Sidecars: c.Sidecars,
	}
	for f, v := range c.Overrides {
		if v == "" {
			continue
		}
		if rs.Overrides == nil {
			rs.Overrides = map[exifmeta.Field]string{}
		}
		rs.Overrides[f] = v
	}
	return json.Marshal(rs)
}

// StampPath returns the hidden file next to a frame that records its render settings.
func StampPath(out string) string {
	return filepath.Join(filepath.Dir(out), "."+filepath.Base(out)+".json")
}

// stale reports whether the frame at dst must be (re)generated from src with
// the render settings in stamp.
func stale(src, dst string, stamp []byte) bool {
	sst, err := os.Stat(src)
	if err != nil {
		return true
	}
	ost, err := os.Stat(dst)
	if err != nil {
		klog.V(1).Infof("updating %s: does not exist", dst)
		return true
	}
	if ost.Size() == 0 {
		klog.Infof("updating %s: empty", dst)
		return true
	}
	if sst.ModTime().After(ost.ModTime()) {
		klog.Infof("updating %s: source newer", dst)
		return true
	}
	if sc, err := os.Stat(SidecarPath(src)); err == nil && sc.ModTime().After(ost.ModTime()) {
		klog.Infof("updating %s: sidecar newer", dst)
		return true
	}
	if old, err := os.ReadFile(StampPath(dst)); err != nil || !bytes.Equal(old, stamp) {
		klog.Infof("updating %s: render settings changed", dst)
		return true
	}
	return false
}

// writeFile replaces path with b so that readers never observe a partial frame.
func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*")
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// copyOriginal places the untouched photo beside its frame in outDir, unless an
// identical copy is already there.
func copyOriginal(p *Photo, outDir string) error {
	dest := filepath.Join(outDir, p.RelPath)

	dst, err := os.Stat(dest)
	if err == nil && dst.Size() == p.Size && !p.ModTime.After(dst.ModTime()) {
		klog.V(1).Infof("%s is up to date", dest)
		return nil
	}

	klog.V(1).Infof("copying %s -> %s", p.InPath, dest)
	return copy.Copy(p.InPath, dest)
}
