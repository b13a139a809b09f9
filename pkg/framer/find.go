package framer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/tstromberg/exifframe/pkg/frame"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
	".heic": true,
	".heif": true,
}

// IsPhoto reports whether path looks like a photo that can be framed. Frames
// written by this package are excluded.
func IsPhoto(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "_framed.jpg") {
		return false
	}
	return imageExts[strings.ToLower(filepath.Ext(base))]
}

// Find returns the photos named by roots. Files are taken as-is; directories
// are walked recursively, skipping dot-entries.
func Find(roots []string, outDir string) ([]*Photo, error) {
	found := []*Photo{}

	for _, root := range roots {
		st, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat: %w", err)
		}

		if !st.IsDir() {
			found = append(found, newPhoto(root, filepath.Base(root), st, outDir))
			continue
		}

		err = godirwalk.Walk(root, &godirwalk.Options{
			Callback: func(path string, de *godirwalk.Dirent) error {
				if path != root && filepath.Base(path)[0] == '.' {
					if de.IsDir() {
						return godirwalk.SkipThis
					}
					return nil
				}
				if de.IsDir() || !IsPhoto(path) {
					return nil
				}
				if outDir != "" && isWithin(path, outDir) {
					return nil
				}

				klog.V(1).Infof("found %s", path)
				fi, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat: %w", err)
				}
				rel, err := filepath.Rel(root, path)
				if err != nil {
					return err
				}
				found = append(found, newPhoto(path, rel, fi, outDir))
				return nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	return found, nil
}

func newPhoto(path, rel string, fi os.FileInfo, outDir string) *Photo {
	p := &Photo{
		InPath:  path,
		RelPath: rel,
		ModTime: fi.ModTime(),
		Size:    fi.Size(),
	}
	name := frame.FramedName(path)
	if outDir == "" {
		p.OutPath = filepath.Join(filepath.Dir(path), name)
	} else {
		p.OutPath = filepath.Join(outDir, filepath.Dir(rel), name)
	}
	return p
}

func isWithin(path, dir string) bool {
	ap, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	ad, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(ad, ap)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
