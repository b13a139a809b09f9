package framer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/tstromberg/exifframe/pkg/exifmeta"
)

// Photo is one input file and the state of its frame.
type Photo struct {
	InPath  string
	RelPath string
	OutPath string
	ModTime time.Time
	Size    int64

	Record exifmeta.Record
	// MetadataErr is set when extraction fell back to the default record.
	MetadataErr error
	Skipped     bool
}

// SidecarPath returns the JSON sidecar for a photo, named like Google Takeout's.
func SidecarPath(path string) string {
	return path + ".json"
}

// applySidecar merges field overrides from the photo's sidecar, e.g.
//
//	{"photographer": "Ana Lima", "location": "Lisboa"}
//
// A missing sidecar is not an error.
func applySidecar(rec *exifmeta.Record, path string) error {
	b, err := os.ReadFile(SidecarPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var fields map[exifmeta.Field]string
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return rec.Apply(fields)
}
