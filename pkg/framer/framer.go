// Package framer runs the extract, edit, compose and write pipeline over photos on disk.
package framer

import (
	"context"
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"

	"github.com/barasher/go-exiftool"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/tstromberg/exifframe/pkg/exifmeta"
	"github.com/tstromberg/exifframe/pkg/frame"
)

// Config holds configuration for a framing run.
type Config struct {
	Inputs []string
	// OutDir receives frames, mirroring the input tree. Empty writes each frame
	// next to its photo.
	OutDir string

	Style    frame.Style
	Brand    frame.BrandID
	Logo     string // path or URL of the custom logo
	ShowLogo bool
	FontPath string

	Overrides map[exifmeta.Field]string

	Exiftool      bool
	Sidecars      bool
	CopyOriginals bool
	Force         bool
	Workers       int
}

// Framer frames photos according to a Config.
type Framer struct {
	c     *Config
	comp  *frame.Compositor
	ex    *exifmeta.Extractor
	et    *exiftool.Exiftool
	logo  image.Image
	stamp []byte // render settings, written next to every frame
}

// New prepares fonts, the metadata extractor and the custom logo. The logo is
// resolved once, before any drawing starts.
func New(ctx context.Context, c *Config) (*Framer, error) {
	comp, err := frame.New(c.FontPath)
	if err != nil {
		return nil, fmt.Errorf("compositor: %w", err)
	}
	stamp, err := c.stamp()
	if err != nil {
		return nil, fmt.Errorf("stamp: %w", err)
	}
	f := &Framer{c: c, comp: comp, stamp: stamp}

	var opts []exifmeta.Option
	if c.Exiftool {
		et, err := exiftool.NewExiftool()
		if err != nil {
			klog.Warningf("exiftool unavailable, using the built-in EXIF reader only: %v", err)
		} else {
			f.et = et
			opts = append(opts, exifmeta.WithExiftool(et))
		}
	}
	f.ex = exifmeta.New(opts...)

	if c.Brand == frame.BrandCustom && c.ShowLogo {
		if c.Logo == "" {
			klog.Warningf("custom brand selected but no logo given")
		} else {
			f.logo, err = frame.LoadLogo(ctx, c.Logo)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("load logo: %w", err)
			}
		}
	}
	return f, nil
}

// Close releases the exiftool process, if one was started.
func (f *Framer) Close() {
	if f.et != nil {
		if err := f.et.Close(); err != nil {
			klog.Warningf("exiftool close: %v", err)
		}
		f.et = nil
	}
}

// Inspect returns the edited metadata record for p without composing.
func (f *Framer) Inspect(p *Photo) (exifmeta.Record, error) {
	raw, err := os.ReadFile(p.InPath)
	if err != nil {
		return exifmeta.Record{}, fmt.Errorf("read: %w", err)
	}
	return f.record(p, raw)
}

func (f *Framer) record(p *Photo, raw []byte) (exifmeta.Record, error) {
	rec, err := f.ex.Extract(raw)
	if err != nil {
		p.MetadataErr = err
		klog.Warningf("%s: no usable metadata, using defaults: %v", p.InPath, err)
	}

	if f.c.Sidecars {
		if err := applySidecar(&rec, p.InPath); err != nil {
			klog.Warningf("%s: sidecar ignored: %v", p.InPath, err)
		}
	}
	if err := rec.Apply(f.c.Overrides); err != nil {
		return rec, fmt.Errorf("overrides: %w", err)
	}
	p.Record = rec
	return rec, nil
}

// Frame composes p and writes it to p.OutPath. Outputs that are newer than the
// photo and its sidecar, and were rendered with the same settings, are skipped
// unless Config.Force is set.
func (f *Framer) Frame(p *Photo) error {
	if !f.c.Force && !stale(p.InPath, p.OutPath, f.stamp) {
		klog.V(1).Infof("%s is up to date", p.OutPath)
		p.Skipped = true
		return nil
	}

	raw, err := os.ReadFile(p.InPath)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	rec, err := f.record(p, raw)
	if err != nil {
		return err
	}

	out, err := f.comp.ComposeBytes(raw, rec, f.c.Style, frame.Options{
		Brand:      f.c.Brand,
		CustomLogo: f.logo,
		ShowLogo:   f.c.ShowLogo,
	})
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	if err := writeFile(p.OutPath, out); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := writeFile(StampPath(p.OutPath), f.stamp); err != nil {
		return fmt.Errorf("write stamp: %w", err)
	}
	klog.Infof("framed %s -> %s (%d bytes)", p.InPath, p.OutPath, len(out))

	if f.c.CopyOriginals && f.c.OutDir != "" {
		if err := copyOriginal(p, f.c.OutDir); err != nil {
			return fmt.Errorf("copy original: %w", err)
		}
	}
	return nil
}

// Failure records a photo that could not be framed.
type Failure struct {
	Path string
	Err  error
}

// Summary reports the outcome of Run.
type Summary struct {
	Framed   int
	Skipped  int
	Defaults int // photos framed with the default metadata record
	Failed   []Failure
}

// Run frames every photo found under c.Inputs.
func Run(ctx context.Context, c *Config) (Summary, error) {
	f, err := New(ctx, c)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()
	return f.Run(ctx)
}

// Run frames every photo found under the configured inputs. A failing photo
// is reported in the Summary and does not stop the others.
func (f *Framer) Run(ctx context.Context) (Summary, error) {
	ps, err := Find(f.c.Inputs, f.c.OutDir)
	if err != nil {
		return Summary{}, fmt.Errorf("find: %w", err)
	}
	klog.Infof("found %d photos", len(ps))

	workers := f.c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu sync.Mutex
		s  Summary
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, p := range ps {
		p := p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := f.Frame(p)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				klog.Errorf("%s: %v", p.InPath, err)
				s.Failed = append(s.Failed, Failure{Path: p.InPath, Err: err})
			case p.Skipped:
				s.Skipped++
			default:
				s.Framed++
				if p.MetadataErr != nil {
					s.Defaults++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return s, err
	}

	if len(s.Failed) > 0 {
		return s, fmt.Errorf("%d of %d photos failed", len(s.Failed), len(ps))
	}
	return s, nil
}
