package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/tstromberg/exifframe/pkg/exifmeta"
	"github.com/tstromberg/exifframe/pkg/frame"
	"github.com/tstromberg/exifframe/pkg/framer"
)

var (
	outDir        = flag.String("out", "", "output directory (default: next to each photo)")
	styleFlag     = flag.String("style", "classic", "frame style: classic, elegant, cinematic, badge, insta")
	brandFlag     = flag.String("brand", "none", "brand logo: none, custom, leica, sony, nikon, ...")
	logo          = flag.String("logo", "", "path or URL of the logo used with --brand=custom")
	showLogo      = flag.Bool("show-logo", true, "draw the brand logo")
	fontPath      = flag.String("font", "", "TTF/OTF font for proportional text (default: embedded Go fonts)")
	useExiftool   = flag.Bool("exiftool", true, "fall back to exiftool for PNG, WEBP, HEIC and other containers the built-in JPEG/TIFF reader cannot parse (skipped with a warning if exiftool is not installed)")
	sidecars      = flag.Bool("sidecars", true, "apply field overrides from <photo>.json sidecars")
	copyOriginals = flag.Bool("copy-originals", false, "copy originals into --out next to their frames")
	force         = flag.Bool("force", false, "re-frame photos whose frames are up to date")
	workers       = flag.Int("workers", 0, "photos framed in parallel (default: number of CPUs)")
	printFlag     = flag.Bool("print", false, "print the metadata of each photo as JSON instead of framing")
	watchFlag     = flag.Bool("watch", false, "watch inputs for changes and re-frame")
)

// overrideFlags holds one string flag per editable metadata field.
var overrideFlags = map[exifmeta.Field]*string{}

func init() {
	usage := map[exifmeta.Field]string{
		exifmeta.Make:         "camera make",
		exifmeta.Model:        "camera model",
		exifmeta.Lens:         "lens",
		exifmeta.FocalLength:  "focal length, e.g. 35mm",
		exifmeta.Aperture:     "aperture, e.g. f/1.4",
		exifmeta.Shutter:      "shutter speed, e.g. 1/250s",
		exifmeta.ISO:          "ISO, e.g. ISO160",
		exifmeta.Date:         "date, e.g. 2024.01.05",
		exifmeta.Photographer: "photographer credit",
		exifmeta.Location:     "location shown next to the date",
	}
	for _, f := range exifmeta.Fields() {
		overrideFlags[f] = flag.String(flagName(f), "", "override the "+usage[f])
	}
}

// flagName turns focalLength into focal, and other fields into their lower-case name.
func flagName(f exifmeta.Field) string {
	if f == exifmeta.FocalLength {
		return "focal"
	}
	return strings.ToLower(string(f))
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <photo-or-dir>...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		klog.Exitf("at least one photo or directory is required")
	}

	style, err := frame.ParseStyle(*styleFlag)
	if err != nil {
		klog.Exitf("--style: %v", err)
	}
	brand, err := frame.ParseBrand(*brandFlag)
	if err != nil {
		klog.Exitf("--brand: %v", err)
	}

	overrides := map[exifmeta.Field]string{}
	for f, v := range overrideFlags {
		if *v != "" {
			overrides[f] = *v
		}
	}

	c := &framer.Config{
		Inputs:        flag.Args(),
		OutDir:        *outDir,
		Style:         style,
		Brand:         brand,
		Logo:          *logo,
		ShowLogo:      *showLogo,
		FontPath:      *fontPath,
		Overrides:     overrides,
		Exiftool:      *useExiftool,
		Sidecars:      *sidecars,
		CopyOriginals: *copyOriginals,
		Force:         *force,
		Workers:       *workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	f, err := framer.New(ctx, c)
	if err != nil {
		klog.Exitf("setup failed: %v", err)
	}
	defer f.Close()

	if *printFlag {
		if err := printRecords(f, c); err != nil {
			klog.Exitf("print failed: %v", err)
		}
		return
	}

	s, err := f.Run(ctx)
	report(s)
	if err != nil && !*watchFlag {
		f.Close()
		klog.Exitf("frame failed: %v", err)
	}

	if *watchFlag {
		if err := watch(ctx, f, c); err != nil {
			f.Close()
			klog.Exitf("watch failed: %v", err)
		}
	}
}

func report(s framer.Summary) {
	klog.Infof("%d framed, %d up to date, %d failed", s.Framed, s.Skipped, len(s.Failed))
	if s.Defaults > 0 {
		klog.Warningf("%d photos had no readable metadata and used defaults", s.Defaults)
	}
	for _, fl := range s.Failed {
		fmt.Fprintf(os.Stderr, "could not frame %s: %v\n", fl.Path, fl.Err)
	}
}

func printRecords(f *framer.Framer, c *framer.Config) error {
	ps, err := framer.Find(c.Inputs, c.OutDir)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}

	out := map[string]exifmeta.Record{}
	for _, p := range ps {
		rec, err := f.Inspect(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p.InPath, err)
		}
		out[p.InPath] = rec
	}

	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(out)
}

// watchDirs returns every directory that can hold an input photo or sidecar.
func watchDirs(inputs []string) ([]string, error) {
	var dirs []string
	for _, in := range inputs {
		st, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("stat: %w", err)
		}
		if !st.IsDir() {
			dirs = append(dirs, filepath.Dir(in))
			continue
		}

		err = godirwalk.Walk(in, &godirwalk.Options{
			Callback: func(path string, de *godirwalk.Dirent) error {
				if !de.IsDir() {
					return nil
				}
				if path != in && filepath.Base(path)[0] == '.' {
					return godirwalk.SkipThis
				}
				dirs = append(dirs, path)
				return nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("walk: %w", err)
		}
	}

	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}

// watch re-runs the framer whenever a photo or sidecar under the inputs changes.
func watch(ctx context.Context, f *framer.Framer, c *framer.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs, err := watchDirs(c.Inputs)
	if err != nil {
		return err
	}
	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %v", event)
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := strings.TrimSuffix(event.Name, ".json")
			if !framer.IsPhoto(name) {
				continue
			}
			s, err := f.Run(ctx)
			report(s)
			if err != nil {
				klog.Errorf("frame failed: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
