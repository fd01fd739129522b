package local

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pders01/wallr/internal/debuglog"
)

// ErrNotFound is returned by Get when no image in the directory has the id.
var ErrNotFound = errors.New("local wallpaper not found")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".gif":  true,
}

// Wallpaper is an image file on disk.
type Wallpaper struct {
	ID      string
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Lister scans one directory tree for images.
type Lister struct {
	dir string
}

func NewLister(dir string) (*Lister, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	return &Lister{dir: abs}, nil
}

func (l *Lister) Dir() string { return l.dir }

// IDFor returns the stable id of the image at path.
func IDFor(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}

func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// List returns every image under the directory, newest first. A missing
// directory yields no wallpapers.
func (l *Lister) List() ([]Wallpaper, error) {
	var out []Wallpaper
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == l.dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			debuglog.Warnf("local: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != l.dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsImage(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			debuglog.Warnf("local: stat %s: %v", path, err)
			return nil
		}
		out = append(out, Wallpaper{
			ID:      IDFor(path),
			Path:    path,
			Name:    d.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", l.dir, err)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].Path < out[j].Path
	})
	debuglog.Debugf("local: %d images in %s", len(out), l.dir)
	return out, nil
}

// Get finds an image by id, or by a path relative to the directory.
func (l *Lister) Get(idOrPath string) (Wallpaper, error) {
	if IsImage(idOrPath) {
		path := idOrPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.dir, path)
		}
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return Wallpaper{
				ID:      IDFor(path),
				Path:    filepath.Clean(path),
				Name:    filepath.Base(path),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			}, nil
		}
	}

	all, err := l.List()
	if err != nil {
		return Wallpaper{}, err
	}
	for _, w := range all {
		if w.ID == idOrPath {
			return w, nil
		}
	}
	return Wallpaper{}, ErrNotFound
}
