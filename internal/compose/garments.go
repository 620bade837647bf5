package compose

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
)

// DirGarments serves overlay assets from a directory of PNG files, one per
// garment id. Decoded images are cached for the life of the process; the
// asset set only changes with a redeploy.
type DirGarments struct {
	dir string

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewDirGarments points a garment source at dir. The directory is not
// validated up front; a missing asset surfaces on first use.
func NewDirGarments(dir string) *DirGarments {
	return &DirGarments{
		dir:   dir,
		cache: make(map[string]image.Image),
	}
}

// Garment returns the decoded overlay image for id.
func (g *DirGarments) Garment(id string) (image.Image, error) {
	g.mu.Lock()
	if img, ok := g.cache[id]; ok {
		g.mu.Unlock()
		return img, nil
	}
	g.mu.Unlock()

	// The id comes from the kiosk UI's asset catalog; Base strips any path
	// component so it can never escape the asset directory.
	name := filepath.Base(id) + ".png"
	data, err := os.ReadFile(filepath.Join(g.dir, name))
	if err != nil {
		return nil, fmt.Errorf("garment %q: %w", id, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("garment %q: decode: %w", id, err)
	}

	g.mu.Lock()
	g.cache[id] = img
	g.mu.Unlock()
	return img, nil
}
