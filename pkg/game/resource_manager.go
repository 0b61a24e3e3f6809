package game

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// Placeholder sprite dimensions, used when a pack image is missing.
const (
	placeholderSize = 64
)

// ResourceManager provides loading and caching for pack sprite images,
// ensuring each image file is decoded only once and reused across pets.
//
// Missing or corrupted sprites never fail a pet: the manager hands out a
// shared placeholder image instead and logs the problem once per file.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. The internal cache uses a
// standard Go map. All loading happens on the main game loop goroutine,
// so no synchronization is needed.
type ResourceManager struct {
	imageCache  map[string]*ebiten.Image // path -> decoded image
	failedPaths map[string]bool          // paths already reported as missing/corrupt
	placeholder *ebiten.Image            // shared fallback sprite
}

// NewResourceManager creates a ResourceManager with empty caches and a
// pre-built placeholder sprite.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		imageCache:  make(map[string]*ebiten.Image),
		failedPaths: make(map[string]bool),
		placeholder: newPlaceholderImage(),
	}
}

// LoadImage loads an image file from the specified path and caches it.
// If the image has already been loaded, it returns the cached version.
//
// Parameters:
//   - path: the file path to the image (e.g. "packs/shimeji/img/shime1.png")
//
// Returns:
//   - the decoded ebiten.Image
//   - an error if the file cannot be opened or decoded
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// PackImage resolves a sprite reference from a pack's img/ directory.
// It never returns nil: on failure the shared placeholder is returned
// and the failure is logged once per file.
//
// Parameters:
//   - packDir: the pack's root directory
//   - file: the image file name referenced by the pack's actions.xml
func (rm *ResourceManager) PackImage(packDir, file string) *ebiten.Image {
	path := filepath.Join(packDir, "img", file)

	img, err := rm.LoadImage(path)
	if err != nil {
		if !rm.failedPaths[path] {
			rm.failedPaths[path] = true
			log.Printf("[ResourceManager] Using placeholder for %s: %v", path, err)
		}
		return rm.placeholder
	}
	return img
}

// Placeholder returns the shared fallback sprite.
func (rm *ResourceManager) Placeholder() *ebiten.Image {
	return rm.placeholder
}

// ImageLookup builds a sprite lookup function for a single pack,
// suitable for anim.NewPackPlayer.
func (rm *ResourceManager) ImageLookup(packDir string) func(string) *ebiten.Image {
	return func(file string) *ebiten.Image {
		return rm.PackImage(packDir, file)
	}
}

// newPlaceholderImage builds a solid magenta square with a darker border,
// visible against any desktop background.
func newPlaceholderImage() *ebiten.Image {
	img := ebiten.NewImage(placeholderSize, placeholderSize)
	img.Fill(color.RGBA{R: 0x99, G: 0x33, B: 0x99, A: 0xff})

	inner := ebiten.NewImage(placeholderSize-8, placeholderSize-8)
	inner.Fill(color.RGBA{R: 0xcc, G: 0x66, B: 0xcc, A: 0xff})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(4, 4)
	img.DrawImage(inner, op)
	return img
}
