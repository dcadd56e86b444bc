package folio

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds the number of files read and decoded at once.
const maxConcurrentLoads = 4

// Texture is a decoded texture set.
type Texture struct {
	Name  string
	Image image.Image
}

// DecodeTexture reads a PNG, JPEG or WebP file.
func DecodeTexture(name, path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return &Texture{Name: name, Image: img}, nil
}

// LoadResult is one finished background load. Exactly one of Model and
// Texture is set when Err is nil.
type LoadResult struct {
	Path    string
	Model   *Node
	Texture *Texture
	Err     error
}

// Loader reads room manifests and textures in background goroutines and hands
// the results back to the frame tick through Poll. Nothing it loads touches
// the scene until Poll delivers it.
type Loader struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu      sync.Mutex
	queue   []LoadResult
	pending int
}

// NewLoader creates a loader bound to ctx. Cancelling ctx abandons loads that
// have not started. A failed load does not cancel the others.
func NewLoader(ctx context.Context) *Loader {
	ctx, cancel := context.WithCancel(ctx)
	g := &errgroup.Group{}
	g.SetLimit(maxConcurrentLoads)
	return &Loader{ctx: ctx, cancel: cancel, group: g}
}

// LoadModel queues a room manifest.
func (l *Loader) LoadModel(path string) {
	l.start(path, func() (LoadResult, error) {
		root, err := LoadManifest(path)
		return LoadResult{Path: path, Model: root, Err: err}, err
	})
}

// LoadTexture queues a texture file registered under name.
func (l *Loader) LoadTexture(name, path string) {
	l.start(path, func() (LoadResult, error) {
		tex, err := DecodeTexture(name, path)
		return LoadResult{Path: path, Texture: tex, Err: err}, err
	})
}

func (l *Loader) start(path string, fn func() (LoadResult, error)) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
	l.group.Go(func() error {
		var res LoadResult
		var err error
		if ctxErr := l.ctx.Err(); ctxErr != nil {
			res, err = LoadResult{Path: path, Err: ctxErr}, ctxErr
		} else {
			res, err = fn()
		}
		l.mu.Lock()
		l.queue = append(l.queue, res)
		l.mu.Unlock()
		return err
	})
}

// Poll delivers finished loads to fn on the calling goroutine, oldest first.
// Returns the number delivered.
func (l *Loader) Poll(fn func(LoadResult)) int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.pending -= len(batch)
	l.mu.Unlock()
	for _, r := range batch {
		fn(r)
	}
	return len(batch)
}

// Pending returns the number of loads not yet delivered by Poll.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Wait blocks until every queued load has finished and returns the first
// error. Results still need to be collected with Poll.
func (l *Loader) Wait() error {
	return l.group.Wait()
}

// Close cancels outstanding loads and waits for the goroutines to exit.
func (l *Loader) Close() {
	l.cancel()
	_ = l.group.Wait()
}

// --- Readiness ---

// LoadTracker counts loaded assets and resolved hotspots and fires its ready
// callback exactly once, when every texture set and the model have loaded and
// every required hotspot resolved.
type LoadTracker struct {
	expected int
	textures int
	model    bool
	required int
	resolved int
	hotspots bool
	fired    bool
	onReady  func()
}

// NewLoadTracker expects the given number of texture sets.
func NewLoadTracker(expectedTextures int, onReady func()) *LoadTracker {
	return &LoadTracker{expected: expectedTextures, onReady: onReady}
}

// TextureLoaded records one finished texture set.
func (t *LoadTracker) TextureLoaded() {
	t.textures++
	t.check()
}

// ModelLoaded records the finished model.
func (t *LoadTracker) ModelLoaded() {
	t.model = true
	t.check()
}

// SetHotspots records how many hotspots were required and how many resolved.
func (t *LoadTracker) SetHotspots(required, resolved int) {
	t.required = required
	t.resolved = resolved
	t.hotspots = true
	t.check()
}

// Ready reports whether the ready callback has fired.
func (t *LoadTracker) Ready() bool {
	return t.fired
}

// Progress returns the loaded fraction in [0, 1]. The model counts as one
// asset alongside the texture sets.
func (t *LoadTracker) Progress() float32 {
	total := t.expected + 1
	done := min(t.textures, t.expected)
	if t.model {
		done++
	}
	return float32(done) / float32(total)
}

func (t *LoadTracker) check() {
	if t.fired || !t.model || !t.hotspots || t.textures < t.expected {
		return
	}
	if t.resolved < t.required {
		return
	}
	t.fired = true
	if t.onReady != nil {
		t.onReady()
	}
}
