// Package registry holds the model handles shared by every request.
//
// Handles are published once, after startup loading finishes, and are
// read-only from then on. Readers never block: before publication every
// accessor reports the registry as not loaded.
package registry

import (
	"errors"
	"io"
	"sync/atomic"

	"recipesnap/internal/ai"
	"recipesnap/internal/vision"
)

// Handles is the set of loaded models. Any field may be nil when that model
// failed to load.
type Handles struct {
	Captioner vision.Captioner
	Detector  vision.Detector
	Extractor vision.Extractor
	Generator ai.TextGenerator
}

type Registry struct {
	handles atomic.Pointer[Handles]
}

func New() *Registry {
	return &Registry{}
}

// Publish stores the handles. Only the first call has any effect.
func (r *Registry) Publish(h *Handles) bool {
	if h == nil {
		return false
	}
	return r.handles.CompareAndSwap(nil, h)
}

// Handles returns the published handles, or nil before publication.
func (r *Registry) Handles() *Handles {
	return r.handles.Load()
}

// Loaded reports whether both the captioner and the detector are available.
func (r *Registry) Loaded() bool {
	h := r.handles.Load()
	return h != nil && h.Captioner != nil && h.Detector != nil
}

// Vision returns the handles needed for image analysis.
func (r *Registry) Vision() (*Handles, bool) {
	h := r.handles.Load()
	if h == nil || h.Captioner == nil || h.Detector == nil || h.Extractor == nil {
		return nil, false
	}
	return h, true
}

func (r *Registry) Generator() (ai.TextGenerator, bool) {
	h := r.handles.Load()
	if h == nil || h.Generator == nil {
		return nil, false
	}
	return h.Generator, true
}

// Close releases handles that hold native resources.
func (r *Registry) Close() error {
	h := r.handles.Load()
	if h == nil {
		return nil
	}
	var errs []error
	for _, v := range []any{h.Captioner, h.Detector, h.Extractor, h.Generator} {
		if c, ok := v.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
