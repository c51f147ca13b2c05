package charts

import (
	"sync"

	"covid-dashboard/src/helpers"
	"covid-dashboard/src/models"
)

// PNGHandle owns one rendered chart image.
type PNGHandle struct {
	spec     models.MChartSpec
	data     []byte
	disposed bool
	mu       sync.RWMutex
}

func newPNGHandle(spec models.MChartSpec, data []byte) *PNGHandle {
	return &PNGHandle{spec: spec, data: data}
}

func (h *PNGHandle) Name() string {
	return h.spec.Name
}

func (h *PNGHandle) Spec() models.MChartSpec {
	return h.spec
}

// Image returns a copy of the PNG bytes; it fails once the handle is disposed.
func (h *PNGHandle) Image() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.disposed {
		return nil, helpers.NewRenderError("chart "+h.spec.Name+" was disposed", nil)
	}
	out := make([]byte, len(h.data))
	copy(out, h.data)
	return out, nil
}

func (h *PNGHandle) Dispose() {
	h.mu.Lock()
	h.disposed = true
	h.data = nil
	h.mu.Unlock()
}

// Disposed reports whether Dispose was called.
func (h *PNGHandle) Disposed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.disposed
}
