package upload

import "sync"

// DropZone tracks the drag and busy state of an upload target.
type DropZone struct {
	mu        sync.Mutex
	readonly  bool
	dragging  bool
	uploading bool
}

// NewDropZone returns a new DropZone. A readonly zone ignores every event.
func NewDropZone(readonly bool) *DropZone {
	return &DropZone{readonly: readonly}
}

// Readonly reports whether the zone ignores events.
func (z *DropZone) Readonly() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.readonly
}

// SetReadonly changes whether the zone ignores events. Turning a zone
// readonly also clears its drag state.
func (z *DropZone) SetReadonly(readonly bool) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.readonly = readonly
	if readonly {
		z.dragging = false
	}
}

// Dragging reports whether something is being dragged over the zone.
func (z *DropZone) Dragging() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.dragging
}

// Uploading reports whether an upload from this zone is in flight.
func (z *DropZone) Uploading() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.uploading
}

func (z *DropZone) setUploading(v bool) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.uploading = v
}

// DragEnter marks the zone as hovered.
func (z *DropZone) DragEnter() {
	z.setDragging(true)
}

// DragOver marks the zone as hovered.
func (z *DropZone) DragOver() {
	z.setDragging(true)
}

// DragLeave clears the hover state.
func (z *DropZone) DragLeave() {
	z.setDragging(false)
}

// Drop clears the hover state and returns the dropped path when the zone
// accepts it. The hover state is cleared even when the drop is rejected.
func (z *DropZone) Drop(path string) (string, bool) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.readonly {
		return "", false
	}
	z.dragging = false
	if path == "" {
		return "", false
	}
	return path, true
}

func (z *DropZone) setDragging(v bool) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.readonly {
		return
	}
	z.dragging = v
}
