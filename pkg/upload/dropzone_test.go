package upload

import (
	"testing"

	"github.com/matryer/is"
)

func TestDropZoneDrag(t *testing.T) {
	is := is.New(t)
	z := NewDropZone(false)

	z.DragEnter()
	is.True(z.Dragging())
	z.DragOver()
	z.DragLeave()
	is.True(!z.Dragging())

	z.DragOver()
	path, ok := z.Drop("/tmp/bot.zip")
	is.True(ok)
	is.Equal(path, "/tmp/bot.zip")
	is.True(!z.Dragging())
}

func TestDropZoneRejectedDropResets(t *testing.T) {
	is := is.New(t)
	z := NewDropZone(false)
	z.DragEnter()
	_, ok := z.Drop("")
	is.True(!ok)
	is.True(!z.Dragging())
}

func TestDropZoneReadonly(t *testing.T) {
	is := is.New(t)
	z := NewDropZone(true)
	z.DragEnter()
	is.True(!z.Dragging())
	_, ok := z.Drop("/tmp/pfp.png")
	is.True(!ok)

	z.SetReadonly(false)
	z.DragEnter()
	is.True(z.Dragging())
	z.SetReadonly(true)
	is.True(!z.Dragging())
	is.True(z.Readonly())
}
