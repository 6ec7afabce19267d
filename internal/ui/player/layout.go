package player

import "fyne.io/fyne/v2"

// fixedLayout reserves a constant area for free-positioned children.
type fixedLayout struct {
	size fyne.Size
}

func (layout *fixedLayout) Layout(objects []fyne.CanvasObject, _ fyne.Size) {
	for _, object := range objects {
		object.Resize(layout.size)
		object.Move(fyne.NewPos(0, 0))
	}
}

func (layout *fixedLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return layout.size
}
