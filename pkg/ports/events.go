package ports

import "fmt"

// EventType is an opaque identifier registered by the event consumer so it
// can tell loader messages apart from its own.
type EventType uint32

// Message is a tagged loader result. Payload is one of *NewImage,
// *FrameAdvanced or *LoadFailed.
type Message struct {
	Type    EventType
	Payload interface{}
}

// Image is the pixel data carried by a message. Pix holds 4*Width*Height
// bytes of RGBA owned by the receiver.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage is published when a freshly loaded source has been decoded.
type NewImage struct {
	Image        Image
	IsFirstFrame bool
}

// FrameAdvanced is published when an animation has stepped to Frame.
type FrameAdvanced struct {
	Image Image
	Frame int
}

// LoadFailed is published when the source identified by Source could not
// be decoded.
type LoadFailed struct {
	Source string
	Err    error
}

// String returns the failure text. Err normally names the source already.
func (f *LoadFailed) String() string {
	if f.Err == nil {
		return fmt.Sprintf("load failed: %s", f.Source)
	}
	return f.Err.Error()
}

// EventQueue is where the loader delivers its results. Push must not block
// and must preserve the order of pushes made by one goroutine.
type EventQueue interface {
	Push(msg Message) error
}
