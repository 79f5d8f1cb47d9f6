package pipeline

import (
	"image"
	"image/color"
	"time"

	"github.com/user/imgload/pkg/ports"
)

// =============================================================================
// Sources
// =============================================================================

// StdinName identifies in-memory sources that were not given a name.
const StdinName = "-"

// Source is what a load request decodes: either a path or in-memory bytes.
type Source struct {
	Path string // File path, or the display name of an in-memory source
	Data []byte // In-memory contents; nil for path sources
}

// PathSource returns a Source that reads the file at path.
func PathSource(path string) Source {
	return Source{Path: path}
}

// BytesSource returns an in-memory Source. An empty name becomes StdinName.
func BytesSource(name string, data []byte) Source {
	if name == "" {
		name = StdinName
	}
	if data == nil {
		data = []byte{}
	}
	return Source{Path: name, Data: data}
}

// InMemory reports whether the source carries its own bytes.
func (s Source) InMemory() bool {
	return s.Data != nil
}

// ID returns the identifier reported in failures.
func (s Source) ID() string {
	if s.Path == "" && s.InMemory() {
		return StdinName
	}
	return s.Path
}

// =============================================================================
// Canvas
// =============================================================================

// Canvas is a decoded, composited RGBA image of a whole animation frame.
// Pix holds 4*Width*Height bytes, rows packed without padding.
type Canvas struct {
	Width  int
	Height int
	Pix    []byte
}

// NewCanvas allocates a fully transparent canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		Pix:    make([]byte, 4*width*height),
	}
}

// CanvasFromRGBA copies img into a new canvas anchored at (0, 0).
func CanvasFromRGBA(img *image.RGBA) *Canvas {
	b := img.Bounds()
	c := NewCanvas(b.Dx(), b.Dy())
	rowLen := 4 * b.Dx()
	for y := 0; y < b.Dy(); y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(c.Pix[y*rowLen:(y+1)*rowLen], img.Pix[off:off+rowLen])
	}
	return c
}

// RGBA returns an *image.RGBA view sharing the canvas pixels.
func (c *Canvas) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    c.Pix,
		Stride: 4 * c.Width,
		Rect:   image.Rect(0, 0, c.Width, c.Height),
	}
}

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	pix := make([]byte, len(c.Pix))
	copy(pix, c.Pix)
	return &Canvas{Width: c.Width, Height: c.Height, Pix: pix}
}

// Export returns a copy of the canvas suitable for publishing.
func (c *Canvas) Export() ports.Image {
	pix := make([]byte, len(c.Pix))
	copy(pix, c.Pix)
	return ports.Image{Width: c.Width, Height: c.Height, Pix: pix}
}

// =============================================================================
// Open Stage Types
// =============================================================================

// OpenInput asks for a source to be acquired, opened and its first frame
// decoded.
type OpenInput struct {
	Source Source
}

// OpenResult is the first frame of a freshly opened sequence. The caller
// owns Sequence and must Close it when the result is discarded.
type OpenResult struct {
	Sequence  ports.Sequence
	Format    ports.Format
	NumFrames int
	Canvas    *Canvas
	Metadata  ports.FrameMetadata
}

// =============================================================================
// Advance Stage Types
// =============================================================================

// AdvanceInput describes one animation step.
type AdvanceInput struct {
	Sequence ports.Sequence
	Index    int // Frame to decode
	Width    int // Canvas dimensions of the animation
	Height   int
	Previous *Canvas        // Canvas currently displayed; never modified
	Disposal ports.Disposal // Directive of the frame being replaced
}

// AdvanceResult is the composited canvas for AdvanceInput.Index.
type AdvanceResult struct {
	Canvas   *Canvas
	Metadata ports.FrameMetadata
}

// =============================================================================
// Contact Sheet Types
// =============================================================================

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// LayoutInput contains parameters for the contact sheet grid.
type LayoutInput struct {
	FrameCount   int
	FrameWidth   int // Size of the source animation
	FrameHeight  int
	Columns      int
	CellWidth    int // Width a frame is scaled to
	Gap          int
	Padding      int
	LabelHeight  int
	BannerHeight int
}

// LayoutResult contains the computed contact sheet geometry.
type LayoutResult struct {
	Width      int
	Height     int
	Rows       int
	BannerArea Rectangle
	Cells      []Rectangle // Where each scaled frame is drawn
	Labels     []Rectangle // Caption strip below each cell
}

// BannerInput contains parameters for the sheet header.
type BannerInput struct {
	Width         int
	Height        int
	Source        string
	Format        string
	FrameWidth    int
	FrameHeight   int
	FrameCount    int
	CycleDuration time.Duration
	Theme         SheetTheme
}

// BannerResult contains the rendered header.
type BannerResult struct {
	Image image.Image
	Lines []string
}

// SheetFrame is one frame placed on the contact sheet.
type SheetFrame struct {
	Index    int
	Image    image.Image
	Duration time.Duration
}

// SheetTheme defines contact sheet colours.
type SheetTheme struct {
	BackgroundColor color.Color
	BorderColor     color.Color
	TextColor       color.Color
	FontSize        float64
}

// DefaultSheetTheme returns the default contact sheet theme.
func DefaultSheetTheme() SheetTheme {
	return SheetTheme{
		BackgroundColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		BorderColor:     color.RGBA{R: 204, G: 204, B: 204, A: 255},
		TextColor:       color.RGBA{R: 51, G: 51, B: 51, A: 255},
		FontSize:        12,
	}
}

// EncodeInput contains everything drawn on the contact sheet.
type EncodeInput struct {
	Frames   []SheetFrame
	Layout   LayoutResult
	Banner   *BannerResult
	Theme    SheetTheme
	Encoding ports.Encoding
	Quality  int // JPEG quality
}

// EncodeResult contains the finished contact sheet.
type EncodeResult struct {
	Image image.Image
	Data  []byte
}
