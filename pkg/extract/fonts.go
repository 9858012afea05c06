package extract

import (
	stderrors "errors"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironwood-ui/ironwood/pkg/style"
)

// DefaultFamily names the built-in fixed-width face.
const DefaultFamily = "basic"

type face struct {
	face    font.Face
	nominal float64
}

// FontSet resolves font families to faces for text measurement.
// Faces are measured under a lock, so faces that are not safe for
// concurrent use may be registered.
type FontSet struct {
	mu          sync.Mutex
	faces       map[string]face
	defaultName string
}

// NewFontSet returns a font set holding the built-in 7x13 face as default.
func NewFontSet() *FontSet {
	return &FontSet{
		faces: map[string]face{
			DefaultFamily: {face: basicfont.Face7x13, nominal: float64(basicfont.Face7x13.Height)},
		},
		defaultName: DefaultFamily,
	}
}

// Register adds a face for family. nominal is the font size in logical
// pixels at which the face was rasterised; measurements scale from it.
func (s *FontSet) Register(family string, f font.Face, nominal float64) error {
	if family == "" {
		return stderrors.New("font family required")
	}
	if f == nil {
		return stderrors.New("font face required")
	}
	if nominal <= 0 {
		nominal = float64(f.Metrics().Height.Ceil())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faces[family] = face{face: f, nominal: nominal}
	return nil
}

// SetDefault selects the family used when a style names none or an
// unregistered one.
func (s *FontSet) SetDefault(family string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.faces[family]; !ok {
		return stderrors.New("font family not registered: " + family)
	}
	s.defaultName = family
	return nil
}

// Has reports whether family is registered.
func (s *FontSet) Has(family string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.faces[family]
	return ok
}

// Advance returns the advance width of text drawn with st, in logical
// pixels.
func (s *FontSet) Advance(text string, st style.TextStyle) float64 {
	if text == "" {
		return 0
	}
	s.mu.Lock()
	f, ok := s.faces[st.FontFamily]
	if !ok {
		f = s.faces[s.defaultName]
	}
	var adv fixed.Int26_6 = font.MeasureString(f.face, text)
	s.mu.Unlock()

	size := st.FontSize
	if size <= 0 {
		size = style.DefaultFontSize
	}
	return float64(adv) / 64 * size / f.nominal
}

// snap rounds a logical length up to the physical pixel grid.
func snap(v, scale float64) float64 {
	if scale <= 0 {
		return v
	}
	return math.Ceil(v*scale-1e-9) / scale
}
