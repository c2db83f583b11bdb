package geometry

import "fmt"

// Size is the natural pixel size of an image.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether either dimension is unknown.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// ViewBox returns the SVG viewBox covering the image.
func (s Size) ViewBox() string {
	return fmt.Sprintf("0 0 %d %d", s.Width, s.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
