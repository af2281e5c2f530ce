package machine

import "fmt"

type Color struct {
	R uint8
	G uint8
	B uint8
}

var (
	Off    = Color{}
	Green  = Color{G: 255}
	Yellow = Color{R: 255, G: 255}
	Blue   = Color{B: 255}
	Red    = Color{R: 255}
)

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Scale dims c by brightness in [0, 1].
func (c Color) Scale(brightness float64) Color {
	if brightness >= 1 {
		return c
	}

	if brightness <= 0 {
		return Off
	}

	return Color{
		R: uint8(float64(c.R) * brightness),
		G: uint8(float64(c.G) * brightness),
		B: uint8(float64(c.B) * brightness),
	}
}

// Zone describes the static layout of one touch zone.
type Zone struct {
	Name      string
	Color     Color
	Frequency float64
	// Pixels are the indexes of the zone's LEDs on the pixel ring.
	Pixels []int
}

// PixelCount is the size of the pixel ring the default zones are laid out on.
const PixelCount = 10

// DefaultZones is the Green, Yellow, Blue, Red layout of the original board.
var DefaultZones = []Zone{
	{Name: "green", Color: Green, Frequency: 261.63, Pixels: []int{0, 1}},
	{Name: "yellow", Color: Yellow, Frequency: 293.66, Pixels: []int{3, 4}},
	{Name: "blue", Color: Blue, Frequency: 329.63, Pixels: []int{8, 9}},
	{Name: "red", Color: Red, Frequency: 349.23, Pixels: []int{5, 6}},
}
