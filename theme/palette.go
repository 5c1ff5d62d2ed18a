package theme

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

type RGB [3]uint8

// Hex returns the color in #rrggbb form
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// ParseHex reads a #rrggbb (or #rgb) color
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return RGB{}, errors.Wrapf(err, "parse color %q", s)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

// MustParseHex is ParseHex for compile-time constants
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Blend averages two colors channel by channel, rounding down
func Blend(a, b RGB) RGB {
	return RGB{
		uint8((uint16(a[0]) + uint16(b[0])) / 2),
		uint8((uint16(a[1]) + uint16(b[1])) / 2),
		uint8((uint16(a[2]) + uint16(b[2])) / 2),
	}
}

type Palette struct {
	Name   string
	Colors []RGB
}

func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open palette")
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// First 3 fields are R G B, the rest is the swatch name
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			r, err1 := strconv.Atoi(fields[0])
			g, err2 := strconv.Atoi(fields[1])
			b, err3 := strconv.Atoi(fields[2])
			if err1 == nil && err2 == nil && err3 == nil {
				p.Colors = append(p.Colors, RGB{uint8(r), uint8(g), uint8(b)})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read palette %s", path)
	}

	if len(p.Colors) == 0 {
		return nil, errors.Errorf("no colors found in palette %s", path)
	}

	return p, nil
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i]
	c1 := p.Colors[i+1]

	return RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// Spread picks n colors evenly across the palette. Palettes with at least n
// entries use their first n colors verbatim.
func (p *Palette) Spread(n int) []RGB {
	out := make([]RGB, n)
	if len(p.Colors) >= n {
		copy(out, p.Colors[:n])
		return out
	}
	for i := range out {
		if n == 1 {
			out[i] = p.Colors[0]
			continue
		}
		out[i] = p.Lookup(float64(i) / float64(n-1))
	}
	return out
}

// Contrast picks black or white, whichever reads better on c
func Contrast(c RGB) RGB {
	l, _, _ := colorful.Color{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
	}.Lab()
	if l > 0.6 {
		return RGB{}
	}
	return RGB{0xff, 0xff, 0xff}
}
