package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBlend(t *testing.T) {
	cases := []struct {
		a, b string
		want string
	}{
		{"#ffffff", "#87ceeb", "#c3e6f5"},
		{"#ff0000", "#87ceeb", "#c36775"},
		{"#000000", "#87ceeb", "#436775"},
		{"#000000", "#000000", "#000000"},
		{"#010101", "#000000", "#000000"},
	}
	for _, c := range cases {
		got := Blend(MustParseHex(c.a), MustParseHex(c.b)).Hex()
		if got != c.want {
			t.Errorf("Blend(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FFA500")
	if err != nil {
		t.Fatal(err)
	}
	if c != (RGB{0xff, 0xa5, 0x00}) {
		t.Fatalf("got %v", c)
	}
	if c.Hex() != "#ffa500" {
		t.Fatalf("Hex() = %s", c.Hex())
	}
	if _, err := ParseHex("orange"); err == nil {
		t.Fatal("expected error for named color")
	}
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gpl")
	data := "GIMP Palette\nName: Test\nColumns: 2\n# comment\n255   0   0 Red\n  0 255   0 Green\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadGPL(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Test" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Colors) != 2 {
		t.Fatalf("got %d colors", len(p.Colors))
	}

	spread := p.Spread(3)
	if spread[0] != (RGB{255, 0, 0}) || spread[2] != (RGB{0, 255, 0}) {
		t.Errorf("Spread ends = %v %v", spread[0], spread[2])
	}
}

func TestLoadGPLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGPL(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestApplyPalette(t *testing.T) {
	th := New()
	p := &Palette{Colors: make([]RGB, 10)}
	for i := range p.Colors {
		p.Colors[i] = RGB{uint8(i), 0, 0}
	}
	th.ApplyPalette(p)
	if th.Row(7) != (RGB{7, 0, 0}) {
		t.Errorf("Row(7) = %v", th.Row(7))
	}
}

func TestContrast(t *testing.T) {
	black, white := RGB{}, RGB{0xff, 0xff, 0xff}
	cases := map[string]RGB{
		"#ffffff": black,
		"#ffff00": black,
		"#87ceeb": black,
		"#0000ff": white,
		"#000000": white,
	}
	for hex, want := range cases {
		if got := Contrast(MustParseHex(hex)); got != want {
			t.Errorf("Contrast(%s) = %v, want %v", hex, got, want)
		}
	}
}
