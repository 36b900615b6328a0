package pixeltext

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// grid is an in-memory Image laid out in row-major order.
type grid struct {
	w, h int
	px   [][3]uint8
}

func (g *grid) Width() int  { return g.w }
func (g *grid) Height() int { return g.h }
func (g *grid) RGB(x, y int) (uint8, uint8, uint8) {
	p := g.px[y*g.w+x]
	return p[0], p[1], p[2]
}

func newGrid(w, h int, px ...[3]uint8) *grid {
	return &grid{w: w, h: h, px: px}
}

// gradient builds a w x h grid whose channels vary with position.
func gradient(w, h int) *grid {
	g := &grid{w: w, h: h, px: make([][3]uint8, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.px[y*w+x] = [3]uint8{uint8(x * 7), uint8(y * 13), uint8(x*y + 3)}
		}
	}
	return g
}

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		name       string
		img        *grid
		wantBinary string
		wantHex    string
	}{
		{
			name:       "black pixel",
			img:        newGrid(1, 1, [3]uint8{0, 0, 0}),
			wantBinary: strings.Repeat("0", 24),
			wantHex:    "000000",
		},
		{
			name:       "mixed channels",
			img:        newGrid(1, 1, [3]uint8{255, 16, 1}),
			wantBinary: "11111111" + "00010000" + "00000001",
			wantHex:    "FF1001",
		},
		{
			name:       "uppercase hex",
			img:        newGrid(1, 1, [3]uint8{0xAB, 0xCD, 0xEF}),
			wantBinary: "10101011" + "11001101" + "11101111",
			wantHex:    "ABCDEF",
		},
		{
			name:       "row left to right",
			img:        newGrid(2, 1, [3]uint8{1, 2, 3}, [3]uint8{4, 5, 6}),
			wantBinary: "000000010000001000000011" + "000001000000010100000110",
			wantHex:    "010203" + "040506",
		},
		{
			name: "rows top to bottom",
			img: newGrid(2, 2,
				[3]uint8{1, 1, 1}, [3]uint8{2, 2, 2},
				[3]uint8{3, 3, 3}, [3]uint8{4, 4, 4}),
			wantBinary: strings.Repeat("00000001", 3) + strings.Repeat("00000010", 3) +
				strings.Repeat("00000011", 3) + strings.Repeat("00000100", 3),
			wantHex: "010101" + "020202" + "030303" + "040404",
		},
		{
			name:       "column of pixels",
			img:        newGrid(1, 2, [3]uint8{0x10, 0x20, 0x30}, [3]uint8{0x40, 0x50, 0x60}),
			wantBinary: "000100000010000000110000" + "010000000101000001100000",
			wantHex:    "102030" + "405060",
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin, err := Binary(ctx, tt.img)
			if err != nil {
				t.Fatalf("Binary failed: %v", err)
			}
			if bin != tt.wantBinary {
				t.Errorf("Binary = %q, want %q", bin, tt.wantBinary)
			}

			hex, err := Hex(ctx, tt.img)
			if err != nil {
				t.Fatalf("Hex failed: %v", err)
			}
			if hex != tt.wantHex {
				t.Errorf("Hex = %q, want %q", hex, tt.wantHex)
			}
		})
	}
}

func TestEveryChannelValue(t *testing.T) {
	img := &grid{w: 256, h: 1, px: make([][3]uint8, 256)}
	for v := 0; v < 256; v++ {
		img.px[v] = [3]uint8{uint8(v), uint8(v), uint8(v)}
	}

	pair, err := Encode(context.Background(), img)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	for v := 0; v < 256; v++ {
		bin := pair.Binary[v*BinaryPixelWidth : v*BinaryPixelWidth+8]
		var got int
		for _, c := range bin {
			got = got<<1 | int(c-'0')
		}
		if got != v {
			t.Errorf("binary for %d decodes to %d (%q)", v, got, bin)
		}

		hex := pair.Hex[v*HexPixelWidth : v*HexPixelWidth+2]
		if hex != strings.ToUpper(hex) {
			t.Errorf("hex for %d is not uppercase: %q", v, hex)
		}
		if hex[0] != hexDigits[v>>4] || hex[1] != hexDigits[v&0x0f] {
			t.Errorf("hex for %d = %q", v, hex)
		}
	}
}

func TestEncodedLengths(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 1}, {1, 5}, {7, 3}, {64, 48}}

	for _, s := range sizes {
		img := gradient(s[0], s[1])
		pair, err := Encode(context.Background(), img)
		if err != nil {
			t.Fatalf("%dx%d: Encode failed: %v", s[0], s[1], err)
		}
		if want := 24 * s[0] * s[1]; len(pair.Binary) != want {
			t.Errorf("%dx%d: len(binary) = %d, want %d", s[0], s[1], len(pair.Binary), want)
		}
		if want := 6 * s[0] * s[1]; len(pair.Hex) != want {
			t.Errorf("%dx%d: len(hex) = %d, want %d", s[0], s[1], len(pair.Hex), want)
		}
		if strings.Trim(pair.Binary, "01") != "" {
			t.Errorf("%dx%d: binary contains characters other than 0 and 1", s[0], s[1])
		}
		if strings.Trim(pair.Hex, hexDigits) != "" {
			t.Errorf("%dx%d: hex contains characters outside %s", s[0], s[1], hexDigits)
		}
	}
}

func TestEmptyImage(t *testing.T) {
	for _, img := range []*grid{newGrid(0, 0), newGrid(0, 4), newGrid(4, 0)} {
		pair, err := Encode(context.Background(), img)
		if err != nil {
			t.Fatalf("%dx%d: Encode failed: %v", img.w, img.h, err)
		}
		if pair.Binary != "" || pair.Hex != "" {
			t.Errorf("%dx%d: got %+v, want empty encodings", img.w, img.h, pair)
		}
	}
}

func TestDeterministic(t *testing.T) {
	img := gradient(31, 17)
	ctx := context.Background()

	first, err := Encode(ctx, img)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Encode(ctx, img)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("run %d produced different output", i+2)
		}
	}
}

func TestEncodeMatchesSingleModes(t *testing.T) {
	img := gradient(9, 4)
	ctx := context.Background()

	pair, err := Encode(ctx, img)
	if err != nil {
		t.Fatal(err)
	}
	bin, _ := Binary(ctx, img)
	hex, _ := Hex(ctx, img)
	if pair.Binary != bin || pair.Hex != hex {
		t.Error("Encode differs from Binary/Hex computed separately")
	}
}

func TestConcurrentEncodingOfSharedImage(t *testing.T) {
	img := gradient(40, 40)
	want, err := Encode(context.Background(), img)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Encode(context.Background(), img)
			if err != nil {
				t.Error(err)
				return
			}
			if got != want {
				t.Error("concurrent encoding produced different output")
			}
		}()
	}
	wg.Wait()
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := gradient(4, 4)
	if _, err := Binary(ctx, img); !errors.Is(err, context.Canceled) {
		t.Errorf("Binary error = %v, want context.Canceled", err)
	}
	if _, err := Hex(ctx, img); !errors.Is(err, context.Canceled) {
		t.Errorf("Hex error = %v, want context.Canceled", err)
	}

	pair, err := Encode(ctx, img)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Encode error = %v, want context.Canceled", err)
	}
	if pair != (EncodedPair{}) {
		t.Errorf("Encode returned %+v alongside an error", pair)
	}
}

// cancelAfterRows cancels its context once the encoder reaches row n.
type cancelAfterRows struct {
	*grid
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfterRows) RGB(x, y int) (uint8, uint8, uint8) {
	if y == c.n && x == 0 {
		c.cancel()
	}
	return c.grid.RGB(x, y)
}

func TestCancelMidImage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	img := &cancelAfterRows{grid: gradient(8, 100), n: 10, cancel: cancel}
	if _, err := Hex(ctx, img); !errors.Is(err, context.Canceled) {
		t.Errorf("Hex error = %v, want context.Canceled", err)
	}
}

func BenchmarkEncode(b *testing.B) {
	img := gradient(640, 480)
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(ctx, img); err != nil {
			b.Fatal(err)
		}
	}
}
