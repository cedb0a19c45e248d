package image

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecodePGMBinary(t *testing.T) {
	data := append([]byte("P5\n# a comment\n3 2\n255\n"), 0, 128, 255, 255, 128, 0)
	img, err := DecodePGM(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodePGM failed: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	want := []uint8{0, 128, 255, 255, 128, 0}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("Pix = %v, want %v", img.Pix, want)
	}
}

func TestDecodePGMPlain(t *testing.T) {
	src := "P2\n2 2 # width height\n15\n0 15\n# row two\n5 10\n"
	img, err := DecodePGM(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodePGM failed: %v", err)
	}
	want := []uint8{0, 255, 85, 170}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("Pix = %v, want %v", img.Pix, want)
	}
}

func TestDecodePGM16Bit(t *testing.T) {
	data := append([]byte("P5 2 1 65535\n"), 0xFF, 0xFF, 0x00, 0x00)
	img, err := DecodePGM(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodePGM failed: %v", err)
	}
	if img.Pix[0] != 255 || img.Pix[1] != 0 {
		t.Errorf("Pix = %v, want [255 0]", img.Pix)
	}
}

func TestDecodePGMErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad magic", "P6\n1 1\n255\n\x00\x00\x00"},
		{"zero width", "P5\n0 1\n255\n"},
		{"maxval too large", "P5\n1 1\n70000\n\x00"},
		{"short raster", "P5\n2 2\n255\n\x00"},
		{"truncated header", "P5\n2"},
		{"bad sample", "P2\n1 1\n255\nx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePGM(strings.NewReader(tt.data)); !errors.Is(err, ErrBadPGM) {
				t.Errorf("DecodePGM = %v, want ErrBadPGM", err)
			}
		})
	}
}

func TestEncodePGMHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePGM(&buf, checker()); err != nil {
		t.Fatalf("EncodePGM failed: %v", err)
	}
	header := "P5\n4 3\n255\n"
	if !strings.HasPrefix(buf.String(), header) {
		t.Errorf("header = %q, want prefix %q", buf.String()[:len(header)], header)
	}
	if buf.Len() != len(header)+4*3 {
		t.Errorf("len = %d, want %d", buf.Len(), len(header)+12)
	}
}

func TestEncodePGMRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	src := checker()
	if err := EncodePGM(&buf, src); err != nil {
		t.Fatalf("EncodePGM failed: %v", err)
	}
	got, err := DecodePGM(&buf)
	if err != nil {
		t.Fatalf("DecodePGM failed: %v", err)
	}
	sameGray(t, got, src)
}
