package main

import (
	"os"
	"path/filepath"
	"testing"

	"heicexif/internal/fixture"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeHEIC(t *testing.T, f *fixture.File) string {
	t.Helper()
	return writeFile(t, "test.heic", f.Bytes())
}

// sampleTIFF has at least one described tag in every context.
func sampleTIFF() fixture.TIFF {
	return fixture.TIFF{
		IFD0: []fixture.Entry{
			fixture.Long(0x0100, 100),
			fixture.Long(0x0101, 80),
			fixture.ASCII(0x010F, "Apple"),
			fixture.ASCII(0x0110, "iPhone 12"),
			fixture.Short(0x0112, 6),
			fixture.Rational(0x011A, 72, 1),
			fixture.ASCII(0x0132, "2024:05:01 10:20:30"),
			fixture.ASCII(0xC4A5, "secret"), // PrintIM, not in the registry
		},
		Exif: []fixture.Entry{
			fixture.Rational(0x829A, 1, 120),
			fixture.Rational(0x829D, 18, 10),
			fixture.Short(0x8827, 64),
			fixture.Undefined(0x9000, []byte("0232")),
			fixture.ASCII(0x9003, "2024:05:01 10:20:30"),
			fixture.Short(0x9209, 0x10),
			fixture.Rational(0x920A, 42, 10),
		},
		GPS: []fixture.Entry{
			fixture.Byte(0x0000, 2, 2, 0, 0),
			fixture.ASCII(0x0001, "N"),
			fixture.Rational(0x0002, 47, 1, 29, 1, 3000, 100),
			fixture.ASCII(0x0003, "E"),
			fixture.Rational(0x0004, 19, 1, 2, 1, 4500, 100),
		},
		Interop: []fixture.Entry{
			fixture.ASCII(0x0001, "R98"),
		},
	}
}

// imageFile is a 100x80 hvc1 primary image with 8 bit pixi, and one
// cdsc-linked Exif item per payload.
func imageFile(payloads ...[]byte) *fixture.File {
	f := &fixture.File{
		Primary:    1,
		Items:      []fixture.Item{{ID: 1, Type: "hvc1", Props: []int{1, 2}}},
		Properties: [][]byte{fixture.Ispe(100, 80), fixture.Pixi(8, 8, 8)},
	}
	for i, p := range payloads {
		id := uint32(2 + i)
		f.Items = append(f.Items, fixture.Item{ID: id, Type: "Exif", Data: p})
		f.Refs = append(f.Refs, fixture.Ref{Type: "cdsc", From: id, To: []uint32{1}})
	}
	return f
}

func openImage(t *testing.T, f *fixture.File) (*Container, *ImageHandle) {
	t.Helper()
	c, err := OpenContainer(writeHEIC(t, f))
	if err != nil {
		t.Fatalf("OpenContainer: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	h, err := c.PrimaryImage()
	if err != nil {
		t.Fatalf("PrimaryImage: %v", err)
	}
	return c, h
}
