package main

import (
	"os"
	"path/filepath"

	"heicexif/internal/fixture"
)

// sampleExif returns an EXIF block describing a photo taken with the given camera
func sampleExif(camMake, model string, width, height uint32, withGPS bool) []byte {
	t := fixture.TIFF{
		IFD0: []fixture.Entry{
			fixture.Long(0x0100, width),
			fixture.Long(0x0101, height),
			fixture.ASCII(0x010F, camMake),
			fixture.ASCII(0x0110, model),
			fixture.Short(0x0112, 6),
			fixture.ASCII(0x0132, "2024:05:01 10:20:30"),
		},
		Exif: []fixture.Entry{
			fixture.Rational(0x829A, 1, 120),
			fixture.Rational(0x829D, 18, 10),
			fixture.Short(0x8827, 64),
			fixture.Undefined(0x9000, []byte("0232")),
			fixture.ASCII(0x9003, "2024:05:01 10:20:30"),
			fixture.Rational(0x920A, 42, 10),
		},
		Interop: []fixture.Entry{
			fixture.ASCII(0x0001, "R98"),
		},
	}
	if withGPS {
		t.GPS = []fixture.Entry{
			fixture.Byte(0x0000, 2, 2, 0, 0),
			fixture.ASCII(0x0001, "N"),
			fixture.Rational(0x0002, 47, 1, 29, 1, 3000, 100),
			fixture.ASCII(0x0003, "E"),
			fixture.Rational(0x0004, 19, 1, 2, 1, 4500, 100),
		}
	}
	return fixture.ExifPayload(t.Encode())
}

// sampleHEIC builds a container with one hvc1 primary image and an optional Exif item.
// The image has no coded data, so only metadata readers can use it.
func sampleHEIC(width, height uint32, exif []byte, rotate bool) []byte {
	f := &fixture.File{
		Primary:    1,
		Items:      []fixture.Item{{ID: 1, Type: "hvc1", Props: []int{1, 2}}},
		Properties: [][]byte{fixture.Ispe(width, height), fixture.Pixi(8, 8, 8)},
	}
	if rotate {
		f.Properties = append(f.Properties, fixture.Irot(1))
		f.Items[0].Props = append(f.Items[0].Props, 3)
	}
	if exif != nil {
		f.Items = append(f.Items, fixture.Item{ID: 2, Type: "Exif", Data: exif})
		f.Refs = append(f.Refs, fixture.Ref{Type: "cdsc", From: 2, To: []uint32{1}})
	}
	return f.Bytes()
}

func main() {
	dir := "input/heic"
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(err)
	}

	samples := []struct {
		name string
		data []byte
	}{
		{"full.heic", sampleHEIC(4032, 3024, sampleExif("Apple", "iPhone 12", 4032, 3024, true), false)},
		{"rotated.heic", sampleHEIC(4032, 3024, sampleExif("Apple", "iPhone 12", 4032, 3024, false), true)},
		{"no_exif.heic", sampleHEIC(640, 480, nil, false)},
		{"bad_exif.heic", sampleHEIC(640, 480, []byte{0, 0, 0, 6, 'j', 'u', 'n', 'k'}, false)},
	}

	for _, s := range samples {
		path := filepath.Join(dir, s.name)
		if err := os.WriteFile(path, s.data, 0644); err != nil {
			panic(err)
		}
		println("created", path)
	}

	println("")
	println("Test HEIC files created successfully!")
	println("  - full.heic     (EXIF with TIFF, Exif, GPS and Interop tags)")
	println("  - rotated.heic  (irot 90, dimensions reported as 3024x4032)")
	println("  - no_exif.heic  (no Exif item)")
	println("  - bad_exif.heic (Exif item the decoder rejects)")
}
