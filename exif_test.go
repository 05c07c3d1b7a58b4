package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"

	"heicexif/internal/fixture"
)

func decodeSample(t *testing.T, tt fixture.TIFF) *Metadata {
	t.Helper()
	m, err := ExtractExif([]MetadataItem{{ID: 2, Type: exifItemType, Data: fixture.ExifPayload(tt.Encode())}})
	if err != nil {
		t.Fatalf("ExtractExif: %v", err)
	}
	return m
}

func TestDecodeExifShortPayload(t *testing.T) {
	for n := 0; n < exifPrefixLen+1; n++ {
		payload := make([]byte, n)
		if _, err := DecodeExif(payload); !errors.Is(err, ErrInvalidExifData) {
			t.Errorf("%d byte payload: got %v, want ErrInvalidExifData", n, err)
		}
	}
}

func TestDecodeExifRejectsGarbage(t *testing.T) {
	payload := append([]byte{0, 0, 0, 6}, "Exif\x00\x00not a tiff header"...)
	if _, err := DecodeExif(payload); !errors.Is(err, ErrInvalidExifData) {
		t.Errorf("got %v, want ErrInvalidExifData", err)
	}
}

func TestDecodeExifStripsPrefix(t *testing.T) {
	tiffData := sampleTIFF().Encode()
	payloads := map[string][]byte{
		"exif marker": fixture.ExifPayload(tiffData),
		"any prefix":  append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, fixture.ExifPayload(tiffData)[4:]...),
		"bare tiff":   append([]byte{0, 0, 0, 0}, tiffData...),
	}
	for name, payload := range payloads {
		x, err := DecodeExif(payload)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		tag, err := x.Get(exif.ImageWidth)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if w, err := tag.Int(0); err != nil || w != 100 {
			t.Errorf("%s: ImageWidth = %d, %v; want 100", name, w, err)
		}
	}
}

func TestDecodeExifHugeCount(t *testing.T) {
	tt := fixture.TIFF{IFD0: []fixture.Entry{
		{Tag: 0x010F, Type: fixture.TypeASCII, Count: 0x40000000, Data: []byte("Apple\x00")},
	}}
	if _, err := DecodeExif(fixture.ExifPayload(tt.Encode())); !errors.Is(err, ErrInvalidExifData) {
		t.Errorf("IFD0: got %v, want ErrInvalidExifData", err)
	}

	tt = fixture.TIFF{
		IFD0: []fixture.Entry{fixture.ASCII(0x010F, "Apple")},
		GPS:  []fixture.Entry{{Tag: 0x0002, Type: fixture.TypeRational, Count: 0x20000000, Data: make([]byte, 24)}},
	}
	if _, err := DecodeExif(fixture.ExifPayload(tt.Encode())); !errors.Is(err, ErrInvalidExifData) {
		t.Errorf("GPS IFD: got %v, want ErrInvalidExifData", err)
	}
}

func TestDecodeExifPartialBlock(t *testing.T) {
	// without GPS entries the pointer lands at the end of the data
	tt := fixture.TIFF{IFD0: []fixture.Entry{
		fixture.ASCII(0x010F, "Apple"),
		fixture.Long(0x8825, 0),
	}}
	payload := fixture.ExifPayload(tt.Encode())

	x, err := DecodeExif(payload)
	if err == nil || x == nil {
		t.Fatalf("got %v, %v; want a partial block and an error", x, err)
	}
	if errors.Is(err, ErrInvalidExifData) {
		t.Errorf("partial block reported as invalid: %v", err)
	}

	m, err := ExtractExif([]MetadataItem{{ID: 2, Type: exifItemType, Data: payload}})
	if err != nil {
		t.Fatal(err)
	}
	if m.Warnings == nil {
		t.Error("expected a warning for the GPS sub-IFD")
	}
	if _, ok := m.Get(exif.Make); !ok {
		t.Error("Make missing")
	}
}

func TestExtractExifUnreadableItem(t *testing.T) {
	unreadable := MetadataItem{ID: 2, Type: exifItemType, Err: errors.New("heif: item has no location")}
	if _, err := ExtractExif([]MetadataItem{unreadable}); !errors.Is(err, ErrInvalidExifData) {
		t.Errorf("got %v, want ErrInvalidExifData", err)
	}

	good := MetadataItem{ID: 3, Type: exifItemType, Data: fixture.ExifPayload(sampleTIFF().Encode())}
	m, err := ExtractExif([]MetadataItem{unreadable, good})
	if err != nil {
		t.Fatal(err)
	}
	if m.Warnings == nil {
		t.Error("expected a warning for the unreadable item")
	}
}

func TestExtractExifNoExifItem(t *testing.T) {
	items := []MetadataItem{{ID: 2, Type: fourCC("mime"), Data: []byte("<xmp/>")}}
	for _, in := range [][]MetadataItem{nil, items} {
		if _, err := ExtractExif(in); !errors.Is(err, ErrNoExifMetadata) {
			t.Errorf("got %v, want ErrNoExifMetadata", err)
		}
	}
}

func TestExtractExifMergesBlocks(t *testing.T) {
	first := fixture.TIFF{IFD0: []fixture.Entry{fixture.Long(0x0100, 100)}}
	second := fixture.TIFF{IFD0: []fixture.Entry{
		fixture.Long(0x0100, 200),
		fixture.ASCII(0x010F, "Apple"),
	}}
	m, err := ExtractExif([]MetadataItem{
		{ID: 2, Type: exifItemType, Data: fixture.ExifPayload(first.Encode())},
		{ID: 3, Type: exifItemType, Data: fixture.ExifPayload(second.Encode())},
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.Warnings != nil {
		t.Errorf("unexpected warnings: %v", m.Warnings)
	}
	w, ok := m.Get(exif.ImageWidth)
	if !ok {
		t.Fatal("ImageWidth missing")
	}
	if v, _ := w.Int(0); v != 100 {
		t.Errorf("ImageWidth = %d, want 100 from the first block", v)
	}
	if _, ok := m.Get(exif.Make); !ok {
		t.Error("Make from the second block missing")
	}
}

func TestExtractExifSkipsBadBlocks(t *testing.T) {
	good := MetadataItem{ID: 3, Type: exifItemType, Data: fixture.ExifPayload(sampleTIFF().Encode())}
	bad := MetadataItem{ID: 2, Type: exifItemType, Data: []byte{0, 0}}

	m, err := ExtractExif([]MetadataItem{bad, good})
	if err != nil {
		t.Fatal(err)
	}
	if m.Warnings == nil {
		t.Error("expected a warning for the bad block")
	}
	if _, ok := m.Get(exif.ImageWidth); !ok {
		t.Error("ImageWidth missing")
	}

	if _, err := ExtractExif([]MetadataItem{bad}); !errors.Is(err, ErrInvalidExifData) {
		t.Errorf("got %v, want ErrInvalidExifData", err)
	}
}

func TestGroupPartitionsDescribedTags(t *testing.T) {
	m := decodeSample(t, sampleTIFF())
	b, err := Group(m)
	if err != nil {
		t.Fatal(err)
	}

	described := make(map[exif.FieldName]bool)
	for name := range m.fields {
		if tag, ok := LookupTag(name); ok && tag.Description != "" {
			described[name] = true
		}
	}

	seen := make(map[exif.FieldName]Context)
	for ctx, fields := range b {
		if len(fields) == 0 {
			t.Errorf("bucket %v is empty", Context(ctx))
		}
		for _, f := range fields {
			if prev, dup := seen[f.Tag.Name]; dup {
				t.Errorf("%s in buckets %v and %v", f.Tag.Name, prev, Context(ctx))
			}
			seen[f.Tag.Name] = Context(ctx)
			if f.Tag.Context != Context(ctx) {
				t.Errorf("%s has context %v, found in bucket %v", f.Tag.Name, f.Tag.Context, Context(ctx))
			}
			if !described[f.Tag.Name] {
				t.Errorf("%s has no description but was bucketed", f.Tag.Name)
			}
		}
	}
	if len(seen) != len(described) {
		t.Errorf("bucketed %d tags, want %d", len(seen), len(described))
	}

	for _, name := range []exif.FieldName{"ExifIFDPointer", "GPSInfoIFDPointer", "InteroperabilityIFDPointer"} {
		if _, ok := seen[name]; ok {
			t.Errorf("pointer tag %s was bucketed", name)
		}
	}

	want := map[exif.FieldName]Context{
		"ImageWidth":            ContextTiff,
		"FNumber":               ContextExif,
		"GPSLatitude":           ContextGPS,
		"InteroperabilityIndex": ContextInterop,
	}
	for name, ctx := range want {
		if got, ok := seen[name]; !ok || got != ctx {
			t.Errorf("%s in bucket %v (present %v), want %v", name, got, ok, ctx)
		}
	}
}

func TestGroupOrdersByRegistry(t *testing.T) {
	m := decodeSample(t, sampleTIFF())
	b, err := Group(m)
	if err != nil {
		t.Fatal(err)
	}
	for _, fields := range b {
		for i := 1; i < len(fields); i++ {
			if tagOrder(fields[i-1].Tag.Name) > tagOrder(fields[i].Tag.Name) {
				t.Errorf("%s listed before %s", fields[i-1].Tag.Name, fields[i].Tag.Name)
			}
		}
	}
}

func TestGroupUnknownContext(t *testing.T) {
	m := decodeSample(t, fixture.TIFF{IFD0: []fixture.Entry{fixture.Long(0x0100, 100)}})
	lookup := func(name exif.FieldName) (Tag, bool) {
		return Tag{Name: name, Description: "broken", Context: Context(7)}, true
	}
	if _, err := group(m, lookup); !errors.Is(err, ErrUnknownContext) {
		t.Errorf("got %v, want ErrUnknownContext", err)
	}
}

func TestTagRegistry(t *testing.T) {
	type key struct {
		ctx Context
		id  uint16
	}
	ids := make(map[key]exif.FieldName)
	for _, tag := range tagRegistry {
		if !tag.Context.Valid() {
			t.Errorf("%s: invalid context %d", tag.Name, tag.Context)
		}
		if tag.Description == "" {
			t.Errorf("%s: empty description", tag.Name)
		}
		k := key{tag.Context, tag.ID}
		if prev, dup := ids[k]; dup {
			t.Errorf("%s and %s share ID 0x%04x in %v", prev, tag.Name, tag.ID, tag.Context)
		}
		ids[k] = tag.Name
	}
	if _, ok := LookupTag("ExifIFDPointer"); ok {
		t.Error("pointer tags should not be described")
	}
}

func TestMetadataHelpers(t *testing.T) {
	m := decodeSample(t, sampleTIFF())
	dt, err := m.DateTime()
	if err != nil {
		t.Fatal(err)
	}
	if got := dt.Format("2006-01-02 15:04:05"); got != "2024-05-01 10:20:30" {
		t.Errorf("DateTime = %s", got)
	}
	lat, long, err := m.LatLong()
	if err != nil {
		t.Fatal(err)
	}
	if lat < 47.4916 || lat > 47.4917 || long < 19.0458 || long > 19.0459 {
		t.Errorf("LatLong = %f, %f", lat, long)
	}

	empty := decodeSample(t, fixture.TIFF{IFD0: []fixture.Entry{fixture.Long(0x0100, 100)}})
	if _, err := empty.DateTime(); err == nil {
		t.Error("DateTime succeeded without date tags")
	}
	if _, _, err := empty.LatLong(); err == nil {
		t.Error("LatLong succeeded without GPS tags")
	}
}
