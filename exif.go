package main

import (
	"bytes"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exifPrefixLen is the size of the exif_tiff_header_offset field that
// precedes the Exif payload of a HEIF Exif item.
const exifPrefixLen = 4

// Field is a decoded tag together with its registry entry.
type Field struct {
	Tag   Tag
	Value *tiff.Tag
}

// Metadata is the merged result of decoding one or more Exif items.
type Metadata struct {
	blocks []*exif.Exif
	fields map[exif.FieldName]*tiff.Tag

	// Warnings holds the decode failures of blocks that were skipped or
	// only partially decoded.
	Warnings error
}

// Len returns the number of decoded tags.
func (m *Metadata) Len() int {
	return len(m.fields)
}

// Get returns the value of the named tag.
func (m *Metadata) Get(name exif.FieldName) (*tiff.Tag, bool) {
	v, ok := m.fields[name]
	return v, ok
}

// Raw returns the first decoded block.
func (m *Metadata) Raw() *exif.Exif {
	if len(m.blocks) == 0 {
		return nil
	}
	return m.blocks[0]
}

// DateTime returns the capture time from the first block that has one.
func (m *Metadata) DateTime() (time.Time, error) {
	err := errors.New("exif: no date and time tags")
	for _, x := range m.blocks {
		var t time.Time
		if t, err = x.DateTime(); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// LatLong returns the position from the first block that has one.
func (m *Metadata) LatLong() (lat, long float64, err error) {
	err = errors.New("exif: no GPS position tags")
	for _, x := range m.blocks {
		if lat, long, err = x.LatLong(); err == nil {
			return lat, long, nil
		}
	}
	return 0, 0, err
}

type fieldCollector map[exif.FieldName]*tiff.Tag

func (c fieldCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if _, ok := c[name]; !ok {
		c[name] = tag
	}
	return nil
}

// DecodeExif decodes the payload of a HEIF Exif item. The payload starts
// with a 4 byte offset field which is dropped before decoding. The rest is
// either an "Exif\0\0" marker followed by a TIFF structure, or the TIFF
// structure alone.
//
// Like exif.Decode, DecodeExif may return a partially decoded block
// together with a non-critical error, e.g. when a GPS sub-IFD is broken.
func DecodeExif(payload []byte) (*exif.Exif, error) {
	if len(payload) < exifPrefixLen {
		return nil, errors.Wrapf(ErrInvalidExifData, "payload is %d bytes", len(payload))
	}
	rest := payload[exifPrefixLen:]
	tiffData := rest
	if bytes.HasPrefix(rest, []byte("Exif")) {
		if len(rest) < 6 {
			return nil, errors.Wrap(ErrInvalidExifData, "truncated Exif marker")
		}
		tiffData = rest[6:]
	}
	if err := checkTIFF(tiffData); err != nil {
		return nil, errors.Wrapf(ErrInvalidExifData, "%v", err)
	}

	x, err := exif.Decode(bytes.NewReader(rest))
	switch {
	case err == nil:
		return x, nil
	case x == nil || exif.IsCriticalError(err):
		return nil, errors.Wrapf(ErrInvalidExifData, "%v", err)
	}
	return x, errors.Wrap(err, "partial EXIF data")
}

// ExtractExif decodes every Exif item in items and merges their fields.
// Items are processed in order; a tag seen in an earlier item is kept.
func ExtractExif(items []MetadataItem) (*Metadata, error) {
	var (
		found int
		errs  error
	)
	m := &Metadata{fields: make(fieldCollector)}
	for _, it := range items {
		if it.Type != exifItemType {
			continue
		}
		found++
		if it.Err != nil {
			errs = multierror.Append(errs, it.Err)
			continue
		}
		x, err := DecodeExif(it.Data)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "item %d", it.ID))
			if x == nil {
				continue
			}
		}
		if err := x.Walk(fieldCollector(m.fields)); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "item %d", it.ID))
			continue
		}
		m.blocks = append(m.blocks, x)
	}

	switch {
	case found == 0:
		return nil, ErrNoExifMetadata
	case len(m.blocks) == 0:
		return nil, errors.Wrapf(ErrInvalidExifData, "%v", errs)
	}
	m.Warnings = errs
	return m, nil
}

// Buckets holds the described fields of a Metadata grouped by context,
// indexed by Context.
type Buckets [4][]Field

// Group classifies the described fields of m by context. Fields whose tag
// has no description are dropped.
func Group(m *Metadata) (Buckets, error) {
	return group(m, LookupTag)
}

func group(m *Metadata, lookup func(exif.FieldName) (Tag, bool)) (Buckets, error) {
	var b Buckets
	for name, v := range m.fields {
		tag, ok := lookup(name)
		if !ok || tag.Description == "" {
			continue
		}
		if !tag.Context.Valid() {
			return Buckets{}, errors.Wrapf(ErrUnknownContext, "tag %s reports context %d", name, int(tag.Context))
		}
		b[tag.Context] = append(b[tag.Context], Field{Tag: tag, Value: v})
	}
	for _, fields := range b {
		sort.Slice(fields, func(i, j int) bool {
			return tagOrder(fields[i].Tag.Name) < tagOrder(fields[j].Tag.Name)
		})
	}
	return b, nil
}
