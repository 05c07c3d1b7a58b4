// Package fixture builds small synthetic HEIF containers and EXIF blocks
// in memory, for tests and sample files.
package fixture

import (
	"encoding/binary"
	"sort"
)

// TIFF field types.
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeUndefined = 7
)

const (
	exifPointer    = 0x8769
	gpsPointer     = 0x8825
	interopPointer = 0xA005
)

var order = binary.LittleEndian

// Entry is one IFD entry. Data holds the encoded value.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

func Byte(tag uint16, vs ...byte) Entry {
	return Entry{Tag: tag, Type: TypeByte, Count: uint32(len(vs)), Data: append([]byte(nil), vs...)}
}

func ASCII(tag uint16, s string) Entry {
	b := append([]byte(s), 0)
	return Entry{Tag: tag, Type: TypeASCII, Count: uint32(len(b)), Data: b}
}

func Short(tag uint16, vs ...uint16) Entry {
	b := make([]byte, 2*len(vs))
	for i, v := range vs {
		order.PutUint16(b[2*i:], v)
	}
	return Entry{Tag: tag, Type: TypeShort, Count: uint32(len(vs)), Data: b}
}

func Long(tag uint16, vs ...uint32) Entry {
	b := make([]byte, 4*len(vs))
	for i, v := range vs {
		order.PutUint32(b[4*i:], v)
	}
	return Entry{Tag: tag, Type: TypeLong, Count: uint32(len(vs)), Data: b}
}

// Rational encodes numerator/denominator pairs.
func Rational(tag uint16, pairs ...uint32) Entry {
	b := make([]byte, 4*len(pairs))
	for i, v := range pairs {
		order.PutUint32(b[4*i:], v)
	}
	return Entry{Tag: tag, Type: TypeRational, Count: uint32(len(pairs) / 2), Data: b}
}

func Undefined(tag uint16, b []byte) Entry {
	return Entry{Tag: tag, Type: TypeUndefined, Count: uint32(len(b)), Data: append([]byte(nil), b...)}
}

// TIFF lists the entries of each IFD of an EXIF block. Sub-IFD pointers
// are added by Encode.
type TIFF struct {
	IFD0    []Entry
	Exif    []Entry
	GPS     []Entry
	Interop []Entry
}

// Encode returns the little-endian TIFF structure.
func (t TIFF) Encode() []byte {
	ifd0 := append([]Entry(nil), t.IFD0...)
	exif := append([]Entry(nil), t.Exif...)
	if len(t.Interop) > 0 {
		exif = append(exif, Long(interopPointer, 0))
	}
	if len(exif) > 0 {
		ifd0 = append(ifd0, Long(exifPointer, 0))
	}
	if len(t.GPS) > 0 {
		ifd0 = append(ifd0, Long(gpsPointer, 0))
	}

	const off0 = 8
	offExif := off0 + ifdSize(ifd0)
	offGPS := offExif + ifdSize(exif)
	offInterop := offGPS + ifdSize(t.GPS)
	setPointer(ifd0, exifPointer, offExif)
	setPointer(ifd0, gpsPointer, offGPS)
	setPointer(exif, interopPointer, offInterop)

	buf := []byte{'I', 'I', 0x2A, 0}
	buf = order.AppendUint32(buf, off0)
	buf = appendIFD(buf, ifd0, off0)
	buf = appendIFD(buf, exif, offExif)
	buf = appendIFD(buf, t.GPS, offGPS)
	buf = appendIFD(buf, t.Interop, offInterop)
	return buf
}

func setPointer(entries []Entry, tag uint16, off int) {
	for i := range entries {
		if entries[i].Tag == tag {
			order.PutUint32(entries[i].Data, uint32(off))
		}
	}
}

func padded(n int) int {
	return n + n%2
}

func ifdSize(entries []Entry) int {
	if len(entries) == 0 {
		return 0
	}
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.Data) > 4 {
			n += padded(len(e.Data))
		}
	}
	return n
}

func appendIFD(buf []byte, entries []Entry, base int) []byte {
	if len(entries) == 0 {
		return buf
	}
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	dataOff := base + 2 + 12*len(sorted) + 4
	var data []byte
	buf = order.AppendUint16(buf, uint16(len(sorted)))
	for _, e := range sorted {
		buf = order.AppendUint16(buf, e.Tag)
		buf = order.AppendUint16(buf, e.Type)
		buf = order.AppendUint32(buf, e.Count)
		if len(e.Data) <= 4 {
			var v [4]byte
			copy(v[:], e.Data)
			buf = append(buf, v[:]...)
			continue
		}
		buf = order.AppendUint32(buf, uint32(dataOff+len(data)))
		data = append(data, e.Data...)
		if len(e.Data)%2 == 1 {
			data = append(data, 0)
		}
	}
	buf = order.AppendUint32(buf, 0) // no next IFD
	return append(buf, data...)
}

// ExifPayload wraps TIFF data the way a HEIF Exif item stores it: a 4 byte
// offset to the TIFF header followed by the "Exif\0\0" marker.
func ExifPayload(tiffData []byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, 6)
	b = append(b, "Exif\x00\x00"...)
	return append(b, tiffData...)
}
