package fixture

import (
	"encoding/binary"
)

var be = binary.BigEndian

// Item is an entry of the item info box. Items with Data get an item
// location pointing into the mdat box.
type Item struct {
	ID    uint32
	Type  string
	Data  []byte
	Props []int // 1-based indexes into File.Properties
}

// Ref is a single typed item reference, e.g. "cdsc" from an Exif item to
// the image it describes.
type Ref struct {
	Type string
	From uint32
	To   []uint32
}

// File describes a HEIF container. A zero Primary omits the pitm box.
// MdatFirst places the mdat box between ftyp and meta.
type File struct {
	Primary    uint32
	Items      []Item
	Properties [][]byte
	Refs       []Ref
	MdatFirst  bool
}

// Bytes encodes the container as ftyp, meta and mdat boxes.
func (f *File) Bytes() []byte {
	ftyp := box("ftyp", []byte("heic"), be.AppendUint32(nil, 0), []byte("mif1heic"))
	var data []byte
	for _, it := range f.Items {
		data = append(data, it.Data...)
	}
	mdat := box("mdat", data)

	out := ftyp
	if f.MdatFirst {
		out = append(out, mdat...)
		return append(out, f.meta(len(ftyp)+8)...)
	}
	// item offsets don't change the meta box size
	meta := f.meta(0)
	meta = f.meta(len(ftyp) + len(meta) + 8)
	out = append(out, meta...)
	return append(out, mdat...)
}

func (f *File) meta(dataStart int) []byte {
	children := [][]byte{
		fullBox("hdlr", 0, 0, be.AppendUint32(nil, 0), []byte("pict"), make([]byte, 12), []byte{0}),
	}
	if f.Primary != 0 {
		children = append(children, fullBox("pitm", 0, 0, be.AppendUint16(nil, uint16(f.Primary))))
	}

	infes := [][]byte{be.AppendUint16(nil, uint16(len(f.Items)))}
	for _, it := range f.Items {
		name := []byte{0}
		if it.Type == "mime" {
			name = append(name, "application/rdf+xml\x00"...)
		}
		infes = append(infes, fullBox("infe", 2, 0,
			be.AppendUint16(nil, uint16(it.ID)),
			be.AppendUint16(nil, 0),
			[]byte(it.Type),
			name))
	}
	children = append(children, fullBox("iinf", 0, 0, infes...))

	if len(f.Refs) > 0 {
		var refs [][]byte
		for _, r := range f.Refs {
			b := be.AppendUint16(nil, uint16(r.From))
			b = be.AppendUint16(b, uint16(len(r.To)))
			for _, to := range r.To {
				b = be.AppendUint16(b, uint16(to))
			}
			refs = append(refs, box(r.Type, b))
		}
		children = append(children, fullBox("iref", 0, 0, refs...))
	}

	var ipma []byte
	var n uint32
	for _, it := range f.Items {
		if len(it.Props) == 0 {
			continue
		}
		n++
		ipma = be.AppendUint16(ipma, uint16(it.ID))
		ipma = append(ipma, byte(len(it.Props)))
		for _, p := range it.Props {
			ipma = append(ipma, byte(p&0x7F))
		}
	}
	children = append(children, box("iprp",
		box("ipco", f.Properties...),
		fullBox("ipma", 0, 0, be.AppendUint32(nil, n), ipma)))

	var iloc []byte
	var located uint16
	off := dataStart
	for _, it := range f.Items {
		if it.Data == nil {
			continue
		}
		located++
		iloc = be.AppendUint16(iloc, uint16(it.ID))
		iloc = be.AppendUint16(iloc, 0) // data_reference_index
		iloc = be.AppendUint16(iloc, 1) // extent_count
		iloc = be.AppendUint32(iloc, uint32(off))
		iloc = be.AppendUint32(iloc, uint32(len(it.Data)))
		off += len(it.Data)
	}
	children = append(children, fullBox("iloc", 0, 0,
		[]byte{0x44, 0x00}, // 4 byte offsets and lengths, no base offset
		be.AppendUint16(nil, located),
		iloc))

	return fullBox("meta", 0, 0, children...)
}

func box(typ string, parts ...[]byte) []byte {
	size := 8
	for _, p := range parts {
		size += len(p)
	}
	b := be.AppendUint32(make([]byte, 0, size), uint32(size))
	b = append(b, typ[:4]...)
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

func fullBox(typ string, version byte, flags uint32, parts ...[]byte) []byte {
	hdr := []byte{version, byte(flags >> 16), byte(flags >> 8), byte(flags)}
	return box(typ, append([][]byte{hdr}, parts...)...)
}

// Ispe is an image spatial extents property.
func Ispe(width, height uint32) []byte {
	return fullBox("ispe", 0, 0, be.AppendUint32(nil, width), be.AppendUint32(nil, height))
}

// Pixi is a pixel information property with one bit depth per channel.
func Pixi(bits ...byte) []byte {
	return fullBox("pixi", 0, 0, []byte{byte(len(bits))}, bits)
}

// Irot rotates the image by angle quarter turns counter-clockwise.
func Irot(angle byte) []byte {
	return box("irot", []byte{angle & 3})
}

// Imir mirrors the image; axis 0 is vertical, 1 is horizontal.
func Imir(axis byte) []byte {
	return box("imir", []byte{axis & 1})
}

// AuxC is an auxiliary type property.
func AuxC(urn string) []byte {
	return fullBox("auxC", 0, 0, append([]byte(urn), 0))
}

// HvcC is an HEVC decoder configuration record without parameter sets.
func HvcC(chromaFormat, lumaBits, chromaBits byte) []byte {
	rec := make([]byte, 23)
	rec[0] = 1
	rec[16] = 0xFC | chromaFormat&3
	rec[17] = 0xF8 | (lumaBits-8)&7
	rec[18] = 0xF8 | (chromaBits-8)&7
	rec[21] = 0x0F
	return box("hvcC", rec)
}
