package main

import (
	"encoding/binary"
	"testing"

	"heicexif/internal/fixture"
)

func TestCheckTIFF(t *testing.T) {
	if err := checkTIFF(sampleTIFF().Encode()); err != nil {
		t.Errorf("sample block rejected: %v", err)
	}

	le := binary.LittleEndian
	// IFD0 at 8 chains to an empty IFD at 26, which chains back to 8
	loop := []byte{'I', 'I', 0x2A, 0, 8, 0, 0, 0}
	loop = le.AppendUint16(loop, 1)
	loop = le.AppendUint16(loop, 0x0100)
	loop = le.AppendUint16(loop, fixture.TypeLong)
	loop = le.AppendUint32(loop, 1)
	loop = le.AppendUint32(loop, 100)
	loop = le.AppendUint32(loop, 26)
	loop = le.AppendUint16(loop, 0)
	loop = le.AppendUint32(loop, 8)

	// three 80 byte values sharing the same bytes of a 90 byte block
	overlap := []byte{'I', 'I', 0x2A, 0, 8, 0, 0, 0}
	overlap = le.AppendUint16(overlap, 3)
	for i := uint16(0); i < 3; i++ {
		overlap = le.AppendUint16(overlap, 0x010E+i)
		overlap = le.AppendUint16(overlap, fixture.TypeASCII)
		overlap = le.AppendUint32(overlap, 80)
		overlap = le.AppendUint32(overlap, 8)
	}
	overlap = le.AppendUint32(overlap, 0)
	overlap = append(overlap, make([]byte, 40)...)

	bad := map[string][]byte{
		"short":      {'I', 'I', 0x2A, 0},
		"not tiff":   []byte("JFIF0000"),
		"loop":       loop,
		"huge count": fixture.TIFF{IFD0: []fixture.Entry{{Tag: 0x010F, Type: fixture.TypeASCII, Count: 0x40000000, Data: []byte("Apple\x00")}}}.Encode(),
		"overlap":    overlap,
	}
	for name, data := range bad {
		if err := checkTIFF(data); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}

	if _, err := DecodeExif(append([]byte{0, 0, 0, 0}, loop...)); err == nil {
		t.Error("DecodeExif accepted a looping IFD chain")
	}
}
