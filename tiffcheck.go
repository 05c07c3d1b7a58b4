package main

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// TIFF field sizes by type; unknown types count as one byte.
var tiffTypeSizes = map[uint16]uint64{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1, 7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

// Pointer tags of the sub-IFDs the EXIF decoder follows.
var subIFDPointers = map[uint16]bool{
	0x8769: true, // Exif
	0x8825: true, // GPS
	0xA005: true, // Interoperability
}

// checkTIFF walks the IFD entry tables of an EXIF TIFF structure and
// rejects what would make the decoder allocate from untrusted counts or
// loop forever: an entry whose value can't fit in the data, values that
// add up to more than twice the data, or a cycle in the IFD chain.
// Unreachable or truncated sub-IFDs are left to the decoder, which
// reports them as non-critical errors.
func checkTIFF(data []byte) error {
	if len(data) < 8 {
		return errors.New("tiff: short header")
	}
	var order binary.ByteOrder
	switch string(data[:4]) {
	case "II*\x00":
		order = binary.LittleEndian
	case "MM\x00*":
		order = binary.BigEndian
	default:
		return errors.New("tiff: bad header")
	}

	size := uint64(len(data))
	seen := make(map[uint64]bool)
	var (
		pending []uint64
		total   uint64
	)

	// checkDir validates the entries of the IFD at off and returns the
	// offset of the next IFD.
	checkDir := func(off uint64) (uint64, error) {
		if off+2 > size {
			return 0, nil
		}
		entries := uint64(order.Uint16(data[off:]))
		for i := uint64(0); i < entries; i++ {
			e := off + 2 + 12*i
			if e+12 > size {
				return 0, nil
			}
			tag := order.Uint16(data[e:])
			typ := order.Uint16(data[e+2:])
			count := uint64(order.Uint32(data[e+4:]))
			elem, ok := tiffTypeSizes[typ]
			if !ok {
				elem = 1
			}
			n := count * elem
			if n > size {
				return 0, errors.Errorf("tiff: tag 0x%04x declares %d values in %d bytes of data", tag, count, size)
			}
			// values stored out of line may not overlap much
			if n > 4 {
				if total += n; total > 2*size {
					return 0, errors.New("tiff: tag values exceed the data size")
				}
			}
			if subIFDPointers[tag] && count == 1 {
				switch typ {
				case 3:
					pending = append(pending, uint64(order.Uint16(data[e+8:])))
				case 4:
					pending = append(pending, uint64(order.Uint32(data[e+8:])))
				}
			}
		}
		end := off + 2 + 12*entries
		if end+4 > size {
			return 0, nil
		}
		return uint64(order.Uint32(data[end:])), nil
	}

	for off := uint64(order.Uint32(data[4:])); off != 0; {
		if seen[off] {
			return errors.Errorf("tiff: IFD chain loops at offset %d", off)
		}
		seen[off] = true
		next, err := checkDir(off)
		if err != nil {
			return err
		}
		off = next
	}

	// sub-IFDs are read as single directories
	for len(pending) > 0 {
		off := pending[0]
		pending = pending[1:]
		if seen[off] {
			continue
		}
		seen[off] = true
		if _, err := checkDir(off); err != nil {
			return err
		}
	}
	return nil
}
