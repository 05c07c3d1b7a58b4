package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"io"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

const thumbnailQuality = 85

// WriteThumbnail decodes the primary image of c, scales it down to width
// pixels (keeping the aspect ratio) and writes it as a JPEG to path. The
// first Exif block of the image is embedded with its orientation reset.
func WriteThumbnail(c *Container, h *ImageHandle, path string, width int) (image.Rectangle, error) {
	if !isHEICSupported() {
		return image.Rectangle{}, errors.New("HEIC decoding is disabled in this build")
	}
	img, err := decodeHEIC(io.NewSectionReader(c.f, 0, c.size))
	if err != nil {
		return image.Rectangle{}, errors.Wrap(err, "failed to decode HEIC image")
	}
	return writeThumbnail(h, img, path, width)
}

// writeThumbnail applies the display transforms of h to the decoded
// pixels of its image and writes the JPEG.
func writeThumbnail(h *ImageHandle, img image.Image, path string, width int) (image.Rectangle, error) {
	rotations := h.Rotations() % 4
	img = resizeImage(img, width, rotations%2 == 1)
	img = rotateCCW(img, rotations)
	if axis, ok := h.mirrored(); ok {
		if axis == 0 {
			img = flipHorizontal(img)
		} else {
			img = flipVertical(img)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return image.Rectangle{}, errors.Wrap(err, "failed to encode image")
	}
	data := buf.Bytes()

	// EXIF is optional for a thumbnail
	for _, it := range h.Metadata() {
		if it.Type != exifItemType || it.Err != nil {
			continue
		}
		if tiffData, ok := exifTIFFData(it.Data); ok {
			data = insertEXIF(data, resetOrientation(tiffData))
			break
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return image.Rectangle{}, errors.Wrap(err, "failed to write output file")
	}
	return img.Bounds(), nil
}

// resizeImage scales src so that its displayed width is at most width.
// When the image is displayed rotated by 90 degrees the displayed width
// is the stored height.
func resizeImage(src image.Image, width int, sideways bool) image.Image {
	b := src.Bounds()
	displayed := b.Dx()
	if sideways {
		displayed = b.Dy()
	}
	if width <= 0 || displayed <= width {
		return src
	}
	// Lanczos3 gives the best quality for photos
	if sideways {
		return resize.Resize(0, uint(width), src, resize.Lanczos3)
	}
	return resize.Resize(uint(width), 0, src, resize.Lanczos3)
}

// rotateCCW rotates src by n quarter turns counter-clockwise.
func rotateCCW(src image.Image, n int) image.Image {
	switch n {
	case 1:
		return rotate90CCW(src)
	case 2:
		return rotate180(src)
	case 3:
		return rotate90CW(src)
	}
	return src
}

// rotate90CW rotates image 90 degrees clockwise
func rotate90CW(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(h-1-y, x, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// rotate90CCW rotates image 90 degrees counter-clockwise
func rotate90CCW(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// rotate180 rotates image 180 degrees
func rotate180(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, h-1-y, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// flipHorizontal mirrors image about its vertical axis
func flipHorizontal(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, y, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// flipVertical mirrors image about its horizontal axis
func flipVertical(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, h-1-y, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// exifTIFFData returns the TIFF structure inside a HEIF Exif item payload,
// honoring its exif_tiff_header_offset field.
func exifTIFFData(payload []byte) ([]byte, bool) {
	if len(payload) < exifPrefixLen {
		return nil, false
	}
	off := uint64(binary.BigEndian.Uint32(payload))
	rest := payload[exifPrefixLen:]
	if off > uint64(len(rest)) {
		return nil, false
	}
	tiffData := rest[off:]
	if len(tiffData) < 8 {
		return nil, false
	}
	switch string(tiffData[:4]) {
	case "II*\x00", "MM\x00*":
		return tiffData, true
	}
	return nil, false
}

// resetOrientation returns a copy of the TIFF data with the IFD0
// Orientation tag set to 1 (normal), since the pixels are already
// transformed for display.
func resetOrientation(tiffData []byte) []byte {
	out := make([]byte, len(tiffData))
	copy(out, tiffData)
	if len(out) < 8 {
		return out
	}

	var order binary.ByteOrder = binary.LittleEndian
	if out[0] == 'M' {
		order = binary.BigEndian
	}
	ifd := uint64(order.Uint32(out[4:]))
	if ifd+2 > uint64(len(out)) {
		return out
	}
	n := uint64(order.Uint16(out[ifd:]))
	for i := uint64(0); i < n; i++ {
		e := ifd + 2 + i*12
		if e+12 > uint64(len(out)) {
			break
		}
		// SHORT, count 1: the value is stored inline
		if order.Uint16(out[e:]) == 0x0112 && order.Uint16(out[e+2:]) == 3 && order.Uint32(out[e+4:]) == 1 {
			order.PutUint16(out[e+8:], 1)
			break
		}
	}
	return out
}

// insertEXIF inserts TIFF-structured EXIF data into a JPEG file as an
// APP1 segment right after the SOI marker.
func insertEXIF(jpegData, tiffData []byte) []byte {
	if len(jpegData) < 4 || jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return jpegData // Not a valid JPEG file
	}

	// APP1 marker (0xFFE1) + length (2 bytes) + "Exif\x00\x00" + EXIF data
	exifIdentifier := []byte("Exif\x00\x00")
	segmentLength := 2 + len(exifIdentifier) + len(tiffData)
	if segmentLength > 0xFFFF {
		return jpegData
	}

	app1Segment := make([]byte, 0, 2+segmentLength)
	app1Segment = append(app1Segment, 0xFF, 0xE1)
	app1Segment = append(app1Segment, byte(segmentLength>>8), byte(segmentLength&0xFF)) // Big-endian length
	app1Segment = append(app1Segment, exifIdentifier...)
	app1Segment = append(app1Segment, tiffData...)

	result := make([]byte, 0, len(jpegData)+len(app1Segment))
	result = append(result, jpegData[0:2]...) // SOI marker
	result = append(result, app1Segment...)
	result = append(result, jpegData[2:]...)

	return result
}
