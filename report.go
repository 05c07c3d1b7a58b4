package main

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
)

// Properties are the basic properties of an image handle.
type Properties struct {
	Width      int
	Height     int
	HasAlpha   bool
	LumaBits   int
	ChromaBits int
}

func readProperties(h *ImageHandle) Properties {
	return Properties{
		Width:      h.Width(),
		Height:     h.Height(),
		HasAlpha:   h.HasAlpha(),
		LumaBits:   h.LumaBitsPerPixel(),
		ChromaBits: h.ChromaBitsPerPixel(),
	}
}

type bucketLabel struct {
	ctx    Context
	header string
	empty  string
}

// Print order of the context buckets.
var bucketLabels = []bucketLabel{
	{ContextExif, "Exif Data:", "No Exif Data Found."},
	{ContextTiff, "Tiff Data:", "No Tiff Data Found."},
	{ContextGPS, "GPS Data:", "No Gps Data Found."},
	{ContextInterop, "Interop Data:", "No Interop Data Found."},
}

// Report prints the data selected by op for the primary image of c.
func Report(w io.Writer, c *Container, op Operation) error {
	h, err := c.PrimaryImage()
	if err != nil {
		return err
	}
	if op.wantsProperties() {
		printProperties(w, readProperties(h))
	}
	if !op.wantsExif() {
		return nil
	}

	m, err := ExtractExif(h.Metadata())
	if err != nil {
		if isInformational(err) {
			fmt.Fprintf(w, "%s: %v\n", c.Path(), errors.Cause(err))
			return nil
		}
		return err
	}
	if m.Warnings != nil {
		fmt.Fprintf(w, "Warning: incomplete EXIF data in %s: %v\n", c.Path(), m.Warnings)
	}

	b, err := Group(m)
	if err != nil {
		return err
	}
	switch op {
	case OpDate:
		printDate(w, m, b)
	case OpCameraInfo:
		printTopic(w, b, topicCamera, "Camera Info:", "No Camera Info Found.")
	case OpGPSInfo:
		printGPS(w, m, b)
	default:
		printBuckets(w, b)
	}
	return nil
}

func printProperties(w io.Writer, p Properties) {
	fmt.Fprintln(w, "Image Properties:")
	fmt.Fprintf(w, "Width: %d\n", p.Width)
	fmt.Fprintf(w, "Height: %d\n", p.Height)
	fmt.Fprintf(w, "Has Alpha: %t\n", p.HasAlpha)
	fmt.Fprintf(w, "Luma Bits Per Pixel: %d\n", p.LumaBits)
	fmt.Fprintf(w, "Chroma Bits Per Pixel: %d\n", p.ChromaBits)
}

func printField(w io.Writer, f Field) {
	fmt.Fprintf(w, "%s: %s\n", f.Tag.Description, FormatValue(f.Tag, f.Value))
}

func printBucket(w io.Writer, b Buckets, l bucketLabel) {
	fields := b[l.ctx]
	if len(fields) == 0 {
		fmt.Fprintln(w, l.empty)
		return
	}
	fmt.Fprintln(w, l.header)
	for _, f := range fields {
		printField(w, f)
	}
}

func printBuckets(w io.Writer, b Buckets) {
	for _, l := range bucketLabels {
		printBucket(w, b, l)
	}
}

func printTopic(w io.Writer, b Buckets, t topic, header, empty string) {
	var fields []Field
	for _, l := range bucketLabels {
		for _, f := range b[l.ctx] {
			if f.Tag.topic == t {
				fields = append(fields, f)
			}
		}
	}
	if len(fields) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	fmt.Fprintln(w, header)
	for _, f := range fields {
		printField(w, f)
	}
}

func printDate(w io.Writer, m *Metadata, b Buckets) {
	if t, err := m.DateTime(); err == nil {
		fmt.Fprintf(w, "Date Taken: %s\n", t.Format(time.RFC3339))
	}
	printTopic(w, b, topicDate, "Date Data:", "No Date Data Found.")
}

func printGPS(w io.Writer, m *Metadata, b Buckets) {
	if lat, long, err := m.LatLong(); err == nil {
		fmt.Fprintf(w, "Location: %.6f, %.6f\n", lat, long)
	}
	printBucket(w, b, bucketLabels[2])
}
