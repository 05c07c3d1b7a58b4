//go:build !noheif
// +build !noheif

package main

import (
	"image"
	"io"

	"github.com/jdeng/goheif"
)

// decodeHEIC decodes the primary image of a HEIC file using goheif
func decodeHEIC(r io.Reader) (image.Image, error) {
	return goheif.Decode(r)
}

// isHEICSupported returns true if HEIC pixel decoding is available
func isHEICSupported() bool {
	return true
}
