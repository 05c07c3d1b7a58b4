//go:build noheif
// +build noheif

package main

import (
	"image"
	"io"

	"github.com/pkg/errors"
)

// decodeHEIC returns an error when HEIC support is disabled
func decodeHEIC(r io.Reader) (image.Image, error) {
	return nil, errors.New("HEIC support is disabled in this build")
}

// isHEICSupported returns false when HEIC support is disabled
func isHEICSupported() bool {
	return false
}
