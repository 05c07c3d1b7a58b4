package main

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidPath is returned when the --file argument cannot name a regular file.
	ErrInvalidPath = errors.New("invalid file path")

	// ErrContainerOpen is returned when the file is missing or is not a HEIF container.
	ErrContainerOpen = errors.New("cannot open HEIF container")

	// ErrNoPrimaryImage is returned when the container has no usable primary item.
	ErrNoPrimaryImage = errors.New("no primary image handle found")

	// ErrNoExifMetadata means the primary image carries no Exif metadata item.
	ErrNoExifMetadata = errors.New("no EXIF data found")

	// ErrInvalidExifData means an Exif item payload was rejected by the decoder.
	ErrInvalidExifData = errors.New("not valid EXIF data")

	// ErrUnknownContext means a tag reported a context outside the known set.
	ErrUnknownContext = errors.New("unknown tag context")
)

// isInformational reports whether err should be printed as a message
// rather than abort the run.
func isInformational(err error) bool {
	return errors.Is(err, ErrNoExifMetadata) || errors.Is(err, ErrInvalidExifData)
}
