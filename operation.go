package main

import (
	"strings"

	"github.com/pkg/errors"
)

// Operation selects which part of the extracted data is printed.
type Operation int

const (
	OpAll Operation = iota
	OpImageDimensions
	OpDate
	OpCameraInfo
	OpGPSInfo
)

var operationNames = []string{
	OpAll:             "All",
	OpImageDimensions: "Image Dimensions",
	OpDate:            "Date",
	OpCameraInfo:      "Camera Info",
	OpGPSInfo:         "GPS Info",
}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(operationNames) {
		return "Operation(?)"
	}
	return operationNames[op]
}

func normalizeOperation(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// ParseOperation parses an --operation value. The empty string selects OpAll.
func ParseOperation(s string) (Operation, error) {
	if strings.TrimSpace(s) == "" {
		return OpAll, nil
	}
	want := normalizeOperation(s)
	for i, name := range operationNames {
		if normalizeOperation(name) == want {
			return Operation(i), nil
		}
	}
	return OpAll, errors.Errorf("unknown operation %q (want one of %s)", s, strings.Join(operationNames, ", "))
}

// wantsProperties reports whether op prints the image properties section.
func (op Operation) wantsProperties() bool {
	return op == OpAll || op == OpImageDimensions
}

// wantsExif reports whether op needs the EXIF metadata at all.
func (op Operation) wantsExif() bool {
	return op != OpImageDimensions
}
