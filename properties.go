package main

import (
	"bytes"
	"io"

	"github.com/jdeng/goheif/heif"
	"github.com/jdeng/goheif/heif/bmff"
)

var alphaURNs = []string{
	"urn:mpeg:hevc:2015:auxid:1",
	"urn:mpeg:mpegB:cicp:systems:auxiliary:alpha",
}

// Width returns the image width after applying rotations.
func (h *ImageHandle) Width() int {
	w, _, _ := h.item.VisualDimensions()
	return w
}

// Height returns the image height after applying rotations.
func (h *ImageHandle) Height() int {
	_, ht, _ := h.item.VisualDimensions()
	return ht
}

// HasAlpha reports whether an auxiliary alpha image is attached to the image.
func (h *ImageHandle) HasAlpha() bool {
	for _, id := range h.c.referencing("auxl", h.item.ID) {
		it, err := h.c.hf.ItemByID(id)
		if err != nil {
			continue
		}
		body, ok := propertyBody(it, "auxC")
		if !ok || len(body) < 4 {
			continue
		}
		urn := body[4:]
		if i := bytes.IndexByte(urn, 0); i >= 0 {
			urn = urn[:i]
		}
		for _, a := range alphaURNs {
			if string(urn) == a {
				return true
			}
		}
	}
	return false
}

// LumaBitsPerPixel returns the luma bit depth, or -1 if unknown.
func (h *ImageHandle) LumaBitsPerPixel() int {
	luma, _ := h.bitDepths()
	return luma
}

// ChromaBitsPerPixel returns the chroma bit depth, or -1 if unknown or
// the image is monochrome.
func (h *ImageHandle) ChromaBitsPerPixel() int {
	_, chroma := h.bitDepths()
	return chroma
}

func (h *ImageHandle) bitDepths() (luma, chroma int) {
	items := []*heif.Item{h.item}
	// grid images carry the coding configuration on their tiles
	if h.Type().String() == "grid" {
		if tiles := h.c.referenced("dimg", h.item.ID); len(tiles) > 0 {
			if t, err := h.c.hf.ItemByID(tiles[0]); err == nil {
				items = append(items, t)
			}
		}
	}
	for _, it := range items {
		if body, ok := propertyBody(it, "pixi"); ok {
			if l, c, ok := parsePixi(body); ok {
				return l, c
			}
		}
	}
	for _, it := range items {
		if body, ok := propertyBody(it, "hvcC"); ok {
			if l, c, ok := parseHvcC(body); ok {
				return l, c
			}
		}
	}
	return -1, -1
}

// parsePixi reads a PixelInformationProperty body, including its full box header.
func parsePixi(body []byte) (luma, chroma int, ok bool) {
	if len(body) < 5 {
		return 0, 0, false
	}
	n := int(body[4])
	bits := body[5:]
	if n == 0 || len(bits) < n {
		return 0, 0, false
	}
	chroma = -1
	if n >= 2 {
		chroma = int(bits[1])
	}
	return int(bits[0]), chroma, true
}

// parseHvcC reads the bit depths out of an HEVCDecoderConfigurationRecord.
func parseHvcC(body []byte) (luma, chroma int, ok bool) {
	if len(body) < 19 {
		return 0, 0, false
	}
	luma = int(body[17]&7) + 8
	chroma = int(body[18]&7) + 8
	if body[16]&3 == 0 {
		chroma = -1
	}
	return luma, chroma, true
}

func findProperty(it *heif.Item, typ string) bmff.Box {
	for _, p := range it.Properties {
		if p.Type().String() == typ {
			return p
		}
	}
	return nil
}

func propertyBody(it *heif.Item, typ string) ([]byte, bool) {
	p := findProperty(it, typ)
	if p == nil {
		return nil, false
	}
	body, err := io.ReadAll(p.Body())
	if err != nil {
		return nil, false
	}
	return body, true
}

// mirrored reports whether the image carries an imir property, and its axis.
func (h *ImageHandle) mirrored() (axis int, ok bool) {
	if findProperty(h.item, "imir") == nil {
		return 0, false
	}
	return h.item.Mirror(), true
}

// Rotations returns the number of 90 degree counter-clockwise rotations
// the image should be displayed with.
func (h *ImageHandle) Rotations() int {
	return h.item.Rotations()
}
