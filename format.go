package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// maxHexBytes bounds how much of an opaque value is dumped as hex.
const maxHexBytes = 32

type formatter func(v *tiff.Tag) (string, bool)

var formatters = map[exif.FieldName]formatter{
	"Compression": enum(map[int]string{
		1: "uncompressed", 6: "JPEG",
	}),
	"Orientation": enum(map[int]string{
		1: "row 0 at top and column 0 at left",
		2: "row 0 at top and column 0 at right",
		3: "row 0 at bottom and column 0 at right",
		4: "row 0 at bottom and column 0 at left",
		5: "row 0 at left and column 0 at top",
		6: "row 0 at right and column 0 at top",
		7: "row 0 at right and column 0 at bottom",
		8: "row 0 at left and column 0 at bottom",
	}),
	"ResolutionUnit":           resolutionUnit,
	"FocalPlaneResolutionUnit": resolutionUnit,
	"YCbCrPositioning": enum(map[int]string{
		1: "centered", 2: "co-sited",
	}),
	"ExposureProgram": enum(map[int]string{
		0: "not defined", 1: "manual", 2: "normal program", 3: "aperture priority",
		4: "shutter priority", 5: "creative program", 6: "action program",
		7: "portrait mode", 8: "landscape mode",
	}),
	"MeteringMode": enum(map[int]string{
		0: "unknown", 1: "average", 2: "center-weighted average", 3: "spot",
		4: "multi-spot", 5: "pattern", 6: "partial", 255: "other",
	}),
	"LightSource": enum(map[int]string{
		0: "unknown", 1: "daylight", 2: "fluorescent", 3: "tungsten", 4: "flash",
		9: "fine weather", 10: "cloudy weather", 11: "shade", 17: "standard light A",
		18: "standard light B", 19: "standard light C", 21: "D65", 255: "other",
	}),
	"ColorSpace": enum(map[int]string{
		1: "sRGB", 0xFFFF: "uncalibrated",
	}),
	"SensingMethod": enum(map[int]string{
		1: "not defined", 2: "one-chip color area sensor", 3: "two-chip color area sensor",
		4: "three-chip color area sensor", 5: "color sequential area sensor",
		7: "trilinear sensor", 8: "color sequential linear sensor",
	}),
	"CustomRendered": enum(map[int]string{
		0: "normal process", 1: "custom process",
	}),
	"ExposureMode": enum(map[int]string{
		0: "auto exposure", 1: "manual exposure", 2: "auto bracket",
	}),
	"WhiteBalance": enum(map[int]string{
		0: "auto white balance", 1: "manual white balance",
	}),
	"SceneCaptureType": enum(map[int]string{
		0: "standard", 1: "landscape", 2: "portrait", 3: "night scene",
	}),
	"GainControl": enum(map[int]string{
		0: "none", 1: "low gain up", 2: "high gain up", 3: "low gain down", 4: "high gain down",
	}),
	"Contrast":   softHard,
	"Sharpness":  softHard,
	"Saturation": enum(map[int]string{0: "normal", 1: "low", 2: "high"}),
	"SubjectDistanceRange": enum(map[int]string{
		0: "unknown", 1: "macro", 2: "close view", 3: "distant view",
	}),
	"FileSource": enum(map[int]string{
		0: "others", 1: "scanner of transparent type", 2: "scanner of reflex type", 3: "digital still camera",
	}),
	"SceneType":      enum(map[int]string{1: "directly photographed image"}),
	"GPSAltitudeRef": enum(map[int]string{0: "above sea level", 1: "below sea level"}),

	"Flash":                   flash,
	"ExifVersion":             version,
	"FlashpixVersion":         version,
	"ComponentsConfiguration": componentsConfiguration,
	"FNumber":                 fNumber,
	"ExposureTime":            exposureTime,
	"GPSVersionID":            gpsVersion,
	"GPSLatitude":             dms,
	"GPSLongitude":            dms,
	"GPSDestLatitude":         dms,
	"GPSDestLongitude":        dms,
	"GPSTimeStamp":            gpsTime,
	"UserComment":             encodedText,
	"GPSProcessingMethod":     encodedText,
	"GPSAreaInformation":      encodedText,
}

var (
	resolutionUnit = enum(map[int]string{1: "none", 2: "inch", 3: "cm"})
	softHard       = enum(map[int]string{0: "normal", 1: "soft", 2: "hard"})
)

// FormatValue renders v for display as a value of tag.
func FormatValue(tag Tag, v *tiff.Tag) string {
	if fn, ok := formatters[tag.Name]; ok {
		if s, ok := fn(v); ok {
			return s
		}
	}
	s := formatGeneric(v)
	if tag.unit != "" && s != "" {
		switch v.Format() {
		case tiff.IntVal, tiff.RatVal, tiff.FloatVal:
			s += " " + tag.unit
		}
	}
	return s
}

func formatGeneric(v *tiff.Tag) string {
	n := int(v.Count)
	switch v.Format() {
	case tiff.IntVal:
		return joinN(n, func(i int) (string, error) {
			x, err := v.Int(i)
			return strconv.Itoa(x), err
		})
	case tiff.RatVal:
		return joinN(n, func(i int) (string, error) {
			num, den, err := v.Rat2(i)
			return formatRational(num, den), err
		})
	case tiff.FloatVal:
		return joinN(n, func(i int) (string, error) {
			f, err := v.Float(i)
			return strconv.FormatFloat(f, 'g', -1, 64), err
		})
	case tiff.StringVal:
		s, err := v.StringVal()
		if err != nil {
			return ""
		}
		return cleanString([]byte(s))
	}
	return formatBytes(v.Val)
}

func joinN(n int, f func(i int) (string, error)) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := f(i)
		if err != nil {
			break
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func formatRational(num, den int64) string {
	switch {
	case den == 0:
		return fmt.Sprintf("%d/0", num)
	case num%den == 0:
		return strconv.FormatInt(num/den, 10)
	}
	s := strconv.FormatFloat(float64(num)/float64(den), 'f', 4, 64)
	return strings.TrimRight(strings.TrimRight(s, "0"), ".")
}

// cleanString trims NUL padding and decodes non-UTF-8 text as Latin-1.
func cleanString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s := strings.TrimRight(string(b), " ")
	if utf8.ValidString(s) {
		return s
	}
	if d, err := charmap.ISO8859_1.NewDecoder().String(s); err == nil {
		return d
	}
	return s
}

func formatBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	printable := true
	for _, c := range b {
		if c != 0 && (c < 0x20 || c > 0x7e) {
			printable = false
			break
		}
	}
	if printable {
		return cleanString(b)
	}
	if len(b) > maxHexBytes {
		return fmt.Sprintf("(%d bytes)", len(b))
	}
	return fmt.Sprintf("%x", b)
}

func enum(names map[int]string) formatter {
	return func(v *tiff.Tag) (string, bool) {
		x, ok := firstInt(v)
		if !ok {
			return "", false
		}
		if s, ok := names[x]; ok {
			return s, true
		}
		return fmt.Sprintf("unknown (%d)", x), true
	}
}

// firstInt reads the first value of v as an integer, treating a single
// undefined byte as a number.
func firstInt(v *tiff.Tag) (int, bool) {
	if v.Format() == tiff.IntVal {
		x, err := v.Int(0)
		return x, err == nil
	}
	if v.Format() == tiff.UndefVal && len(v.Val) >= 1 {
		return int(v.Val[0]), true
	}
	return 0, false
}

func flash(v *tiff.Tag) (string, bool) {
	x, ok := firstInt(v)
	if !ok {
		return "", false
	}
	if x&0x20 != 0 {
		return "no flash function", true
	}
	parts := []string{"not fired"}
	if x&1 != 0 {
		parts[0] = "fired"
	}
	switch (x >> 3) & 3 {
	case 1:
		parts = append(parts, "forced")
	case 2:
		parts = append(parts, "suppressed")
	case 3:
		parts = append(parts, "auto mode")
	}
	switch (x >> 1) & 3 {
	case 2:
		parts = append(parts, "return light not detected")
	case 3:
		parts = append(parts, "return light detected")
	}
	if x&0x40 != 0 {
		parts = append(parts, "red-eye reduction")
	}
	return strings.Join(parts, ", "), true
}

// version renders a four digit version such as "0232" as "2.32".
func version(v *tiff.Tag) (string, bool) {
	b := v.Val
	if len(b) != 4 {
		return "", false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	major := strings.TrimLeft(string(b[:2]), "0")
	if major == "" {
		major = "0"
	}
	return major + "." + string(b[2:]), true
}

func componentsConfiguration(v *tiff.Tag) (string, bool) {
	names := []string{"", "Y", "Cb", "Cr", "R", "G", "B"}
	var sb strings.Builder
	for _, c := range v.Val {
		if int(c) >= len(names) {
			return "", false
		}
		sb.WriteString(names[c])
	}
	if sb.Len() == 0 {
		return "", false
	}
	return sb.String(), true
}

func fNumber(v *tiff.Tag) (string, bool) {
	num, den, err := v.Rat2(0)
	if err != nil || den == 0 {
		return "", false
	}
	return "f/" + formatRational(num, den), true
}

func exposureTime(v *tiff.Tag) (string, bool) {
	num, den, err := v.Rat2(0)
	if err != nil || num <= 0 || den <= 0 {
		return "", false
	}
	if num < den && den%num == 0 {
		return fmt.Sprintf("1/%d s", den/num), true
	}
	return formatRational(num, den) + " s", true
}

func gpsVersion(v *tiff.Tag) (string, bool) {
	if len(v.Val) != 4 {
		return "", false
	}
	return fmt.Sprintf("%d.%d.%d.%d", v.Val[0], v.Val[1], v.Val[2], v.Val[3]), true
}

func rats(v *tiff.Tag, n int) ([]float64, bool) {
	if v.Format() != tiff.RatVal || int(v.Count) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := range out {
		num, den, err := v.Rat2(i)
		if err != nil || den == 0 {
			return nil, false
		}
		out[i] = float64(num) / float64(den)
	}
	return out, true
}

// dms renders a degrees/minutes/seconds triplet.
func dms(v *tiff.Tag) (string, bool) {
	r, ok := rats(v, 3)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s deg %s min %.2f sec",
		strconv.FormatFloat(r[0], 'f', -1, 64), strconv.FormatFloat(r[1], 'f', -1, 64), r[2]), true
}

func gpsTime(v *tiff.Tag) (string, bool) {
	r, ok := rats(v, 3)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d:%05.2f", int(r[0]), int(r[1]), r[2]), true
}

// encodedText decodes a value prefixed by an 8 byte character code.
func encodedText(v *tiff.Tag) (string, bool) {
	b := v.Val
	if len(b) < 8 {
		return "", false
	}
	code, text := string(bytes.TrimRight(b[:8], "\x00 ")), b[8:]
	switch code {
	case "ASCII", "":
		return cleanString(text), true
	case "UNICODE":
		order := unicode.LittleEndian
		if len(text) >= 2 && text[0] == 0 && text[1] != 0 {
			order = unicode.BigEndian
		}
		d, err := unicode.UTF16(order, unicode.UseBOM).NewDecoder().Bytes(text)
		if err != nil {
			return "", false
		}
		return cleanString(d), true
	}
	return "", false
}
