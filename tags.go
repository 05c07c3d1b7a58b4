package main

import (
	"github.com/rwcarlsen/goexif/exif"
)

// Context is the IFD a tag belongs to.
type Context int

const (
	ContextTiff Context = iota
	ContextExif
	ContextGPS
	ContextInterop
)

func (c Context) String() string {
	switch c {
	case ContextTiff:
		return "Tiff"
	case ContextExif:
		return "Exif"
	case ContextGPS:
		return "GPS"
	case ContextInterop:
		return "Interop"
	}
	return "Context(?)"
}

// Valid reports whether c is one of the known contexts.
func (c Context) Valid() bool {
	return c >= ContextTiff && c <= ContextInterop
}

type topic int

const (
	topicNone topic = iota
	topicDate
	topicCamera
)

// Tag describes one EXIF field.
type Tag struct {
	Name        exif.FieldName
	ID          uint16
	Context     Context
	Description string

	topic topic
	unit  string
}

// Registry order is the print order within a bucket.
var tagRegistry = []Tag{
	// IFD0
	{Name: "ImageWidth", ID: 0x0100, Context: ContextTiff, Description: "Image width"},
	{Name: "ImageLength", ID: 0x0101, Context: ContextTiff, Description: "Image height"},
	{Name: "BitsPerSample", ID: 0x0102, Context: ContextTiff, Description: "Number of bits per component"},
	{Name: "Compression", ID: 0x0103, Context: ContextTiff, Description: "Compression scheme"},
	{Name: "PhotometricInterpretation", ID: 0x0106, Context: ContextTiff, Description: "Pixel composition"},
	{Name: "ImageDescription", ID: 0x010E, Context: ContextTiff, Description: "Image title"},
	{Name: "Make", ID: 0x010F, Context: ContextTiff, Description: "Manufacturer of image input equipment", topic: topicCamera},
	{Name: "Model", ID: 0x0110, Context: ContextTiff, Description: "Model of image input equipment", topic: topicCamera},
	{Name: "Orientation", ID: 0x0112, Context: ContextTiff, Description: "Orientation of image"},
	{Name: "SamplesPerPixel", ID: 0x0115, Context: ContextTiff, Description: "Number of components"},
	{Name: "XResolution", ID: 0x011A, Context: ContextTiff, Description: "Image resolution in width direction"},
	{Name: "YResolution", ID: 0x011B, Context: ContextTiff, Description: "Image resolution in height direction"},
	{Name: "PlanarConfiguration", ID: 0x011C, Context: ContextTiff, Description: "Image data arrangement"},
	{Name: "ResolutionUnit", ID: 0x0128, Context: ContextTiff, Description: "Unit of X and Y resolution"},
	{Name: "Software", ID: 0x0131, Context: ContextTiff, Description: "Software used", topic: topicCamera},
	{Name: "DateTime", ID: 0x0132, Context: ContextTiff, Description: "File change date and time", topic: topicDate},
	{Name: "Artist", ID: 0x013B, Context: ContextTiff, Description: "Person who created the image"},
	{Name: "ThumbJPEGInterchangeFormat", ID: 0x0201, Context: ContextTiff, Description: "Offset to JPEG SOI"},
	{Name: "ThumbJPEGInterchangeFormatLength", ID: 0x0202, Context: ContextTiff, Description: "Bytes of JPEG data"},
	{Name: "YCbCrSubSampling", ID: 0x0212, Context: ContextTiff, Description: "Subsampling ratio of Y to C"},
	{Name: "YCbCrPositioning", ID: 0x0213, Context: ContextTiff, Description: "Y and C positioning"},
	{Name: "Copyright", ID: 0x8298, Context: ContextTiff, Description: "Copyright holder"},

	// Exif IFD
	{Name: "ExposureTime", ID: 0x829A, Context: ContextExif, Description: "Exposure time", topic: topicCamera, unit: "s"},
	{Name: "FNumber", ID: 0x829D, Context: ContextExif, Description: "F number", topic: topicCamera},
	{Name: "ExposureProgram", ID: 0x8822, Context: ContextExif, Description: "Exposure program", topic: topicCamera},
	{Name: "SpectralSensitivity", ID: 0x8824, Context: ContextExif, Description: "Spectral sensitivity"},
	{Name: "ISOSpeedRatings", ID: 0x8827, Context: ContextExif, Description: "Photographic sensitivity", topic: topicCamera},
	{Name: "OECF", ID: 0x8828, Context: ContextExif, Description: "Optoelectric conversion factor"},
	{Name: "ExifVersion", ID: 0x9000, Context: ContextExif, Description: "Exif version"},
	{Name: "DateTimeOriginal", ID: 0x9003, Context: ContextExif, Description: "Date and time of original data generation", topic: topicDate},
	{Name: "DateTimeDigitized", ID: 0x9004, Context: ContextExif, Description: "Date and time of digital data generation", topic: topicDate},
	{Name: "ComponentsConfiguration", ID: 0x9101, Context: ContextExif, Description: "Meaning of each component"},
	{Name: "CompressedBitsPerPixel", ID: 0x9102, Context: ContextExif, Description: "Image compression mode"},
	{Name: "ShutterSpeedValue", ID: 0x9201, Context: ContextExif, Description: "Shutter speed", topic: topicCamera},
	{Name: "ApertureValue", ID: 0x9202, Context: ContextExif, Description: "Aperture", topic: topicCamera},
	{Name: "BrightnessValue", ID: 0x9203, Context: ContextExif, Description: "Brightness"},
	{Name: "ExposureBiasValue", ID: 0x9204, Context: ContextExif, Description: "Exposure bias", topic: topicCamera, unit: "EV"},
	{Name: "MaxApertureValue", ID: 0x9205, Context: ContextExif, Description: "Maximum lens aperture", topic: topicCamera},
	{Name: "SubjectDistance", ID: 0x9206, Context: ContextExif, Description: "Subject distance", unit: "m"},
	{Name: "MeteringMode", ID: 0x9207, Context: ContextExif, Description: "Metering mode", topic: topicCamera},
	{Name: "LightSource", ID: 0x9208, Context: ContextExif, Description: "Light source"},
	{Name: "Flash", ID: 0x9209, Context: ContextExif, Description: "Flash", topic: topicCamera},
	{Name: "FocalLength", ID: 0x920A, Context: ContextExif, Description: "Lens focal length", topic: topicCamera, unit: "mm"},
	{Name: "SubjectArea", ID: 0x9214, Context: ContextExif, Description: "Subject area"},
	{Name: "MakerNote", ID: 0x927C, Context: ContextExif, Description: "Manufacturer notes"},
	{Name: "UserComment", ID: 0x9286, Context: ContextExif, Description: "User comments"},
	{Name: "SubSecTime", ID: 0x9290, Context: ContextExif, Description: "DateTime subseconds", topic: topicDate},
	{Name: "SubSecTimeOriginal", ID: 0x9291, Context: ContextExif, Description: "DateTimeOriginal subseconds", topic: topicDate},
	{Name: "SubSecTimeDigitized", ID: 0x9292, Context: ContextExif, Description: "DateTimeDigitized subseconds", topic: topicDate},
	{Name: "FlashpixVersion", ID: 0xA000, Context: ContextExif, Description: "Supported Flashpix version"},
	{Name: "ColorSpace", ID: 0xA001, Context: ContextExif, Description: "Color space information"},
	{Name: "PixelXDimension", ID: 0xA002, Context: ContextExif, Description: "Valid image width"},
	{Name: "PixelYDimension", ID: 0xA003, Context: ContextExif, Description: "Valid image height"},
	{Name: "RelatedSoundFile", ID: 0xA004, Context: ContextExif, Description: "Related audio file"},
	{Name: "FlashEnergy", ID: 0xA20B, Context: ContextExif, Description: "Flash energy", unit: "BCPS"},
	{Name: "SpatialFrequencyResponse", ID: 0xA20C, Context: ContextExif, Description: "Spatial frequency response"},
	{Name: "FocalPlaneXResolution", ID: 0xA20E, Context: ContextExif, Description: "Focal plane X resolution"},
	{Name: "FocalPlaneYResolution", ID: 0xA20F, Context: ContextExif, Description: "Focal plane Y resolution"},
	{Name: "FocalPlaneResolutionUnit", ID: 0xA210, Context: ContextExif, Description: "Focal plane resolution unit"},
	{Name: "SubjectLocation", ID: 0xA214, Context: ContextExif, Description: "Subject location"},
	{Name: "ExposureIndex", ID: 0xA215, Context: ContextExif, Description: "Exposure index"},
	{Name: "SensingMethod", ID: 0xA217, Context: ContextExif, Description: "Sensing method"},
	{Name: "FileSource", ID: 0xA300, Context: ContextExif, Description: "File source"},
	{Name: "SceneType", ID: 0xA301, Context: ContextExif, Description: "Scene type"},
	{Name: "CFAPattern", ID: 0xA302, Context: ContextExif, Description: "CFA pattern"},
	{Name: "CustomRendered", ID: 0xA401, Context: ContextExif, Description: "Custom image processing"},
	{Name: "ExposureMode", ID: 0xA402, Context: ContextExif, Description: "Exposure mode", topic: topicCamera},
	{Name: "WhiteBalance", ID: 0xA403, Context: ContextExif, Description: "White balance", topic: topicCamera},
	{Name: "DigitalZoomRatio", ID: 0xA404, Context: ContextExif, Description: "Digital zoom ratio", topic: topicCamera},
	{Name: "FocalLengthIn35mmFilm", ID: 0xA405, Context: ContextExif, Description: "Focal length in 35 mm film", topic: topicCamera, unit: "mm"},
	{Name: "SceneCaptureType", ID: 0xA406, Context: ContextExif, Description: "Scene capture type", topic: topicCamera},
	{Name: "GainControl", ID: 0xA407, Context: ContextExif, Description: "Gain control"},
	{Name: "Contrast", ID: 0xA408, Context: ContextExif, Description: "Contrast"},
	{Name: "Saturation", ID: 0xA409, Context: ContextExif, Description: "Saturation"},
	{Name: "Sharpness", ID: 0xA40A, Context: ContextExif, Description: "Sharpness"},
	{Name: "DeviceSettingDescription", ID: 0xA40B, Context: ContextExif, Description: "Device settings description"},
	{Name: "SubjectDistanceRange", ID: 0xA40C, Context: ContextExif, Description: "Subject distance range"},
	{Name: "ImageUniqueID", ID: 0xA420, Context: ContextExif, Description: "Unique image ID"},
	{Name: "LensMake", ID: 0xA433, Context: ContextExif, Description: "Lens manufacturer", topic: topicCamera},
	{Name: "LensModel", ID: 0xA434, Context: ContextExif, Description: "Lens model", topic: topicCamera},

	// GPS IFD
	{Name: "GPSVersionID", ID: 0x0000, Context: ContextGPS, Description: "GPS tag version"},
	{Name: "GPSLatitudeRef", ID: 0x0001, Context: ContextGPS, Description: "North or south latitude"},
	{Name: "GPSLatitude", ID: 0x0002, Context: ContextGPS, Description: "Latitude"},
	{Name: "GPSLongitudeRef", ID: 0x0003, Context: ContextGPS, Description: "East or West Longitude"},
	{Name: "GPSLongitude", ID: 0x0004, Context: ContextGPS, Description: "Longitude"},
	{Name: "GPSAltitudeRef", ID: 0x0005, Context: ContextGPS, Description: "Altitude reference"},
	{Name: "GPSAltitude", ID: 0x0006, Context: ContextGPS, Description: "Altitude", unit: "m"},
	{Name: "GPSTimeStamp", ID: 0x0007, Context: ContextGPS, Description: "GPS time (atomic clock)", topic: topicDate},
	{Name: "GPSSatelites", ID: 0x0008, Context: ContextGPS, Description: "GPS satellites used for measurement"},
	{Name: "GPSStatus", ID: 0x0009, Context: ContextGPS, Description: "GPS receiver status"},
	{Name: "GPSMeasureMode", ID: 0x000A, Context: ContextGPS, Description: "GPS measurement mode"},
	{Name: "GPSDOP", ID: 0x000B, Context: ContextGPS, Description: "Measurement precision"},
	{Name: "GPSSpeedRef", ID: 0x000C, Context: ContextGPS, Description: "Speed unit"},
	{Name: "GPSSpeed", ID: 0x000D, Context: ContextGPS, Description: "Speed of GPS receiver"},
	{Name: "GPSTrackRef", ID: 0x000E, Context: ContextGPS, Description: "Reference for direction of movement"},
	{Name: "GPSTrack", ID: 0x000F, Context: ContextGPS, Description: "Direction of movement"},
	{Name: "GPSImgDirectionRef", ID: 0x0010, Context: ContextGPS, Description: "Reference for direction of image"},
	{Name: "GPSImgDirection", ID: 0x0011, Context: ContextGPS, Description: "Direction of image"},
	{Name: "GPSMapDatum", ID: 0x0012, Context: ContextGPS, Description: "Geodetic survey data used"},
	{Name: "GPSDestLatitudeRef", ID: 0x0013, Context: ContextGPS, Description: "Reference for latitude of destination"},
	{Name: "GPSDestLatitude", ID: 0x0014, Context: ContextGPS, Description: "Latitude of destination"},
	{Name: "GPSDestLongitudeRef", ID: 0x0015, Context: ContextGPS, Description: "Reference for longitude of destination"},
	{Name: "GPSDestLongitude", ID: 0x0016, Context: ContextGPS, Description: "Longitude of destination"},
	{Name: "GPSDestBearingRef", ID: 0x0017, Context: ContextGPS, Description: "Reference for bearing of destination"},
	{Name: "GPSDestBearing", ID: 0x0018, Context: ContextGPS, Description: "Bearing of destination"},
	{Name: "GPSDestDistanceRef", ID: 0x0019, Context: ContextGPS, Description: "Reference for distance to destination"},
	{Name: "GPSDestDistance", ID: 0x001A, Context: ContextGPS, Description: "Distance to destination"},
	{Name: "GPSProcessingMethod", ID: 0x001B, Context: ContextGPS, Description: "Name of GPS processing method"},
	{Name: "GPSAreaInformation", ID: 0x001C, Context: ContextGPS, Description: "Name of GPS area"},
	{Name: "GPSDateStamp", ID: 0x001D, Context: ContextGPS, Description: "GPS date", topic: topicDate},
	{Name: "GPSDifferential", ID: 0x001E, Context: ContextGPS, Description: "GPS differential correction"},

	// Interoperability IFD
	{Name: "InteroperabilityIndex", ID: 0x0001, Context: ContextInterop, Description: "Interoperability identification"},
}

var tagsByName = func() map[exif.FieldName]int {
	m := make(map[exif.FieldName]int, len(tagRegistry))
	for i, t := range tagRegistry {
		m[t.Name] = i
	}
	return m
}()

// LookupTag returns the registry entry for name. Pointer tags and tags
// unknown to the decoder have no entry.
func LookupTag(name exif.FieldName) (Tag, bool) {
	i, ok := tagsByName[name]
	if !ok {
		return Tag{}, false
	}
	return tagRegistry[i], true
}

func tagOrder(name exif.FieldName) int {
	if i, ok := tagsByName[name]; ok {
		return i
	}
	return len(tagRegistry)
}
