package tools

import (
	"image"
	"io"

	"cloud.google.com/go/logging"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// TryFindExifOrientation reads the EXIF orientation tag from the file and
// rewinds it. Anything that prevents reading the tag falls back to the
// default orientation 1 without failing the upload.
func TryFindExifOrientation(logger *logging.Logger, file io.ReadSeeker) (int, error) {
	x, decodeErr := exif.Decode(file)

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error resetting file pointer",
			Labels:   map[string]string{"error": err.Error()},
		})
		return 1, err
	}

	if decodeErr != nil {
		logger.Log(logging.Entry{
			Severity: logging.Warning,
			Payload:  "Warning decoding EXIF data, applying default image orientation.",
			Labels:   map[string]string{"error": decodeErr.Error()},
		})
		return 1, nil
	}

	orientTag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1, nil
	}

	orientation, err := orientTag.Int(0)
	if err != nil {
		return 1, nil
	}

	return orientation, nil
}

// CorrectImageOrientation bakes the EXIF orientation into the pixels.
func CorrectImageOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
