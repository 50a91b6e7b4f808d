package filetransfer

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// PreviewMaxFileSize is the largest completed file the receiving side will
// try to decode as an image preview.
const PreviewMaxFileSize = 25 * 1024 * 1024

// previewHeight is the pixel height transfer previews are scaled to.
const previewHeight = 50

// decodePreview decodes data as an image scaled to the preview height.
// Anything that is not a decodable image yields ok == false; that is an
// expected outcome for most transfers, not an error.
func decodePreview(data []byte) (image.Image, bool) {
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return nil, false
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "decodePreview",
			"error":    err.Error(),
		}).Debug("Preview bytes look like an image but failed to decode")
		return nil, false
	}

	return scaleToHeight(img, previewHeight), true
}

// previewFromReader attempts a preview decode of an outgoing file's source
// data, rewinding the reader to the start afterwards so the transfer itself
// is unaffected.
func previewFromReader(r io.ReadSeeker) (image.Image, bool) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, false
	}
	data, err := io.ReadAll(r)
	if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
		logrus.WithFields(logrus.Fields{
			"function": "previewFromReader",
			"error":    seekErr.Error(),
		}).Warn("Failed to rewind source data after preview decode")
	}
	if err != nil {
		return nil, false
	}
	return decodePreview(data)
}

// previewFromFile attempts a preview decode of a completed incoming file.
// Files larger than PreviewMaxFileSize are skipped without being read.
func previewFromFile(path string) (image.Image, bool) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > PreviewMaxFileSize {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return decodePreview(data)
}

// scaleToHeight scales img to the given height, preserving aspect ratio.
func scaleToHeight(img image.Image, height int) image.Image {
	bounds := img.Bounds()
	if bounds.Dy() <= 0 || bounds.Dy() == height {
		return img
	}
	width := bounds.Dx() * height / bounds.Dy()
	if width < 1 {
		width = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// imageToBase64PNG encodes img as a base64 PNG for inline embedding.
func imageToBase64PNG(img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "imageToBase64PNG",
			"error":    err.Error(),
		}).Warn("Failed to encode preview image")
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
