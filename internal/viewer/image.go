package viewer

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// PlaceholderWidth is the width GetImageInfo reports in placeholder mode.
	PlaceholderWidth uint32 = 800
	// PlaceholderHeight is the height GetImageInfo reports in placeholder mode.
	PlaceholderHeight uint32 = 600

	// DefaultMIMEType is used when the extension is not a known image type.
	DefaultMIMEType = "image/jpeg"
)

var mimeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
}

// ImageInfo holds pixel dimensions.
type ImageInfo struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// LoadImage reads the whole file at path and returns it as standard base64.
func (c *Commands) LoadImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ioError("failed to read file", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURL reads path and returns a data URL suitable for an <img> src.
func (c *Commands) DataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ioError("failed to read file", err)
	}

	mime := MIMETypeForPath(path)
	if c.opts.SniffMIME {
		if detected := mimetype.Detect(data); detected != nil && strings.HasPrefix(detected.String(), "image/") {
			mime = detected.String()
		}
	}

	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(mime)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String(), nil
}

// GetImageInfo reports the dimensions of the image at path. In placeholder
// mode the file is only opened and constant dimensions are returned.
func (c *Commands) GetImageInfo(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, ioError("failed to get image info", err)
	}
	defer f.Close()

	if c.opts.ImageInfo != ImageInfoDecode {
		return ImageInfo{Width: PlaceholderWidth, Height: PlaceholderHeight}, nil
	}

	cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return ImageInfo{}, ioError("failed to get image info", fmt.Errorf("decode header: %w", err))
	}
	c.logger.Debug("decoded image header", "path", path, "format", format, "width", cfg.Width, "height", cfg.Height)

	return ImageInfo{Width: uint32(cfg.Width), Height: uint32(cfg.Height)}, nil
}

// MIMETypeForPath maps the file extension to an image media type, falling
// back to DefaultMIMEType.
func MIMETypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := mimeByExtension[ext]; ok {
		return mime
	}
	return DefaultMIMEType
}
