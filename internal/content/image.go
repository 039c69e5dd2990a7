package content

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo describes a fetched image payload without keeping the pixels.
type ImageInfo struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int    `json:"size"`
}

// DescribeImage reads the header of an encoded image. The payload itself is
// never decoded, so a corrupt body is only detected when its header is bad.
func DescribeImage(data []byte) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{Size: len(data)}, fmt.Errorf("describe image: %w", err)
	}
	return ImageInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   len(data),
	}, nil
}

// String renders the info as "jpeg 640x480, 51234 bytes".
func (i ImageInfo) String() string {
	if i.Format == "" {
		return fmt.Sprintf("unknown format, %d bytes", i.Size)
	}
	return fmt.Sprintf("%s %dx%d, %d bytes", i.Format, i.Width, i.Height, i.Size)
}
