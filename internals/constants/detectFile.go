package constants

import (
	"path/filepath"
	"strings"
)

// Image kinds accepted for advertisement uploads.
const (
	ImageJPEG = "jpeg"
	ImagePNG  = "png"
	ImageWebP = "webp"
)

// ImageKindFromExt maps a file name to an accepted image kind, or "".
func ImageKindFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return ImageJPEG
	case ".png":
		return ImagePNG
	case ".webp":
		return ImageWebP
	default:
		return ""
	}
}

// ImageKindFromContentType maps a sniffed MIME type to an image kind, or "".
func ImageKindFromContentType(ct string) string {
	switch {
	case strings.Contains(ct, "jpeg"):
		return ImageJPEG
	case strings.Contains(ct, "png"):
		return ImagePNG
	case strings.Contains(ct, "webp"):
		return ImageWebP
	default:
		return ""
	}
}
