package helper

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"classifieds_backend/internals/constants"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrUnsupportedImage is returned for uploads that are not jpeg, png or webp.
var ErrUnsupportedImage = errors.New("unsupported image format (use jpg/png/webp)")

type ImageOptions struct {
	MaxW    int
	MaxH    int
	Quality float32
}

func DefaultImageOptions() ImageOptions {
	return ImageOptions{MaxW: 1600, MaxH: 1600, Quality: 80}
}

/* =======================================================================
   Decode (jpeg/png/webp) by sniffing the first bytes
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, errors.Wrap(ErrUnsupportedImage, "empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	kind := constants.ImageKindFromContentType(ct)
	if kind == "" {
		// fallback by extension
		kind = constants.ImageKindFromExt(filename)
	}

	var (
		img image.Image
		err error
	)
	switch kind {
	case constants.ImageJPEG, constants.ImagePNG:
		img, err = imaging.Decode(bytes.NewReader(all), imaging.AutoOrientation(true))
	case constants.ImageWebP:
		img, err = webp.Decode(bytes.NewReader(all))
	default:
		return nil, errors.Wrapf(ErrUnsupportedImage, "%s / %s", ct, filepath.Ext(filename))
	}
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedImage, err.Error())
	}
	return img, nil
}

// ConvertToWebP reads, decodes, downscales to fit MaxW x MaxH (aspect kept)
// and encodes the result as lossy WebP.
func ConvertToWebP(r io.Reader, filename string, opt ImageOptions) ([]byte, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read image")
	}
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if (opt.MaxW > 0 && b.Dx() > opt.MaxW) || (opt.MaxH > 0 && b.Dy() > opt.MaxH) {
		maxW, maxH := opt.MaxW, opt.MaxH
		if maxW <= 0 {
			maxW = b.Dx()
		}
		if maxH <= 0 {
			maxH = b.Dy()
		}
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	q := opt.Quality
	if q <= 0 || q > 100 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, errors.Wrap(err, "encode webp")
	}
	return buf.Bytes(), nil
}

/* =======================================================================
   Local media storage
======================================================================= */

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

// GenerateUniqueFilename returns folder/<yyyymmdd>-<uuid>-<safe name>.
func GenerateUniqueFilename(folder, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	return path.Join(folder, fmt.Sprintf("%s-%s-%s", timestamp, uuid.New().String(), sanitizeFilename(originalFilename)))
}

// MediaStore keeps uploaded files under Root and serves them under URLPrefix.
// Stored paths are relative and slash-separated, e.g. "advertisements/x.webp".
type MediaStore struct {
	Root      string
	URLPrefix string
	Image     ImageOptions
}

func NewMediaStore(root, urlPrefix string, opt ImageOptions) *MediaStore {
	return &MediaStore{
		Root:      root,
		URLPrefix: strings.TrimRight(urlPrefix, "/"),
		Image:     opt,
	}
}

// SaveImage converts the upload to WebP and writes it under folder.
func (m *MediaStore) SaveImage(folder string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", errors.New("nil file header")
	}
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	data, err := ConvertToWebP(src, fh.Filename, m.Image)
	if err != nil {
		return "", err
	}

	base := Slugify(strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename)), 60)
	rel := GenerateUniqueFilename(strings.Trim(folder, "/"), base+".webp")

	full := filepath.Join(m.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", errors.Wrap(err, "create media dir")
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", errors.Wrap(err, "write media file")
	}
	return rel, nil
}

// Delete removes a stored file. Missing files are not an error.
func (m *MediaStore) Delete(rel string) error {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return nil
	}
	clean := path.Clean("/" + rel)[1:]
	if clean == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.Root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove media file")
	}
	return nil
}

// URL is the public URL of a stored file, or "" when rel is empty.
func (m *MediaStore) URL(rel string) string {
	if strings.TrimSpace(rel) == "" {
		return ""
	}
	return m.URLPrefix + "/" + strings.TrimLeft(rel, "/")
}
