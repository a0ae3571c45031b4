package panel

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/muurk/papan/internal/settings"
)

// MaxImageBytes bounds images embedded into the record.
const MaxImageBytes = 4 << 20

// ErrNotImage is returned when the attached data is not an image.
var ErrNotImage = errors.New("file is not an image")

// ErrImageTooLarge is returned when the data exceeds MaxImageBytes.
var ErrImageTooLarge = errors.New("image is too large")

// ImageTarget names the record field an image is attached to.
type ImageTarget string

const (
	ImageLogo       ImageTarget = "logo"
	ImageBackground ImageTarget = "background"
)

// ParseImageTarget accepts "logo" or "background".
func ParseImageTarget(s string) (ImageTarget, error) {
	switch ImageTarget(strings.ToLower(strings.TrimSpace(s))) {
	case ImageLogo:
		return ImageLogo, nil
	case ImageBackground:
		return ImageBackground, nil
	}
	return "", fmt.Errorf("unknown image target %q (want logo or background)", s)
}

// Key returns the record key the target writes.
func (t ImageTarget) Key() string {
	if t == ImageBackground {
		return "bgImageUrl"
	}
	return "logoUrl"
}

// ImageDataURI reads r and returns a base64 data URI of its content. The
// MIME type is detected from the bytes, not trusted from a file name.
func ImageDataURI(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// AttachImage reads the file at path into the draft. Attaching a logo turns
// the logo on; attaching a background turns the background image on.
func (p *Panel) AttachImage(target ImageTarget, path string) error {
	if !p.open {
		return ErrClosed
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	uri, err := ImageDataURI(f)
	if err != nil {
		return err
	}
	return p.SetImage(target, uri)
}

// SetImage stores an already encoded data URI (or plain URL) in the draft.
func (p *Panel) SetImage(target ImageTarget, uri string) error {
	if !p.open {
		return ErrClosed
	}
	ApplyImage(&p.draft, target, uri)
	return nil
}

// ApplyImage stores uri as the logo or background image of cfg and turns
// that image on, or off for an empty uri.
func ApplyImage(cfg *settings.Config, target ImageTarget, uri string) {
	switch target {
	case ImageBackground:
		cfg.BgImageURL = uri
		cfg.UseBgImage = uri != ""
	default:
		cfg.LogoURL = uri
		cfg.ShowLogo = uri != ""
	}
}
