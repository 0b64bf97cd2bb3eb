package vision

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// ErrMalformedImage marks input that is not valid base64 or not a decodable image.
var ErrMalformedImage = errors.New("malformed image")

// DecodeImage decodes raw upload bytes (JPEG, PNG, GIF or WEBP).
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrMalformedImage)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	return img, nil
}

// DecodeBase64Image accepts either bare base64 or a data URL such as
// "data:image/png;base64,<payload>". Everything up to and including the
// first comma is dropped before decoding.
func DecodeBase64Image(s string) (image.Image, error) {
	data, err := DecodeBase64(s)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data)
}

// DecodeBase64 returns the bytes behind a base64 string or data URL.
func DecodeBase64(s string) ([]byte, error) {
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty base64 payload", ErrMalformedImage)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients strip the padding.
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("%w: invalid base64: %v", ErrMalformedImage, err)
		}
		data = raw
	}
	return data, nil
}
