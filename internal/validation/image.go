package validation

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes is the largest decoded image accepted as an attachment.
const MaxImageBytes = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// AllowedImageTypes lists the accepted image encodings.
func AllowedImageTypes() []string {
	out := make([]string, len(allowedImageTypes))
	copy(out, allowedImageTypes)
	return out
}

// EncodeImage sniffs raw image bytes and encodes them as a data URI.
func EncodeImage(data []byte, limit int) (string, error) {
	if limit <= 0 {
		limit = MaxImageBytes
	}
	if len(data) == 0 {
		return "", &ImageError{Field: "image", Reason: KindImageEncoding, Cause: fmt.Errorf("empty file")}
	}
	if len(data) > limit {
		return "", &ImageError{Field: "image", Reason: KindImageSize, Size: len(data), Limit: limit}
	}

	mime := detectImageType(data)
	if mime == "" {
		return "", &ImageError{Field: "image", Reason: KindImageType, MIMEType: mimetype.Detect(data).String()}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// NormalizeDataURI decodes an existing data URI, checks the payload and
// re-encodes it so the declared type always matches the bytes.
func NormalizeDataURI(uri string, limit int) (string, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return "", &ImageError{Field: "image", Reason: KindImageEncoding, Cause: err}
	}
	return EncodeImage(data, limit)
}

// DecodeDataURI splits a base64 data URI into its declared type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return mediaType, data, nil
}

func detectImageType(data []byte) string {
	detected := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return allowed
		}
	}
	return ""
}
