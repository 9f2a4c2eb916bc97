package contracts

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/brandquill/brandquill-backend/pkg/errors"
)

// SignatureMaxBytes caps signature bitmaps at 50 KB. Images are stored inline
// on the contract row's side table, so the cap keeps rows bounded.
const SignatureMaxBytes = 50 * 1024

var allowedSignatureMIMEs = []string{"image/png", "image/jpeg"}

// checkSignatureImage runs the bounded synchronous payload check before any
// state transition is attempted. Content type comes from sniffing the bytes,
// never from a client-supplied header, so a mislabeled upload cannot slip a
// disallowed format into storage.
func checkSignatureImage(image []byte, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		maxBytes = SignatureMaxBytes
	}
	if len(image) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "signature image is required")
	}
	if len(image) > maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("signature image exceeds %d bytes", maxBytes))
	}
	detected := mimetype.Detect(image)
	for _, allowed := range allowedSignatureMIMEs {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "signature image must be a PNG or JPEG").
		WithDetails(map[string]any{"detected_mime": detected.String()})
}
