package certificate

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Verification token format: VERIFY-<EIIN>-<ROLL>, hyphen-delimited,
// segment 0 is the literal "VERIFY". EIIN and ROLL are opaque at this layer;
// no numeric-format enforcement happens on decode.
const tokenPrefix = "VERIFY"

var errInvalidFormat = errors.New("invalid QR code format")

// BuildToken encodes the verification token embedded in a printed
// certificate's QR code.
func BuildToken(eiin, roll string) string {
	return fmt.Sprintf("%s-%s-%s", tokenPrefix, eiin, roll)
}

// parseToken splits a scanned token into its EIIN and roll segments.
// Segments past the third are ignored.
func parseToken(token string) (eiin, roll string, err error) {
	parts := strings.Split(token, "-")
	if len(parts) < 3 || parts[0] != tokenPrefix {
		return "", "", errInvalidFormat
	}
	return parts[1], parts[2], nil
}

// QRImage renders the verification token as a PNG of the given size.
func QRImage(token string, size int) ([]byte, error) {
	return qrcode.Encode(token, qrcode.Medium, size)
}
