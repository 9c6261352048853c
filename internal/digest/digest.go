// Package digest decodes the opaque base64 digest shipped with the game
// client and prints it for inspection.
//
// The decoded payload is treated as fixture data only: it is shown both as a
// byte-string literal and as lossy UTF-8 text, and never validated against
// any expected plaintext.
package digest

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/shinji-kodama/assetpeek/internal/textfmt"
)

// DefaultDigest is the literal digest inspected when no override is given.
const DefaultDigest = "FmsmMWwmGht8KwsISxBYNl4QGlYYM2kJWxZcWldWJ1YHUhskPjhAQ39XBgcHNgtXEBpWc2lbFitCUUZWOxFZUGMVKyhbHDsIEB1UI0NMHFwQOhReFjtHXFdGfF0GCkdbOyJADXBBVUBDNkFMEFIHOmZAHC1EVUAbOUBBXhEQLSRDCTpAEggXEkcXF14EKy5XWT5GEB1UI0NMHFwQOhReFjtHXFdGfB0BG11bMS5LDXJAVVVcIEcRCx4XMyJWFysQHBBFNkEQG0AAOiVQHH0IEnxaPVZBXhERLTlcC30IXkdZP04="

// Result holds a decoded digest.
type Result struct {
	// Raw is the decoded byte payload.
	Raw []byte

	// Text is Raw decoded as UTF-8 with invalid sequences dropped.
	Text string
}

// Decode decodes a padded, standard-alphabet base64 string.
// ASCII whitespace anywhere in the input is ignored; wrong padding and
// characters outside the alphabet are reported as errors.
func Decode(encoded string) (*Result, error) {
	compact := strings.Join(strings.Fields(encoded), "")
	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return &Result{
		Raw:  raw,
		Text: textfmt.LossyUTF8(raw),
	}, nil
}

// Print decodes encoded and writes both renderings to w.
//
// A decoding failure is not an error for the caller: the reason is written
// to w in place of the output and Print returns nil. Only write failures
// are returned.
func Print(w io.Writer, encoded string) error {
	res, err := Decode(encoded)
	if err != nil {
		_, werr := fmt.Fprintf(w, "Failed to decode: %v\n", err)
		return werr
	}
	if _, err := fmt.Fprintf(w, "Decoded (raw): %s\n", textfmt.BytesLiteral(res.Raw)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Decoded (utf-8): %s\n", res.Text)
	return err
}
