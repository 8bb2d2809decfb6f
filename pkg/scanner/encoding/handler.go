// Package encoding normalizes raw file bytes into UTF-8 before JSON parsing
// and sniffs content types for diagnostics.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLimit bounds how much content mimetype inspects.
const sniffLimit = 3072

// Handler detects a document's character encoding, converts it to UTF-8 and
// classifies content that is not text at all.
type Handler interface {
	// DetectAndDecode converts content to UTF-8. It returns the converted
	// bytes, the IANA name of the detected source encoding and whether the
	// detection was certain (a BOM, or a configured default, counts as certain).
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certain bool, err error)

	// Sniff returns the MIME type of content, e.g. "application/json".
	Sniff(content []byte) string

	// IsBinary reports whether content is not text-based.
	IsBinary(content []byte) bool
}

type charsetHandler struct {
	defaultEncoding string
}

// NewCharsetHandler returns a Handler backed by x/net/html/charset and x/text.
// defaultEncoding is used when detection is uncertain; empty means trust the guess.
func NewCharsetHandler(defaultEncoding string) Handler {
	return &charsetHandler{defaultEncoding: defaultEncoding}
}

// DetectAndDecode implements Handler.
func (h *charsetHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) {
	enc, name, certain := charset.DetermineEncoding(content, "application/json")

	if !certain && utf8.Valid(content) {
		return content, "utf-8", false, nil
	}
	if !certain && h.defaultEncoding != "" {
		if fallback, fallbackName := charset.Lookup(h.defaultEncoding); fallback != nil {
			enc, name, certain = fallback, fallbackName, true
		}
	}
	if name == "" {
		name = "utf-8"
	}
	if enc == nil {
		return content, name, certain, nil
	}

	// BOMOverride strips a leading byte order mark and switches to the
	// matching UTF decoder, which encoding/json would otherwise reject.
	decoder := unicode.BOMOverride(enc.NewDecoder())
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), decoder))
	if err != nil {
		return content, name, certain, fmt.Errorf("failed to convert from '%s': %w", name, err)
	}
	return out, name, certain, nil
}

// Sniff implements Handler.
func (h *charsetHandler) Sniff(content []byte) string {
	if len(content) > sniffLimit {
		content = content[:sniffLimit]
	}
	return mimetype.Detect(content).String()
}

// IsBinary implements Handler. Anything whose detected type does not descend
// from text/plain is treated as binary.
func (h *charsetHandler) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	if len(content) > sniffLimit {
		content = content[:sniffLimit]
	}
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return false
		}
	}
	return true
}
