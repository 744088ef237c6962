package wire

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
)

// DecodeTransport decodes the base64 text served by the file server into the
// raw payload bytes. The standard padded alphabet is expected; leading and
// trailing whitespace as well as embedded line breaks are ignored.
func DecodeTransport(text string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransportDecode, err)
	}
	return raw, nil
}

// DecodedLen reports how many bytes DecodeTransport would produce for a
// well-formed input of n characters, ignoring padding.
func DecodedLen(n int) int {
	return base64.StdEncoding.DecodedLen(n)
}
