package metadata

import (
	"golang.org/x/text/encoding/unicode"
)

// utf16leDecoder is shared by every UTF-16LE decode in this package: the
// default-value-blob reader decodes managed string literals, which il2cpp
// stores as UTF-16LE, the same encoding the teacher's dotnet_helper.go reads
// resource/version strings in. The string heap is UTF-8 and does not use it.
var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// decodeUTF16LE decodes a raw UTF-16LE byte string into Go's native UTF-8
// representation, using golang.org/x/text/encoding/unicode rather than
// hand-rolled surrogate-pair arithmetic.
func decodeUTF16LE(b []byte) string {
	out, err := utf16leDecoder.Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
