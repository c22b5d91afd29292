package content

// binarySampleSize is how many leading bytes are scanned for NUL, the same
// window git uses.
const binarySampleSize = 8000

// IsBinaryContent reports whether content looks binary. UTF-16 and UTF-32
// byte order marks are treated as text.
func IsBinaryContent(content []byte) bool {
	if hasUnicodeBOM(content) {
		return false
	}
	sampleSize := min(len(content), binarySampleSize)
	for i := range sampleSize {
		if content[i] == 0 {
			return true
		}
	}
	return false
}

func hasUnicodeBOM(b []byte) bool {
	switch {
	case len(b) >= 4 && b[0] == 0x00 && b[1] == 0x00 && b[2] == 0xFE && b[3] == 0xFF:
		return true
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		return true
	case len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		return true
	}
	return false
}
