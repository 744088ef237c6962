package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// It is used to drop raw key material from memory once a cipher has been
// built from it.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
