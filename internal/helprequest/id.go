package helprequest

import "math/rand"

// IDAlphabet is the symbol set ids are drawn from.
const IDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultIDLength is the length of ids produced by GenerateID(0).
const DefaultIDLength = 6

// GenerateID returns a random token of size characters, each picked
// independently and uniformly from IDAlphabet. It does not check for
// collisions with existing ids.
func GenerateID(size int) string {
	if size <= 0 {
		size = DefaultIDLength
	}
	b := make([]byte, size)
	for i := range b {
		b[i] = IDAlphabet[rand.Intn(len(IDAlphabet))]
	}
	return string(b)
}
