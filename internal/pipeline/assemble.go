package pipeline

import "github.com/samber/lo"

// Assemble concatenates decrypted chunks in slice order into one buffer.
// The result never aliases the inputs.
func Assemble(chunks [][]byte) []byte {
	total := lo.SumBy(chunks, func(c []byte) int { return len(c) })

	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
