// Package wire recovers the encrypted payload from its transport form.
//
// The file server delivers every file as base64 text. Decoded, the bytes are
//
//	nonce ‖ chunk_1 ‖ chunk_2 ‖ … ‖ chunk_n
//
// where each chunk is an AEAD ciphertext of at most Layout.ChunkSize
// plaintext bytes followed by its authentication tag. Every chunk but the
// last carries exactly ChunkSize plaintext bytes.
//
// DecodeTransport undoes the base64 step; Frame splits the result into the
// nonce and the ordered chunk list. Neither function touches key material.
package wire
