// Package shortid derives short, stable identifiers from strings.
//
// Hash is a non-cryptographic 53-bit bit-mixing hash; Base62 renders an
// integer over the 0-9a-zA-Z alphabet. Together they produce compact
// suffixes for generated names. Collisions are possible and are not detected.
package shortid
