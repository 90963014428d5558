package shortid

import "unicode/utf16"

const (
	lane1Init = 0xdeadbeef
	lane2Init = 0x41c6ce57

	lane1Mul = 2654435761
	lane2Mul = 1597334677

	finalMulA = 2246822507
	finalMulB = 3266489909

	// MaxHash is the exclusive upper bound of Hash results (2^53).
	MaxHash = 1 << 53

	highMask = 0x1FFFFF
)

// Hash returns the 53-bit hash of input with seed 0.
func Hash(input string) uint64 {
	return HashWithSeed(input, 0)
}

// HashWithSeed mixes the UTF-16 code units of input through two 32-bit lanes
// seeded with seed and packs 21 bits of the second lane above the 32 bits
// of the first. The result is always below MaxHash.
func HashWithSeed(input string, seed uint32) uint64 {
	h1 := uint32(lane1Init) ^ seed
	h2 := uint32(lane2Init) ^ seed

	for _, ch := range utf16.Encode([]rune(input)) {
		h1 = (h1 ^ uint32(ch)) * lane1Mul
		h2 = (h2 ^ uint32(ch)) * lane2Mul
	}

	h1 = (h1^(h1>>16))*finalMulA ^ (h2^(h2>>13))*finalMulB
	// h2 is finalized against the already finalized h1.
	h2 = (h2^(h2>>16))*finalMulA ^ (h1^(h1>>13))*finalMulB

	return uint64(h2&highMask)<<32 | uint64(h1)
}
