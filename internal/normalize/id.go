package normalize

import (
	"fmt"
	"strconv"
	"unicode/utf16"
)

// DeriveID returns platform + "-" + 16 hex chars built from two independent
// 32-bit hashes (DJB2, FNV-1a) of "platform:externalID". Hashing runs over
// UTF-16 code units with 32-bit wraparound so ids stay compatible with
// listings cached by earlier clients.
func DeriveID(platform, externalID string) string {
	units := utf16.Encode([]rune(platform + ":" + externalID))

	h1 := int32(5381)
	for _, c := range units {
		h1 = (h1 << 5) + h1 + int32(c)
	}

	h2 := uint32(0x811c9dc5)
	for _, c := range units {
		h2 ^= uint32(c)
		h2 *= 0x01000193
	}

	return fmt.Sprintf("%s-%08x%08x", platform, abs32(h1), abs32(int32(h2)))
}

// DJB2Base36 hashes s with DJB2 and renders |h| in base 36. Sources without a
// stable upstream id use it to mint one from title and company.
func DJB2Base36(s string) string {
	h := int32(5381)
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) + h + int32(c)
	}
	return strconv.FormatInt(abs32(h), 36)
}

func abs32(v int32) int64 {
	x := int64(v)
	if x < 0 {
		return -x
	}
	return x
}
