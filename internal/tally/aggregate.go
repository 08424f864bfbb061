package tally

// specialCategory matches a VoteCollectionPointNm against one of the AEC's
// published special-booth conventions. The literal strings are kept as a
// data table rather than hard-coded inline matching, since the exact
// spelling drifts slightly between election years.
type specialCategory struct {
	Category string
	Needles  []string // case-insensitive substrings that identify this category
}

// AECSpecialBooths is the 2019-format aggregation rule set: any booth name
// containing one of a category's needles is merged into the synthetic
// booth "<Division> <Category>" for its division.
var AECSpecialBooths = []specialCategory{
	{Category: "Absent", Needles: []string{"absent"}},
	{Category: "Postal", Needles: []string{"postal"}},
	{Category: "Pre-poll", Needles: []string{"ppvc", "pre-poll", "prepoll", "pre poll"}},
	{Category: "Provisional", Needles: []string{"provisional"}},
}

// ResolveBoothName returns the booth name a ballot should be tallied
// under: the synthetic "<Division> <Category>" name if booth matches one
// of AECSpecialBooths, otherwise booth unchanged. It is idempotent —
// resolving an already-resolved name returns it unchanged, since the
// synthetic name itself contains the matching needle.
func ResolveBoothName(division, booth string) string {
	if cat, ok := MatchSpecialCategory([]byte(booth)); ok {
		return division + " " + cat
	}
	return booth
}

// MatchSpecialCategory checks booth against AECSpecialBooths without
// allocating: no strings.ToLower copy of booth is made, and the common
// non-special case touches no heap at all. Callers on the per-row hot
// path use this directly on a borrowed field slice instead of converting
// to a string first.
func MatchSpecialCategory(booth []byte) (category string, ok bool) {
	for _, sc := range AECSpecialBooths {
		for _, needle := range sc.Needles {
			if containsFold(booth, needle) {
				return sc.Category, true
			}
		}
	}
	return "", false
}

// containsFold reports whether haystack contains needle, comparing ASCII
// case-insensitively without allocating a lowercased copy of haystack.
func containsFold(haystack []byte, needle string) bool {
	n := len(needle)
	if n == 0 {
		return true
	}
	for i := 0; i+n <= len(haystack); i++ {
		match := true
		for j := 0; j < n; j++ {
			if asciiLower(haystack[i+j]) != asciiLower(needle[j]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func asciiLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
