// Package units formats scan throughput (rows and bytes) the way the
// progress reporter wants to print them: an SI or binary prefix picked so
// the mantissa stays in a readable range.
package units

// Prefix is a power-of-ten or power-of-two scaling factor.
type Prefix float64

const (
	Base Prefix = 1
	Kilo Prefix = 1e3
	Mega Prefix = 1e6
	Giga Prefix = 1e9
	Tera Prefix = 1e12

	Kibi Prefix = 1024
	Mebi Prefix = 1024 * 1024
	Gibi Prefix = 1024 * 1024 * 1024
)

type prefixData struct {
	short string
}

var decimalPrefixes = []struct {
	p Prefix
	d prefixData
}{
	{Tera, prefixData{"T"}},
	{Giga, prefixData{"G"}},
	{Mega, prefixData{"M"}},
	{Kilo, prefixData{"K"}},
	{Base, prefixData{""}},
}

var binaryPrefixes = []struct {
	p Prefix
	d prefixData
}{
	{Gibi, prefixData{"Gi"}},
	{Mebi, prefixData{"Mi"}},
	{Kibi, prefixData{"Ki"}},
	{Base, prefixData{""}},
}

// bestDecimal picks the largest decimal prefix that keeps v >= 1.
func bestDecimal(v float64) (Prefix, string) {
	for _, e := range decimalPrefixes {
		if v >= float64(e.p) {
			return e.p, e.d.short
		}
	}
	return Base, ""
}

// bestBinary picks the largest binary prefix that keeps v >= 1.
func bestBinary(v float64) (Prefix, string) {
	for _, e := range binaryPrefixes {
		if v >= float64(e.p) {
			return e.p, e.d.short
		}
	}
	return Base, ""
}
