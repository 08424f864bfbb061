package units

import "fmt"

// Bytes formats a byte count using binary prefixes, e.g. "128.0 MiB".
func Bytes(n uint64) string {
	p, short := bestBinary(float64(n))
	return fmt.Sprintf("%.1f %sB", float64(n)/float64(p), short)
}

// Count formats a plain count using decimal prefixes, e.g. "3.40M" for 3,400,000.
func Count(n uint64) string {
	p, short := bestDecimal(float64(n))
	if p == Base {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%.2f%s", float64(n)/float64(p), short)
}

// Rate formats a count-per-second value, e.g. "812.0K rows/s".
func Rate(n uint64, elapsedSeconds float64, unit string) string {
	if elapsedSeconds <= 0 {
		elapsedSeconds = 1e-9
	}
	perSec := float64(n) / elapsedSeconds
	p, short := bestDecimal(perSec)
	return fmt.Sprintf("%.1f%s %s/s", perSec/float64(p), short, unit)
}
