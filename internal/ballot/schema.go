// Package ballot derives the structure of a 2019-format AEC Senate ballot
// CSV from its header, streams it efficiently, and resolves scenario
// groups against its columns.
package ballot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexjago/nparty/internal/scenario"
)

// ticketPattern matches an ATL/BTL column header's leading ticket code: a
// single uppercase letter or a double letter, followed by a colon.
var ticketPattern = regexp.MustCompile(`^([A-Z]{1,2}):`)

// Schema is derived once per input file from its header row. Every column
// is classified exactly once as metadata, ATL, BTL, or ignored.
type Schema struct {
	NumCols int

	StateCol    int // -1 if absent
	DivisionCol int
	BoothCol    int
	BatchCol    int // -1 if absent
	PaperCol    int // -1 if absent

	AtlStart, AtlEnd int // [AtlStart, AtlEnd) half-open
	BtlStart, BtlEnd int // [BtlStart, BtlEnd) half-open

	// GroupAtlCols[i] / GroupBtlCols[i] are the resolved column indices for
	// scenario group i, filled in by ResolveGroups.
	GroupAtlCols [][]int
	GroupBtlCols [][]int
}

func findCol(header []string, names ...string) int {
	for i, h := range header {
		for _, n := range names {
			if strings.EqualFold(strings.TrimSpace(h), n) {
				return i
			}
		}
	}
	return -1
}

// DeriveSchema classifies the columns of a ballot CSV header. Division and
// VoteCollectionPointNm column names differ across AEC file years; both
// spellings are recognised.
func DeriveSchema(header []string) (*Schema, error) {
	s := &Schema{NumCols: len(header)}

	s.StateCol = findCol(header, "State")
	s.DivisionCol = findCol(header, "Division", "ElectorateNm")
	s.BoothCol = findCol(header, "Vote Collection Point Name", "VoteCollectionPointNm")
	s.BatchCol = findCol(header, "Batch No", "BatchNo")
	s.PaperCol = findCol(header, "Paper No", "PaperNo")

	if s.DivisionCol < 0 {
		return nil, fmt.Errorf("ballot: header has no Division/ElectorateNm column")
	}
	if s.BoothCol < 0 {
		return nil, fmt.Errorf("ballot: header has no Vote Collection Point Name/VoteCollectionPointNm column")
	}

	// The ATL region starts at the first column whose header matches the
	// ticket pattern. The BTL region starts at the first subsequent column
	// whose ticket code has already been seen: above-the-line has exactly
	// one column per ticket, below-the-line has one column per candidate,
	// so a repeated ticket code is the unambiguous boundary.
	atlStart := -1
	seen := make(map[string]bool)
	btlStart := -1
	for i := 0; i < len(header); i++ {
		m := ticketPattern.FindStringSubmatch(header[i])
		if m == nil {
			continue
		}
		if atlStart < 0 {
			atlStart = i
		}
		ticket := m[1]
		if seen[ticket] {
			btlStart = i
			break
		}
		seen[ticket] = true
	}
	if atlStart < 0 {
		return nil, fmt.Errorf("ballot: header has no ATL ticket columns")
	}
	if btlStart < 0 {
		btlStart = len(header)
	}

	s.AtlStart, s.AtlEnd = atlStart, btlStart
	s.BtlStart, s.BtlEnd = btlStart, len(header)

	return s, nil
}

// headerTicket returns the ticket code prefix of a column header, or "" if
// the header does not match the ticket pattern.
func headerTicket(h string) string {
	m := ticketPattern.FindStringSubmatch(h)
	if m == nil {
		return ""
	}
	return m[1]
}

// headerNameAfterTicket returns the trimmed text after "TICKET:" in a
// column header.
func headerNameAfterTicket(h string) string {
	i := strings.IndexByte(h, ':')
	if i < 0 {
		return strings.TrimSpace(h)
	}
	return strings.TrimSpace(h[i+1:])
}

// ResolveGroups matches each group member specifier ("ticket:name") against
// the header, filling Schema.GroupAtlCols and Schema.GroupBtlCols. A member
// whose ticket resolves to an ATL column contributes to GroupAtlCols; a
// member whose ticket+name resolves to a BTL column contributes to
// GroupBtlCols. A member that resolves to neither is a fatal configuration
// error, caught before scanning begins.
func (s *Schema) ResolveGroups(header []string, groups []scenario.Group) error {
	s.GroupAtlCols = make([][]int, len(groups))
	s.GroupBtlCols = make([][]int, len(groups))

	for gi, g := range groups {
		var atlCols, btlCols []int
		atlSeen := make(map[int]bool)
		btlSeen := make(map[int]bool)
		for _, m := range g.Members {
			found := false
			for i := s.AtlStart; i < s.AtlEnd; i++ {
				if headerTicket(header[i]) == m.Ticket {
					if !atlSeen[i] {
						atlCols = append(atlCols, i)
						atlSeen[i] = true
					}
					found = true
					break
				}
			}
			for i := s.BtlStart; i < s.BtlEnd; i++ {
				if headerTicket(header[i]) != m.Ticket {
					continue
				}
				if m.Name == "" || strings.EqualFold(headerNameAfterTicket(header[i]), m.Name) {
					if !btlSeen[i] {
						btlCols = append(btlCols, i)
						btlSeen[i] = true
					}
					found = true
				}
			}
			if !found {
				return fmt.Errorf("ballot: group %q member %s:%s matches no column", g.Code, m.Ticket, m.Name)
			}
		}
		s.GroupAtlCols[gi] = atlCols
		s.GroupBtlCols[gi] = btlCols
	}
	return nil
}
