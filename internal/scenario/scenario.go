// Package scenario holds the user-supplied NPP scenario definition — an
// ordered list of candidate groups — and the combinatorial index space
// over orderings of those groups.
package scenario

import "fmt"

// GroupCode is a short symbolic name for a group, e.g. "Alp". It is used
// verbatim as part of combo column labels.
type GroupCode string

// Member is one candidate specifier within a group, of the form
// "ticket:name" as it appears in an AEC ballot header (ticket selects the
// ATL column, ticket+name selects a BTL column).
type Member struct {
	Ticket string
	Name   string
}

// Group is an ordered, named set of candidate specifiers treated as one
// competitor in the NPP analysis.
type Group struct {
	Code    GroupCode
	Members []Member
}

// Scenario is an ordered sequence of Groups plus the state/territory tag
// and input file path for one NPP run. Group order is part of scenario
// identity: it determines output column order.
type Scenario struct {
	Name      string
	State     string
	PrefsPath string // ballot CSV/ZIP/s3:// path for this scenario's scan
	Groups    []Group
	DBDriver  string // optional SQL tally sink driver ("" disables it)
	DBDSN     string
}

// NumGroups returns G, the group count (practically <= 6).
func (s *Scenario) NumGroups() int {
	return len(s.Groups)
}

// Codes returns the group codes in scenario order.
func (s *Scenario) Codes() []string {
	codes := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		codes[i] = string(g.Code)
	}
	return codes
}

// Validate checks scenario-level invariants that do not depend on a ballot
// header (required fields after DEFAULT-section merge, duplicate codes,
// empty groups, group count bound). Catching a missing State or PrefsPath
// here means a scenario document error surfaces at config load time
// rather than later when the scan tries to open a nonexistent path.
func (s *Scenario) Validate() error {
	if s.State == "" {
		return fmt.Errorf("scenario %q: STATE is required", s.Name)
	}
	if s.PrefsPath == "" {
		return fmt.Errorf("scenario %q: PREFS_PATH is required", s.Name)
	}
	if len(s.Groups) == 0 {
		return fmt.Errorf("scenario %q: at least one group is required", s.Name)
	}
	if len(s.Groups) > 6 {
		return fmt.Errorf("scenario %q: %d groups exceeds the practical bound of 6", s.Name, len(s.Groups))
	}
	seen := make(map[GroupCode]bool, len(s.Groups))
	for _, g := range s.Groups {
		if seen[g.Code] {
			return fmt.Errorf("scenario %q: duplicate group code %q", s.Name, g.Code)
		}
		seen[g.Code] = true
		if len(g.Members) == 0 {
			return fmt.Errorf("scenario %q: group %q has no members", s.Name, g.Code)
		}
	}
	return nil
}
