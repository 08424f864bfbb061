// Package config loads and validates the JSON program/scenario
// configuration document: top-level YEAR/OUTPUT_DIR/etc. fields plus a
// synthetic DEFAULT scenario section whose fields are inherited by every
// named scenario unless overridden.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alexjago/nparty/internal/scenario"
	"github.com/alexjago/nparty/pkg/log"
)

// rawGroup mirrors one GROUPS array entry in the JSON document.
type rawGroup struct {
	Code    string   `json:"CODE"`
	Members []string `json:"MEMBERS"`
}

// rawScenario mirrors one scenario section (including DEFAULT) in the JSON
// document.
type rawScenario struct {
	PrefsPath    string     `json:"PREFS_PATH,omitempty"`
	State        string     `json:"STATE,omitempty"`
	SA1sDistPath string     `json:"SA1S_DISTS_PATH,omitempty"`
	Groups       []rawGroup `json:"GROUPS,omitempty"`
	DBDriver     string     `json:"DB_DRIVER,omitempty"`
	DBDSN        string     `json:"DB_DSN,omitempty"`
}

// merge overlays non-zero fields of o onto a copy of r, implementing
// DEFAULT-section inheritance: a named scenario only needs to state what
// it changes.
func (r rawScenario) merge(o rawScenario) rawScenario {
	out := r
	if o.PrefsPath != "" {
		out.PrefsPath = o.PrefsPath
	}
	if o.State != "" {
		out.State = o.State
	}
	if o.SA1sDistPath != "" {
		out.SA1sDistPath = o.SA1sDistPath
	}
	if len(o.Groups) > 0 {
		out.Groups = o.Groups
	}
	if o.DBDriver != "" {
		out.DBDriver = o.DBDriver
	}
	if o.DBDSN != "" {
		out.DBDSN = o.DBDSN
	}
	return out
}

// rawDocument mirrors the top-level fields of the JSON document; named
// scenario sections are decoded separately from the raw top-level map
// since their keys are not known ahead of time.
type rawDocument struct {
	Year              string      `json:"YEAR"`
	PollingPlacesPath string      `json:"POLLING_PLACES_PATH,omitempty"`
	SA1sBreakdownPath string      `json:"SA1S_BREAKDOWN_PATH,omitempty"`
	OutputDir         string      `json:"OUTPUT_DIR"`
	NPPBoothsFn       string      `json:"NPP_BOOTHS_FN,omitempty"`
	SA1sPrefsFn       string      `json:"SA1S_PREFS_FN,omitempty"`
	NPPDistsFn        string      `json:"NPP_DISTS_FN,omitempty"`
	Default           rawScenario `json:"DEFAULT"`
}

// Document is the fully parsed and validated program configuration.
type Document struct {
	Year              string
	PollingPlacesPath string
	SA1sBreakdownPath string
	OutputDir         string
	NPPBoothsFn       string
	SA1sPrefsFn       string
	NPPDistsFn        string

	Scenarios []scenario.Scenario // sorted by section name, DEFAULT excluded
}

func parseMember(spec string) scenario.Member {
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		return scenario.Member{Ticket: spec[:i], Name: spec[i+1:]}
	}
	return scenario.Member{Ticket: spec}
}

func envSibling(path string) string {
	dir := "."
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		dir = path[:i]
	}
	return dir + "/.env"
}

// Load reads, schema-validates, and decodes the program config at path. A
// sibling ".env" file (if present) is loaded first via godotenv so DB_DSN
// or PREFS_PATH values can reference environment variables without
// checking secrets into the scenario document itself.
func Load(path string) (*Document, error) {
	if err := godotenv.Overload(envSibling(path)); err != nil && !os.IsNotExist(err) {
		log.Warnf("config: %s: %v", envSibling(path), err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("config: %s: invalid JSON: %w", path, err)
	}
	if err := Validate(path, configSchema, generic); err != nil {
		return nil, err
	}

	// rawDocument deliberately omits named scenario keys (they are not
	// known ahead of time), so a DisallowUnknownFields decode of the whole
	// document would reject every real config; decode the known top-level
	// fields permissively instead, leaning on the JSON Schema validation
	// above (and each scenario's own strict decode below) for typo-catching.
	var permissive map[string]json.RawMessage
	if err := json.Unmarshal(raw, &permissive); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	var rd rawDocument
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	defaultGeneric, err := toGeneric(rd.Default)
	if err != nil {
		return nil, err
	}
	if err := Validate(path+"#DEFAULT", scenarioSchema, defaultGeneric); err != nil {
		return nil, err
	}

	doc := &Document{
		Year:              rd.Year,
		PollingPlacesPath: rd.PollingPlacesPath,
		SA1sBreakdownPath: rd.SA1sBreakdownPath,
		OutputDir:         rd.OutputDir,
		NPPBoothsFn:       rd.NPPBoothsFn,
		SA1sPrefsFn:       rd.SA1sPrefsFn,
		NPPDistsFn:        rd.NPPDistsFn,
	}

	names := make([]string, 0, len(permissive))
	for k := range permissive {
		switch k {
		case "YEAR", "POLLING_PLACES_PATH", "SA1S_BREAKDOWN_PATH", "OUTPUT_DIR", "NPP_BOOTHS_FN", "SA1S_PREFS_FN", "NPP_DISTS_FN", "DEFAULT":
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names) // encoding/json does not preserve object key order; sort for determinism

	for _, name := range names {
		var rs rawScenario
		d2 := json.NewDecoder(bytes.NewReader(permissive[name]))
		d2.DisallowUnknownFields()
		if err := d2.Decode(&rs); err != nil {
			return nil, fmt.Errorf("config: scenario %q: %w", name, err)
		}
		generic, err := toGeneric(rs)
		if err != nil {
			return nil, err
		}
		if err := Validate(path+"#"+name, scenarioSchema, generic); err != nil {
			return nil, err
		}
		merged := rd.Default.merge(rs)

		groups := make([]scenario.Group, len(merged.Groups))
		for i, g := range merged.Groups {
			members := make([]scenario.Member, len(g.Members))
			for j, m := range g.Members {
				members[j] = parseMember(m)
			}
			groups[i] = scenario.Group{Code: scenario.GroupCode(g.Code), Members: members}
		}

		sc := scenario.Scenario{
			Name:      name,
			State:     merged.State,
			PrefsPath: os.ExpandEnv(merged.PrefsPath),
			Groups:    groups,
			DBDriver:  merged.DBDriver,
			DBDSN:     os.ExpandEnv(merged.DBDSN),
		}
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		doc.Scenarios = append(doc.Scenarios, sc)
	}

	if len(doc.Scenarios) == 0 {
		return nil, fmt.Errorf("config: %s: no scenarios defined (only DEFAULT)", path)
	}
	return doc, nil
}
