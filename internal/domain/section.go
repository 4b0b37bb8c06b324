package domain

import "fmt"

// Section identifies one REST-constraint teaching step of the dashboard.
type Section string

const (
	SectionContests        Section = "contests"
	SectionChampions       Section = "champions"
	SectionChampionDetails Section = "champion-details"
	SectionDataDragon      Section = "data-dragon"
	SectionChallenger      Section = "challenger"
	SectionDynamic         Section = "dynamic"
)

// Constraint is a REST architectural constraint.
type Constraint string

const (
	ConstraintUniformInterface Constraint = "uniform-interface"
	ConstraintClientServer     Constraint = "client-server"
	ConstraintStateless        Constraint = "stateless"
	ConstraintCacheable        Constraint = "cacheable"
	ConstraintLayeredSystem    Constraint = "layered-system"
	ConstraintCodeOnDemand     Constraint = "code-on-demand"
)

// SectionInfo describes a section for the view layer.
type SectionInfo struct {
	ID          Section    `json:"id"`
	Step        int        `json:"step"`
	Title       string     `json:"title"`
	Constraint  Constraint `json:"constraint"`
	Description string     `json:"description"`
}

var sections = []SectionInfo{
	{
		ID:          SectionContests,
		Step:        1,
		Title:       "Contests",
		Constraint:  ConstraintUniformInterface,
		Description: "Every resource is fetched with the same GET /api?endpoint=... shape.",
	},
	{
		ID:          SectionChampions,
		Step:        2,
		Title:       "Champions",
		Constraint:  ConstraintClientServer,
		Description: "The dashboard only renders; the proxy owns data access.",
	},
	{
		ID:          SectionChampionDetails,
		Step:        3,
		Title:       "Champion Details",
		Constraint:  ConstraintStateless,
		Description: "Each request carries the selected champion; the server remembers nothing.",
	},
	{
		ID:          SectionDataDragon,
		Step:        4,
		Title:       "Data Dragon",
		Constraint:  ConstraintCacheable,
		Description: "Static champion assets are served from a CDN with cache validators.",
	},
	{
		ID:          SectionChallenger,
		Step:        5,
		Title:       "Challenger",
		Constraint:  ConstraintLayeredSystem,
		Description: "A request passes through gateway, cache, proxy and origin layers.",
	},
	{
		ID:          SectionDynamic,
		Step:        6,
		Title:       "Dynamic UI",
		Constraint:  ConstraintCodeOnDemand,
		Description: "The server ships UI configuration that the client applies at runtime.",
	},
}

// Sections returns the fixed registry in step order.
func Sections() []SectionInfo {
	out := make([]SectionInfo, len(sections))
	copy(out, sections)
	return out
}

// Info returns the registry entry for a section.
func (s Section) Info() (SectionInfo, bool) {
	for _, info := range sections {
		if info.ID == s {
			return info, true
		}
	}
	return SectionInfo{}, false
}

// Valid reports whether s is one of the six registered sections.
func (s Section) Valid() bool {
	_, ok := s.Info()
	return ok
}

// ParseSection validates a raw section identifier.
func ParseSection(raw string) (Section, error) {
	s := Section(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, raw)
	}
	return s, nil
}

// DataMode tells whether a section shows static demo data or live data.
type DataMode string

const (
	ModeDemo DataMode = "demo"
	ModeLive DataMode = "live"
)
