package report

import (
	"sort"
	"strings"

	"github.com/anrid/vaccination-stats/pkg/stats"
)

// Entity is a country, identified by name and region code, or the Global
// aggregate, which has no region code.
type Entity struct {
	Country    string
	RegionCode string
}

// Global is the aggregate over all countries.
var Global = Entity{Country: stats.GlobalEntity}

func (e Entity) IsGlobal() bool {
	return e.Country == stats.GlobalEntity
}

// Value encodes the entity the way dropdown values carry it: "Canada,CAN", "Global,".
func (e Entity) Value() string {
	return e.Country + "," + e.RegionCode
}

func (e Entity) String() string {
	if e.RegionCode == "" {
		return e.Country
	}
	return e.Value()
}

// ParseEntity decodes a dropdown value. A value without a comma is taken as a
// bare country name.
func ParseEntity(value string) Entity {
	country, code, _ := strings.Cut(value, ",")
	return Entity{
		Country:    strings.TrimSpace(country),
		RegionCode: strings.TrimSpace(code),
	}
}

// DropdownOption is one entry of the entity picker.
type DropdownOption struct {
	Label string
	Value string
}

// knownEntities lists the distinct countries that have a region code,
// minus the excluded ones, sorted by name.
func knownEntities(records []stats.Record, excluded []string) []Entity {
	skip := make(map[string]bool, len(excluded))
	for _, c := range excluded {
		skip[c] = true
	}

	seen := make(map[Entity]bool)
	var entities []Entity
	for _, r := range records {
		if r.Country == "" || r.RegionCode == "" || skip[r.Country] {
			continue
		}
		e := Entity{Country: r.Country, RegionCode: r.RegionCode}
		if !seen[e] {
			seen[e] = true
			entities = append(entities, e)
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Country != entities[j].Country {
			return entities[i].Country < entities[j].Country
		}
		return entities[i].RegionCode < entities[j].RegionCode
	})
	return entities
}
