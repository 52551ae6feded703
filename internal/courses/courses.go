/*
Package courses resolves a racecourse name to the public handle used in
published announcements.
*/
package courses

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Directory maps a course name to its public display handle.
type Directory interface {
	// Lookup returns the handle for a course, or false if the course is
	// not listed. Callers fall back to the course name itself.
	Lookup(course string) (string, bool)
}

// Static is a Directory backed by a fixed in-memory table.
type Static map[string]string

func (s Static) Lookup(course string) (string, bool) {
	h, ok := s[course]
	return h, ok
}

// FromFile loads course -> handle entries from a YAML file and layers them
// over the built-in table. Entries in the file win on conflict.
func FromFile(path string) (Static, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load courses file %s: %w", path, err)
	}

	var overrides map[string]string
	if err := k.Unmarshal("", &overrides); err != nil {
		return nil, fmt.Errorf("parse courses file %s: %w", path, err)
	}

	merged := make(Static, len(defaultHandles)+len(overrides))
	for course, handle := range defaultHandles {
		merged[course] = handle
	}
	for course, handle := range overrides {
		merged[course] = handle
	}
	return merged, nil
}

// Default returns the built-in GB course table.
func Default() Static {
	cp := make(Static, len(defaultHandles))
	for course, handle := range defaultHandles {
		cp[course] = handle
	}
	return cp
}

var defaultHandles = Static{
	"Aintree":           "@AintreeRaces",
	"Ascot":             "@Ascot",
	"Bangor-on-Dee":     "@BangorRaces",
	"Bath":              "@BathRacecourse",
	"Beverley":          "@Beverley_Races",
	"Brighton":          "@BrightonRace",
	"Carlisle":          "@CarlisleRaces",
	"Cartmel":           "@CartmelRace",
	"Catterick":         "@CatterickRaces",
	"Chelmsford City":   "@ChelmsfordCRC",
	"Cheltenham":        "@CheltenhamRaces",
	"Chepstow":          "@Chepstow_Racing",
	"Chester":           "@ChesterRaces",
	"Doncaster":         "@DoncasterRaces",
	"Epsom Downs":       "@EpsomRacecourse",
	"Exeter":            "@ExeterRaces",
	"Fakenham":          "@FakenhamRC",
	"Fontwell Park":     "@FontwellPark",
	"Goodwood":          "@Goodwood_Races",
	"Great Yarmouth":    "@YarmouthRaces",
	"Hamilton Park":     "@HamiltonParkRC",
	"Haydock Park":      "@HaydockRaces",
	"Hereford":          "@HerefordRaces",
	"Hexham":            "@HexhamRaces",
	"Huntingdon":        "@Huntingdon_Race",
	"Kelso":             "@KelsoRacecourse",
	"Kempton Park":      "@kemptonparkrace",
	"Leicester":         "@LeicesterRaces",
	"Lingfield Park":    "@LingfieldPark",
	"Ludlow":            "@LudlowRaceClub",
	"Market Rasen":      "@MarketRasenRace",
	"Musselburgh":       "@MusselburghRace",
	"Newbury":           "@NewburyRacing",
	"Newcastle":         "@NewcastleRaces",
	"Newmarket":         "@NewmarketRace",
	"Newton Abbot":      "@NewtonAbbotRace",
	"Nottingham":        "@NottsRacecourse",
	"Perth":             "@PerthRacecourse",
	"Plumpton":          "@plumptonraces",
	"Pontefract":        "@ponteraces",
	"Redcar":            "@Redcarracing",
	"Ripon":             "@RiponRaces",
	"Salisbury":         "@salisburyraces",
	"Sandown Park":      "@Sandownpark",
	"Sedgefield":        "@SedgefieldRace",
	"Southwell":         "@Southwell_Races",
	"Stratford-on-Avon": "@stratfordraces",
	"Taunton":           "@TauntonRacing",
	"Thirsk":            "@ThirskRaces",
	"Uttoxeter":         "@UttoxeterRaces",
	"Warwick":           "@WarwickRaces",
	"Wetherby":          "@WetherbyRaces",
	"Wincanton":         "@wincantonraces",
	"Windsor":           "@WindsorRaces",
	"Wolverhampton":     "@WolvesRaces",
	"Worcester":         "@WorcesterRaces",
	"York":              "@yorkracecourse",
}
