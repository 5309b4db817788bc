package booking

import "strings"

// Location is where the care service is delivered. All five parts are required.
type Location struct {
	Division string `json:"division"`
	District string `json:"district"`
	City     string `json:"city"`
	Area     string `json:"area"`
	Address  string `json:"address"`
}

// Normalize returns a copy with surrounding whitespace removed from every part.
func (l Location) Normalize() Location {
	return Location{
		Division: strings.TrimSpace(l.Division),
		District: strings.TrimSpace(l.District),
		City:     strings.TrimSpace(l.City),
		Area:     strings.TrimSpace(l.Area),
		Address:  strings.TrimSpace(l.Address),
	}
}

// FirstMissing returns the name of the first blank part in the order
// division, district, city, area, address, or "" if all are present.
func (l Location) FirstMissing() string {
	parts := []struct {
		name  string
		value string
	}{
		{"division", l.Division},
		{"district", l.District},
		{"city", l.City},
		{"area", l.Area},
		{"address", l.Address},
	}
	for _, p := range parts {
		if strings.TrimSpace(p.value) == "" {
			return p.name
		}
	}
	return ""
}

// String formats the location on one line, most specific part first.
func (l Location) String() string {
	return strings.Join([]string{l.Address, l.Area, l.City, l.District, l.Division}, ", ")
}
