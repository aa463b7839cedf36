package airquality

import (
	"sort"
	"strings"
)

// Magnitude codes used by the portal's MAGNITUD column.
const (
	SO2  = 1
	CO   = 6
	NO   = 7
	NO2  = 8
	PM25 = 9
	PM10 = 10
	NOx  = 12
	O3   = 14
	TOL  = 20
	BEN  = 30
	EBE  = 35
	MXY  = 37
	PXY  = 38
	OXY  = 39
	TCH  = 42
	CH4  = 43
	NMHC = 44
)

// Pollutant describes a measured substance.
type Pollutant struct {
	Code    int    `json:"code"`
	Formula string `json:"formula"`
	Name    string `json:"name"`
	Unit    string `json:"unit"`
}

var pollutants = map[int]Pollutant{
	SO2:  {SO2, "SO2", "Sulphur dioxide", "µg/m3"},
	CO:   {CO, "CO", "Carbon monoxide", "mg/m3"},
	NO:   {NO, "NO", "Nitric oxide", "µg/m3"},
	NO2:  {NO2, "NO2", "Nitrogen dioxide", "µg/m3"},
	PM25: {PM25, "PM2.5", "Particles < 2.5 µm", "µg/m3"},
	PM10: {PM10, "PM10", "Particles < 10 µm", "µg/m3"},
	NOx:  {NOx, "NOx", "Nitrogen oxides", "µg/m3"},
	O3:   {O3, "O3", "Ozone", "µg/m3"},
	TOL:  {TOL, "TOL", "Toluene", "µg/m3"},
	BEN:  {BEN, "BEN", "Benzene", "µg/m3"},
	EBE:  {EBE, "EBE", "Ethylbenzene", "µg/m3"},
	MXY:  {MXY, "MXY", "Metaxylene", "µg/m3"},
	PXY:  {PXY, "PXY", "Paraxylene", "µg/m3"},
	OXY:  {OXY, "OXY", "Orthoxylene", "µg/m3"},
	TCH:  {TCH, "TCH", "Total hydrocarbons", "mg/m3"},
	CH4:  {CH4, "CH4", "Methane", "mg/m3"},
	NMHC: {NMHC, "NMHC", "Non-methane hydrocarbons", "mg/m3"},
}

// LookupPollutant returns the catalogue entry for code.
func LookupPollutant(code int) (Pollutant, bool) {
	p, ok := pollutants[code]
	return p, ok
}

// Pollutants returns the catalogue ordered by code.
func Pollutants() []Pollutant {
	list := make([]Pollutant, 0, len(pollutants))
	for _, p := range pollutants {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// PollutantByFormula finds a catalogue entry by its formula, ignoring case.
func PollutantByFormula(formula string) (Pollutant, bool) {
	for _, p := range pollutants {
		if strings.EqualFold(p.Formula, formula) {
			return p, true
		}
	}
	return Pollutant{}, false
}
