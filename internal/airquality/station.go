package airquality

import (
	"fmt"
	"strconv"
)

// StationCode identifies a monitoring station. Rendered as a string it is
// the fixed-width concatenation of province (2 digits), municipality
// (3 digits) and station (3 or 4 digits), e.g. 28079035.
type StationCode struct {
	Province     int `json:"province"`
	Municipality int `json:"municipality"`
	Station      int `json:"station"`
}

// ParseStationCode splits a station code by position: [0:2] province,
// [2:5] municipality, [5:9] station. Short codes are sliced leniently and
// only fail once a slice is empty or not a number.
func ParseStationCode(code string) (StationCode, error) {
	province, err := parseField(code, 0, 2, "province")
	if err != nil {
		return StationCode{}, err
	}
	municipality, err := parseField(code, 2, 5, "municipality")
	if err != nil {
		return StationCode{}, err
	}
	station, err := parseField(code, 5, 9, "station")
	if err != nil {
		return StationCode{}, err
	}
	return StationCode{Province: province, Municipality: municipality, Station: station}, nil
}

// StationCodeFromInt is ParseStationCode applied to the decimal form of code.
func StationCodeFromInt(code int) (StationCode, error) {
	return ParseStationCode(strconv.Itoa(code))
}

// String returns the canonical 8-digit form.
func (c StationCode) String() string {
	return fmt.Sprintf("%02d%03d%03d", c.Province, c.Municipality, c.Station)
}

func parseField(code string, from, to int, name string) (int, error) {
	part := clampSlice(code, from, to)
	v, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %s %q: %w", ErrInvalidStationCode, code, name, part, err)
	}
	return v, nil
}

func clampSlice(s string, from, to int) string {
	if from > len(s) {
		from = len(s)
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
