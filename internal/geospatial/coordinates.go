package geospatial

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

var (
	decimalPairRe = regexp.MustCompile(`(-?\d+\.?\d*)\s*[,°]\s*(-?\d+\.?\d*)`)
	dmsRe         = regexp.MustCompile(`(?i)(\d+)°\s*(\d+)[′']\s*(\d+\.?\d*)[″"]\s*([NSEW])`)
	directedRe    = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*°?\s*([NSEW])[\s,]+(\d+\.?\d*)\s*°?\s*([NSEW])`)
)

// ExtractCoordinates parses coordinate literals in three formats: decimal
// degree pairs, DMS with a cardinal suffix, and direction-tagged decimal
// pairs. Out-of-range values are discarded silently and near-identical
// points (within 0.001 degrees on both axes) collapse to the first seen.
func ExtractCoordinates(text string) []apptype.Coordinate {
	var coords []apptype.Coordinate

	for _, m := range decimalPairRe.FindAllStringSubmatch(text, -1) {
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lon, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		coords = append(coords, apptype.Coordinate{
			Lat: lat, Lon: lon,
			Format:     "decimal_degrees",
			RawText:    m[0],
			Confidence: 0.9,
		})
	}

	for _, m := range dmsRe.FindAllStringSubmatch(text, -1) {
		coords = append(coords, parseDMS(m))
	}

	for _, m := range directedRe.FindAllStringSubmatch(text, -1) {
		if c, ok := parseDirectedPair(m); ok {
			coords = append(coords, c)
		}
	}

	return dedupe(filterValid(coords))
}

// parseDMS converts one degrees-minutes-seconds match. The single cardinal
// letter decides which axis receives the value; the other axis stays 0.
// A lone "N" latitude therefore reports lon 0, by documented behavior.
func parseDMS(m []string) apptype.Coordinate {
	degrees, _ := strconv.ParseFloat(m[1], 64)
	minutes, _ := strconv.ParseFloat(m[2], 64)
	seconds, _ := strconv.ParseFloat(m[3], 64)
	direction := strings.ToUpper(m[4])

	decimal := degrees + minutes/60 + seconds/3600
	if direction == "S" || direction == "W" {
		decimal = -decimal
	}

	coord := apptype.Coordinate{Format: "dms", RawText: m[0], Confidence: 0.8}
	if direction == "N" || direction == "S" {
		coord.Lat = decimal
	} else {
		coord.Lon = decimal
	}
	return coord
}

func parseDirectedPair(m []string) (apptype.Coordinate, bool) {
	v1, _ := strconv.ParseFloat(m[1], 64)
	v2, _ := strconv.ParseFloat(m[3], 64)
	d1 := strings.ToUpper(m[2])
	d2 := strings.ToUpper(m[4])

	coord := apptype.Coordinate{Format: "directed_pair", RawText: m[0], Confidence: 0.85}
	assign := func(value float64, dir string) bool {
		switch dir {
		case "N":
			coord.Lat = value
		case "S":
			coord.Lat = -value
		case "E":
			coord.Lon = value
		case "W":
			coord.Lon = -value
		default:
			return false
		}
		return true
	}
	if !assign(v1, d1) || !assign(v2, d2) {
		return apptype.Coordinate{}, false
	}
	// Both letters on the same axis is not a coordinate pair.
	sameAxis := (d1 == "N" || d1 == "S") == (d2 == "N" || d2 == "S")
	if sameAxis {
		return apptype.Coordinate{}, false
	}
	return coord, true
}

func filterValid(coords []apptype.Coordinate) []apptype.Coordinate {
	valid := coords[:0]
	for _, c := range coords {
		if c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180 {
			valid = append(valid, c)
		}
	}
	return valid
}

func dedupe(coords []apptype.Coordinate) []apptype.Coordinate {
	var unique []apptype.Coordinate
	for _, c := range coords {
		dup := false
		for _, u := range unique {
			if math.Abs(u.Lat-c.Lat) < 0.001 && math.Abs(u.Lon-c.Lon) < 0.001 {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, c)
		}
	}
	return unique
}
