package enums

import "fmt"

// Direction tells whether a movement puts items into or takes them out of storage.
type Direction string

const (
	DirectionIn  Direction = "entrada"
	DirectionOut Direction = "saida"
)

var validDirections = []Direction{DirectionIn, DirectionOut}

// IsValid reports whether the value is one of the canonical directions.
func (d Direction) IsValid() bool {
	for _, candidate := range validDirections {
		if candidate == d {
			return true
		}
	}
	return false
}

// Label renders the direction the way confirmation lines expect it: upper-case.
func (d Direction) Label() string {
	switch d {
	case DirectionIn:
		return "ENTRADA"
	case DirectionOut:
		return "SAIDA"
	}
	return string(d)
}

// ParseDirection converts raw component input into a Direction.
func ParseDirection(value string) (Direction, error) {
	for _, candidate := range validDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid direction %q", value)
}
