package domain

import "math"

// Immutable geographic coordinates in decimal degrees (WGS 84).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Two coordinates closer than this (in degrees, per axis) name the same place.
const CoordinateTolerance = 1e-4

// SamePlace reports whether c and o are within CoordinateTolerance on both axes.
func (c Coordinates) SamePlace(o Coordinates) bool {
	return math.Abs(c.Lat-o.Lat) <= CoordinateTolerance && math.Abs(c.Lon-o.Lon) <= CoordinateTolerance
}

// A named point: a rail station, a warehouse, or any other facility.
type Location struct {
	Name        string
	Coordinates Coordinates
}
