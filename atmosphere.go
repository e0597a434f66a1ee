/*
Copyright © 2024 the ionochem authors.
This file is part of ionochem.

ionochem is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ionochem is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ionochem.  If not, see <http://www.gnu.org/licenses/>.
*/

package ionochem

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/unit"
)

// ErrAltitudeIndex is returned when an altitude index is outside of
// the atmosphere.
var ErrAltitudeIndex = errors.New("ionochem: altitude index out of range")

// TemperatureAdjustment selects whether the electron and composite
// temperatures are raised above the profile values, as during
// ionospheric heating.
type TemperatureAdjustment int

// Temperature adjustments.
const (
	Unheated TemperatureAdjustment = iota
	Heated
)

func (a TemperatureAdjustment) String() string {
	switch a {
	case Unheated:
		return "unheated"
	case Heated:
		return "heated"
	}
	return fmt.Sprintf("TemperatureAdjustment(%d)", int(a))
}

// Heating offsets [K] and the altitude index at which the larger one
// starts to apply.
const (
	heatingLow       = 1000.
	heatingHigh      = 2000.
	heatingHighIndex = 50
)

// offset returns the temperature offset for altitude index i.
func (a TemperatureAdjustment) offset(i int) float64 {
	if a != Heated {
		return 0
	}
	if i < heatingHighIndex {
		return heatingLow
	}
	return heatingHigh
}

// Level holds every quantity the chemistry needs at one altitude.
// Temperatures already include any TemperatureAdjustment offset.
type Level struct {
	Index    int
	Altitude float64 // km

	// Neutral number densities [m⁻³].
	O, O2, N2 float64

	Electron float64 // m⁻³

	// Ion number densities [m⁻³].
	OPlus, HPlus, HePlus, O2Plus, NOPlus, NPlus float64

	NeutralTemperature  float64 // K
	IonTemperature      float64 // K
	ElectronTemperature float64 // K, Te

	// CompositeTemperature is the mean of the ion and neutral
	// temperatures [K], Tr.
	CompositeTemperature float64

	// TemperatureOffset is the offset [K] included in
	// ElectronTemperature and CompositeTemperature.
	TemperatureOffset float64
}

// Atmosphere pairs a neutral and an ionospheric profile on a common
// altitude index. It is read-only once created and safe for
// concurrent use.
type Atmosphere struct {
	neutral NeutralProfile
	iono    IonosphereProfile
}

// NewAtmosphere creates an atmosphere from the rows of each profile at or
// above minAltitude [km]. Index 0 of the atmosphere is the first such row
// of each profile; the atmosphere is as long as the shorter of the two
// remaining profiles.
func NewAtmosphere(neutral NeutralProfile, iono IonosphereProfile, minAltitude float64) (*Atmosphere, error) {
	n := neutralFrom(neutral, minAltitude)
	ip := ionoFrom(iono, minAltitude)
	if len(n) == 0 {
		return nil, fmt.Errorf("ionochem: neutral profile has no rows at or above %g km", minAltitude)
	}
	if len(ip) == 0 {
		return nil, fmt.Errorf("ionochem: ionosphere profile has no rows at or above %g km", minAltitude)
	}
	l := len(n)
	if len(ip) < l {
		l = len(ip)
	}
	return &Atmosphere{
		neutral: append(NeutralProfile(nil), n[:l]...),
		iono:    append(IonosphereProfile(nil), ip[:l]...),
	}, nil
}

func neutralFrom(p NeutralProfile, minAltitude float64) NeutralProfile {
	for i, s := range p {
		if s.Altitude >= minAltitude {
			return p[i:]
		}
	}
	return nil
}

func ionoFrom(p IonosphereProfile, minAltitude float64) IonosphereProfile {
	for i, s := range p {
		if s.Altitude >= minAltitude {
			return p[i:]
		}
	}
	return nil
}

// Len returns the number of altitudes in the atmosphere.
func (a *Atmosphere) Len() int { return len(a.neutral) }

func (a *Atmosphere) check(i int) error {
	if i < 0 || i >= len(a.neutral) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrAltitudeIndex, i, len(a.neutral))
	}
	return nil
}

// Altitude returns the altitude [km] at index i, taken from the
// neutral profile.
func (a *Atmosphere) Altitude(i int) (float64, error) {
	if err := a.check(i); err != nil {
		return math.NaN(), err
	}
	return a.neutral[i].Altitude, nil
}

// IndexOf returns the index of the altitude closest to alt [km].
func (a *Atmosphere) IndexOf(alt float64) int {
	best, dist := 0, math.Inf(1)
	for i, s := range a.neutral {
		if d := math.Abs(s.Altitude - alt); d < dist {
			best, dist = i, d
		}
	}
	return best
}

// CompositeTemperature returns the mean of the ion and neutral
// temperatures [K] at index i.
func (a *Atmosphere) CompositeTemperature(i int) (float64, error) {
	if err := a.check(i); err != nil {
		return math.NaN(), err
	}
	return (a.iono[i].IonTemperature + a.neutral[i].Temperature) / 2, nil
}

// Level returns the derived quantities at index i with temperature
// adjustment adj applied.
func (a *Atmosphere) Level(i int, adj TemperatureAdjustment) (Level, error) {
	if err := a.check(i); err != nil {
		return Level{}, err
	}
	n, ion := a.neutral[i], a.iono[i]
	tr, _ := a.CompositeTemperature(i)
	off := adj.offset(i)
	ionDensity := func(pct float64) float64 { return pct * ion.Electron / 100 }
	return Level{
		Index:                i,
		Altitude:             n.Altitude,
		O:                    n.O,
		O2:                   n.O2,
		N2:                   n.N2,
		Electron:             ion.Electron,
		OPlus:                ionDensity(ion.OPlus),
		HPlus:                ionDensity(ion.HPlus),
		HePlus:               ionDensity(ion.HePlus),
		O2Plus:               ionDensity(ion.O2Plus),
		NOPlus:               ionDensity(ion.NOPlus),
		NPlus:                ionDensity(ion.NPlus),
		NeutralTemperature:   n.Temperature,
		IonTemperature:       ion.IonTemperature,
		ElectronTemperature:  ion.ElectronTemperature + off,
		CompositeTemperature: tr + off,
		TemperatureOffset:    off,
	}, nil
}

// Species names accepted by Density.
var densityNames = []string{"O", "O2", "N2", "e", "O+", "H+", "He+", "O2+", "NO+", "N+"}

var numberDensity = unit.Dimensions{unit.LengthDim: -3}

// Density returns the number density of the named species at index i.
// Valid names are O, O2, N2, e, O+, H+, He+, O2+, NO+ and N+.
func (a *Atmosphere) Density(i int, species string) (*unit.Unit, error) {
	l, err := a.Level(i, Unheated)
	if err != nil {
		return nil, err
	}
	var v float64
	switch species {
	case "O":
		v = l.O
	case "O2":
		v = l.O2
	case "N2":
		v = l.N2
	case "e":
		v = l.Electron
	case "O+":
		v = l.OPlus
	case "H+":
		v = l.HPlus
	case "He+":
		v = l.HePlus
	case "O2+":
		v = l.O2Plus
	case "NO+":
		v = l.NOPlus
	case "N+":
		v = l.NPlus
	default:
		return nil, fmt.Errorf("ionochem: invalid species '%s'; valid options are %v", species, densityNames)
	}
	return unit.New(v, numberDensity), nil
}

// DensityNames returns the species names accepted by Density.
func DensityNames() []string { return append([]string(nil), densityNames...) }

// Temperature returns the neutral ("n"), ion ("i"), electron ("e") or
// composite ("r") temperature at index i.
func (a *Atmosphere) Temperature(i int, which string) (*unit.Unit, error) {
	l, err := a.Level(i, Unheated)
	if err != nil {
		return nil, err
	}
	var v float64
	switch which {
	case "n":
		v = l.NeutralTemperature
	case "i":
		v = l.IonTemperature
	case "e":
		v = l.ElectronTemperature
	case "r":
		v = l.CompositeTemperature
	default:
		return nil, fmt.Errorf("ionochem: invalid temperature '%s'; valid options are n, i, e and r", which)
	}
	return unit.New(v, unit.Dimensions{unit.TemperatureDim: 1}), nil
}
