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
	"math"
	"testing"

	"github.com/kr/pretty"
)

func testAtmosphere(t *testing.T) *Atmosphere {
	n, err := ReadNeutralProfileFile("testdata/msis.dat")
	if err != nil {
		t.Fatal(err)
	}
	i, err := ReadIonosphereProfileFile("testdata/iri.dat")
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewAtmosphere(n, i, 100)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewAtmosphere(t *testing.T) {
	a := testAtmosphere(t)
	if a.Len() != 151 {
		t.Errorf("length: have %d, want 151", a.Len())
	}
	for i, want := range map[int]float64{0: 100, 10: 110, 70: 170, 130: 230} {
		alt, err := a.Altitude(i)
		if err != nil {
			t.Fatal(err)
		}
		if alt != want {
			t.Errorf("index %d: have %g km, want %g", i, alt, want)
		}
		if j := a.IndexOf(want + 0.2); j != i {
			t.Errorf("IndexOf(%g): have %d, want %d", want+0.2, j, i)
		}
	}
	if _, err := NewAtmosphere(nil, IonosphereProfile{{Altitude: 100}}, 100); err == nil {
		t.Error("empty neutral profile should be an error")
	}
}

func TestAtmosphereShorterProfile(t *testing.T) {
	n := NeutralProfile{{Altitude: 99}, {Altitude: 100}, {Altitude: 101}, {Altitude: 102}}
	i := IonosphereProfile{{Altitude: 100}, {Altitude: 101}}
	a, err := NewAtmosphere(n, i, 100)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 {
		t.Errorf("have %d, want 2", a.Len())
	}
}

func TestLevel(t *testing.T) {
	n := NeutralProfile{{Altitude: 100, O: 1e17, N2: 2e18, O2: 5e17, Temperature: 200}}
	i := IonosphereProfile{{
		Altitude: 100, Electron: 1e11, IonTemperature: 300, ElectronTemperature: 400,
		OPlus: 10, HPlus: 1, HePlus: 2, O2Plus: 30, NOPlus: 55, NPlus: 2,
	}}
	a, err := NewAtmosphere(n, i, 100)
	if err != nil {
		t.Fatal(err)
	}
	have, err := a.Level(0, Unheated)
	if err != nil {
		t.Fatal(err)
	}
	want := Level{
		Index: 0, Altitude: 100,
		O: 1e17, O2: 5e17, N2: 2e18,
		Electron: 1e11,
		OPlus:    1e10, HPlus: 1e9, HePlus: 2e9, O2Plus: 3e10, NOPlus: 5.5e10, NPlus: 2e9,
		NeutralTemperature: 200, IonTemperature: 300, ElectronTemperature: 400,
		CompositeTemperature: 250,
	}
	if diff := pretty.Diff(have, want); len(diff) != 0 {
		t.Errorf("level differs: %v", diff)
	}
}

func TestHeated(t *testing.T) {
	a := testAtmosphere(t)
	for i, off := range map[int]float64{0: 1000, 10: 1000, 49: 1000, 50: 2000, 70: 2000, 130: 2000} {
		u, err := a.Level(i, Unheated)
		if err != nil {
			t.Fatal(err)
		}
		h, err := a.Level(i, Heated)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(h.ElectronTemperature-u.ElectronTemperature-off) > 1e-9 {
			t.Errorf("index %d: Te offset %g, want %g", i, h.ElectronTemperature-u.ElectronTemperature, off)
		}
		if math.Abs(h.CompositeTemperature-u.CompositeTemperature-off) > 1e-9 || h.TemperatureOffset != off {
			t.Errorf("index %d: Tr offset %g, want %g", i, h.CompositeTemperature-u.CompositeTemperature, off)
		}
		if h.IonTemperature != u.IonTemperature || h.NeutralTemperature != u.NeutralTemperature {
			t.Errorf("index %d: ion and neutral temperatures should not change", i)
		}
	}
}

func TestCompositeTemperatureBounds(t *testing.T) {
	a := testAtmosphere(t)
	for i := 0; i < a.Len(); i++ {
		l, err := a.Level(i, Unheated)
		if err != nil {
			t.Fatal(err)
		}
		lo := math.Min(l.IonTemperature, l.NeutralTemperature)
		hi := math.Max(l.IonTemperature, l.NeutralTemperature)
		if l.CompositeTemperature < lo || l.CompositeTemperature > hi {
			t.Errorf("index %d: %g not in [%g, %g]", i, l.CompositeTemperature, lo, hi)
		}
	}
}

func TestAltitudeIndexRange(t *testing.T) {
	a := testAtmosphere(t)
	for _, i := range []int{-1, a.Len(), 1000} {
		if _, err := a.Level(i, Unheated); !errors.Is(err, ErrAltitudeIndex) {
			t.Errorf("index %d: have %v, want ErrAltitudeIndex", i, err)
		}
		if _, err := a.Altitude(i); !errors.Is(err, ErrAltitudeIndex) {
			t.Errorf("index %d: have %v, want ErrAltitudeIndex", i, err)
		}
	}
}

func TestDensity(t *testing.T) {
	a := testAtmosphere(t)
	l, err := a.Level(10, Unheated)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range DensityNames() {
		u, err := a.Density(10, name)
		if err != nil {
			t.Fatal(err)
		}
		if !u.Dimensions().Matches(numberDensity) {
			t.Errorf("%s: dimensions %v", name, u.Dimensions())
		}
	}
	ne, _ := a.Density(10, "e")
	if ne.Value() != l.Electron {
		t.Errorf("have %g, want %g", ne.Value(), l.Electron)
	}
	if _, err := a.Density(10, "Ar"); err == nil {
		t.Error("invalid species should be an error")
	}
	tr, err := a.Temperature(10, "r")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Value() != l.CompositeTemperature {
		t.Errorf("have %g, want %g", tr.Value(), l.CompositeTemperature)
	}
	if _, err := a.Temperature(10, "x"); err == nil {
		t.Error("invalid temperature should be an error")
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
