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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// cm3ToM3 converts number densities from cm⁻³ to m⁻³.
const cm3ToM3 = 1.e6

// NeutralSample holds neutral atmosphere properties at one altitude.
type NeutralSample struct {
	Altitude float64 // km

	// Number densities of atomic oxygen, molecular nitrogen and
	// molecular oxygen [m⁻³].
	O, N2, O2 float64

	Temperature float64 // K
}

// IonosphereSample holds ionospheric properties at one altitude.
type IonosphereSample struct {
	Altitude float64 // km

	Electron float64 // electron density [m⁻³]

	IonTemperature      float64 // K
	ElectronTemperature float64 // K

	// Ion abundances as a percentage of the electron density.
	OPlus, HPlus, HePlus, O2Plus, NOPlus, NPlus float64
}

// NeutralProfile is a neutral atmosphere profile ordered by altitude,
// as produced by an MSIS model run.
type NeutralProfile []NeutralSample

// IonosphereProfile is an ionospheric profile ordered by altitude,
// as produced by an IRI model run.
type IonosphereProfile []IonosphereSample

// Column positions in the input tables.
const (
	colNeutralAlt = 0
	colNeutralO   = 1
	colNeutralN2  = 2
	colNeutralO2  = 3
	colNeutralT   = 5

	colIonoAlt    = 0
	colIonoNe     = 1
	colIonoTi     = 2
	colIonoTe     = 3
	colIonoOPlus  = 4
	colIonoHPlus  = 5
	colIonoHePlus = 6
	colIonoO2Plus = 7
	colIonoNOPlus = 8
	colIonoNPlus  = 10
)

// ReadNeutralProfile reads a whitespace-delimited neutral atmosphere
// table. Lines starting with '%' are comments. Columns are altitude [km],
// O, N2 and O2 densities [cm⁻³], an ignored column and temperature [K].
// Densities are converted to m⁻³.
func ReadNeutralProfile(r io.Reader) (NeutralProfile, error) {
	rows, err := readTable(r, colNeutralT+1)
	if err != nil {
		return nil, fmt.Errorf("ionochem: reading neutral profile: %v", err)
	}
	p := make(NeutralProfile, len(rows))
	for i, row := range rows {
		p[i] = NeutralSample{
			Altitude:    row[colNeutralAlt],
			O:           row[colNeutralO] * cm3ToM3,
			N2:          row[colNeutralN2] * cm3ToM3,
			O2:          row[colNeutralO2] * cm3ToM3,
			Temperature: row[colNeutralT],
		}
	}
	return p, nil
}

// ReadIonosphereProfile reads a whitespace-delimited ionospheric table.
// Lines starting with '%' are comments. Columns are altitude [km],
// electron density [m⁻³], ion and electron temperature [K], and the
// O⁺, H⁺, He⁺, O₂⁺, NO⁺ percentages in columns 4-8 with N⁺ in column 10.
func ReadIonosphereProfile(r io.Reader) (IonosphereProfile, error) {
	rows, err := readTable(r, colIonoNPlus+1)
	if err != nil {
		return nil, fmt.Errorf("ionochem: reading ionosphere profile: %v", err)
	}
	p := make(IonosphereProfile, len(rows))
	for i, row := range rows {
		p[i] = IonosphereSample{
			Altitude:            row[colIonoAlt],
			Electron:            row[colIonoNe],
			IonTemperature:      row[colIonoTi],
			ElectronTemperature: row[colIonoTe],
			OPlus:               row[colIonoOPlus],
			HPlus:               row[colIonoHPlus],
			HePlus:              row[colIonoHePlus],
			O2Plus:              row[colIonoO2Plus],
			NOPlus:              row[colIonoNOPlus],
			NPlus:               row[colIonoNPlus],
		}
	}
	return p, nil
}

// ReadNeutralProfileFile reads a neutral profile from the named file.
func ReadNeutralProfileFile(filename string) (NeutralProfile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ionochem: opening neutral profile: %v", err)
	}
	defer f.Close()
	return ReadNeutralProfile(f)
}

// ReadIonosphereProfileFile reads an ionosphere profile from the named file.
func ReadIonosphereProfileFile(filename string) (IonosphereProfile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ionochem: opening ionosphere profile: %v", err)
	}
	defer f.Close()
	return ReadIonosphereProfile(f)
}

// readTable reads the numeric rows of a table, requiring at least
// minCols columns in each row.
func readTable(r io.Reader, minCols int) ([][]float64, error) {
	var rows [][]float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < minCols {
			return nil, fmt.Errorf("line %d: have %d columns, need at least %d", line, len(fields), minCols)
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %v", line, i, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return rows, nil
}
