// Package tzfile generates the static zone definition table for all solar time zones,
// in the text format of the tz database source files.
package tzfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/atlet99/lon-tz/internal/solar"
	"github.com/atlet99/lon-tz/internal/tzsconst"
)

const columnHeader = "# Zone\tNAME\t\tSTDOFF\tRULES\tFORMAT\t[UNTIL]"

// Entry is one zone of the table
type Entry struct {
	Comment string
	Zone    solar.Zone
}

// Line renders the Zone line of the entry
func (e Entry) Line() string {
	return fmt.Sprintf("Zone\t%s\t%s\t-\t%s", e.Zone.LongName(), stdOffset(e.Zone), e.Zone.ShortName())
}

// Entries returns hour-based zones from -12 to +12, followed by
// longitude-based zones from -180 to +180
func Entries() ([]Entry, error) {
	hourMax := tzsconst.MaxLongitudeInt / solar.HourWidth.Width()
	degreeMax := tzsconst.MaxLongitudeInt / solar.DegreeWidth.Width()
	entries := make([]Entry, 0, 2*hourMax+1+2*degreeMax+1)

	for hour := -hourMax; hour <= hourMax; hour++ {
		zone, err := solar.ForOffset(solar.HourWidth, hour)
		if err != nil {
			return nil, fmt.Errorf("hour zone %d: %w", hour, err)
		}
		entries = append(entries, Entry{
			Comment: fmt.Sprintf("Solar Time by hourly increment: %s%d", hourSign(hour), abs(hour)),
			Zone:    zone,
		})
	}

	for deg := -degreeMax; deg <= degreeMax; deg++ {
		zone, err := solar.ForOffset(solar.DegreeWidth, deg)
		if err != nil {
			return nil, fmt.Errorf("longitude zone %d: %w", deg, err)
		}
		eastWest := "E"
		if deg < 0 {
			eastWest = "W"
		}
		entries = append(entries, Entry{
			Comment: fmt.Sprintf("Solar Time by degree of longitude: %d %s", abs(deg), eastWest),
			Zone:    zone,
		})
	}

	return entries, nil
}

// Write writes the complete table to w
func Write(w io.Writer) error {
	entries, err := Entries()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, entry := range entries {
		if _, err := fmt.Fprintf(bw, "# %s\n%s\n%s\n\n", entry.Comment, columnHeader, entry.Line()); err != nil {
			return fmt.Errorf("failed to write zone %s: %w", entry.Zone.ShortName(), err)
		}
	}
	return bw.Flush()
}

// String returns the complete table
func String() (string, error) {
	var sb strings.Builder
	if err := Write(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// stdOffset formats the STDOFF column. Hour zones always carry a sign,
// longitude zones only a minus sign; hours are not zero padded.
func stdOffset(zone solar.Zone) string {
	minutes := zone.OffsetMinutes()
	sign := ""
	switch {
	case minutes < 0:
		sign = "-"
	case zone.Scheme() == solar.HourWidth:
		sign = "+"
	}
	minutes = abs(minutes)
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}

func hourSign(hour int) string {
	if hour < 0 {
		return "-"
	}
	return "+"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
