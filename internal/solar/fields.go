package solar

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/atlet99/lon-tz/internal/tzsconst"
)

// Field names accepted by Zone.Get, in display order
var FieldNames = []string{
	"longitude",
	"latitude",
	"name",
	"short_name",
	"long_name",
	"offset",
	"offset_min",
	"offset_sec",
	"is_utc",
}

// Field is a named zone value formatted as a string
type Field struct {
	Name  string
	Value string
}

// Get returns a zone value formatted as a string. Field names are case-insensitive.
// latitude is empty when the zone was resolved without one.
func (z Zone) Get(field string) (string, error) {
	switch cases.Lower(language.Und).String(field) {
	case "longitude":
		return formatCoordinate(z.longitude), nil
	case "latitude":
		if !z.hasLatitude {
			return "", nil
		}
		return formatCoordinate(z.latitude), nil
	case "name", "long_name":
		return z.LongName(), nil
	case "short_name":
		return z.shortName, nil
	case "offset":
		return z.OffsetString(), nil
	case "offset_min":
		return strconv.Itoa(z.offsetMinutes), nil
	case "offset_sec":
		return strconv.Itoa(z.OffsetSeconds()), nil
	case "is_utc":
		if z.IsUTC() {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownField, field)
	}
}

// Fields returns every field of FieldNames with its value
func (z Zone) Fields() []Field {
	fields := make([]Field, 0, len(FieldNames))
	for _, name := range FieldNames {
		value, _ := z.Get(name)
		fields = append(fields, Field{Name: name, Value: value})
	}
	return fields
}

// formatCoordinate prints whole numbers without a fraction
func formatCoordinate(v float64) string {
	rounded := math.Round(v)
	if math.Abs(v-rounded) < tzsconst.PrecisionFP {
		return strconv.Itoa(int(rounded))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
