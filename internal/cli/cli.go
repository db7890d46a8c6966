// Package cli implements the lon-tz command line: zone lookup by longitude or
// name, field output and tzfile generation.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/atlet99/lon-tz/internal/solar"
	"github.com/atlet99/lon-tz/internal/timezone"
	"github.com/atlet99/lon-tz/internal/tzfile"
	"github.com/atlet99/lon-tz/internal/version"
	"github.com/atlet99/lon-tz/pkg/logger"
)

// Output formats for --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CLI defines the command-line interface structure
type CLI struct {
	TZFile    bool     `name:"tzfile" xor:"input" help:"Write the solar time zone table in tzfile source format"`
	TZName    string   `name:"tzname" xor:"input" placeholder:"NAME" help:"Zone name such as East05, West08 or Lon123W"`
	Longitude *float64 `name:"longitude" xor:"input" placeholder:"DEG" help:"Longitude in degrees, negative west of Greenwich"`
	Latitude  *float64 `name:"latitude" placeholder:"DEG" help:"Latitude in degrees; zones within 10 degrees of a pole are UTC"`
	Type      string   `name:"type" default:"hour" help:"Zone width: hour or longitude"`
	Get       []string `name:"get" sep:"," placeholder:"FIELD,..." help:"Print these fields, one per line; local_time is the time in the zone"`
	At        string   `name:"at" placeholder:"TIME" help:"Instant for local_time instead of now: RFC 3339 or a zone wall clock time 2006-01-02 15:04:05"`
	Format    string   `name:"format" enum:"text,json,yaml" default:"text" help:"Output format: text, json or yaml"`
	Version   bool     `name:"version" help:"Print version information and exit"`
	Debug     bool     `name:"debug" help:"Log at debug level"`
}

// localTimeField is answered by the zone clock rather than the zone
const localTimeField = "local_time"

// exitCode carries a kong exit request out of Parse
type exitCode int

// Run parses args and executes the command. It returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(version.Name),
		kong.Description("Solar time zones from longitude"),
		kong.Writers(stdout, stderr),
		kong.WithHyphenPrefixedParameters(true),
		kong.Exit(func(code int) { panic(exitCode(code)) }),
	)
	if err != nil {
		logger.New(slog.LevelInfo, stderr).Error("Failed to build command line parser", "error", err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			exit, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(exit)
		}
	}()

	if _, err := parser.Parse(args); err != nil {
		logger.New(slog.LevelInfo, stderr).Error("Invalid arguments", "error", err)
		return 1
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	log := logger.New(level, stderr)

	if err := cli.run(stdout, log); err != nil {
		log.Error("Command failed", "error", err)
		return 1
	}
	return 0
}

func (c *CLI) run(stdout io.Writer, log *slog.Logger) error {
	if c.Version {
		_, err := fmt.Fprintln(stdout, version.GetFullVersionInfo())
		return err
	}

	if c.TZFile {
		log.Debug("Writing tzfile table")
		return tzfile.Write(stdout)
	}

	zone, err := c.zone()
	if err != nil {
		return err
	}
	log.Debug("Zone resolved",
		"short_name", zone.ShortName(),
		"offset_min", zone.OffsetMinutes())

	fields := c.Get
	if len(fields) == 0 {
		if c.Format != FormatText {
			fields = solar.FieldNames
		} else {
			fields = []string{"long_name"}
		}
	}

	clock := timezone.NewClock(zone)
	values := make([]solar.Field, 0, len(fields))
	for _, name := range fields {
		var value string
		if strings.EqualFold(name, localTimeField) {
			value, err = clock.LocalTime(c.At)
		} else {
			value, err = zone.Get(name)
		}
		if err != nil {
			return err
		}
		values = append(values, solar.Field{Name: name, Value: value})
	}

	return writeFields(stdout, c.Format, values)
}

// zone resolves the zone selected by --tzname or --longitude
func (c *CLI) zone() (solar.Zone, error) {
	switch {
	case c.TZName != "":
		return solar.FromName(c.TZName)
	case c.Longitude != nil:
		scheme, err := solar.ParseScheme(c.Type)
		if err != nil {
			return solar.Zone{}, err
		}
		if c.Latitude != nil {
			return solar.ResolveWithLatitude(*c.Longitude, *c.Latitude, scheme)
		}
		return solar.Resolve(*c.Longitude, scheme)
	default:
		return solar.Zone{}, fmt.Errorf("%w: use --tzfile, --tzname or --longitude", solar.ErrMissingInput)
	}
}

func writeFields(w io.Writer, format string, fields []solar.Field) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(fieldMap(fields), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(fieldNode(fields)); err != nil {
			return err
		}
		return encoder.Close()
	case FormatText:
		for _, field := range fields {
			if _, err := fmt.Fprintln(w, field.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New("unknown output format " + format)
	}
}

func fieldMap(fields []solar.Field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, field := range fields {
		m[field.Name] = field.Value
	}
	return m
}

// fieldNode keeps the field order in YAML output
func fieldNode(fields []solar.Field) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, field := range fields {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Value},
		)
	}
	return node
}
