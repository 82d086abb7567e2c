package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/inkpot/internal/config"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Server flags
	Port int    `flag:"port,p" desc:"Port to serve on" default:"8080"`
	Host string `flag:"host" desc:"Host to bind to" default:"localhost"`

	// Seed flags
	Seed      string `flag:"seed" desc:"Seed file to load at startup" default:""`
	WatchSeed bool   `flag:"watch-seed" desc:"Reload the seed file when it changes" default:"false"`

	// Output flags
	OutputFormat string `flag:"output,o" desc:"Output format (table|json|yaml)" default:"table"`
}

// Output formats accepted by --output.
var validFormats = []string{"table", "json", "yaml"}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "server":
			addServerFlags(cmd, flags)
		case "seed":
			addSeedFlags(cmd, flags)
		case "output":
			addOutputFlags(cmd, flags)
		}
	}

	return flags
}

func addServerFlags(cmd *cobra.Command, flags *StandardFlags) {
	flags.Port = config.DefaultPort
	cmd.Flags().VarP(&portValue{target: &flags.Port}, "port", "p", "Port to serve on")
	cmd.Flags().StringVar(&flags.Host, "host", config.DefaultHost, "Host to bind to")
}

func addSeedFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVar(&flags.Seed, "seed", "", "Seed file to load (overrides seed.file)")
	cmd.Flags().BoolVar(&flags.WatchSeed, "watch-seed", false, "Reload the seed file when it changes")
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", "table", "Output format (table|json|yaml)")
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if err := ValidatePort(f.Port); err != nil {
		return err
	}
	if f.OutputFormat != "" {
		return ValidateOutputFormat(f.OutputFormat)
	}
	return nil
}

// ValidatePort reports whether port is a usable TCP port. Zero asks the
// system for a free port.
func ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", port)
	}
	return nil
}

// ValidateOutputFormat reports whether format is one of table, json or yaml.
func ValidateOutputFormat(format string) error {
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid output format %q, must be one of: %s", format, strings.Join(validFormats, ", "))
}

// portValue is a pflag.Value that rejects out-of-range ports while the
// flags are parsed.
type portValue struct {
	target *int
}

var _ pflag.Value = (*portValue)(nil)

func (p *portValue) String() string {
	if p.target == nil {
		return "0"
	}
	return strconv.Itoa(*p.target)
}

func (p *portValue) Set(s string) error {
	port, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid port %q", s)
	}
	if err := ValidatePort(port); err != nil {
		return err
	}
	*p.target = port
	return nil
}

func (p *portValue) Type() string {
	return "int"
}
