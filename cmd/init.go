package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conneroisu/inkpot/internal/mockdata"
	"github.com/conneroisu/inkpot/internal/seed"
)

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Write a starter configuration and seed file",
	Long: `Write .inkpot.yml and a seed file into dir (default: the current
directory). The seed file holds a few sample categories, posts and comments.

Examples:
  inkpot init                  # Starter files in the current directory
  inkpot init my-blog          # Starter files in my-blog/
  inkpot init --sample 50      # Generate 50 random posts instead
  inkpot init --force          # Overwrite existing files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initForce       bool
	initSample      int
	initSampleSeed  int64
	initSeedFile    string
	initMaxComments int
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	initCmd.Flags().IntVar(&initSample, "sample", 0, "Generate this many random posts instead of the starter content")
	initCmd.Flags().Int64Var(&initSampleSeed, "sample-seed", 0, "Random seed for --sample (0 picks one from the clock)")
	initCmd.Flags().IntVar(&initMaxComments, "max-comments", 3, "Maximum comments per generated post")
	initCmd.Flags().StringVar(&initSeedFile, "seed-file", "seed.yml", "Name of the seed file to write")
}

// sampleCategories is the number of categories --sample generates.
const sampleCategories = 4

const configTemplate = `# inkpot configuration
server:
  port: 8080
  host: localhost
  environment: development
  shutdown_timeout: 10s
  allowed_origins: []

seed:
  file: %s
  watch: false

logging:
  level: info
  format: text

metrics:
  enabled: true
  path: /metrics

development:
  live_reload: true
`

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if initSample < 0 {
		return fmt.Errorf("--sample must not be negative, got %d", initSample)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file := seed.Starter()
	if initSample > 0 {
		generator := mockdata.NewGenerator()
		if initSampleSeed != 0 {
			generator = mockdata.NewGeneratorWithSeed(initSampleSeed)
		}
		file = generator.Generate(sampleCategories, initSample, initMaxComments)
	}

	data, err := seed.Marshal(file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	seedPath := filepath.Join(dir, initSeedFile)
	if err := writeNew(seedPath, data); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s (%d categories, %d posts)\n", seedPath, len(file.Categories), len(file.Posts))

	configFile := filepath.Join(dir, DefaultConfigFile)
	if err := writeNew(configFile, []byte(fmt.Sprintf(configTemplate, initSeedFile))); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", configFile)

	fmt.Fprintln(out, "\nNext steps:")
	if dir != "." {
		fmt.Fprintf(out, "  cd %s\n", dir)
	}
	fmt.Fprintln(out, "  inkpot validate")
	fmt.Fprintln(out, "  inkpot serve")

	return nil
}

// writeNew writes data to path, refusing to replace an existing file unless
// --force was given.
func writeNew(path string, data []byte) error {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
