package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/inkpot/internal/errors"
	"github.com/conneroisu/inkpot/internal/seed"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and seed file",
	Long: `Load the configuration and the seed file and report problems.

Dangling category references in the seed file are reported as warnings:
such posts are accepted and shown as "Uncategorized". Only a configuration
or seed file that cannot be read or parsed makes this command fail.

Examples:
  inkpot validate                 # Check .inkpot.yml and its seed file
  inkpot validate --seed new.yml  # Check another seed file`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"seed": "seed.file"})
	},
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("seed", "", "Seed file to check (overrides seed.file)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration OK (%s, serving on %s)\n", configPath(), cfg.Addr())

	if cfg.Seed.File == "" {
		fmt.Fprintln(out, "No seed file configured, the blog starts empty")
		return nil
	}

	file, err := seed.LoadFile(cfg.Seed.File)
	if err != nil {
		return errors.NewEnhancedError(
			fmt.Sprintf("Failed to load seed file %s", cfg.Seed.File),
			err,
			errors.SeedFileError(err, &errors.SuggestionContext{ConfigPath: configPath(), SeedPath: cfg.Seed.File}),
		)
	}

	comments := 0
	for _, post := range file.Posts {
		comments += len(post.Comments)
	}
	fmt.Fprintf(out, "Seed file %s: %d categories, %d posts, %d comments\n",
		cfg.Seed.File, len(file.Categories), len(file.Posts), comments)

	warnings := file.Validate()
	if len(warnings) == 0 {
		fmt.Fprintln(out, "No dangling references")
		return nil
	}

	fmt.Fprintf(out, "%d warning(s):\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(out, "  ⚠ %s\n", warning.String())
	}
	return nil
}
