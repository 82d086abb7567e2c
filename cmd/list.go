package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/inkpot/internal/store"
	"github.com/conneroisu/inkpot/internal/views"
)

var listFlags *StandardFlags

var listCmd = &cobra.Command{
	Use:       "list [posts|categories|comments]",
	Aliases:   []string{"l"},
	Short:     "List the records of the seed file",
	ValidArgs: []string{"posts", "categories", "comments"},
	Long: `Load the seed file into fresh stores and print its records. Posts are
listed with their category name and comment count.

Examples:
  inkpot list                          # List posts as a table
  inkpot list categories               # List categories with post counts
  inkpot list comments -o yaml         # List comments as YAML
  inkpot list posts --seed other.yml   # Use another seed file`,
	Args: cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := listFlags.ValidateFlags(); err != nil {
			return err
		}
		return bindFlags(cmd, map[string]string{"seed": "seed.file"})
	},
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listFlags = AddStandardFlags(listCmd, "output")
	listCmd.Flags().StringVar(&listFlags.Seed, "seed", "", "Seed file to list (overrides seed.file)")
}

// PostRow is a post joined with its category name and comment count.
type PostRow struct {
	ID         int    `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	CategoryID int    `json:"categoryId" yaml:"categoryId"`
	Category   string `json:"category" yaml:"category"`
	Comments   int    `json:"comments" yaml:"comments"`
}

// CategoryRow is a category with the number of posts filed under it.
type CategoryRow struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Posts int    `json:"posts" yaml:"posts"`
}

func runList(cmd *cobra.Command, args []string) error {
	kind := "posts"
	if len(args) > 0 {
		kind = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Seed.File == "" {
		return fmt.Errorf("no seed file configured, use --seed or set seed.file in %s", configPath())
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	st := store.New()
	if err := loadSeed(commandContext(cmd), cfg.Seed.File, st, logger); err != nil {
		return err
	}

	return writeList(cmd.OutOrStdout(), st, kind, listFlags.OutputFormat)
}

// writeList prints the records of one kind from st in the given format.
func writeList(w io.Writer, st *store.Store, kind, format string) error {
	switch kind {
	case "posts":
		rows := postRows(st)
		return writeRecords(w, format, rows, []string{"ID", "Title", "Category", "Comments"}, func() [][]string {
			out := make([][]string, 0, len(rows))
			for _, row := range rows {
				out = append(out, []string{strconv.Itoa(row.ID), row.Title, row.Category, strconv.Itoa(row.Comments)})
			}
			return out
		})
	case "categories":
		rows := categoryRows(st)
		return writeRecords(w, format, rows, []string{"ID", "Name", "Posts"}, func() [][]string {
			out := make([][]string, 0, len(rows))
			for _, row := range rows {
				out = append(out, []string{strconv.Itoa(row.ID), row.Name, strconv.Itoa(row.Posts)})
			}
			return out
		})
	case "comments":
		comments := st.Comments.GetAll()
		return writeRecords(w, format, comments, []string{"ID", "Post", "Author", "Content"}, func() [][]string {
			out := make([][]string, 0, len(comments))
			for _, c := range comments {
				out = append(out, []string{strconv.Itoa(c.ID), strconv.Itoa(c.PostID), c.Author, c.Content})
			}
			return out
		})
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}
}

func postRows(st *store.Store) []PostRow {
	categories := st.Categories.GetAll()
	posts := st.Posts.GetAll()
	rows := make([]PostRow, 0, len(posts))
	for _, post := range posts {
		rows = append(rows, PostRow{
			ID:         post.ID,
			Title:      post.Title,
			CategoryID: post.CategoryID,
			Category:   views.CategoryName(categories, post.CategoryID),
			Comments:   len(st.Comments.GetByPostID(post.ID)),
		})
	}
	return rows
}

func categoryRows(st *store.Store) []CategoryRow {
	categories := st.Categories.GetAll()
	rows := make([]CategoryRow, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, CategoryRow{
			ID:    category.ID,
			Name:  category.Name,
			Posts: len(st.Posts.GetByCategory(category.ID)),
		})
	}
	return rows
}

func writeRecords(w io.Writer, format string, records interface{}, header []string, cells func() [][]string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(records); err != nil {
			return err
		}
		return encoder.Close()
	default:
		table := tablewriter.NewWriter(w)
		table.SetHeader(header)
		table.SetAutoWrapText(false)
		table.AppendBulk(cells())
		table.Render()
		return nil
	}
}
