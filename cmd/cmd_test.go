package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/errors"
	"github.com/conneroisu/inkpot/internal/logging"
	"github.com/conneroisu/inkpot/internal/seed"
	"github.com/conneroisu/inkpot/internal/store"
	"github.com/conneroisu/inkpot/internal/testutils"
	"github.com/conneroisu/inkpot/internal/version"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	oldDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(oldDir) })

	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func resetInitFlags() {
	initForce = false
	initSample = 0
	initSampleSeed = 0
	initMaxComments = 3
	initSeedFile = "seed.yml"
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

func TestInitCommand(t *testing.T) {
	chdirTemp(t)
	resetInitFlags()

	cmd, out := newTestCommand()
	require.NoError(t, runInit(cmd, []string{}))

	testutils.AssertFilePermissions(t, ".inkpot.yml", 0o644)
	testutils.AssertFilePermissions(t, "seed.yml", 0o644)
	assert.Contains(t, out.String(), "inkpot serve")

	configData, err := os.ReadFile(".inkpot.yml")
	require.NoError(t, err)
	assert.Contains(t, string(configData), "file: seed.yml")

	file, err := seed.LoadFile("seed.yml")
	require.NoError(t, err)
	assert.Equal(t, seed.Starter(), file)
	assert.Empty(t, file.Validate())
}

func TestInitCommandWithDirectory(t *testing.T) {
	chdirTemp(t)
	resetInitFlags()

	cmd, out := newTestCommand()
	require.NoError(t, runInit(cmd, []string{"my-blog"}))

	assert.FileExists(t, filepath.Join("my-blog", ".inkpot.yml"))
	assert.FileExists(t, filepath.Join("my-blog", "seed.yml"))
	assert.Contains(t, out.String(), "cd my-blog")
}

func TestInitCommandRefusesOverwrite(t *testing.T) {
	chdirTemp(t)
	resetInitFlags()

	require.NoError(t, os.WriteFile("seed.yml", []byte("keep me"), 0o644))

	cmd, _ := newTestCommand()
	err := runInit(cmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	data, err := os.ReadFile("seed.yml")
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	initForce = true
	require.NoError(t, runInit(cmd, []string{}))
	_, err = seed.LoadFile("seed.yml")
	assert.NoError(t, err)
}

func TestInitCommandSample(t *testing.T) {
	chdirTemp(t)
	resetInitFlags()
	initSample = 12
	initSampleSeed = 42

	cmd, _ := newTestCommand()
	require.NoError(t, runInit(cmd, []string{}))

	file, err := seed.LoadFile("seed.yml")
	require.NoError(t, err)
	assert.Len(t, file.Posts, 12)
	assert.Len(t, file.Categories, sampleCategories)
	assert.Empty(t, file.Validate())
}

func TestInitCommandRejectsNegativeSample(t *testing.T) {
	chdirTemp(t)
	resetInitFlags()
	initSample = -1

	cmd, _ := newTestCommand()
	assert.Error(t, runInit(cmd, []string{}))
	assert.NoFileExists(t, "seed.yml")
}

func TestWriteListPostsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeList(&buf, testutils.CreateTestStore(), "posts", "json"))

	var rows []PostRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, PostRow{ID: 1, Title: "Channels", CategoryID: 1, Category: "Go", Comments: 2}, rows[0])
	assert.Equal(t, PostRow{ID: 2, Title: "Lost", CategoryID: 9, Category: "Uncategorized", Comments: 0}, rows[1])
}

func TestWriteListTable(t *testing.T) {
	tests := []struct {
		kind     string
		contains []string
	}{
		{kind: "posts", contains: []string{"TITLE", "Channels", "Uncategorized"}},
		{kind: "categories", contains: []string{"NAME", "Go", "Travel"}},
		{kind: "comments", contains: []string{"AUTHOR", "ann", "agreed"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeList(&buf, testutils.CreateTestStore(), tt.kind, "table"))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWriteListCategoriesYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeList(&buf, testutils.CreateTestStore(), "categories", "yaml"))

	assert.Contains(t, buf.String(), "name: Go")
	assert.Contains(t, buf.String(), "posts: 1")
	assert.Contains(t, buf.String(), "posts: 0")
}

func TestWriteListUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeList(&buf, store.New(), "tags", "table"))
}

func TestValidateCommand(t *testing.T) {
	dir := chdirTemp(t)
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := testutils.WriteSeedFile(t, dir, `categories:
  - name: Go
posts:
  - title: Fine
    content: x
    category: go
  - title: Dangling
    content: y
    category: Rust
`)
	viper.Set("seed.file", path)

	cmd, out := newTestCommand()
	require.NoError(t, runValidate(cmd, nil))

	assert.Contains(t, out.String(), "Configuration OK")
	assert.Contains(t, out.String(), "1 categories, 2 posts, 0 comments")
	assert.Contains(t, out.String(), "1 warning(s)")
	assert.Contains(t, out.String(), "Dangling")
}

func TestValidateCommandWithoutSeed(t *testing.T) {
	chdirTemp(t)
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd, out := newTestCommand()
	require.NoError(t, runValidate(cmd, nil))
	assert.Contains(t, out.String(), "No seed file configured")
}

func TestValidateCommandBadSeed(t *testing.T) {
	dir := chdirTemp(t)
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("seed.file", testutils.WriteSeedFile(t, dir, "posts: [unterminated"))

	cmd, _ := newTestCommand()
	err := runValidate(cmd, nil)

	var enhanced *errors.EnhancedError
	require.ErrorAs(t, err, &enhanced)
	assert.NotEmpty(t, enhanced.Suggestions)
}

func TestLoadSeedMissingFile(t *testing.T) {
	err := loadSeed(context.Background(), filepath.Join(t.TempDir(), "nope.yml"), store.New(), logging.Nop())

	var enhanced *errors.EnhancedError
	require.ErrorAs(t, err, &enhanced)
}

func TestLoadSeedAppliesRecords(t *testing.T) {
	path := testutils.WriteSeedFile(t, t.TempDir(), `categories:
  - name: Go
posts:
  - title: Hello
    content: World
    category: Go
    comments:
      - author: ann
        content: hi
`)
	st := store.New()
	require.NoError(t, loadSeed(context.Background(), path, st, logging.Nop()))

	assert.Equal(t, 1, st.Categories.Count())
	assert.Equal(t, 1, st.Posts.Count())
	assert.Len(t, st.Comments.GetByPostID(1), 1)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testutils.CreateTestConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := serve(ctx, cfg, store.New(), logging.Nop(), &out)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Starting inkpot")
}

func TestServePortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	cfg := testutils.CreateTestConfig()
	cfg.Server.Port = listener.Addr().(*net.TCPAddr).Port

	var out bytes.Buffer
	err = serve(context.Background(), cfg, store.New(), logging.Nop(), &out)

	var enhanced *errors.EnhancedError
	require.ErrorAs(t, err, &enhanced)
	assert.Contains(t, enhanced.Error(), "Failed to start server")
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		port    int
		wantErr bool
	}{
		{port: 0},
		{port: 8080},
		{port: 65535},
		{port: -1, wantErr: true},
		{port: 65536, wantErr: true},
	}

	for _, tt := range tests {
		err := ValidatePort(tt.port)
		if tt.wantErr {
			assert.Error(t, err, "port %d", tt.port)
		} else {
			assert.NoError(t, err, "port %d", tt.port)
		}
	}
}

func TestPortFlag(t *testing.T) {
	cmd := &cobra.Command{}
	flags := AddStandardFlags(cmd, "server")
	assert.Equal(t, config.DefaultPort, flags.Port)

	require.NoError(t, cmd.Flags().Set("port", "3000"))
	assert.Equal(t, 3000, flags.Port)

	assert.Error(t, cmd.Flags().Set("port", "70000"))
	assert.Error(t, cmd.Flags().Set("port", "80abc"))
	assert.Equal(t, 3000, flags.Port)
}

func TestValidateFlagsOutputFormat(t *testing.T) {
	cmd := &cobra.Command{}
	flags := AddStandardFlags(cmd, "output")

	assert.NoError(t, flags.ValidateFlags())

	flags.OutputFormat = "xml"
	assert.Error(t, flags.ValidateFlags())
}

func TestVersionCommandJSON(t *testing.T) {
	versionFormat = "json"
	t.Cleanup(func() { versionFormat = "text" })

	cmd, out := newTestCommand()
	require.NoError(t, runVersionCommand(cmd, nil))

	var info version.BuildInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, version.Get().Version, info.Version)
}

func TestVersionCommandUnsupportedFormat(t *testing.T) {
	versionFormat = "xml"
	t.Cleanup(func() { versionFormat = "text" })

	cmd, _ := newTestCommand()
	assert.Error(t, runVersionCommand(cmd, nil))
}
