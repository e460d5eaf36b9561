// Command import-posts publishes a directory of markdown posts with TOML
// front matter to the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/debemdeboas/folio/internal/api"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/form"
	"github.com/debemdeboas/folio/internal/logger"
	"github.com/debemdeboas/folio/internal/model"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// poster is the part of api.Client the importer needs.
type poster interface {
	CreatePost(ctx context.Context, post model.BlogPost) api.Result
}

func main() {
	path := flag.String("path", "", "Directory containing .md files")
	configPath := flag.String("config", "config.yaml", "Path to the config file")
	dryRun := flag.Bool("dry-run", false, "Validate posts without sending them")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, failStyle.Render("The -path flag is required"))
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render(err.Error()))
		os.Exit(1)
	}

	client := api.New(cfg.API.BaseURL,
		api.WithToken(cfg.API.Token),
		api.WithLogger(logger.Component(logger.New(cfg.Logging.Level), "import")),
	)

	var target poster = client
	if *dryRun {
		target = nil
	}

	failed, err := importDir(context.Background(), os.Stdout, *path, target)
	if err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render(err.Error()))
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// importDir sends every .md file under dir to target, in name order. A nil
// target only validates. It returns how many files failed.
func importDir(ctx context.Context, out io.Writer, dir string, target poster) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	failed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		if !importFile(ctx, out, filepath.Join(dir, entry.Name()), target) {
			failed++
		}
	}
	return failed, nil
}

func importFile(ctx context.Context, out io.Writer, path string, target poster) bool {
	name := nameStyle.Render(filepath.Base(path))

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintln(out, failStyle.Render("FAIL"), name, err)
		return false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(out, failStyle.Render("FAIL"), name, err)
		return false
	}

	draft, slug, err := postFromFile(filepath.Base(path), content, info.ModTime())
	if err != nil {
		fmt.Fprintln(out, failStyle.Render("FAIL"), name, err)
		return false
	}

	if res := form.ValidatePost(draft); !res.Valid() {
		for _, field := range res.Fields() {
			fmt.Fprintln(out, failStyle.Render("FAIL"), name, field+":", res[field])
		}
		return false
	}

	if target == nil {
		fmt.Fprintln(out, skipStyle.Render("OK  "), name, "(dry run)")
		return true
	}

	post := draft.ToModel(nil)
	post.Slug = slug
	if res := target.CreatePost(ctx, post); !res.OK {
		fmt.Fprintln(out, failStyle.Render("FAIL"), name, res.Message)
		return false
	}

	fmt.Fprintln(out, okStyle.Render("OK  "), name)
	return true
}
