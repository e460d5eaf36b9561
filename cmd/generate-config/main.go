package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/folio/internal/config"
)

const header = "# Folio configuration example\n# Copy this file to config.yaml and customize as needed.\n# FOLIO_API_BASE_URL, FOLIO_API_TOKEN and FOLIO_REDIS_ADDRS override the matching keys.\n\n"

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// exampleConfig renders the default configuration as commented YAML.
func exampleConfig() ([]byte, error) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return append([]byte(header), yamlData...), nil
}

func write(out io.Writer, target string) error {
	data, err := exampleConfig()
	if err != nil {
		return err
	}

	if target == "-" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf(config.ErrWriteConfigContentFmt, err)
	}
	return nil
}

func main() {
	target := "config.example.yaml"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	if err := write(os.Stdout, target); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render(err.Error()))
		os.Exit(1)
	}
	if target != "-" {
		fmt.Println(okStyle.Render("Generated example config:"), target)
	}
}
