package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nghood/eventgraph/internal/config"
	"github.com/nghood/eventgraph/internal/manifest"
	"github.com/nghood/eventgraph/internal/printer"
)

//go:embed templates/*
var templatesFS embed.FS

const (
	// ConfigFile is the config file written by Initialize
	ConfigFile = config.DefaultPath

	// ManifestFile is the starter manifest written by Initialize
	ManifestFile = "bible-event-graph.json"
)

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Initialize writes the config file and starter manifest into dir
// If force is true, existing files are removed first
func Initialize(dir string, force bool, p *printer.Printer) error {
	if force {
		if err := handleForce(dir, p); err != nil {
			return err
		}
	}

	files, err := getTemplateFiles(dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := writeFiles(files); err != nil {
		return err
	}

	return validateCreatedFiles(dir)
}

// handleForce removes existing files if --force was specified
func handleForce(dir string, p *printer.Printer) error {
	for _, name := range []string{ConfigFile, ManifestFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		p.Warning("Removing existing %s...\n", name)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// getTemplateFiles reads all template files and maps them to their destinations
func getTemplateFiles(dir string) ([]FileInfo, error) {
	templates := []struct {
		template string
		dest     string
	}{
		{template: "templates/eventgraph.yml.tmpl", dest: ConfigFile},
		{template: "templates/bible-event-graph.json.tmpl", dest: ManifestFile},
	}

	files := make([]FileInfo, 0, len(templates))
	for _, tmpl := range templates {
		content, err := templatesFS.ReadFile(tmpl.template)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", tmpl.dest, err)
		}
		files = append(files, FileInfo{
			Path:        filepath.Join(dir, tmpl.dest),
			Content:     content,
			Permissions: 0644,
		})
	}
	return files, nil
}

// writeFiles writes all template files to disk
func writeFiles(files []FileInfo) error {
	for _, file := range files {
		if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}
	return nil
}

// validateCreatedFiles checks that the config loads and that it points at a
// manifest which validates cleanly
func validateCreatedFiles(dir string) error {
	cfg, err := config.Load(filepath.Join(dir, ConfigFile))
	if err != nil {
		return fmt.Errorf("created %s is invalid: %w", ConfigFile, err)
	}

	doc, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return fmt.Errorf("created %s is unreadable: %w", ManifestFile, err)
	}

	res := manifest.Validate(doc)
	if !res.Valid() || len(res.Warnings) > 0 {
		issues := append(res.ErrorMessages(), res.WarningMessages()...)
		return fmt.Errorf("created %s does not validate: %s", ManifestFile, strings.Join(issues, "; "))
	}
	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess(p *printer.Printer) {
	p.Success("Successfully initialized eventgraph project!\n")
	p.Println("\nCreated:")
	p.Printf("  ✓ %s\n", ConfigFile)
	p.Printf("  ✓ %s\n", ManifestFile)
	p.Println("\nNext steps:")
	p.Printf("  1. Add your events to %s\n", ManifestFile)
	p.Println("  2. Run 'eventgraph' to validate the manifest")
	p.Println("  3. Run 'eventgraph tree' to preview the display order")
}
