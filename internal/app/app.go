// Package app implements the motiongraph command line: schema generation,
// override asset checks and the live inspector loop.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"schmoovin/motiongraph/graph"
	"schmoovin/motiongraph/internal/config"
	"schmoovin/motiongraph/key"
	"schmoovin/motiongraph/locomotion"
	"schmoovin/motiongraph/override"
)

var ErrUsage = errors.New("usage: motiongraph <schema|check|inspect> [flags]")

// Execute runs the subcommand named by args[0].
func Execute(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	switch args[0] {
	case "schema":
		return runSchema(stdout, stderr, args[1:])
	case "check":
		return runCheck(stdout, stderr, args[1:])
	case "inspect":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address for the inspector websocket")
		fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "publish every parameter change")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return RunInspector(ctx, cfg, stderr)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, ErrUsage.Error())
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
}

func runSchema(stdout, stderr io.Writer, args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "write the schema to this path instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(override.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	raw = append(raw, '\n')

	if *out == "" {
		_, err := stdout.Write(raw)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	fmt.Fprintf(stdout, "wrote %s\n", *out)
	return nil
}

func runCheck(stdout, stderr io.Writer, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	templateName := fs.String("template", locomotion.DemoTemplateName, "template the asset targets")
	assetPath := fs.String("asset", "", "override asset file (.json or .toml)")
	write := fs.Bool("write", false, "rewrite the asset after syncing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *assetPath == "" {
		return fmt.Errorf("check: -asset is required")
	}

	tmpl, err := buildTemplate(*templateName)
	if err != nil {
		return err
	}
	asset, err := override.Load(*assetPath)
	if err != nil {
		return err
	}
	if asset.Template() != tmpl.Name() {
		return fmt.Errorf("check: %w: asset %q is for %q", graph.ErrTemplateMismatch, *assetPath, asset.Template())
	}

	report := asset.Sync(tmpl.Data())
	printReport(stdout, *assetPath, report)
	if !report.Changed() || !*write {
		return nil
	}

	raw, err := asset.Encode(override.FormatFor(*assetPath))
	if err != nil {
		return err
	}
	if err := os.WriteFile(*assetPath, raw, 0o644); err != nil {
		return fmt.Errorf("check: write %s: %w", *assetPath, err)
	}
	fmt.Fprintf(stdout, "rewrote %s\n", *assetPath)
	return nil
}

func buildTemplate(name string) (*graph.Template, error) {
	build, ok := locomotion.Templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	return build()
}

func printReport(w io.Writer, path string, report override.SyncReport) {
	if !report.Changed() {
		fmt.Fprintf(w, "%s: in sync\n", path)
		return
	}
	for _, id := range report.Added {
		fmt.Fprintf(w, "%s: added %s\n", path, key.Name(id))
	}
	for _, id := range report.Retyped {
		fmt.Fprintf(w, "%s: retyped %s\n", path, key.Name(id))
	}
	for _, id := range report.Pruned {
		fmt.Fprintf(w, "%s: pruned %s\n", path, key.Name(id))
	}
}
