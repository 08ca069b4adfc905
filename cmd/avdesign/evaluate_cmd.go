package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog/source"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/engine"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/findings"
)

// engineFlags are shared by commands that run the engine locally.
type engineFlags struct {
	catalogPath string
	profilePath string
}

func (f *engineFlags) register(cmd *flag.FlagSet) {
	catalogDefault := os.Getenv("CATALOG_PATH")
	if catalogDefault == "" {
		catalogDefault = "catalog.json"
	}
	cmd.StringVar(&f.catalogPath, "catalog", catalogDefault, "Path to the product catalog (JSON or YAML)")
	cmd.StringVar(&f.profilePath, "profile", os.Getenv("EVALUATION_PROFILE"), "Evaluation profile YAML")
}

func (f *engineFlags) engine(ctx context.Context) (*engine.Engine, error) {
	store := catalog.NewStore()
	if _, err := source.Load(ctx, source.NewFileSource(f.catalogPath), store); err != nil {
		return nil, err
	}
	profile, err := loadProfile(f.profilePath)
	if err != nil {
		return nil, err
	}
	rs, err := profile.Rules()
	if err != nil {
		return nil, err
	}
	return engine.New(store, profile.Options(), engine.WithRules(rs)), nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runEvaluateCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		ef            engineFlags
		jsonOutput    bool
		failOnWarning bool
	)
	ef.register(cmd)
	cmd.BoolVar(&jsonOutput, "json", false, "Output the full report as JSON")
	cmd.BoolVar(&failOnWarning, "fail-on-warning", false, "Exit 1 when any Warning finding is reported")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if cmd.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: avdesign evaluate [flags] <project.json>")
		return 2
	}

	ctx := context.Background()
	var project design.ProjectConfiguration
	if err := readJSONFile(cmd.Arg(0), &project); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if err := design.ValidateProject(project); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	eng, err := ef.engine(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	report, err := eng.Evaluate(ctx, project)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if jsonOutput {
		if err := writeIndented(stdout, report); err != nil {
			return 1
		}
	} else {
		printFindings(stdout, report)
	}

	if failOnWarning && len(report.Findings.ByKind(findings.KindWarning)) > 0 {
		return 1
	}
	return 0
}

func printFindings(w io.Writer, report *engine.Report) {
	counts := report.Findings.Count()
	_, _ = fmt.Fprintf(w, "Project %s (catalog %s): %d finding(s), %d warning(s)\n",
		report.ProjectID, report.CatalogVersion, len(report.Findings), counts[findings.KindWarning])
	if len(report.Findings) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KIND\tSCOPE\tCODE\tMESSAGE")
	for _, f := range report.Findings {
		scope := f.RoomID
		if f.IsProjectScope() {
			scope = "project"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Kind, scope, f.Code, f.Message)
	}
	_ = tw.Flush()
}

func runResolveCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("resolve", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var ef engineFlags
	ef.register(cmd)
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if cmd.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: avdesign resolve [flags] <room.json>")
		return 2
	}

	ctx := context.Background()
	var room design.RoomConfiguration
	if err := readJSONFile(cmd.Arg(0), &room); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if err := design.ValidateRoom(room); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	eng, err := ef.engine(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	res, err := eng.Resolve(ctx, room)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := writeIndented(stdout, res); err != nil {
		return 1
	}
	return 0
}

func runCatalogCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || args[0] != "validate" {
		_, _ = fmt.Fprintln(stderr, "Usage: avdesign catalog validate [--json] <catalog-file>")
		return 2
	}
	cmd := flag.NewFlagSet("catalog validate", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	jsonOutput := cmd.Bool("json", false, "Output result as JSON")
	if err := cmd.Parse(args[1:]); err != nil {
		return 2
	}
	if cmd.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: avdesign catalog validate [--json] <catalog-file>")
		return 2
	}
	path := cmd.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	snap, err := catalog.Parse(data)

	var lerr *catalog.LoadError
	switch {
	case err == nil:
	case errors.As(err, &lerr):
		if *jsonOutput {
			_ = writeIndented(stdout, map[string]any{"file": path, "valid": false, "issues": lerr.Issues})
		} else {
			_, _ = fmt.Fprintf(stdout, "%s: %d issue(s)\n", path, len(lerr.Issues))
			for _, issue := range lerr.Issues {
				_, _ = fmt.Fprintf(stdout, "  - %s\n", issue)
			}
		}
		return 1
	default:
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *jsonOutput {
		_ = writeIndented(stdout, map[string]any{
			"file":     path,
			"valid":    true,
			"version":  snap.Version().String(),
			"products": snap.Len(),
			"tasks":    len(snap.Tasks()),
			"hash":     snap.Hash(),
		})
	} else {
		_, _ = fmt.Fprintf(stdout, "%s: valid catalog %s, %d products, %d tasks\n",
			path, snap.Version(), snap.Len(), len(snap.Tasks()))
		_, _ = fmt.Fprintf(stdout, "  hash %s\n", snap.Hash())
	}
	return 0
}
