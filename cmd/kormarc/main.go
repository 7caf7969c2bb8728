// Command kormarc is the CLI for the KORMARC record toolkit.
// It parses, builds, stores, and validates bibliographic records and
// manages their TOON identifiers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	km "github.com/kormarc/validator"
	"github.com/kormarc/validator/config"
	"github.com/kormarc/validator/parser"
	"github.com/kormarc/validator/pipeline"
	"github.com/kormarc/validator/store"
	"github.com/kormarc/validator/tier"
	"github.com/kormarc/validator/toon"
	"github.com/kormarc/validator/worker"
)

// CLI defines the command-line interface.
var CLI struct {
	Config  string `help:"Policy configuration file (YAML)" type:"path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Parse    ParseCmd    `cmd:"" help:"Parse a KORMARC text file and print the record"`
	Validate ValidateCmd `cmd:"" help:"Validate a KORMARC text file through the tier pipeline"`
	Batch    BatchCmd    `cmd:"" help:"Validate every record in a store and print a report"`
	Ingest   IngestCmd   `cmd:"" help:"Parse a KORMARC text file and save it to a store"`
	Toon     ToonGroup   `cmd:"" help:"TOON identifier operations"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// ToonGroup contains identifier operations.
type ToonGroup struct {
	New     ToonNewCmd     `cmd:"" help:"Generate a TOON identifier"`
	Inspect ToonInspectCmd `cmd:"" help:"Decode a TOON identifier"`
}

// loadPolicy returns the configured policy, or the default one.
func loadPolicy() (*config.Policy, error) {
	if CLI.Config == "" {
		return config.Default(), nil
	}
	return config.Load(CLI.Config)
}

// buildPipeline assembles a pipeline from policy plus command flags.
func buildPipeline(policy *config.Policy, tiers []int, strict bool, workers int) *pipeline.Pipeline {
	opts := []km.Option{
		km.WithStrictMode(strict || policy.StrictMode),
	}
	if len(tiers) > 0 {
		opts = append(opts, km.WithTiers(tiers...))
	}
	if workers <= 0 {
		workers = policy.WorkerCount
	}
	if workers > 0 {
		opts = append(opts, km.WithWorkerCount(workers))
	}

	p := pipeline.New(opts...)
	p.Register(tier.NewStructureValidator())
	p.Register(tier.NewSemanticValidator())
	p.Register(tier.NewPolicyValidator(
		tier.WithInstitutions(policy.Institutions),
		tier.WithRequiredSubfields(policy.RequiredSubfields),
	))
	return p
}

// ParseCmd parses a record file.
type ParseCmd struct {
	Path   string `arg:"" help:"Path to KORMARC text file" type:"existingfile"`
	JSON   bool   `help:"Print the record as JSON"`
	XML    bool   `help:"Print the record as MARCXML"`
	Strict bool   `help:"Reject malformed field lines instead of skipping them"`
}

func (c *ParseCmd) Run() error {
	var opts []parser.Option
	if c.Strict {
		opts = append(opts, parser.WithStrict())
	}
	rec, err := parser.New(opts...).ParseFile(c.Path)
	if err != nil {
		return err
	}

	switch {
	case c.JSON:
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case c.XML:
		data, err := parser.MarshalXML(rec)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		fmt.Println(rec.String())
	}
	return nil
}

// ValidateCmd validates one record file.
type ValidateCmd struct {
	Path   string `arg:"" help:"Path to KORMARC text file" type:"existingfile"`
	Tiers  []int  `help:"Tiers to run (default: 1,2,3)"`
	Strict bool   `help:"Treat warnings as errors"`
	JSON   bool   `help:"Print the outcome as JSON"`
}

func (c *ValidateCmd) Run() error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	rec, err := parser.New().ParseFile(c.Path)
	if err != nil {
		return err
	}

	outcome := buildPipeline(policy, c.Tiers, c.Strict, 0).Run(context.Background(), rec)

	if c.JSON {
		data, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		printOutcome(outcome)
	}

	if !outcome.Passed {
		return fmt.Errorf("validation failed: %d error(s), %d warning(s)",
			outcome.ErrorCount(), outcome.WarningCount())
	}
	return nil
}

func printOutcome(outcome *pipeline.Outcome) {
	for _, result := range outcome.Results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}
		fmt.Printf("tier %d (%s): %s\n", result.Tier, result.ValidatorName, status)
		for _, f := range result.Errors {
			printFinding(f)
		}
		for _, f := range result.Warnings {
			printFinding(f)
		}
	}
	if outcome.Passed {
		fmt.Println("record is valid")
	}
}

func printFinding(f km.Finding) {
	tag := f.FieldTag
	if tag == "" {
		tag = "-"
	}
	fmt.Printf("  [%s] %s: %s\n", f.Severity, tag, f.Message)
	if f.Suggestion != "" {
		fmt.Printf("      %s\n", f.Suggestion)
	}
}

// BatchCmd validates a whole store.
type BatchCmd struct {
	DB      string `arg:"" help:"Path to SQLite record store" type:"existingfile"`
	Limit   int    `help:"Maximum records to validate (0 = all)"`
	Tiers   []int  `help:"Tiers to run (default: 1,2,3)"`
	Strict  bool   `help:"Treat warnings as errors"`
	Workers int    `help:"Worker count (0 = one per CPU)"`
	JSON    bool   `help:"Print the report as JSON"`
}

func (c *BatchCmd) Run() error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	s, err := store.Open(store.Config{Path: c.DB})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	rows, err := s.LoadAll(ctx, c.Limit)
	if err != nil {
		return err
	}

	p := buildPipeline(policy, c.Tiers, c.Strict, c.Workers)
	batch := worker.NewBatchValidator(p).ValidateBatch(ctx, rows)
	report := worker.BuildReport(batch)

	if c.JSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(report.Render())
	return nil
}

// IngestCmd parses a file and saves it under a fresh TOON identifier.
type IngestCmd struct {
	Path string `arg:"" help:"Path to KORMARC text file" type:"existingfile"`
	DB   string `required:"" help:"Path to SQLite record store" type:"path"`
}

func (c *IngestCmd) Run() error {
	rec, err := parser.New().ParseFile(c.Path)
	if err != nil {
		return err
	}

	id, err := toon.Generate(toon.RecordType(rec))
	if err != nil {
		return err
	}

	s, err := store.Open(store.Config{Path: c.DB})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Save(context.Background(), id, rec); err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

// ToonNewCmd generates an identifier.
type ToonNewCmd struct {
	Type  string `default:"kormarc_book" help:"Record type prefix"`
	Count int    `default:"1" help:"Number of identifiers to generate"`
}

func (c *ToonNewCmd) Run() error {
	for i := 0; i < c.Count; i++ {
		id, err := toon.Generate(c.Type)
		if err != nil {
			return err
		}
		fmt.Println(id)
	}
	return nil
}

// ToonInspectCmd decodes an identifier.
type ToonInspectCmd struct {
	ID   string `arg:"" help:"TOON identifier"`
	JSON bool   `help:"Print as JSON"`
}

func (c *ToonInspectCmd) Run() error {
	info, err := toon.Parse(c.ID)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("type:      %s\n", info.Type)
	if info.Subtype != "" {
		fmt.Printf("subtype:   %s\n", info.Subtype)
	}
	fmt.Printf("ulid:      %s\n", info.ULID)
	fmt.Printf("timestamp: %d\n", info.TimestampMS)
	fmt.Printf("created:   %s\n", info.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("kormarc %s (%s)\n", km.Version, km.KORMARC2014)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("kormarc"),
		kong.Description("KORMARC bibliographic record toolkit"),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "kormarc: %s\n", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
