package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Gobd/feelgen"
	"github.com/Gobd/feelgen/internal/config"
	"github.com/Gobd/feelgen/internal/logger"
	"github.com/Gobd/feelgen/openapi"
)

// StdoutOutput as output location writes the rules to standard output.
const StdoutOutput = "-"

// maxParallel bounds how many targets are compiled at once.
const maxParallel = 4

// GenerateOptions holds options for the generate command
type GenerateOptions struct {
	ConfigFile  string
	Spec        string
	Output      string
	AddResponse bool
	SuccessCode int
	FailCode    int
	Methods     string
	Format      string
	Verbose     bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate FEEL validation rules from an OpenAPI document",
		Long: `Reads an OpenAPI 3 document and writes one FEEL validation block per
operation that declares a request body.

Settings are merged from defaults, an optional YAML config file, FEELGEN_*
environment variables and the flags below, later sources winning.`,
		Example: `  # Activation conditions for POST, PUT and PATCH operations
  feelgen generate -s api.yaml -o build/validation.feel

  # Response expressions with custom status codes
  feelgen generate -s api.yaml -o - --add-response --success-code 202 --fail-code 422

  # Several documents from a config file
  feelgen generate -c feelgen.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), opts, changedFlags(cmd, opts), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&opts.Spec, "spec", "s", "", "OpenAPI document path or URL")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file path (- for stdout)")
	cmd.Flags().BoolVar(&opts.AddResponse, "add-response", false, "Render response body and status code")
	cmd.Flags().IntVar(&opts.SuccessCode, "success-code", 201, "Status code when validation passes")
	cmd.Flags().IntVar(&opts.FailCode, "fail-code", 400, "Status code when validation fails")
	cmd.Flags().StringVarP(&opts.Methods, "methods", "m", "POST,PUT,PATCH", "Comma separated HTTP methods to scan")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", feelgen.FormatFEEL, "Output format (feel|json|yaml)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// changedFlags maps explicitly set flags onto configuration keys so they
// override file and environment values without clobbering them with
// flag defaults.
func changedFlags(cmd *cobra.Command, opts *GenerateOptions) map[string]any {
	keys := map[string]func() any{
		"spec":         func() any { return opts.Spec },
		"output":       func() any { return opts.Output },
		"add-response": func() any { return opts.AddResponse },
		"success-code": func() any { return opts.SuccessCode },
		"fail-code":    func() any { return opts.FailCode },
		"methods":      func() any { return feelgen.ParseMethods(opts.Methods) },
		"format":       func() any { return opts.Format },
	}
	names := map[string]string{
		"add-response": "add_response",
		"success-code": "success_status_code",
		"fail-code":    "failure_status_code",
	}

	out := map[string]any{}
	for flag, value := range keys {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		key := flag
		if n, ok := names[flag]; ok {
			key = n
		}
		out[key] = value()
	}
	if opts.Verbose {
		out["log.level"] = "debug"
	}
	return out
}

func runGenerate(ctx context.Context, opts *GenerateOptions, flags map[string]any, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(config.Sources{File: opts.ConfigFile, Flags: flags})
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, stderr)
	ctx = log.WithContext(ctx)

	docs := &docLoader{}
	gen, err := feelgen.NewGenerator(cfg.Options(), feelgen.WithLogger(log), feelgen.WithLoader(docs.load))
	if err != nil {
		return err
	}

	targets := cfg.AllTargets()
	rendered := make([]string, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, t := range targets {
		g.Go(func() error {
			out, err := generateTarget(gctx, gen, t)
			rendered[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, t := range targets {
		if t.Output != StdoutOutput {
			continue
		}
		if _, err := fmt.Fprintln(stdout, rendered[i]); err != nil {
			return err
		}
	}
	return nil
}

// docLoader shares one parse between targets that name the same document.
type docLoader struct {
	group singleflight.Group
}

func (l *docLoader) load(ctx context.Context, spec string) (*openapi3.T, error) {
	v, err, shared := l.group.Do(spec, func() (any, error) {
		return openapi.Load(ctx, spec)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zerolog.Ctx(ctx).Debug().Str("spec", spec).Msg("reusing loaded document")
	}
	return v.(*openapi3.T), nil
}

// generateTarget compiles one document. Output for stdout is returned
// instead of written so concurrent targets do not interleave.
func generateTarget(ctx context.Context, gen *feelgen.Generator, t config.Target) (string, error) {
	if t.Output == StdoutOutput {
		return gen.RenderLocation(ctx, t.Spec)
	}
	return "", gen.Generate(ctx, t.Spec, t.Output)
}
