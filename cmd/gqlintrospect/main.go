package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"git.sr.ht/~emersion/gqlintrospect"
	"git.sr.ht/~emersion/gqlintrospect/shape"
)

var (
	headers     []string
	inputFile   string
	schemaFiles []string
	jsonOutput  bool
	checkOnly   bool
	graphQL15   bool
	failFast    bool
	lenient     bool
	timeout     time.Duration
	verbose     bool

	logger *zap.Logger
)

// errInvalid signals that issues were already logged.
var errInvalid = errors.New("introspection result is invalid")

var rootCmd = &cobra.Command{
	Use:   "gqlintrospect [endpoint]",
	Short: "Validate a GraphQL introspection result and print its schema",
	Long: `Fetch the introspection result of a GraphQL endpoint, or load it from a
JSON file or an SDL schema, check that it is well-formed and print it as SDL.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		return err
	},
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringArrayVarP(&headers, "header", "H", nil, "set HTTP header (\"Name: value\")")
	flags.StringVarP(&inputFile, "file", "f", "", "read the introspection result from a JSON file (- for stdin)")
	flags.StringArrayVarP(&schemaFiles, "schema", "s", nil, "generate the introspection result from an SDL file, can be repeated")
	flags.BoolVar(&jsonOutput, "json", false, "print the validated result as JSON instead of SDL")
	flags.BoolVar(&checkOnly, "check", false, "only validate, print nothing on success")
	flags.BoolVar(&graphQL15, "graphql15", false, "expect graphql-js 15 output (specifiedByUrl)")
	flags.BoolVar(&failFast, "fail-fast", false, "stop at the first issue")
	flags.BoolVar(&lenient, "lenient", false, "ignore unknown object keys")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}

type transport struct {
	http.RoundTripper

	header http.Header
}

func (tr *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, values := range tr.header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return tr.RoundTripper.RoundTrip(req)
}

func run(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	var opts []gqlintrospect.Option
	if graphQL15 {
		opts = append(opts, gqlintrospect.WithRevision(gqlintrospect.GraphQL15))
	}
	if failFast {
		opts = append(opts, gqlintrospect.WithFailFast())
	}
	if lenient {
		opts = append(opts, gqlintrospect.WithUnknownKeys())
	}

	sources := 0
	if len(args) > 0 {
		sources++
	}
	if inputFile != "" {
		sources++
	}
	if len(schemaFiles) > 0 {
		sources++
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of an endpoint, --file or --schema is required")
	}

	var (
		resp *gqlintrospect.Response
		err  error
	)
	switch {
	case len(args) > 0:
		resp, err = fetch(cmd.Context(), args[0], opts)
	case inputFile != "":
		resp, err = load(inputFile, opts)
	default:
		resp, err = generate(schemaFiles, opts)
	}
	if err != nil {
		return report(err)
	}

	logger.Debug("introspection result is valid",
		zap.Int("types", len(resp.Schema.Types)),
		zap.Int("directives", len(resp.Schema.Directives)))

	switch {
	case checkOnly:
		return nil
	case jsonOutput:
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %v", err)
		}
		_, err = fmt.Fprintln(os.Stdout, string(b))
		return err
	default:
		return gqlintrospect.WriteSDL(os.Stdout, &resp.Schema)
	}
}

func fetch(ctx context.Context, endpoint string, opts []gqlintrospect.Option) (*gqlintrospect.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tr := transport{
		RoundTripper: http.DefaultTransport,
		header:       make(http.Header),
	}
	for _, kv := range headers {
		parts := strings.SplitN(kv, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("in header definition %q: missing colon", kv)
		}
		tr.header.Add(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	logger.Debug("fetching introspection", zap.String("endpoint", endpoint))
	client := gqlintrospect.New(endpoint, &http.Client{Transport: &tr})
	return client.Introspect(ctx, opts...)
}

func load(filename string, opts []gqlintrospect.Option) (*gqlintrospect.Response, error) {
	var (
		b   []byte
		err error
	)
	if filename == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %v", filename, err)
	}
	return gqlintrospect.Unmarshal(b, opts...)
}

func generate(filenames []string, opts []gqlintrospect.Option) (*gqlintrospect.Response, error) {
	var sources []*ast.Source
	for _, filename := range filenames {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema %q: %v", filename, err)
		}
		sources = append(sources, &ast.Source{Name: filename, Input: string(b)})
	}

	schema, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %v", err)
	}
	return gqlintrospect.Validate(gqlintrospect.FromSchema(schema), opts...)
}

// report logs every validation issue and replaces them with errInvalid.
func report(err error) error {
	issues, ok := shape.AsIssues(err)
	if !ok {
		return err
	}
	for _, issue := range issues {
		fields := []zap.Field{
			zap.String("path", issue.Path.String()),
			zap.String("code", string(issue.Code)),
		}
		if len(issue.Expected) > 0 {
			fields = append(fields, zap.Strings("expected", issue.Expected))
		}
		if issue.Actual != "" {
			fields = append(fields, zap.String("actual", issue.Actual))
		}
		logger.Error(issue.Message, fields...)
	}
	return errInvalid
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, errInvalid):
			// issues are already logged
		case logger != nil:
			logger.Error("gqlintrospect failed", zap.Error(err))
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
