package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nmandery/tnetstring"
	"github.com/nmandery/tnetstring/internal/logging"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	in         string
	out        string
	from       string
	to         string
	pointers   pointerList
	offset     int
	all        bool
}

// pointerList collects repeated -pointer flags.
type pointerList []string

func (p *pointerList) String() string { return strings.Join(*p, ",") }

func (p *pointerList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `tnetstring CLI

Usage:
  tnetstring encode [-from json|yaml] [-in file] [-out file] [-config file]
  tnetstring decode [-to json|yaml] [-offset n] [-all] [-in file] [-out file] [-config file]
  tnetstring get -pointer /a/b [-pointer /c ...] [-to json|yaml] [-offset n] [-in file] [-out file] [-config file]
  tnetstring digest [-in file] [-out file] [-config file]`)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	sub := args[0]

	fs := flag.NewFlagSet("tnetstring "+sub, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "TOML config file")
	fs.StringVar(&opts.in, "in", "-", "input file, - for stdin")
	fs.StringVar(&opts.out, "out", "-", "output file, - for stdout")
	switch sub {
	case "encode":
		fs.StringVar(&opts.from, "from", "", "input document format (json or yaml)")
	case "decode":
		fs.StringVar(&opts.to, "to", "", "output document format (json or yaml)")
		fs.IntVar(&opts.offset, "offset", 0, "byte offset of the first frame")
		fs.BoolVar(&opts.all, "all", false, "decode consecutive frames until end of input")
	case "get":
		fs.StringVar(&opts.to, "to", "", "output document format (json or yaml)")
		fs.IntVar(&opts.offset, "offset", 0, "byte offset of the frame")
		fs.Var(&opts.pointers, "pointer", "JSON Pointer to print; repeat to project several into one map")
	case "digest":
	default:
		usage(stderr)
		return 2
	}
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "tnetstring: %v\n", err)
		return 1
	}
	if opts.from != "" {
		cfg.InputFormat = opts.from
	}
	if opts.to != "" {
		cfg.OutputFormat = opts.to
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(stderr, "tnetstring: %v\n", err)
		return 2
	}

	logCfg := cfg.Log
	logging.ApplyEnv(&logCfg, getenv)
	log := logging.New(logCfg, stderr).With(zap.String("command", sub))
	defer func() { _ = log.Sync() }()
	log.Debug("starting",
		zap.String("config", opts.configPath),
		zap.String("log_level", logLevelName(cfg)),
		zap.Int("max_depth", cfg.MaxDepth))

	input, err := readInput(opts.in, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "tnetstring %s: %v\n", sub, err)
		return 1
	}

	var output []byte
	switch sub {
	case "encode":
		output, err = encodeDocument(cfg, input)
	case "decode":
		output, err = decodeFrames(cfg, input, opts.offset, opts.all)
	case "get":
		output, err = lookupFrame(cfg, input, opts.offset, opts.pointers)
	case "digest":
		output, err = digestFrame(input)
	}
	if err != nil {
		log.Warn("command failed",
			zap.String("code", tnetstring.ErrorCode(err)),
			zap.Int("input_bytes", len(input)),
			zap.Error(err))
		fmt.Fprintf(stderr, "tnetstring %s: %v\n", sub, err)
		return 1
	}

	if err := writeOutput(opts.out, stdout, output); err != nil {
		fmt.Fprintf(stderr, "tnetstring %s: %v\n", sub, err)
		return 1
	}
	log.Debug("done", zap.Int("input_bytes", len(input)), zap.Int("output_bytes", len(output)))
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
