package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/anacrolix/log"
	"github.com/anacrolix/missinggo/perf"
	"github.com/anacrolix/sync"
	"github.com/spf13/pflag"

	"github.com/OLUWAMUYIWA/bdecode/formats"
)

const usage = `bdecode decodes bencoded data and prints the value tree.

usage: bdecode [flags] [file ...]

With no files, or a file named "-", the input is read from stdin.

`

type driver struct {
	log    log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newDriver(stdin io.Reader, stdout, stderr io.Writer) *driver {
	return &driver{
		log:    log.Logger{LoggerImpl: log.StreamLogger{W: stderr, Fmt: log.LineFormatter}},
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// input is one complete buffer to decode and where it came from.
type input struct {
	name string
	data []byte
}

type decodeResult struct {
	value formats.Value
	err   error
}

// Drive runs one bdecode invocation. Every problem is logged before it is returned.
func (d *driver) Drive(args []string) error {
	cfg, names, err := d.configure(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		d.logf(log.Error, "%v", err)
		return err
	}

	mode, err := cfg.decOptions().DecMode()
	if err != nil {
		d.logf(log.Error, "%v", err)
		return err
	}
	render, err := newRenderer(cfg.Output)
	if err != nil {
		d.logf(log.Error, "%v", err)
		return err
	}

	inputs, err := d.readInputs(names)
	if err != nil {
		d.logf(log.Error, "%v", err)
		return err
	}

	results, failed := d.decodeAll(mode, inputs)
	for i, res := range results {
		name := inputs[i].name
		if cfg.Verbose {
			d.logf(log.Debug, "%s: %d bytes", name, len(inputs[i].data))
		}
		if res.err != nil {
			d.logf(log.Error, "%s: %v", name, res.err)
			continue
		}
		if len(inputs) > 1 && cfg.Output.Format == formatText {
			fmt.Fprintf(d.stdout, "==> %s <==\n", name)
		}
		if err := render(d.stdout, res.value); err != nil {
			d.logf(log.Error, "%s: rendering %s: %v", name, cfg.Output.Format, err)
			failed++
		}
	}

	if cfg.Verbose {
		perf.WriteEventsTable(d.stderr)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	return nil
}

func (d *driver) logf(level log.Level, format string, a ...interface{}) {
	d.log.Log(log.Fmsg(format, a...).SetLevel(level))
}

// configure layers defaults, the config file, the environment and the flags.
func (d *driver) configure(args []string) (Config, []string, error) {
	fs := pflag.NewFlagSet("bdecode", pflag.ContinueOnError)
	fs.SetOutput(d.stderr)
	fs.Usage = func() {
		fmt.Fprint(d.stderr, usage)
		fs.PrintDefaults()
	}

	configPath := fs.StringP("config", "c", "", "TOML config file")
	format := fs.StringP("format", "f", formatText, "output format: text, json, yaml or cbor")
	maxDepth := fs.Int("max-depth", 0, fmt.Sprintf("maximum container nesting; 0 means %d, negative means unlimited", formats.DefaultMaxDepth))
	strict := fs.Bool("strict", false, "reject trailing data, leading zeros and negative zero")
	binary := fs.Bool("binary", false, "accept byte strings that are not valid UTF-8")
	truncate := fs.Int("truncate", 64, "shorten strings in text output to this many runes; 0 keeps them whole")
	verbose := fs.BoolP("verbose", "v", false, "log input sizes and print the decode timing table")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			return Config{}, nil, err
		}
	}
	applyEnvOverrides(&cfg)

	if fs.Changed("format") {
		cfg.Output.Format = *format
	}
	if fs.Changed("max-depth") {
		cfg.Decoder.MaxDepth = *maxDepth
	}
	if fs.Changed("strict") {
		cfg.Decoder.DisallowTrailingData = *strict
		cfg.Decoder.StrictIntegers = *strict
	}
	if fs.Changed("binary") {
		cfg.Decoder.AllowBinaryStrings = *binary
	}
	if fs.Changed("truncate") {
		cfg.Output.Truncate = *truncate
	}
	if fs.Changed("verbose") {
		cfg.Verbose = *verbose
	}

	if err := cfg.validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

func (d *driver) readInputs(names []string) ([]input, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}
	inputs := make([]input, 0, len(names))
	for _, name := range names {
		var (
			data []byte
			err  error
		)
		if name == "-" {
			data, err = io.ReadAll(d.stdin)
			name = "<stdin>"
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		inputs = append(inputs, input{name: name, data: data})
	}
	return inputs, nil
}

// decodeAll decodes every input on its own goroutine. Results keep the order of inputs.
func (d *driver) decodeAll(mode formats.DecMode, inputs []input) ([]decodeResult, int) {
	results := make([]decodeResult, len(inputs))
	done := make(chan struct{})
	var (
		mu     sync.Mutex
		failed int
	)
	for i := range inputs {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			v, err := decodeOne(mode, inputs[i].data)
			res := decodeResult{value: v, err: err}
			results[i] = res
			if res.err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(i)
	}
	for range inputs {
		<-done
	}
	return results, failed
}

// decodeOne times every decode into the perf events table, failures separately.
func decodeOne(mode formats.DecMode, data []byte) (v formats.Value, err error) {
	defer perf.ScopeTimerErr(&err)()
	return mode.Decode(data)
}
