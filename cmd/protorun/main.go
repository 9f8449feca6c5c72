// Command protorun runs YAML programs.
//
// Each program runs in its own VM. Programs run concurrently, but their
// output is printed in argument order once all of them finish. A program
// named "-", or no program at all, is read from standard input.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/protocore"
	"github.com/zephyrtronium/protocore/config"
	// import for side effects
	_ "github.com/zephyrtronium/protocore/coreext"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options are the command-line flags.
type options struct {
	config     string
	strict     bool
	logLevel   string
	encoding   string
	depth      int
	trace      bool
	jobs       int
	version    bool
	cpuprofile string
	memprofile string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := pflag.NewFlagSet("protorun", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: protorun [flags] [program.yaml ...]")
		fs.PrintDefaults()
	}
	fs.StringVarP(&opts.config, "config", "c", "", "configuration file (YAML, or TOML by .toml extension)")
	fs.BoolVar(&opts.strict, "strict", false, "throw on failed writes, failed deletes, and undeclared assignments")
	fs.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, or error")
	fs.StringVar(&opts.encoding, "encoding", config.DefaultEncoding, "console output encoding")
	fs.IntVar(&opts.depth, "max-call-depth", config.DefaultMaxCallDepth, "maximum call depth, or 0 for no limit")
	fs.BoolVar(&opts.trace, "trace-hooks", false, "log every hook count change at debug level")
	fs.IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of programs to run at once")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.StringVar(&opts.cpuprofile, "cpuprofile", "", "write a CPU profile to this file")
	fs.StringVar(&opts.memprofile, "memprofile", "", "write a heap profile to this file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "protorun %s on %s\n", protocore.Version, protocore.PlatformVersion())
		return 0
	}

	cfg, err := configure(fs, &opts)
	if err != nil {
		fmt.Fprintln(stderr, "protorun:", err)
		return 2
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			fmt.Fprintln(stderr, "protorun:", err)
			return 2
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(stderr, "protorun:", err)
			return 2
		}
		defer pprof.StopCPUProfile()
	}

	files := fs.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	results := make([]result, len(files))
	var g errgroup.Group
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, name := range files {
		g.Go(func() error {
			results[i].err = runProgram(cfg, logger, name, stdin, &results[i].out)
			return nil
		})
	}
	g.Wait()

	status := 0
	for i, r := range results {
		stdout.Write(r.out.Bytes())
		if r.err != nil {
			report(stderr, files[i], r.err)
			status = 1
		}
	}

	if opts.memprofile != "" {
		f, err := os.Create(opts.memprofile)
		if err != nil {
			fmt.Fprintln(stderr, "protorun:", err)
			return 2
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintln(stderr, "protorun:", err)
			return 2
		}
	}
	return status
}

// result is the outcome of one program.
type result struct {
	out bytes.Buffer
	err error
}

// configure loads the configuration file, if any, and applies the flags the
// user set explicitly on top of it.
func configure(fs *pflag.FlagSet, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.config != "" {
		var err error
		cfg, err = config.Load(opts.config)
		if err != nil {
			return nil, err
		}
	}
	if fs.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if fs.Changed("encoding") {
		cfg.Console.Encoding = opts.encoding
	}
	if fs.Changed("max-call-depth") {
		cfg.MaxCallDepth = opts.depth
	}
	if fs.Changed("trace-hooks") {
		cfg.Hooks.Trace = opts.trace
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runProgram runs one program in a new VM, writing its console output to out.
func runProgram(cfg *config.Config, logger *slog.Logger, name string, stdin io.Reader, out io.Writer) error {
	vm := protocore.NewVM(cfg)
	vm.SetLogger(logger.With(slog.String("program", name)))
	vm.SetOutput(out, cfg.Console.Encoding)
	if name == "-" {
		_, err := vm.DoReader(stdin, "<stdin>")
		return err
	}
	_, err := vm.DoFile(name)
	return err
}

func report(w io.Writer, name string, err error) {
	var ue *protocore.UncaughtError
	if errors.As(err, &ue) {
		fmt.Fprintf(w, "%s: %s\n%s", name, ue.Message, protocore.FormatStack(ue.Stack))
		return
	}
	fmt.Fprintf(w, "%s: %v\n", name, err)
}
