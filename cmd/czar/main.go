// Command czar compiles CZ source to C.
//
// Usage:
//
//	czar build [options] <input.cz>
//	czar compile [options] <input.cz>
//	cat input.cz | czar compile [options]
//
// Options:
//
//	-o <file>              Write generated C to file (default: stdout)
//	--config <file>        Use a specific config file
//	--no-config            Ignore config files
//	--allow-run            Enable #run directives
//	--no-line-directives   Omit #line directives from the generated C
//	--version              Print version and exit
//	--help                 Print help and exit
//
// Exit codes: 0 on success, 1 on a diagnostic error, 2 on a usage or
// I/O error.
//
// Config file:
//
//	czar looks for czar.json or .czarrc in the input file's directory
//	(the current directory when reading stdin) and its parent
//	directories. Config file options are overridden by CLI flags.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shkschneider/czar/internal/config"
	"github.com/shkschneider/czar/internal/pipeline"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	os.Exit(run())
}

const (
	exitOK        = 0
	exitDiagError = 1
	exitUsage     = 2
)

func run() int {
	var (
		outputFile  string
		configFile  string
		noConfig    bool
		allowRun    bool
		noLineDirs  bool
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&outputFile, "o", "", "Write generated C to `file`")
	flag.StringVar(&configFile, "config", "", "Use specific config `file`")
	flag.BoolVar(&noConfig, "no-config", false, "Ignore config files")
	flag.BoolVar(&allowRun, "allow-run", false, "Enable #run directives")
	flag.BoolVar(&noLineDirs, "no-line-directives", false, "Omit #line directives from output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.BoolVar(&showHelp, "help", false, "Print help and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "czar - CZ to C compiler v%s\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage: czar <build|compile> [options] <input.cz>\n")
		fmt.Fprintf(os.Stderr, "       cat input.cz | czar compile [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nConfig file:\n")
		fmt.Fprintf(os.Stderr, "  Searches for czar.json or .czarrc in the input file's directory and its parents.\n")
		fmt.Fprintf(os.Stderr, "  CLI flags override config file settings.\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		return exitOK
	}
	if showVersion {
		fmt.Printf("czar v%s (%s)\n", version, commit)
		return exitOK
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return exitUsage
	}
	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "build", "compile":
		return runCompile(rest, outputFile, configFile, noConfig, allowRun, noLineDirs)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown subcommand %q\n", cmd)
		flag.Usage()
		return exitUsage
	}
}

func runCompile(args []string, outputFile, configFile string, noConfig, allowRun, noLineDirs bool) int {
	var inputPath string
	var source []byte
	var err error

	if len(args) > 0 {
		inputPath = args[0]
		source, err = os.ReadFile(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: reading input: %v\n", err)
			return exitUsage
		}
	} else {
		inputPath = "stdin.cz"
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			flag.Usage()
			fmt.Fprintln(os.Stderr, "error: no input file specified")
			return exitUsage
		}
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: reading stdin: %v\n", err)
			return exitUsage
		}
	}

	var cfg *config.Config
	if !noConfig {
		if configFile != "" {
			cfg, err = config.LoadFile(configFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: loading config file %s: %v\n", configFile, err)
				return exitUsage
			}
		} else {
			startDir, _ := os.Getwd()
			if inputPath != "stdin.cz" {
				startDir = filepath.Dir(inputPath)
			}
			cfg, _, err = config.Load(startDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
				return exitUsage
			}
		}
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	cliOpts := config.MergeOptions{}
	if allowRun {
		v := true
		cliOpts.AllowRun = &v
	}
	if noLineDirs {
		v := false
		cliOpts.EmitLineDirectives = &v
	}
	opts := cfg.Merge(cliOpts)

	result := pipeline.New(opts).Compile(inputPath, string(source))

	for _, d := range result.Diags.Warnings() {
		fmt.Fprintln(os.Stderr, d.Format())
	}
	if result.Diags.HasErrors() {
		for _, d := range result.Diags.Errors() {
			fmt.Fprintln(os.Stderr, d.Format())
		}
		return exitDiagError
	}

	var output io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: creating output file: %v\n", err)
			return exitUsage
		}
		defer f.Close()
		output = f
	}

	if _, err := io.WriteString(output, result.Code); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing output: %v\n", err)
		return exitUsage
	}

	return exitOK
}
