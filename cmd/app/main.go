package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"utcl/internal/host"
	"utcl/internal/interp"
	"utcl/internal/repl"
	"utcl/internal/util"
)

var (
	// Version is stamped at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// probe config
	configPath string
	targetName string
	evalText   string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// probe config
	flag.StringVar(&configPath, "config", "", "Probe config file (TOML)")
	flag.StringVar(&targetName, "target", "", "Target profile from the config file")
	flag.StringVar(&evalText, "e", "", "Evaluate the given script text and exit")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(logLevel),
	}
	logWriter := configureLogWriter()
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	probeCfg, err := util.LoadProbeConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
		Probe:     probeCfg,
	}

	i := interp.New()
	defer i.Close()

	target := host.NewMockTarget()
	host.RegisterTarget(i, target)
	host.RegisterDB(i)

	if t, ok := config.Probe.Target(targetName); ok {
		for name, v := range t.Registers {
			target.Regs[name] = v
		}
		if t.InitScript != "" {
			if code := runScriptFile(i, t.InitScript); code != 0 {
				os.Exit(code)
			}
		}
	} else if targetName != "" {
		fmt.Fprintf(os.Stderr, "unknown target profile %q\n", targetName)
		os.Exit(1)
	}

	switch {
	case evalText != "":
		os.Exit(runScript(i, evalText))
	case flag.Arg(0) != "":
		os.Exit(runScriptFile(i, flag.Arg(0)))
	default:
		repl.Start(os.Stdin, os.Stdout, i)
	}
}

func runScriptFile(i *interp.Interp, path string) int {
	text, err := util.ReadScript(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return runScript(i, text)
}

// runScript evaluates a whole script and maps its final flow to a process
// exit code: errors print to stderr and exit 1; an explicit exit command
// supplies its own code; anything else prints the last result and exits 0.
func runScript(i *interp.Interp, text string) int {
	switch fl := i.Eval(text); fl {
	case interp.FlowError:
		code, line, sym := i.ErrorInfo()
		if sym != "" {
			fmt.Fprintf(os.Stderr, "error: %s: %s (line %d)\n", code, sym, line)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s (line %d)\n", code, line)
		}
		return 1
	case interp.FlowExit:
		return int(i.Result().Int())
	default:
		if r := i.Result(); r.Len() > 0 {
			fmt.Println(r.String())
		}
		return 0
	}
}

func configureLogWriter() *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("utcl version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: utcl [options] [filename]

Options:
  -config <path>     Probe config file (TOML) naming target profiles.
  -target <name>     Select a target profile from the config file.
  -e <script>        Evaluate the given script text and exit.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'none'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
utcl is the scripting shell of the debug-probe toolkit. Without a filename
or -e it starts an interactive prompt.

Examples:
  utcl                          Start the interactive prompt
  utcl bringup.tcl              Run a bring-up script
  utcl -config probe.toml -target stm32 flash.tcl

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// "none": nothing below this level is ever emitted
		return slog.Level(127)
	}
}
