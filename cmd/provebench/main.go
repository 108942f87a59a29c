// Command provebench runs the Vampire prover on benchmark tasks and
// classifies the outcomes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/provelab/provebench"
	"github.com/provelab/provebench/internal/bench"
	"github.com/provelab/provebench/internal/config"
	pbmcp "github.com/provelab/provebench/internal/mcp"
	"github.com/provelab/provebench/internal/runner"
	"github.com/provelab/provebench/internal/tool"
	"github.com/provelab/provebench/internal/tool/vampire"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("provebench: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = runMain(args)
	case "classify":
		err = classifyMain(args)
	case "cmdline":
		err = cmdlineMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		err = versionMain(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "provebench: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: provebench <command> [flags] [file]

Commands:
  run         Run the prover on a problem file and classify the outcome
  classify    Classify an existing output transcript (stdin or file)
  cmdline     Print the command line without executing it
  mcp         Start the MCP server
  version     Print the provebench and prover versions
  help        Show this help

Use "provebench <command> -h" for command-specific flags.`)
}

// --- run ---

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output the result as JSON")
	walltimeFlag := fs.Int("t", 0, "wall-clock limit in seconds (0 = unlimited)")
	memoryFlag := fs.String("m", "", "memory ceiling, e.g. 2GiB (empty = prover default)")
	_ = fs.Parse(args)

	if fs.NArg() > 1 {
		return fmt.Errorf("run takes at most one problem file, got %d", fs.NArg())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := newEngine()
	if err != nil {
		return err
	}

	limits, err := overrideLimits(eng.Limits(), *walltimeFlag, *memoryFlag)
	if err != nil {
		return err
	}

	// The external timeout tracks the effective walltime limit, with
	// some grace for the prover to report and exit on its own.
	var timeout time.Duration
	if limits.Walltime > 0 {
		timeout = time.Duration(limits.Walltime)*time.Second + eng.Config.Grace()
	}
	eng.Runner = &runner.Runner{
		Timeout:   timeout,
		MaxOutput: eng.Config.MaxOutputBytes(),
	}

	var task tool.Task
	if fs.NArg() == 1 {
		task.InputFiles = []string{fs.Arg(0)}
	}

	result, err := eng.RunTask(ctx, task, limits)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Print(formatRunCLI(result))
	}

	if !definitive(result.Verdict) {
		os.Exit(1)
	}
	return nil
}

// definitive reports whether the verdict is a completed classification
// rather than a failure of the run itself.
func definitive(verdict string) bool {
	switch verdict {
	case tool.ResultTrueProp, tool.ResultFalseProp, tool.ResultUnknown, tool.ResultDone:
		return true
	}
	return false
}

func formatRunCLI(result *bench.TaskResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", result.Verdict)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "  %-12s %s\n", "SZS status", result.SzsStatus)
	fmt.Fprintf(&b, "  %-12s %.2fs\n", "walltime", result.Walltime)
	exit := fmt.Sprintf("%d", result.ExitCode)
	if result.Signal != 0 {
		exit = fmt.Sprintf("signal %d", result.Signal)
	}
	fmt.Fprintf(&b, "  %-12s %s\n", "exit", exit)
	fmt.Fprintf(&b, "  %-12s %s\n", "command", strings.Join(result.Cmdline, " "))
	if result.Truncated {
		fmt.Fprintf(&b, "  %-12s output truncated at cap\n", "note")
	}
	return b.String()
}

// --- classify ---

func classifyMain(args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output the result as JSON")
	exitCodeFlag := fs.Int("exit-code", 0, "the prover's exit code")
	signalFlag := fs.Int("signal", 0, "the signal that killed the prover, if any")
	_ = fs.Parse(args)

	var raw []byte
	var err error
	switch fs.NArg() {
	case 0:
		raw, err = io.ReadAll(os.Stdin)
	case 1:
		raw, err = os.ReadFile(fs.Arg(0))
	default:
		return fmt.Errorf("classify takes at most one transcript file, got %d", fs.NArg())
	}
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	c := eng.Classify(tool.Run{
		ExitCode: *exitCodeFlag,
		Signal:   *signalFlag,
		Output:   tool.OutputFromBytes(raw),
	})

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	fmt.Printf("%s\n", c.Verdict)
	fmt.Printf("SZS status: %s\n", c.SzsStatus)
	return nil
}

// --- cmdline ---

func cmdlineMain(args []string) error {
	fs := flag.NewFlagSet("cmdline", flag.ExitOnError)
	walltimeFlag := fs.Int("t", 0, "wall-clock limit in seconds (0 = unlimited)")
	memoryFlag := fs.String("m", "", "memory ceiling, e.g. 2GiB (empty = prover default)")
	_ = fs.Parse(args)

	if fs.NArg() > 1 {
		return fmt.Errorf("cmdline takes at most one problem file, got %d", fs.NArg())
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	limits, err := overrideLimits(eng.Limits(), *walltimeFlag, *memoryFlag)
	if err != nil {
		return err
	}

	var task tool.Task
	if fs.NArg() == 1 {
		task.InputFiles = []string{fs.Arg(0)}
	}

	argv, err := eng.Cmdline(task, limits)
	if err != nil {
		return fmt.Errorf("cmdline: %w", err)
	}
	fmt.Println(strings.Join(argv, " "))
	return nil
}

// --- version ---

func versionMain(args []string) error {
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	_ = fs.Parse(args)

	fmt.Printf("provebench %s\n", provebench.Version)

	eng, err := newEngine()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v, err := eng.Version(ctx)
	if err != nil {
		fmt.Printf("%s unavailable (%v)\n", eng.Tool.Name(), err)
		return nil
	}
	fmt.Printf("%s %s\n", eng.Tool.Name(), v)
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(pbmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := newEngine()
	if err != nil {
		return err
	}

	server := pbmcp.NewServer(eng)

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

func newEngine() (*bench.Engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &bench.Engine{
		Config: cfg,
		Runner: &runner.Runner{
			Timeout:   cfg.Timeout(),
			MaxOutput: cfg.MaxOutputBytes(),
		},
		Locator: tool.PathLocator{},
		Tool:    vampire.Tool{},
	}, nil
}

// overrideLimits applies command-line limit flags over the configured
// defaults.
func overrideLimits(limits tool.ResourceLimits, walltime int, memory string) (tool.ResourceLimits, error) {
	if walltime > 0 {
		limits.Walltime = walltime
	}
	if memory != "" {
		n, err := config.ParseSize(memory)
		if err != nil {
			return limits, err
		}
		limits.Memory = n
	}
	return limits, nil
}
