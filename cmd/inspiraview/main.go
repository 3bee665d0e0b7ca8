package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/inspiraview/internal/actionlog"
	"github.com/1broseidon/inspiraview/internal/config"
	"github.com/1broseidon/inspiraview/internal/ipc"
	"github.com/1broseidon/inspiraview/internal/platform"
	"github.com/1broseidon/inspiraview/internal/runtimepath"
	"github.com/1broseidon/inspiraview/internal/viewer"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "load":
		os.Exit(runLoad(os.Args[2:]))
	case "data-url":
		os.Exit(runDataURL(os.Args[2:]))
	case "opacity":
		os.Exit(runOpacity(os.Args[2:]))
	case "on-top":
		os.Exit(runOnTop(os.Args[2:]))
	case "info":
		os.Exit(runInfo(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inspiraview <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the viewer backend daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  load                Print an image file as base64")
	fmt.Fprintln(w, "  data-url            Print an image file as a data URL")
	fmt.Fprintln(w, "  opacity             Set window opacity (clamped to 0.3-1.0)")
	fmt.Fprintln(w, "  on-top              Set or clear always-on-top for a window")
	fmt.Fprintln(w, "  info                Print image dimensions")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'inspiraview <command> --help' for command-specific options.")
}

// setupSlog installs the process-wide diagnostic logger.
func setupSlog(cfg *config.Config) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
}

// newActionLogger returns nil when action logging is disabled or cannot start.
func newActionLogger(cfg *config.Config) *actionlog.Logger {
	logCfg := cfg.GetLoggingConfig()
	if !logCfg.Enabled {
		return nil
	}
	logger, err := actionlog.NewLogger(actionlog.LogConfig{
		Enabled:   logCfg.Enabled,
		Level:     actionlog.ParseLogLevel(logCfg.Level),
		FilePath:  logCfg.File,
		MaxSizeMB: logCfg.MaxSizeMB,
		MaxFiles:  logCfg.MaxFiles,
	})
	if err != nil {
		log.Printf("Warning: failed to initialize action logger: %v", err)
		return nil
	}
	return logger
}

func newCommands(cfg *config.Config, backend platform.Backend) *viewer.Commands {
	return viewer.New(backend, viewer.Options{
		ImageInfo: viewer.ImageInfoMode(cfg.ImageInfo),
		SniffMIME: cfg.SniffMIME,
		Logger:    slog.Default(),
	})
}

func backendName(backend platform.Backend) string {
	if u, ok := backend.(platform.UnsupportedBackend); ok {
		if u.Reason != "" {
			return "unsupported (" + u.Reason + ")"
		}
		return "unsupported"
	}
	return "x11"
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/inspiraview/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: inspiraview daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serve viewer commands on the IPC socket and, when websocket_addr is")
		fmt.Fprintln(os.Stderr, "configured, on a loopback WebSocket.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	setupSlog(cfg)
	log.Printf("Configuration loaded (image_info: %s, sniff_mime: %v)", cfg.ImageInfo, cfg.SniffMIME)

	backend, disconnect := platform.NewBackend(cfg.Display, cfg.XAuthority)
	defer disconnect()

	actions := newActionLogger(cfg)
	defer actions.Close()

	handler := ipc.NewHandler(newCommands(cfg, backend), actions)
	handler.BackendName = backendName(backend)
	handler.ImageInfoMode = cfg.ImageInfo

	socketPath, err := runtimepath.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		log.Printf("Failed to resolve IPC socket path: %v", err)
		return 1
	}
	ipcServer, err := ipc.NewServer(socketPath, handler)
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}

	// The WebSocket server records its bound address on the handler, so it
	// starts before the IPC server begins serving status requests.
	var wsServer *ipc.WebSocketServer
	if cfg.WebSocketAddr != "" {
		wsServer = ipc.NewWebSocketServer(cfg.WebSocketAddr, handler)
		if err := wsServer.Start(); err != nil {
			log.Printf("Failed to start WebSocket server: %v", err)
			return 1
		}
	}

	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	log.Printf("inspiraview daemon started (backend: %s)", handler.BackendName)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down inspiraview daemon...")
	if wsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := wsServer.Stop(ctx); err != nil {
			log.Printf("WebSocket shutdown: %v", err)
		}
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "IPC socket path (default: from config or runtime dir)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: inspiraview status [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client, err := newClient(*socket)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(renderStatus(status, term.IsTerminal(int(os.Stdout.Fd()))))
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  inspiraview config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  inspiraview config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  inspiraview config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/inspiraview/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadWithSources(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/inspiraview/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadWithSources(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
			if res.File != "" {
				fmt.Printf("# source: %s\n", res.File)
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/inspiraview/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadWithSources(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadWithSources(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
