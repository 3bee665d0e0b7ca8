package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/inspiraview/internal/config"
	"github.com/1broseidon/inspiraview/internal/ipc"
	"github.com/1broseidon/inspiraview/internal/runtimepath"
)

// newClient resolves the socket from the flag, then config, then the runtime dir.
func newClient(socketFlag string) (*ipc.Client, error) {
	if socketFlag != "" {
		return ipc.NewClientForSocket(socketFlag), nil
	}
	override := ""
	if cfg, err := config.Load(); err == nil {
		override = cfg.SocketPath
	}
	socketPath, err := runtimepath.ResolveSocketPath(override)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return ipc.NewClientForSocket(socketPath), nil
}

// parseWindowID accepts decimal or 0x-prefixed hex X11 window IDs.
func parseWindowID(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(v), nil
}

// parseOnOff parses the on-top state argument.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state %q (expected on or off)", s)
	}
}

func parsePathCommand(name, usage string, args []string) (path, socket string, force bool, code int, ok bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socketFlag := fs.String("socket", "", "IPC socket path (default: from config or runtime dir)")
	var forceFlag *bool
	if name == "load" || name == "data-url" {
		forceFlag = fs.Bool("force", false, "Write to a terminal even though the output is large")
	}
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: inspiraview %s [--socket PATH] <file>\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return "", "", false, 0, false
		}
		return "", "", false, 2, false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one file\n", name)
		fs.Usage()
		return "", "", false, 2, false
	}
	if forceFlag != nil {
		force = *forceFlag
	}
	return fs.Arg(0), *socketFlag, force, 0, true
}

// refuseTerminalDump keeps multi-megabyte base64 off an interactive terminal.
func refuseTerminalDump(name string, force bool) bool {
	if force || !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s: refusing to write image data to a terminal (redirect output or pass --force)\n", name)
	return true
}

func runLoad(args []string) int {
	path, socket, force, code, ok := parsePathCommand("load", "Print the file contents as standard base64.", args)
	if !ok {
		return code
	}
	if refuseTerminalDump("load", force) {
		return 1
	}

	client, err := newClient(socket)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	payload, err := client.LoadImage(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(payload)
	return 0
}

func runDataURL(args []string) int {
	path, socket, force, code, ok := parsePathCommand("data-url", "Print a data URL for the file.", args)
	if !ok {
		return code
	}
	if refuseTerminalDump("data-url", force) {
		return 1
	}

	client, err := newClient(socket)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	url, err := client.DataURL(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(url)
	return 0
}

func runInfo(args []string) int {
	path, socket, _, code, ok := parsePathCommand("info", "Print image dimensions as WIDTHxHEIGHT.", args)
	if !ok {
		return code
	}

	client, err := newClient(socket)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	info, err := client.GetImageInfo(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%dx%d\n", info.Width, info.Height)
	return 0
}

func runOpacity(args []string) int {
	fs := flag.NewFlagSet("opacity", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "IPC socket path (default: from config or runtime dir)")
	window := fs.String("window", "", "Window ID, decimal or 0x hex (default: active window)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: inspiraview opacity [--window ID] [--socket PATH] <value>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Set window opacity. Values are clamped to the range 0.3-1.0.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "opacity requires a value")
		fs.Usage()
		return 2
	}

	windowID, err := parseWindowID(*window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	opacity, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid opacity %q\n", fs.Arg(0))
		return 2
	}

	client, err := newClient(*socket)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.SetWindowOpacity(windowID, opacity); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runOnTop(args []string) int {
	fs := flag.NewFlagSet("on-top", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "IPC socket path (default: from config or runtime dir)")
	window := fs.String("window", "", "Window ID, decimal or 0x hex (default: active window)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: inspiraview on-top [--window ID] [--socket PATH] on|off")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keep a window above all others, or release it.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "on-top requires on or off")
		fs.Usage()
		return 2
	}

	windowID, err := parseWindowID(*window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	enabled, err := parseOnOff(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client, err := newClient(*socket)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.SetAlwaysOnTop(windowID, enabled); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
