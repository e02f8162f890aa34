/*
File    : ruchy/cmd/ruchy/main.go
*/

// Package main is the entry point for the Ruchy interpreter/transpiler,
// adapted from go-mix's main/main.go: the same three modes (REPL, file
// execution, TCP REPL server), the same --help/--version/os.Args
// dispatch, now driving internal/driver and internal/replsvc instead of
// go-mix's own parser/eval packages directly.
package main

import (
	"net"
	"os"

	"github.com/fatih/color"

	"github.com/ruchy-lang/ruchy/internal/driver"
	"github.com/ruchy-lang/ruchy/internal/replsvc"
)

var (
	// VERSION is the interpreter's version string.
	VERSION = "v0.1.0"
	// AUTHOR is the project's contact information.
	AUTHOR = "ruchy-lang"
	// LICENSE is the project's software license.
	LICENSE = "MIT"
	// PROMPT is the REPL's command prompt.
	PROMPT = "ruchy >>> "
)

// BANNER is the ASCII art logo shown at REPL startup.
var BANNER = `
 ██████╗ ██╗   ██╗ ██████╗██╗  ██╗██╗   ██╗
 ██╔══██╗██║   ██║██╔════╝██║  ██║╚██╗ ██╔╝
 ██████╔╝██║   ██║██║     ███████║ ╚████╔╝
 ██╔══██╗██║   ██║██║     ██╔══██║  ╚██╔╝
 ██║  ██║╚██████╔╝╚██████╗██║  ██║   ██║
 ╚═╝  ╚═╝ ╚═════╝  ╚═════╝╚═╝  ╚═╝   ╚═╝
`

// LINE is the REPL's separator line.
var LINE = "----------------------------------------------------------------"

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

// main dispatches on os.Args the same way go-mix's main/main.go does:
//
//	ruchy                 - start the REPL
//	ruchy <file>           - run a Ruchy source file
//	ruchy --transpile <f>  - lower a file to Rust source and print it
//	ruchy server <port>    - start a TCP REPL server
//	ruchy --help|--version
func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			showHelp()
			return
		case "--version", "-v":
			showVersion()
			return
		case "server":
			if len(os.Args) < 3 {
				redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing port for server mode. Usage: ruchy server <port>\n")
				os.Exit(1)
			}
			startServer(os.Args[2])
			return
		case "--transpile":
			if len(os.Args) < 3 {
				redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing file for --transpile. Usage: ruchy --transpile <file>\n")
				os.Exit(1)
			}
			runFile(os.Args[2], driver.ModeTranspile)
			return
		default:
			runFile(os.Args[1], driver.ModeInterpret)
			return
		}
	}

	repler := replsvc.NewRepl(BANNER, VERSION, AUTHOR, LINE, LICENSE, PROMPT)
	repler.Start(os.Stdin, os.Stdout)
}

func showHelp() {
	cyanColor.Println("Ruchy - a systems scripting language")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	yellowColor.Println("  ruchy                      Start interactive REPL mode")
	yellowColor.Println("  ruchy <path-to-file>       Execute a Ruchy file (.ruchy)")
	yellowColor.Println("  ruchy --transpile <file>   Lower a Ruchy file to Rust source")
	yellowColor.Println("  ruchy server <port>        Start REPL server on specified port")
	yellowColor.Println("  ruchy --help               Display this help message")
	yellowColor.Println("  ruchy --version            Display version information")
}

func showVersion() {
	cyanColor.Println("Ruchy - a systems scripting language")
	cyanColor.Printf("Version: %s\n", VERSION)
	cyanColor.Printf("License: %s\n", LICENSE)
}

// runFile reads and executes (or transpiles) a single source file
// through internal/driver, mirroring go-mix's executeFileWithRecovery
// but without a defer/recover: internal/interp never panics on a
// malformed program, it returns a diagnostic error instead, so the
// only panics left to catch would be driver bugs this binary should not
// paper over.
func runFile(fileName string, mode driver.Mode) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file %q: %v\n", fileName, err)
		os.Exit(1)
	}
	src := string(content)

	parsed := driver.Parse(fileName, src)
	for _, d := range parsed.Diags.All() {
		redColor.Fprintf(os.Stderr, "%s\n", d.Error())
	}
	if parsed.Diags.HasErrors() {
		os.Exit(1)
	}

	d := driver.New(driver.Options{Mode: mode})
	res := d.Run(parsed.AST, fileName, "", os.Args[2:])

	if res.Stdout != "" {
		os.Stdout.WriteString(res.Stdout)
	}
	for _, diagItem := range res.Diags.All() {
		redColor.Fprintf(os.Stderr, "%s\n", diagItem.Error())
	}
	if res.ExitCode != 0 {
		os.Exit(res.ExitCode)
	}
}

// startServer listens on port and hands each incoming connection its
// own REPL session, exactly as go-mix's main/main.go does — one
// persistent *interp.Interp per connection, torn down when the client
// disconnects.
func startServer(port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to start server on port %s: %v\n", port, err)
		os.Exit(1)
	}
	cyanColor.Printf("Ruchy REPL server listening on :%s\n", port)
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to accept connection: %v\n", err)
			continue
		}
		go handleClient(conn)
	}
}

func handleClient(conn net.Conn) {
	defer conn.Close()
	cyanColor.Printf("new client connected from %s\n", conn.RemoteAddr())
	repler := replsvc.NewRepl(BANNER, VERSION, AUTHOR, LINE, LICENSE, PROMPT)
	repler.Start(conn, conn)
	cyanColor.Printf("client disconnected from %s\n", conn.RemoteAddr())
}
