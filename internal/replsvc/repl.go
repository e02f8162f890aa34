/*
File    : ruchy/internal/replsvc/repl.go
*/

// Package replsvc implements the Read-Eval-Print Loop, adapted from
// go-mix's repl/repl.go to drive internal/driver and internal/interp
// instead of go-mix's own parser/eval packages. It keeps go-mix's two
// third-party dependencies for this concern (github.com/chzyer/readline
// for line editing/history, github.com/fatih/color for colored output)
// and its overall Start/executeWithRecovery shape.
package replsvc

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/ruchy-lang/ruchy/internal/driver"
	"github.com/ruchy-lang/ruchy/internal/interp"
)

// Color definitions for REPL output, matching go-mix repl.go's palette:
// blue for separators, yellow for results, red for errors, green for
// the banner, cyan for instructions.
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl is the interactive session, generalizing go-mix's Repl struct
// verbatim (same fields, same banner/version/author/line/license/prompt
// shape) since none of that is language-specific.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

// NewRepl constructs a Repl with the given display fields.
func NewRepl(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

// PrintBannerInfo prints the startup banner, unchanged from go-mix's
// repl.go aside from the product name in the welcome line.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to Ruchy!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "An unbalanced brace/paren/bracket continues onto the next line")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the REPL's main loop. Unlike go-mix's version (one parser
// plus one evaluator, both stateless across lines beyond the
// evaluator's own scope chain), this REPL keeps a single *interp.Interp
// alive for the whole session so `let`-bound variables, structs, enums
// and functions declared on one line stay visible on the next — the
// same persistence go-mix gets for free from reusing one *eval.Evaluator
// across Readline() calls.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	it := interp.New()
	it.SetOutput(writer)
	it.SetInput(reader)

	var pending strings.Builder

	for {
		prompt := r.Prompt
		if pending.Len() > 0 {
			prompt = strings.Repeat(" ", len(r.Prompt)-2) + ".. "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		if pending.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if trimmed == ".exit" {
				writer.Write([]byte("Good Bye!\n"))
				break
			}
		}

		pending.WriteString(line)
		pending.WriteString("\n")

		if bracketDepth(pending.String()) > 0 {
			continue
		}

		src := pending.String()
		pending.Reset()
		rl.SaveHistory(strings.TrimRight(src, "\n"))

		r.executeWithRecovery(writer, src, it)
	}
}

// bracketDepth counts unclosed ({[ across src, ignoring bracket
// characters that appear inside a string or char literal so a line like
// `let s = "{"` does not force a spurious continuation prompt.
func bracketDepth(src string) int {
	depth := 0
	inString := false
	inChar := false
	escaped := false
	for _, c := range src {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case inChar:
			if c == '\\' {
				escaped = true
			} else if c == '\'' {
				inChar = false
			}
		case c == '"':
			inString = true
		case c == '\'':
			inChar = true
		case c == '{', c == '(', c == '[':
			depth++
		case c == '}', c == ')', c == ']':
			depth--
		}
	}
	if depth < 0 {
		return 0
	}
	return depth
}

// executeWithRecovery parses and runs one REPL entry against the
// session's persistent interpreter, matching go-mix's panic-recovery
// and red/yellow error-vs-result display convention. Unlike file-mode
// execution, a fatal diagnostic here is printed and the loop continues
// rather than exiting.
func (r *Repl) executeWithRecovery(writer io.Writer, src string, it *interp.Interp) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	parsed := driver.Parse("<repl>", src)
	if len(parsed.Diags.All()) > 0 {
		for _, d := range parsed.Diags.All() {
			redColor.Fprintf(writer, "%s\n", d.Error())
		}
		return
	}
	if parsed.AST == nil {
		redColor.Fprintf(writer, "[PARSE ERROR] invalid syntax\n")
		return
	}

	result, err := it.RunModule(parsed.AST)
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err.Error())
		return
	}
	if result != nil {
		yellowColor.Fprintf(writer, "%s\n", result.String())
	}
}
