// Command otrrepl is an interactive shell: each line is wrapped as the body
// of a throwaway "@entrypoint proc main() { ... }" inside a scratch module
// named repl, compiled, run, and its result printed.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/adrian-randa/otr/compiler"
)

func tracer() tracing.Trace {
	return tracing.Select("otr.cmd")
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  otrrepl",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func main() {
	initDisplay()
	gtrace.CoreTracer = gologadapter.New()

	root := flag.String("root", ".", "directory FileLoader resolves <module>.otr files under")
	tlevel := flag.String("trace", "Error", "trace level [Debug|Info|Error]")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	pterm.Info.Println("Welcome to otrrepl")

	repl, err := readline.New("otr> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()

	tracer().Infof("Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eval(*root, line)
	}
	pterm.Info.Println("Good bye!")
}

// eval wraps line as a scratch module's entrypoint body, compiles that
// source in memory with a compiler rooted at root, and prints its result or
// error. The line sits inside the procedure body, so it cannot hold an
// import declaration; only the built-in modules are reachable from it.
func eval(root, line string) {
	source := fmt.Sprintf("module repl {\n@entrypoint\nproc main() {\n%s\n}\n}\n", line)
	c := compiler.New(root)
	if err := c.CompileInline("repl", source); err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	runtimeObj, err := c.Finalize()
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	result, err := runtimeObj.Run()
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Info.Println(result.String())
}
