// Command otr compiles and runs a root module and everything it
// transitively imports, then runs the entrypoint procedure and writes its
// result to the debug trace (visible with -trace Debug).
package main

import (
	"flag"
	"os"

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
		Text:  "  otr",
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

	if flag.NArg() != 1 {
		pterm.Error.Println("usage: otr [-root dir] [-trace level] <root-module>")
		os.Exit(2)
	}
	rootModule := flag.Arg(0)

	pterm.Info.Println("otr: compiling " + rootModule)
	c := compiler.New(*root)
	if err := c.Compile(rootModule); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	runtimeObj, err := c.Finalize()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	result, err := runtimeObj.Run()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	tracer().Debugf("otr: entrypoint returned %s", result.String())
	pterm.Info.Println("otr: run complete")
}
