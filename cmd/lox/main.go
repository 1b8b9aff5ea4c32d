// Command lox runs Lox scripts and hosts an interactive prompt.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	lox "github.com/invertalwaysinvert/lox"
)

const (
	appName     = "lox"
	historyFile = ".lox_history"
	promptMain  = ">>> "
)

var banner = fmt.Sprintf("Lox %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", lox.Version)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		// bare invocation drops into the REPL, like the original driver
		os.Exit(cmdRepl())
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "ast":
		os.Exit(cmdAst(os.Args[2:]))
	case "version":
		fmt.Println(lox.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(64)
	}
}

func usage() {
	fmt.Printf(`Lox %s (built %s)

Usage:
  %s                    Start the REPL.
  %s run <file.lox>     Run a script.
  %s repl               Start the REPL.
  %s ast <file.lox>     Print the parse tree.
  %s version            Print the version.

`, lox.Version, lox.BuildDate, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.lox>\n", appName)
		return 64
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 74
	}

	ip := lox.NewInterpreter()
	rep := &lox.ConsoleReporter{Out: os.Stderr}
	ip.Reporter = rep

	out, runErr := ip.RunSource(string(src))
	fmt.Print(out)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, red(runErr.Error()))
		return 70
	}
	if rep.HadError {
		return 65
	}
	return 0
}

// -----------------------------------------------------------------------------
// ast
// -----------------------------------------------------------------------------

func cmdAst(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s ast <file.lox>\n", appName)
		return 64
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 74
	}

	rep := &lox.ConsoleReporter{Out: os.Stderr}
	toks := lox.NewLexer(string(src), rep).Scan()
	stmts := lox.NewParser(toks, rep).Parse()
	fmt.Println(lox.PrintAST(stmts))
	if rep.HadError {
		return 65
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := lox.NewInterpreter()
	ip.Reporter = &lox.ConsoleReporter{Out: os.Stderr}

	for {
		line, err := ln.Prompt(promptMain)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil { // io.EOF on Ctrl+D
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return 0
		}
		ln.AppendHistory(line)

		out, runErr := ip.RunSource(line)
		fmt.Print(out)
		if runErr != nil {
			fmt.Fprintln(os.Stderr, red(runErr.Error()))
		}
	}
}
