package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bgrundmann/finding-the-way-home-sub000/engine/move"
	"github.com/bgrundmann/finding-the-way-home-sub000/service/internal/workspace"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	promptMain = "moves> "
	promptCont = "...... "
)

const replHelp = `REPL commands:
  :image            Show the current image
  :load <f.yaml>    Replace the image with the one in a file
  :save <f.yaml>    Write the image to a file
  :defs             List definitions
  :source           Print the source of all user definitions
  :edit <name>      Take a definition (and its users) out for editing
  :state            Print the workspace state as JSON
  :quit             Exit the REPL
Anything else is compiled and run against the image.
`

func cmdRepl(_ []string) int {
	cfg, lib, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	w := workspace.New(lib)
	w.OnEvent = func(ev workspace.Event) {
		log.WithFields(log.Fields{"seq": ev.Seq, "definitions": ev.Definitions}).Debugf("event %s", ev.Type)
	}
	if cfg.ImagePath != "" {
		im, err := readImage(cfg.ImagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read image: %v\n", appName, err)
			return 1
		}
		w.SetImage(im)
	}

	fmt.Printf("moves %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.HistoryPath != "" {
		if f, err := os.Open(cfg.HistoryPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		code, ok := readStatement(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := replCommand(w, trimmed); quit {
				return 0
			}
			continue
		}

		if _, err := w.Run(code + "\n"); err != nil {
			fmt.Fprint(os.Stderr, red(renderError(code, err)))
			if isParseError(err) {
				continue
			}
		}
		printImage(w)
	}
}

// readStatement reads lines until every def and repeat opened is closed.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		depth += blockDelta(line)
		if depth <= 0 {
			return b.String(), true
		}
	}
}

// blockDelta is +1 for a line opening a block, -1 for "end".
func blockDelta(line string) int {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "ignore" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return 0
	}
	switch fields[0] {
	case "def", "repeat":
		return 1
	case "end":
		return -1
	}
	return 0
}

func printImage(w *workspace.Workspace) {
	data, err := yaml.Marshal(w.Image())
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return
	}
	fmt.Print(blue(string(data)))
}

// replCommand runs a ':' command and reports whether the REPL should exit.
func replCommand(w *workspace.Workspace, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Print(replHelp)
	case ":image":
		printImage(w)
	case ":load":
		im, err := readImage(arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		w.SetImage(im)
		printImage(w)
	case ":save":
		if err := writeImage(arg, w.Image()); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
	case ":defs":
		printDefinitions(os.Stdout, w.Definitions())
	case ":source":
		fmt.Print(green(w.Source()))
	case ":edit":
		id, err := findDefinition(w, arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		_, src, err := w.EditDefinition(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		fmt.Print(green(src))
	case ":state":
		data, err := json.MarshalIndent(w.State(), "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}
		fmt.Println(string(data))
	default:
		fmt.Printf("unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}

// findDefinition resolves arg, an identifier such as "deal(int,pile,pile)"
// or a name with a single overload.
func findDefinition(w *workspace.Workspace, arg string) (move.Identifier, error) {
	if strings.Contains(arg, "(") {
		return move.Identifier(arg), nil
	}
	var found []move.Identifier
	for _, d := range w.Definitions() {
		if d.Name == arg {
			found = append(found, d.Identifier)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", workspace.ErrUnknownDefinition, arg)
	case 1:
		return found[0], nil
	default:
		ids := make([]string, len(found))
		for i, id := range found {
			ids[i] = string(id)
		}
		return "", fmt.Errorf("%s is overloaded, use one of: %s", arg, strings.Join(ids, ", "))
	}
}
