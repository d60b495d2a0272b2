// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     repl
// Description: Line-oriented calculator shell on top of chzyer/readline
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/calc/accumulator"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/internal/service"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

const (
	Prompt       = "mrw> "
	ResultPrompt = "=> "
)

const helpText = `Eingaben ohne ":" sind Tastenfolgen, z.B. "12 + 3 =" oder "2 sqrt".
Befehle:
  :solve <linear|quadratic|cubic|system> <koeffizienten...>
  :stats <werte...>
  :convert base <wert> <von> [nach]
  :convert unit <kategorie> <wert> <von> <nach>
  :convert temp <wert> <von> <nach>
  :history            Verlauf anzeigen
  :recall <n>         n-ten Verlaufseintrag laden (0 = neuester)
  :angle [deg|rad]    Winkelmodus setzen oder umschalten
  :clear              Rechner zurücksetzen
  :help               Diese Hilfe
  :quit               Beenden`

// LineReader yields one input line per call and io.EOF at the end.
type LineReader interface {
	Readline() (string, error)
}

// REPL evaluates input lines against one calculator session.
type REPL struct {
	session *session.Session
	service *service.Service
	out     io.Writer
	logger  *logging.Logger
}

// New creates a REPL writing its answers to out.
func New(sess *session.Session, svc *service.Service, out io.Writer) *REPL {
	return &REPL{
		session: sess,
		service: svc,
		out:     out,
		logger:  logging.New("repl"),
	}
}

// NewReadline opens a readline instance with command completion. An empty
// historyFile keeps the input history in memory only.
func NewReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		HistoryFile:     historyFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(":solve",
			readline.PcItem(service.EquationLinear),
			readline.PcItem(service.EquationQuadratic),
			readline.PcItem(service.EquationCubic),
			readline.PcItem(service.EquationSystem),
		),
		readline.PcItem(":stats"),
		readline.PcItem(":convert",
			readline.PcItem(service.ConvertBase),
			readline.PcItem(service.ConvertUnit),
			readline.PcItem("temp"),
		),
		readline.PcItem(":history"),
		readline.PcItem(":recall"),
		readline.PcItem(":angle", readline.PcItem("deg"), readline.PcItem("rad")),
		readline.PcItem(":clear"),
		readline.PcItem(":help"),
		readline.PcItem(":quit"),
	)
}

// Run reads lines until EOF or ":quit". Errors of single lines are printed
// and do not stop the loop.
func (r *REPL) Run(ctx context.Context, in LineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := r.Execute(ctx, line)
		if err != nil {
			r.logger.Debug("line failed", "line", line, "error", err)
			fmt.Fprintf(r.out, "Fehler: %s\n", message(err))
		}
		if quit {
			return nil
		}
	}
}

// Execute evaluates one line. It reports quit for ":quit" and ":exit".
func (r *REPL) Execute(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, ":") {
		keys, err := session.ParseKeys(line)
		if err != nil {
			return false, err
		}
		r.printSnapshot(r.session.PressAll(keys))
		return false, nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "h", "?":
		fmt.Fprintln(r.out, helpText)
	case "clear":
		r.printSnapshot(r.session.Press(session.KeyClear))
	case "solve":
		return false, r.solve(ctx, args)
	case "stats":
		return false, r.stats(ctx, args)
	case "convert":
		return false, r.convert(ctx, args)
	case "history":
		r.history()
	case "recall":
		return false, r.recall(args)
	case "angle":
		return false, r.angle(ctx, args)
	default:
		return false, mdwerror.Newf("unknown command :%s", cmd).
			WithCode(mdwerror.CodeUnknownOperation).
			WithOperation("repl.execute")
	}
	return false, nil
}

func (r *REPL) solve(ctx context.Context, args []string) error {
	req, err := service.ParseSolveArgs(args)
	if err != nil {
		return err
	}
	resp, err := r.service.Solve(ctx, req)
	if err != nil {
		return err
	}
	r.printLines(resp.Lines)
	return nil
}

func (r *REPL) stats(ctx context.Context, args []string) error {
	resp, err := r.service.Statistics(ctx, &service.StatsRequest{Input: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	r.printLines(resp.Lines())
	return nil
}

func (r *REPL) convert(ctx context.Context, args []string) error {
	req, err := service.ParseConvertArgs(args)
	if err != nil {
		return err
	}
	resp, err := r.service.Convert(ctx, req)
	if err != nil {
		return err
	}
	r.printLines(resp.Lines())
	return nil
}

func (r *REPL) history() {
	entries := r.session.History().Entries()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "Verlauf ist leer")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(r.out, "%3d  %s = %s\n", i, e.Expression, e.Result)
	}
}

func (r *REPL) recall(args []string) error {
	i := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return mdwerror.Wrap(err, "recall index must be a number").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("repl.recall")
		}
		i = n
	}
	snap, err := r.session.RecallIndex(i)
	if err != nil {
		return err
	}
	r.printSnapshot(snap)
	return nil
}

func (r *REPL) angle(ctx context.Context, args []string) error {
	mode := r.session.AngleMode().Toggle()
	if len(args) > 0 {
		m, ok := accumulator.ParseAngleMode(args[0])
		if !ok {
			return mdwerror.Newf("unknown angle mode %q", args[0]).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("repl.angle")
		}
		mode = m
	}
	if err := r.session.SetAngleMode(ctx, mode); err != nil {
		return err
	}
	fmt.Fprintln(r.out, mode.String())
	return nil
}

func (r *REPL) printSnapshot(snap session.Snapshot) {
	if snap.Expression != "" {
		fmt.Fprintf(r.out, "%s%s %s\n", ResultPrompt, snap.Expression, snap.Display)
	} else {
		fmt.Fprintf(r.out, "%s%s\n", ResultPrompt, snap.Display)
	}
	if snap.Error != "" {
		fmt.Fprintf(r.out, "   (%s)\n", snap.Error)
	}
}

func (r *REPL) printLines(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(r.out, "  "+line)
	}
}

func message(err error) string {
	if e, ok := mdwerror.As(err); ok {
		return e.Message()
	}
	return err.Error()
}
