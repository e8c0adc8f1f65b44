// Command leaderboard loads a results file or URL once and prints the board.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/internal/adapters/source"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/internal/domain/diagnostics"
	"github.com/okian/podium/internal/domain/record"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

var errUsage = errors.New("usage")

func main() {
	if err := logger.InitWithWriter(os.Stderr, logger.FormatText); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Get().Error(ctx, "leaderboard failed", logger.Error(err))
		os.Exit(1)
	}
}

// run is main without process exits. The first positional argument is the
// source; "-" reads stdin. Without one the configured source is used.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)
	var (
		asJSON   = fs.Bool("json", false, "Print the board as JSON")
		xlsxPath = fs.String("xlsx", "", "Also write the board to this XLSX file")
		diagnose = fs.Bool("diagnose", false, "Print data-quality issues instead of the board")
		strict   = fs.Bool("strict", cfg.StrictTimes, "Rank unreadable times last")
		delim    = fs.String("delim", ",", "Field delimiter")
		timeCol  = fs.String("time-field", cfg.TimeField, "Time column")
		nameCol  = fs.String("name-field", cfg.NameField, "Participant column")
		podium   = fs.Int("podium", cfg.PodiumSize, "Podium size")
		limit    = fs.Int("limit", cfg.ListLimit, "Last position shown in the list")
		timeout  = fs.Duration("timeout", cfg.FetchTimeout(), "Fetch timeout for URLs")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if utf8.RuneCountInString(*delim) != 1 {
		fmt.Fprintln(fs.Output(), "-delim must be a single character")
		return errUsage
	}
	d, _ := utf8.DecodeRuneInString(*delim)

	src, err := pickSource(fs.Arg(0), cfg.Source, stdin, *timeout)
	if err != nil {
		return err
	}
	text, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Name(), err)
	}

	parser := record.NewParser(record.WithDelimiter(d))
	if *diagnose {
		rep := diagnostics.Check(text,
			diagnostics.WithTimeField(*timeCol),
			diagnostics.WithParser(parser),
			diagnostics.WithStrictTimes(*strict),
		)
		return printReport(stdout, rep, *asJSON)
	}

	builder := standings.NewBuilder(
		standings.WithParser(parser),
		standings.WithTimeField(*timeCol),
		standings.WithNameField(*nameCol),
		standings.WithProfileField(cfg.ProfileField),
		standings.WithDefaultProfile(cfg.DefaultProfile),
		standings.WithPodiumSize(*podium),
		standings.WithListLimit(*limit),
		standings.WithStrictTimes(*strict),
	)
	board := builder.Load(text)
	board.Source = src.Name()

	if *xlsxPath != "" {
		if err := writeXLSX(*xlsxPath, board); err != nil {
			return err
		}
	}
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(board)
	}
	return render.Text(stdout, board)
}

func pickSource(arg, fallback string, stdin io.Reader, timeout time.Duration) (source.Source, error) {
	switch arg {
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return source.Static{Label: "stdin", Text: string(data)}, nil
	case "":
		arg = fallback
	}
	return source.New(arg, source.WithTimeout(timeout)), nil
}

func writeXLSX(path string, board types.Board) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return render.WriteXLSX(f, board)
}

func printReport(w io.Writer, rep diagnostics.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	if rep.Clean() {
		_, err := fmt.Fprintf(w, "%d rows, no issues\n", rep.Rows)
		return err
	}
	for _, is := range rep.Issues {
		if _, err := fmt.Fprintf(w, "line %d: %s: %s\n", is.Line, is.Kind, is.Detail); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d rows, %d issues\n", rep.Rows, len(rep.Issues))
	return err
}
