package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"taskport/internal/config"
	"taskport/internal/export"
	"taskport/internal/taskdb"
)

type runOptions struct {
	DBPath   string
	Output   string
	Profile  string
	Mapping  string
	Timezone string
	Status   string
	Yes      bool
	Out      io.Writer
	ErrOut   io.Writer
}

type runStats struct {
	Matched int
	Written int
}

var errAborted = errors.New("aborted by user")

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	os.Exit(runCLI(os.Args[1:], cfg, os.Stdout, os.Stderr))
}

func runCLI(args []string, cfg config.Config, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("taskport", flag.ContinueOnError)
	fs.SetOutput(errOut)

	opts := runOptions{
		Out:    out,
		ErrOut: errOut,
	}
	fs.StringVar(&opts.Profile, "profile", cfg.Profile, "export profile: standard or supernote")
	fs.StringVar(&opts.Mapping, "mapping", "", "YAML file overriding the profile's table and column mapping")
	fs.StringVar(&opts.Timezone, "tz", cfg.Timezone, "IANA time zone for date formatting (defaults to the system zone)")
	fs.StringVar(&opts.Status, "status", cfg.Status, "status value marking a task active (defaults to the profile's marker)")
	fs.BoolVar(&opts.Yes, "yes", false, "overwrite an existing output file without asking")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	switch fs.NArg() {
	case 1:
		opts.DBPath = fs.Arg(0)
		opts.Output = cfg.Output
	case 2:
		opts.DBPath = fs.Arg(0)
		opts.Output = fs.Arg(1)
	default:
		_, _ = fmt.Fprintln(errOut, "usage: taskport [--profile <name>] [--mapping <file>] [--tz <zone>] [--status <marker>] [--yes] <database> [output.csv]")
		return 2
	}

	stats, err := execute(opts)
	if err != nil {
		if errors.Is(err, errAborted) {
			_, _ = fmt.Fprintln(out, "no changes made")
			return 0
		}
		_, _ = fmt.Fprintf(errOut, "ERROR: %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintf(out, "db=%s output=%s profile=%s matched=%d written=%d\n",
		opts.DBPath, opts.Output, opts.Profile, stats.Matched, stats.Written)
	return 0
}

func execute(opts runOptions) (runStats, error) {
	var stats runStats
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	profile, err := config.BuiltinProfile(opts.Profile)
	if err != nil {
		return stats, err
	}
	if opts.Mapping != "" {
		profile, err = config.LoadProfile(opts.Mapping, profile)
		if err != nil {
			return stats, err
		}
	}
	if s := strings.TrimSpace(opts.Status); s != "" {
		profile.ActiveStatus = s
	}

	loc, err := resolveLocation(opts.Timezone, profile.Timezone)
	if err != nil {
		return stats, err
	}

	if _, statErr := os.Stat(opts.Output); statErr == nil && !opts.Yes {
		ok, err := promptYesNo(fmt.Sprintf("Overwrite %s? [y/N]: ", opts.Output))
		if err != nil {
			return stats, err
		}
		if !ok {
			return stats, errAborted
		}
	}

	db, err := taskdb.Open(opts.DBPath)
	if err != nil {
		return stats, err
	}
	defer db.Close()

	tasks, err := db.ActiveTasks(context.Background(), profile)
	if err != nil {
		return stats, err
	}
	stats.Matched = len(tasks)
	_, _ = fmt.Fprintf(out, "Found %d active tasks.\n", len(tasks))

	if len(tasks) > 0 {
		printFirstTask(out, tasks[0], profile, loc)
	}

	written, err := export.WriteCSV(opts.Output, tasks, profile, loc)
	if err != nil {
		return stats, err
	}
	stats.Written = written
	_, _ = fmt.Fprintf(out, "Successfully created %s with %d tasks.\n", opts.Output, written)

	printImportInstructions(out, opts.Output)
	return stats, nil
}

func resolveLocation(flagZone, profileZone string) (*time.Location, error) {
	zone := strings.TrimSpace(flagZone)
	if zone == "" {
		zone = strings.TrimSpace(profileZone)
	}
	if zone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return loc, nil
}

func printFirstTask(out io.Writer, t taskdb.Task, p config.Profile, loc *time.Location) {
	_, _ = fmt.Fprintln(out, "\nFirst task found:")
	_, _ = fmt.Fprintf(out, "ID: %s\n", t.ID.String)
	_, _ = fmt.Fprintf(out, "Content: %s\n", t.Content.String)
	_, _ = fmt.Fprintf(out, "Due Date: %s\n", export.FormatMillis(t.Due.Int64, loc))
	_, _ = fmt.Fprintf(out, "Status: %s\n", t.Status.String)
	if p.Description && t.Metadata.Valid && t.Metadata.String != "" {
		filePath, page, err := export.DecodeMetadata(t.Metadata.String)
		if err == nil && filePath != "" {
			_, _ = fmt.Fprintf(out, "Source: %s\n", filePath)
			_, _ = fmt.Fprintf(out, "Page: %s\n", page)
		}
	}
}

func printImportInstructions(out io.Writer, output string) {
	_, _ = fmt.Fprintln(out, "\nTo import tasks into Todoist:")
	_, _ = fmt.Fprintln(out, "1. Go to Todoist and open the project where you want to import tasks")
	_, _ = fmt.Fprintln(out, "2. Click the three dots (⋮) in the top-right corner")
	_, _ = fmt.Fprintln(out, "3. Select 'Import from CSV'")
	_, _ = fmt.Fprintf(out, "4. Select the file '%s'\n", output)
	_, _ = fmt.Fprintln(out, "5. Follow the on-screen instructions to complete the import")
}

func promptYesNo(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal (use --yes to overwrite)")
	}
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
