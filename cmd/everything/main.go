package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sauravbhattacharya001/everything/event"
	"github.com/sauravbhattacharya001/everything/ics"
	"github.com/sauravbhattacharya001/everything/recurrence"
	"github.com/sauravbhattacharya001/everything/reminder"
	"github.com/sauravbhattacharya001/everything/storage"
	"github.com/sauravbhattacharya001/everything/storage/sqlite"
)

const dbName = "everything.db"

// maxExpansion bounds recurrence expansion for display: a year of daily
// occurrences.
const maxExpansion = 366

var rootCmd = &cobra.Command{
	Use:   "everything",
	Short: "Everything calendar CLI",
	Long: `Everything keeps a local calendar of events with recurrence rules,
reminder settings, priorities and tags, and exchanges them with other
calendar software as iCalendar (.ics) documents.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("EVERYTHING")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", "", "workspace directory (default ~/.everything)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(upcomingCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func workspaceDir() (string, error) {
	if ws := viper.GetString("workspace"); ws != "" {
		return ws, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".everything"), nil
}

func withStore(ctx context.Context, fn func(context.Context, storage.Store) error) error {
	ws, err := workspaceDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(ws, 0o755); err != nil {
		return err
	}
	store, err := sqlite.Open(filepath.Join(ws, dbName), newLogger())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func addCmd() *cobra.Command {
	var (
		title, date, desc, priority string
		tags, reminders             []string
		repeat, until               string
		every                       int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title required")
			}
			if date == "" {
				return fmt.Errorf("--date required")
			}
			ev, err := buildEvent(title, date, desc, priority, tags, reminders, repeat, every, until)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				if err := store.CreateEvent(ctx, &ev); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(ev)
				}
				fmt.Println("created", ev.ID)
				return nil
			})
		},
	}
	addEventFlags(cmd, &title, &date, &desc, &priority, &tags, &reminders, &repeat, &every, &until)
	return cmd
}

func editCmd() *cobra.Command {
	var (
		title, date, desc, priority string
		tags, reminders             []string
		repeat, until               string
		every                       int
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				ev, err := store.GetEvent(ctx, args[0])
				if err != nil {
					return friendly(err, args[0])
				}

				flags := cmd.Flags()
				if flags.Changed("title") {
					ev.Title = title
				}
				if flags.Changed("date") {
					when, err := recurrence.ParseDate(date)
					if err != nil {
						return fmt.Errorf("invalid --date: %w", err)
					}
					ev.Date = when
				}
				if flags.Changed("description") {
					ev.Description = desc
				}
				if flags.Changed("priority") {
					p, err := parsePriority(priority)
					if err != nil {
						return err
					}
					ev.Priority = p
				}
				if flags.Changed("tag") {
					parsed, err := parseTags(tags)
					if err != nil {
						return err
					}
					ev.Tags = parsed
				}
				if flags.Changed("remind") {
					settings, err := parseReminders(reminders)
					if err != nil {
						return err
					}
					ev.Reminders = settings
				}
				if flags.Changed("repeat") || flags.Changed("every") || flags.Changed("until") {
					if !flags.Changed("repeat") {
						return fmt.Errorf("--every and --until need --repeat")
					}
					rule, err := parseRule(repeat, every, until)
					if err != nil {
						return err
					}
					ev.Recurrence = rule
				}

				if err := store.UpdateEvent(ctx, ev); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(ev)
				}
				fmt.Println("updated", ev.ID)
				return nil
			})
		},
	}
	addEventFlags(cmd, &title, &date, &desc, &priority, &tags, &reminders, &repeat, &every, &until)
	return cmd
}

func addEventFlags(cmd *cobra.Command, title, date, desc, priority *string, tags, reminders *[]string, repeat *string, every *int, until *string) {
	cmd.Flags().StringVar(title, "title", "", "event title")
	cmd.Flags().StringVar(date, "date", "", "start date, e.g. 2026-03-15T14:30:00 or 2026-03-15")
	cmd.Flags().StringVar(desc, "description", "", "free-form description")
	cmd.Flags().StringVar(priority, "priority", event.DefaultPriority.String(), "low, medium, high or urgent")
	cmd.Flags().StringSliceVar(tags, "tag", nil, "tag name, optionally name:colorIndex (repeatable)")
	cmd.Flags().StringSliceVar(reminders, "remind", nil, "reminder offset such as fifteenMinutes or oneDay (repeatable)")
	cmd.Flags().StringVar(repeat, "repeat", "", "recurrence frequency: daily, weekly, monthly, yearly or none")
	cmd.Flags().IntVar(every, "every", 1, "recurrence interval")
	cmd.Flags().StringVar(until, "until", "", "inclusive recurrence end date")
}

func listCmd() *cobra.Command {
	var fromStr, toStr string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				opts := &storage.ListOptions{}
				if fromStr != "" {
					t, err := recurrence.ParseDate(fromStr)
					if err != nil {
						return fmt.Errorf("invalid --from: %w", err)
					}
					opts.From = &t
				}
				if toStr != "" {
					t, err := recurrence.ParseDate(toStr)
					if err != nil {
						return fmt.Errorf("invalid --to: %w", err)
					}
					opts.To = &t
				}

				events, err := store.ListEvents(ctx, opts)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				renderEventTable(events)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "keep events starting at or after this date")
	cmd.Flags().StringVar(&toStr, "to", "", "keep events starting before this date")
	return cmd
}

func showCmd() *cobra.Command {
	var occurrences int
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				ev, err := store.GetEvent(ctx, args[0])
				if err != nil {
					return friendly(err, args[0])
				}
				if viper.GetBool("json") {
					return printJSON(ev)
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendRow(table.Row{"ID", ev.ID})
				tw.AppendRow(table.Row{"Date", ev.Date.Format("Mon Jan 2 2006 15:04")})
				tw.AppendRow(table.Row{"Title", ev.Title})
				if ev.Description != "" {
					tw.AppendRow(table.Row{"Description", ev.Description})
				}
				tw.AppendRow(table.Row{"Priority", ev.Priority.Label()})
				if len(ev.Tags) > 0 {
					tw.AppendRow(table.Row{"Tags", tagNames(ev.Tags)})
				}
				if ev.Recurrence != nil {
					tw.AppendRow(table.Row{"Repeats", ev.Recurrence.Summary()})
				}
				if ev.Reminders.Len() > 0 {
					tw.AppendRow(table.Row{"Reminders", reminderLabels(ev.Reminders)})
					if next, ok := ev.Reminders.NextNotificationTime(ev.Date, time.Now()).Get(); ok {
						tw.AppendRow(table.Row{"Next reminder", next.Format("Mon Jan 2 2006 15:04")})
					}
				}
				tw.Render()

				if occurrences > 0 && ev.Recurrence != nil {
					fmt.Println()
					ot := table.NewWriter()
					ot.SetOutputMirror(os.Stdout)
					ot.AppendHeader(table.Row{"Occurrence", "Date"})
					for _, occ := range ev.Occurrences(occurrences + 1) {
						ot.AppendRow(table.Row{occ.ID, occ.Date.Format("Mon Jan 2 2006 15:04")})
					}
					ot.Render()
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&occurrences, "occurrences", 0, "also show the next N occurrences")
	return cmd
}

func upcomingCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show events in the coming days, recurring ones expanded",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				now := time.Now()
				horizon := now.AddDate(0, 0, days)

				// Recurring events anchored in the past still fall inside
				// the window, so fetch everything up to the horizon.
				events, err := store.ListEvents(ctx, &storage.ListOptions{To: &horizon})
				if err != nil {
					return err
				}

				var rows []event.Event
				for _, ev := range events {
					if inWindow(ev.Date, now, horizon) {
						rows = append(rows, ev)
					}
					for _, occ := range ev.Occurrences(maxExpansion) {
						if occ.Date.After(horizon) {
							break
						}
						if inWindow(occ.Date, now, horizon) {
							rows = append(rows, occ)
						}
					}
				}
				sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

				if viper.GetBool("json") {
					return printJSON(rows)
				}
				renderEventTable(rows)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "window size in days")
	return cmd
}

func removeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				if err := store.DeleteEvent(ctx, args[0]); err != nil {
					return friendly(err, args[0])
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		outDir   string
		toStdout bool
	)
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Export events as an iCalendar document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				exporter := ics.NewExporter()

				var (
					events []event.Event
					name   string
				)
				if len(args) == 0 {
					all, err := store.ListEvents(ctx, nil)
					if err != nil {
						return err
					}
					events = all
					name = exporter.BulkFilename()
				} else {
					for _, id := range args {
						ev, err := store.GetEvent(ctx, id)
						if err != nil {
							return friendly(err, id)
						}
						events = append(events, ev)
					}
					name = ics.Filename(events[0].Title)
				}

				doc := exporter.ExportMany(events)
				if toStdout {
					fmt.Print(doc)
					return nil
				}
				path := filepath.Join(outDir, name)
				if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
					return err
				}
				fmt.Println("wrote", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the document instead of writing a file")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Import events from an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			logger := newLogger()
			events, err := ics.NewImporter(logger).Import(f)
			if err != nil {
				return err
			}

			return withStore(cmd.Context(), func(ctx context.Context, store storage.Store) error {
				created := 0
				for i := range events {
					err := store.CreateEvent(ctx, &events[i])
					if storage.IsAlreadyExists(err) {
						logger.Warn("skipping event that already exists", "id", events[i].ID)
						continue
					}
					if err != nil {
						return err
					}
					created++
				}
				fmt.Printf("imported %d of %d events\n", created, len(events))
				return nil
			})
		},
	}
	return cmd
}

func buildEvent(title, date, desc, priority string, tags, reminders []string, repeat string, every int, until string) (event.Event, error) {
	var ev event.Event

	when, err := recurrence.ParseDate(date)
	if err != nil {
		return ev, fmt.Errorf("invalid --date: %w", err)
	}
	p, err := parsePriority(priority)
	if err != nil {
		return ev, err
	}
	parsedTags, err := parseTags(tags)
	if err != nil {
		return ev, err
	}
	settings, err := parseReminders(reminders)
	if err != nil {
		return ev, err
	}
	rule, err := parseRule(repeat, every, until)
	if err != nil {
		return ev, err
	}

	return event.Event{
		Date:        when,
		Title:       title,
		Description: desc,
		Priority:    p,
		Tags:        parsedTags,
		Recurrence:  rule,
		Reminders:   settings,
	}, nil
}

func parsePriority(name string) (event.Priority, error) {
	p := event.Priority(strings.ToLower(name))
	if !p.Valid() {
		return "", fmt.Errorf("invalid --priority %q (want low, medium, high or urgent)", name)
	}
	return p, nil
}

func parseTags(specs []string) ([]event.Tag, error) {
	var tags []event.Tag
	for _, s := range specs {
		name, colorPart, hasColor := strings.Cut(s, ":")
		tag := event.Tag{Name: strings.TrimSpace(name)}
		if tag.Name == "" {
			return nil, fmt.Errorf("empty tag name in %q", s)
		}
		if hasColor {
			n, err := strconv.Atoi(colorPart)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid tag color in %q", s)
			}
			tag.ColorIndex = n
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func parseReminders(names []string) (reminder.Settings, error) {
	if len(names) == 0 {
		return reminder.DefaultSettings(), nil
	}
	var offsets []reminder.Offset
	for _, name := range names {
		off, err := reminder.ParseOffset(name)
		if err != nil {
			return reminder.Settings{}, err
		}
		offsets = append(offsets, off)
	}
	return reminder.NewSettings(offsets...), nil
}

func parseRule(repeat string, every int, until string) (*recurrence.Rule, error) {
	if repeat == "" || repeat == "none" {
		if until != "" {
			return nil, fmt.Errorf("--until needs --repeat")
		}
		return nil, nil
	}
	freq, err := recurrence.ParseFrequency(repeat)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if until != "" {
		t, err := recurrence.ParseDate(until)
		if err != nil {
			return nil, fmt.Errorf("invalid --until: %w", err)
		}
		end = &t
	}
	rule, err := recurrence.New(freq, every, end)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func friendly(err error, id string) error {
	if storage.IsNotFound(err) {
		return fmt.Errorf("no event with id %q", id)
	}
	return err
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func renderEventTable(events []event.Event) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Date", "Title", "Priority", "Tags", "Repeats"})
	for _, ev := range events {
		tw.AppendRow(table.Row{
			ev.ID,
			ev.Date.Format("2006-01-02 15:04"),
			ev.Title,
			ev.Priority.Label(),
			tagNames(ev.Tags),
			ruleSummary(ev.Recurrence),
		})
	}
	tw.Render()
}

func tagNames(tags []event.Tag) string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return strings.Join(names, ", ")
}

func reminderLabels(s reminder.Settings) string {
	offsets := s.Offsets()
	labels := make([]string, len(offsets))
	for i, off := range offsets {
		labels[i] = off.Label()
	}
	return strings.Join(labels, ", ")
}

func ruleSummary(rule *recurrence.Rule) string {
	if rule == nil {
		return ""
	}
	return rule.Summary()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
