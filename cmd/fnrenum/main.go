// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mdhender/fnrenum"
	"github.com/mdhender/fnrenum/adapters"
	"github.com/mdhender/fnrenum/footnotes"
	"github.com/mdhender/fnrenum/model"
	"github.com/mdhender/fnrenum/parsers"
	"github.com/mdhender/fnrenum/pipelines"
	"github.com/mdhender/fnrenum/renderer"
	"github.com/mdhender/fnrenum/web/handlers"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", false, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "fnrenum",
		Short: "Markdown footnote renumbering utility",
		Long:  `Renumber markdown footnotes in order of first reference`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Printf("fnrenum: version %q\n", fnrenum.Version().Core())
			}

			return nil
		},
	}
	cmdRoot.AddCommand(cmdParse())
	cmdRoot.AddCommand(cmdRenumber())
	cmdRoot.AddCommand(cmdHistory())
	cmdRoot.AddCommand(cmdServe())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

func cmdParse() *cobra.Command {
	autoEOL := true
	stripCR := false
	var extensions []string
	var outputFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&autoEOL, "auto-eol", autoEOL, "automatically convert line endings")
		cmd.Flags().StringSliceVarP(&extensions, "extension", "x", extensions, "enable a markdown extension (gfm, table, strikethrough, linkify, autolink, tasklist, definition)")
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "save parse to file")
		cmd.Flags().BoolVar(&stripCR, "strip-cr", stripCR, "strip CR from end-of-lines")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "parse <markdown-file>",
		Short:        "parse a markdown file and print its tree as JSON",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1), // require path to markdown file
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")

			p, err := parsers.New(parsers.WithAutoEOL(autoEOL), parsers.WithStripCR(stripCR), parsers.WithExtensions(extensions...))
			if err != nil {
				return err
			}
			input, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tree, err := adapters.GoldmarkToMdast(p.Parse(input))
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(tree, "", "  ")
			if err != nil {
				return fmt.Errorf("json: %w", err)
			}
			if outputFile == "" {
				fmt.Printf("%s\n", string(data))
			} else if err = os.WriteFile(outputFile, data, 0o644); err != nil {
				return err
			} else if !quiet {
				log.Printf("%s: wrote %d bytes\n", outputFile, len(data))
			}

			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdRenumber() *cobra.Command {
	autoEOL := true
	stripCR := false
	ignoreNonnumeric := false
	showDiagnostics := false
	showRemaps := false
	noBackrefs := false
	var configFile string
	var dbPath string
	var extensions []string
	format := "html"
	var outputPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&autoEOL, "auto-eol", autoEOL, "automatically convert line endings")
		cmd.Flags().StringVarP(&configFile, "config-file", "c", configFile, "load footnote options from JSON file")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "record runs in SQLite database")
		cmd.Flags().StringSliceVarP(&extensions, "extension", "x", extensions, "enable a markdown extension")
		cmd.Flags().StringVarP(&format, "format", "f", format, "output format (html, json)")
		cmd.Flags().BoolVar(&ignoreNonnumeric, "ignore-nonnumeric", ignoreNonnumeric, "leave non-numeric footnote identifiers alone")
		cmd.Flags().BoolVar(&noBackrefs, "no-backrefs", noBackrefs, "omit links from footnotes back to their references")
		cmd.Flags().StringVarP(&outputPath, "output", "o", outputPath, "save output to file (or directory, for more than one input)")
		cmd.Flags().BoolVar(&showDiagnostics, "show-diagnostics", showDiagnostics, "show footnote diagnostics")
		cmd.Flags().BoolVar(&showRemaps, "show-remaps", showRemaps, "show identifier changes")
		cmd.Flags().BoolVar(&stripCR, "strip-cr", stripCR, "strip CR from end-of-lines")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "renumber <markdown-file-or-directory>",
		Short:        "renumber the footnotes in markdown files",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "html", "json":
			default:
				return fmt.Errorf("format: want html or json, got %q", format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			quiet, _ := cmd.Flags().GetBool("quiet")
			verbose, _ := cmd.Flags().GetBool("verbose")
			debug, _ := cmd.Flags().GetBool("debug")
			if quiet {
				verbose = false
			}

			var opts footnotes.Options
			if configFile != "" {
				fd, err := os.Open(configFile)
				if err != nil {
					return err
				}
				opts, err = footnotes.DecodeOptions(fd)
				_ = fd.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", configFile, err)
				}
				if debug {
					log.Printf("renumber: %s: %+v\n", configFile, opts)
				}
			}
			// the command line wins over the config file
			if cmd.Flags().Changed("ignore-nonnumeric") {
				opts.IgnoreNonnumericFootnotes = ignoreNonnumeric
			}

			parser, err := parsers.New(parsers.WithAutoEOL(autoEOL), parsers.WithStripCR(stripCR), parsers.WithExtensions(extensions...))
			if err != nil {
				return err
			}
			r, err := renderer.New(renderer.WithBackrefs(!noBackrefs))
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()
			options := []pipelines.Option{
				pipelines.WithFs(fs),
				pipelines.WithOptions(opts),
				pipelines.WithParser(parser),
				pipelines.WithRenderer(r),
			}
			if dbPath != "" {
				store, err := model.NewStore(ctx, dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				options = append(options, pipelines.WithRecorder(store))
			}
			pipeline, err := pipelines.New(options...)
			if err != nil {
				return err
			}

			inputs, err := pipelines.CollectInputs(fs, args[0], debug)
			if err != nil {
				return err
			} else if len(inputs) == 0 {
				return fmt.Errorf("%s: no markdown files found", args[0])
			}
			if verbose {
				log.Printf("renumber: %d input(s)\n", len(inputs))
			}

			outcomes, err := pipeline.ProcessAll(ctx, inputs)
			if err != nil {
				return err
			}
			failed := 0
			for _, outcome := range outcomes {
				if outcome.Err != nil {
					failed++
					log.Printf("renumber: %s: %s: %v\n", outcome.Path, outcome.ErrorCode, outcome.Err)
					continue
				}
				result := outcome.Result
				if showRemaps {
					for _, remap := range result.Mapping.Remaps() {
						suffix := ""
						if remap.Orphan {
							suffix = " (orphan)"
						}
						log.Printf("%s: [^%s] -> [^%s]%s\n", outcome.Path, remap.Original, remap.Renumbered, suffix)
					}
				}
				if showDiagnostics {
					for _, diag := range result.Diagnostics {
						footnotes.PrintDiagnostic(os.Stderr, diag, outcome.Path, result.Source)
					}
				}

				var data []byte
				switch format {
				case "html":
					data = result.HTML
				case "json":
					data, err = json.MarshalIndent(result.Renumbered, "", "  ")
					if err != nil {
						return fmt.Errorf("json: %w", err)
					}
					data = append(data, '\n')
				}

				target := outputPath
				if target != "" && len(inputs) > 1 {
					base := strings.TrimSuffix(filepath.Base(outcome.Path), filepath.Ext(outcome.Path))
					target = filepath.Join(outputPath, base+"."+format)
				}
				if target == "" {
					fmt.Print(string(data))
				} else if err := pipeline.WriteFile(target, data); err != nil {
					return err
				} else if !quiet {
					log.Printf("%s: wrote %d bytes\n", target, len(data))
				}
				if verbose && result.DocumentID != 0 {
					log.Printf("%s: recorded as document %d\n", outcome.Path, result.DocumentID)
				}
			}
			if failed != 0 {
				return fmt.Errorf("%d of %d input(s) failed", failed, len(outcomes))
			}

			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdHistory() *cobra.Command {
	var dbPath string
	showDBStats := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "SQLite database with recorded runs")
		cmd.Flags().BoolVar(&showDBStats, "show-db-stats", showDBStats, "dump row counts from each table")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:          "history [sha256]",
		Short:        "list recorded runs, or the remaps of one document",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			store, err := model.NewStore(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if showDBStats {
				stats, err := store.TableStats(ctx)
				if err != nil {
					return err
				}
				for _, table := range []string{"documents", "remaps"} {
					log.Printf("%-12s %8d\n", table, stats[table])
				}
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer tw.Flush()

			if len(args) == 0 {
				docs, err := store.Documents(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "ID\tCREATED\tSLOTS\tSHA256\tNAME")
				for _, doc := range docs {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", doc.ID, doc.CreatedAt.Format("2006-01-02 15:04:05"), doc.Slots, doc.SHA256, doc.Name)
				}
				return nil
			}

			doc, err := store.DocumentBySHA256(ctx, args[0])
			if err != nil {
				return err
			} else if doc == nil {
				return fmt.Errorf("%s: no recorded run", args[0])
			}
			fmt.Fprintf(tw, "document %d: %s (ignore non-numeric: %v)\n", doc.ID, doc.Name, doc.IgnoreNonnumeric)
			fmt.Fprintln(tw, "SEQ\tORIGINAL\tRENUMBERED\tORPHAN")
			for _, r := range doc.Remaps {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%v\n", r.Seq, r.Original, r.Renumbered, r.Orphan)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdServe() *cobra.Command {
	addr := ":8787"
	var dbPath string
	ignoreNonnumeric := false
	var timeout time.Duration
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&addr, "addr", addr, "HTTP listen address")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "record previews in SQLite database")
		cmd.Flags().BoolVar(&ignoreNonnumeric, "ignore-nonnumeric", ignoreNonnumeric, "leave non-numeric footnote identifiers alone")
		cmd.Flags().DurationVar(&timeout, "timeout", timeout, "auto-shutdown after duration (e.g., 5s, 1m)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "serve <directory>",
		Short:        "serve renumbered previews of the markdown files in a directory",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			fs := afero.NewOsFs()
			options := []pipelines.Option{
				pipelines.WithFs(fs),
				pipelines.WithOptions(footnotes.Options{IgnoreNonnumericFootnotes: ignoreNonnumeric}),
			}
			var history handlers.HistoryStore
			if dbPath != "" {
				store, err := model.NewStore(ctx, dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				options = append(options, pipelines.WithRecorder(store))
				history = store
			}
			pipeline, err := pipelines.New(options...)
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:         addr,
				Handler:      handlers.New(fs, args[0], pipeline, history).Routes(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

			if timeout > 0 {
				go func() {
					log.Printf("server: will auto-shutdown in %v", timeout)
					time.Sleep(timeout)
					log.Printf("server: timeout reached, initiating shutdown")
					shutdown <- os.Interrupt
				}()
			}

			go func() {
				log.Printf("server: listening on %s", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("server: %v", err)
					shutdown <- os.Interrupt
				}
			}()

			<-shutdown
			log.Printf("server: shutting down gracefully")

			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server: shutdown error: %w", err)
			}

			log.Printf("server: stopped")
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(fnrenum.Version().String())
				return nil
			}
			fmt.Println(fnrenum.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
