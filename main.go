package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bioc-extractor/config"
	"bioc-extractor/internal/dispatcher"
	"bioc-extractor/internal/envHelper"
	"bioc-extractor/internal/output"
	"bioc-extractor/internal/parsing"
	"bioc-extractor/internal/source"
	"bioc-extractor/internal/status"
	"bioc-extractor/internal/store"
)

func main() {
	// Load environment variables
	envHelper.LoadEnv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bioc-extractor",
		Short: "Extract classified paragraphs and abbreviations from biomedical articles",
		Long: `bioc-extractor reads BioC JSON, body_text JSON, JATS or TEI articles from a
file, a directory or an S3 prefix and produces:
  - the articles' paragraphs, tagged with their section type
  - a merged table of the abbreviations the articles define`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, log)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "YAML configuration file")
	flags.StringP("file", "f", "", "Input file, or an s3://bucket/key object")
	flags.StringP("dir", "d", "", "Input directory, or an s3://bucket/prefix")
	flags.StringP("extension", "e", "json", "Comma separated extensions to read from a directory")
	flags.Int("max-files", 0, "Read at most this many files (0 reads all)")
	flags.String("format", "auto", "Input format: auto, bioc, bodytext, jats or tei")
	flags.IntP("workers", "w", 4, "Number of files processed in parallel")
	flags.BoolP("sentences", "s", false, "Emit one paragraph per sentence")
	flags.String("language", "en", "Language handed to the sentence segmenter")
	flags.StringSlice("allow", nil, "Only keep these section types (ABBR is always read)")
	flags.BoolP("abbreviations", "a", false, "Only collect the merged abbreviation table")
	flags.StringP("output", "o", "json", "Output mode: json or text")
	flags.String("out", "", "Write output to this file instead of stdout")
	flags.Bool("prefix-filename", false, "Text output: prefix each line with the source file")
	flags.Bool("prefix-section", false, "Text output: prefix each line with the section type")
	flags.Bool("store", false, "Save the results to MySQL (DB_* variables)")
	flags.String("status-addr", "", "Serve health and progress on this address, e.g. :8080")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")

	return cmd
}

// applyFlags overlays the flags the user set explicitly.
func applyFlags(flags *pflag.FlagSet, cfg *config.AppConfig) {
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	str("dir", &cfg.Input.Path)
	str("file", &cfg.Input.Path)
	str("extension", &cfg.Input.Extension)
	num("max-files", &cfg.Input.MaxFiles)
	str("format", &cfg.Input.Format)
	num("workers", &cfg.Worker.Count)
	boolean("sentences", &cfg.Extract.Sentences)
	str("language", &cfg.Extract.Language)
	if flags.Changed("allow") {
		cfg.Extract.Allow, _ = flags.GetStringSlice("allow")
	}
	boolean("abbreviations", &cfg.Extract.AbbreviationsOnly)
	str("output", &cfg.Output.Mode)
	str("out", &cfg.Output.Path)
	boolean("prefix-filename", &cfg.Output.PrefixFilename)
	boolean("prefix-section", &cfg.Output.PrefixSection)
	boolean("store", &cfg.Store.Enabled)
	str("status-addr", &cfg.Status.Addr)
	str("log-level", &cfg.Log.Level)
	str("log-format", &cfg.Log.Format)
}

func newLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

// openSource picks the local or S3 source for the input path.
func openSource(cfg config.AppConfig, log logrus.FieldLogger) (source.Source, error) {
	if !source.IsS3(cfg.Input.Path) {
		return source.NewLocal(cfg.Input.Path, log), nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("create AWS session: %w", err)
	}
	return source.NewS3(s3.New(sess), cfg.Input.Path)
}

func run(ctx context.Context, cfg config.AppConfig, log *logrus.Logger) error {
	format, err := parsing.ParseFormat(cfg.Input.Format)
	if err != nil {
		return err
	}

	src, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	paths, err := src.List(ctx, source.Filter{
		Extensions: source.ParseExtensions(cfg.Input.Extension),
		Max:        cfg.Input.MaxFiles,
	})
	if err != nil {
		return err
	}
	log.WithField("files", len(paths)).Info("Input files listed")

	extractor := parsing.NewExtractor(parsing.Options{
		Allowed:   parsing.NewAllowList(cfg.Extract.Allow...),
		Sentences: cfg.Extract.Sentences,
		Language:  cfg.Extract.Language,
	}, log)
	extract := func(ctx context.Context, work dispatcher.Work) ([]*parsing.OutputArticle, error) {
		r, err := src.Open(ctx, work.Path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return extractor.Extract(work.Path, work.Format, r)
	}

	d := dispatcher.New(dispatcher.Options{
		Workers:           cfg.Worker.Count,
		AbbreviationsOnly: cfg.Extract.AbbreviationsOnly,
	}, extract, log)

	if cfg.Status.Addr != "" {
		srv := status.Start(cfg.Status.Addr, func() dispatcher.ProgressSnapshot {
			return d.Progress().Snapshot()
		}, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("Error shutting down status server")
			}
		}()
	}

	report, err := d.Run(ctx, dispatcher.NewWork(paths, format))
	if err != nil {
		return err
	}

	if err := writeOutput(cfg, d.Collection()); err != nil {
		return err
	}
	if cfg.Store.Enabled {
		if err := save(ctx, cfg, d.Collection(), log); err != nil {
			return err
		}
	}

	if err := output.WriteReport(os.Stderr, report); err != nil {
		return err
	}
	if report.Succeeded == 0 {
		return errors.New("no input file could be extracted")
	}
	return nil
}

func writeOutput(cfg config.AppConfig, collection *dispatcher.Collection) (err error) {
	var w io.Writer = os.Stdout
	if cfg.Output.Path != "" {
		f, createErr := os.Create(cfg.Output.Path)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}()
		w = f
	}

	switch {
	case cfg.Extract.AbbreviationsOnly && cfg.Output.Mode == output.ModeText:
		return output.WriteAbbreviationsText(w, collection.Abbreviations())
	case cfg.Extract.AbbreviationsOnly:
		return output.WriteAbbreviations(w, collection.Abbreviations())
	case cfg.Output.Mode == output.ModeText:
		return output.WriteText(w, collection.Chunk(), output.TextOptions{
			PrefixFilename: cfg.Output.PrefixFilename,
			PrefixSection:  cfg.Output.PrefixSection,
		})
	default:
		return output.WriteChunk(w, collection.Chunk())
	}
}

func save(ctx context.Context, cfg config.AppConfig, collection *dispatcher.Collection, log logrus.FieldLogger) error {
	s, err := store.Open(ctx, cfg.Store.DSN())
	if err != nil {
		return err
	}
	defer s.Close()
	log.Info("Database pinged successfully.")

	if err := s.Migrate(ctx); err != nil {
		return err
	}
	if cfg.Extract.AbbreviationsOnly {
		return s.SaveAbbreviations(ctx, collection.Abbreviations())
	}
	saved, err := s.SaveChunk(ctx, collection.Chunk())
	log.WithField("articles", saved).Info("Articles saved")
	return err
}
