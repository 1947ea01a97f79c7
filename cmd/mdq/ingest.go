package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dgallion1/mdquery/internal/element"
	"github.com/dgallion1/mdquery/internal/extract"
	"github.com/dgallion1/mdquery/internal/mdparse"
	"github.com/dgallion1/mdquery/internal/pipeline"
	"github.com/dgallion1/mdquery/internal/section"
	"github.com/dgallion1/mdquery/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [glob...]",
	Short: "Ingest Markdown files into a local database",
	Long: `Parses every file matching the given globs and stores the documents
with their element and section records in a SQLite database. Files whose
content is already present are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var (
	ingestDBPath string
	ingestMode   string
)

func init() {
	ingestCmd.Flags().StringVar(&ingestDBPath, "db", "mdquery.db", "SQLite database path")
	ingestCmd.Flags().StringVar(&ingestMode, "mode", "full", "Section content mode: minimal, full or smart")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	st, err := store.Open(ingestDBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := section.Options{
		MinLevel:           1,
		MaxLevel:           6,
		Mode:               section.Mode(ingestMode),
		IncludeContent:     true,
		IncludeFrontmatter: true,
	}

	ctx := context.Background()
	ingested, skipped := 0, 0

	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			cmd.PrintErrf("no files match %q\n", pattern)
			continue
		}

		for _, path := range matches {
			dup, err := ingestFile(ctx, st, path, opts)
			if err != nil {
				return fmt.Errorf("ingesting %s: %w", path, err)
			}
			if dup {
				skipped++
				cmd.Printf("skip %s (duplicate)\n", path)
			} else {
				ingested++
				cmd.Printf("ok   %s\n", path)
			}
		}
	}

	cmd.Printf("%d ingested, %d skipped\n", ingested, skipped)
	return nil
}

func ingestFile(ctx context.Context, st *store.Store, path string, opts section.Options) (duplicate bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	source := extract.Normalize(raw)
	hash := pipeline.ContentHashHex(source)

	if _, err := st.DocumentByHash(ctx, hash); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	doc, err := mdparse.Parse(source)
	if err != nil {
		return false, err
	}

	record := store.Document{
		ID:          uuid.NewString(),
		Name:        filepath.Base(path),
		ContentHash: hash,
		CharCount:   len(source),
		IngestedAt:  time.Now().UTC(),
		Content:     string(source),
	}
	return false, st.SaveDocument(ctx, record, element.FromDocument(doc), section.FromDocument(doc, opts))
}
