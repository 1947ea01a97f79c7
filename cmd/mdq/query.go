package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdquery/internal/store"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocs,
}

var queryCmd = &cobra.Command{
	Use:   "query [doc-id]",
	Short: "Print stored records for a document",
	Long:  `Prints the element records of an ingested document; --sections selects the section view instead.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

var (
	queryDBPath   string
	querySections bool
	querySection  string
)

func init() {
	docsCmd.Flags().StringVar(&queryDBPath, "db", "mdquery.db", "SQLite database path")
	queryCmd.Flags().StringVar(&queryDBPath, "db", "mdquery.db", "SQLite database path")
	queryCmd.Flags().BoolVar(&querySections, "sections", false, "Print sections instead of elements")
	queryCmd.Flags().StringVar(&querySection, "section", "", "Print one section by id")

	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(queryCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	st, err := store.Open(queryDBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := st.Documents(context.Background())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		cmd.Println("no documents")
		return nil
	}
	for _, d := range docs {
		cmd.Printf("%s  %-30s  %6d chars  %s\n",
			d.ID, d.Name, d.CharCount, d.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	st, err := store.Open(queryDBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	docID := args[0]

	if querySection != "" {
		sec, err := st.Section(ctx, docID, querySection)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("section %q not found in %s", querySection, docID)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd, sec)
	}

	if querySections {
		secs, err := st.Sections(ctx, docID)
		if err != nil {
			return err
		}
		return printJSON(cmd, secs)
	}

	els, err := st.Elements(ctx, docID)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return fmt.Errorf("document %q not found", docID)
	}
	return printJSON(cmd, els)
}
