package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdquery/internal/element"
	"github.com/dgallion1/mdquery/internal/extract"
	"github.com/dgallion1/mdquery/internal/section"
)

var elementsCmd = &cobra.Command{
	Use:   "elements [file]",
	Short: "Decompose a document into element records",
	Args:  cobra.ExactArgs(1),
	RunE:  runElements,
}

var sectionsCmd = &cobra.Command{
	Use:   "sections [file]",
	Short: "Extract the hierarchical section view",
	Args:  cobra.ExactArgs(1),
	RunE:  runSections,
}

var tocCmd = &cobra.Command{
	Use:   "toc [file]",
	Short: "Print the table of contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runTOC,
}

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Print document statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var (
	sectionMode      string
	sectionMinLevel  int
	sectionMaxLevel  int
	sectionMaxLength int
	sectionNoContent bool
	tocMaxLevel      int
)

func init() {
	sectionsCmd.Flags().StringVar(&sectionMode, "mode", "full", "Content mode: minimal, full or smart")
	sectionsCmd.Flags().IntVar(&sectionMinLevel, "min-level", 1, "Minimum heading level")
	sectionsCmd.Flags().IntVar(&sectionMaxLevel, "max-level", 6, "Maximum heading level")
	sectionsCmd.Flags().IntVar(&sectionMaxLength, "max-content-length", 2000, "Smart-mode content length bound")
	sectionsCmd.Flags().BoolVar(&sectionNoContent, "no-content", false, "Omit section content")
	tocCmd.Flags().IntVar(&tocMaxLevel, "max-level", 6, "Maximum heading level")

	rootCmd.AddCommand(elementsCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(statsCmd)
}

func runElements(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	elements, err := element.Decompose(source)
	if err != nil {
		return fmt.Errorf("decomposing %s: %w", args[0], err)
	}
	return printJSON(cmd, elements)
}

func runSections(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	sections, err := section.Extract(source, section.Options{
		MinLevel:           sectionMinLevel,
		MaxLevel:           sectionMaxLevel,
		Mode:               section.Mode(sectionMode),
		MaxContentLength:   sectionMaxLength,
		IncludeContent:     !sectionNoContent,
		IncludeFrontmatter: true,
	})
	if err != nil {
		return fmt.Errorf("extracting sections from %s: %w", args[0], err)
	}
	return printJSON(cmd, sections)
}

func runTOC(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	toc, err := section.Headings(source, tocMaxLevel)
	if err != nil {
		return fmt.Errorf("deriving toc from %s: %w", args[0], err)
	}
	for _, sec := range toc {
		for i := 1; i < sec.Level; i++ {
			cmd.Print("  ")
		}
		cmd.Printf("%s (#%s)\n", sec.Title, sec.ID)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, extract.CalculateStats(source))
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
