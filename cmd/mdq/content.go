package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdquery/internal/element"
	"github.com/dgallion1/mdquery/internal/extract"
	"github.com/dgallion1/mdquery/internal/render"
)

var linksCmd = &cobra.Command{
	Use:   "links [file]",
	Short: "List links in a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinks,
}

var imagesCmd = &cobra.Command{
	Use:   "images [file]",
	Short: "List images in a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runImages,
}

var codeCmd = &cobra.Command{
	Use:   "code [file]",
	Short: "List code blocks in a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCode,
}

var htmlCmd = &cobra.Command{
	Use:   "html [file]",
	Short: "Convert a document to HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runHTML,
}

var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Convert a document to plain text",
	Args:  cobra.ExactArgs(1),
	RunE:  runText,
}

var breadcrumbCmd = &cobra.Command{
	Use:   "breadcrumb [file] [section-id]",
	Short: "Print the title trail leading to a section",
	Args:  cobra.ExactArgs(2),
	RunE:  runBreadcrumb,
}

var renderCmd = &cobra.Command{
	Use:   "render [records.json]",
	Short: "Render element records back to Markdown",
	Long:  `Reads a JSON array of element records and writes the reconstructed Markdown to stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var (
	codeLanguage        string
	breadcrumbSeparator string
)

func init() {
	codeCmd.Flags().StringVarP(&codeLanguage, "language", "l", "", "Keep only blocks in this language")
	breadcrumbCmd.Flags().StringVar(&breadcrumbSeparator, "separator", " > ", "Trail separator")

	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(codeCmd)
	rootCmd.AddCommand(htmlCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(breadcrumbCmd)
	rootCmd.AddCommand(renderCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, extract.Links(source))
}

func runImages(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, extract.Images(source))
}

func runCode(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, extract.CodeBlocks(source, codeLanguage))
}

func runHTML(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	html, err := extract.ToHTML(source)
	if err != nil {
		return fmt.Errorf("converting %s: %w", args[0], err)
	}
	cmd.Print(html)
	return nil
}

func runText(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	text, err := extract.ToText(source)
	if err != nil {
		return fmt.Errorf("converting %s: %w", args[0], err)
	}
	cmd.Println(text)
	return nil
}

func runBreadcrumb(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	trail := extract.Breadcrumb(source, args[1], breadcrumbSeparator)
	if trail == "" {
		return fmt.Errorf("section %q not found", args[1])
	}
	cmd.Println(trail)
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var elements []element.Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}
	cmd.Print(render.Elements(elements))
	return nil
}
