package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/foxzi/lexdraft/internal/drafting"
	"github.com/foxzi/lexdraft/internal/pdftext"
)

var (
	formatCategory string
	formatTemplate string
	formatIn       string
	formatOut      string
	formatPreview  bool
	templatesFile  string
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format draft text into a Word document",
	Long: `Format reads plain draft text, classifies each line into header, date,
salutation, body or signature and writes a styled .docx using the template
selected for the category.`,
	RunE: runFormat,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List templates and the category mapping",
	RunE:  runTemplates,
}

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Print the text of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	sectionStyles = map[drafting.Section]lipgloss.Style{
		drafting.SectionHeader:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		drafting.SectionDate:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		drafting.SectionSalutation: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		drafting.SectionBody:       lipgloss.NewStyle(),
		drafting.SectionSignature:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
	labelStyle = lipgloss.NewStyle().Faint(true).Width(12)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func init() {
	formatCmd.Flags().StringVar(&formatCategory, "category", drafting.DefaultCategory, "document category used to pick the template")
	formatCmd.Flags().StringVar(&formatTemplate, "template", "", "template name (overrides --category)")
	formatCmd.Flags().StringVar(&formatIn, "in", "-", "input text file, - for stdin")
	formatCmd.Flags().StringVar(&formatOut, "out", "", "output .docx file")
	formatCmd.Flags().BoolVar(&formatPreview, "preview", false, "print each line with its section")

	rootCmd.PersistentFlags().StringVar(&templatesFile, "templates", "", "template overrides file")

	rootCmd.AddCommand(formatCmd, templatesCmd, extractCmd)
}

func loadRegistry() (*drafting.Registry, error) {
	if templatesFile == "" {
		return drafting.DefaultRegistry(), nil
	}
	reg, err := drafting.LoadRegistryFile(templatesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return reg, nil
}

func runFormat(cmd *cobra.Command, args []string) error {
	if formatOut == "" && !formatPreview {
		return fmt.Errorf("--out or --preview is required")
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	tmpl := reg.Resolve(formatCategory)
	if formatTemplate != "" {
		t, ok := reg.Lookup(formatTemplate)
		if !ok {
			return fmt.Errorf("unknown template %q (available: %s)", formatTemplate, strings.Join(reg.Names(), ", "))
		}
		tmpl = t
	}

	content, err := readInput(cmd.InOrStdin(), formatIn)
	if err != nil {
		return err
	}

	doc := drafting.Build(content, tmpl)

	if formatPreview {
		printPreview(cmd.OutOrStdout(), tmpl.Name, doc)
	}

	if formatOut != "" {
		if err := drafting.SaveDocx(formatOut, doc); err != nil {
			return fmt.Errorf("failed to write %s: %w", formatOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d paragraphs)\n", formatOut, tmpl.Name, len(doc.Paragraphs))
	}

	return nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func printPreview(w io.Writer, template string, doc *drafting.Document) {
	fmt.Fprintln(w, titleStyle.Render("Template: "+template))
	for _, p := range doc.Paragraphs {
		if p.Blank() {
			fmt.Fprintln(w)
			continue
		}
		style := sectionStyles[p.Section]
		fmt.Fprintln(w, labelStyle.Render(string(p.Section))+style.Render(p.Text()))
	}
}

func runTemplates(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Templates"))
	for _, name := range reg.Names() {
		fmt.Fprintf(out, "  %s\n", name)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render("Categories"))
	mapping := reg.Categories()
	categories := make([]string, 0, len(mapping))
	for c := range mapping {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(out, "  %s -> %s\n", c, mapping[c])
	}

	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	text, err := pdftext.Extract(data)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
