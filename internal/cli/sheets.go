package cli

import (
	"context"
	"fmt"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/yildizm/SheetView/internal/emoji"
	"github.com/yildizm/SheetView/internal/loader"
	"github.com/yildizm/go-termfmt"
)

// SheetsOutput is the JSON form of the sheets command
type SheetsOutput struct {
	File     string   `json:"file"`
	Format   string   `json:"format"`
	Sheets   []string `json:"sheets"`
	Selected string   `json:"selected"`
}

func newSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file>",
		Short: "List the worksheets of a workbook",
		Long: `List every worksheet in a workbook in declaration order.

The viewer always shows the first declared worksheet, which is marked.

Examples:
  sheetview sheets report.xlsx
  sheetview sheets -o json legacy.xls`,
		Args: cobra.ExactArgs(1),
		RunE: runSheets,
	}
}

func runSheets(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := validateInputPath(path); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	cfg := GetGlobalConfig()
	ctx := context.Background()
	if cfg.Loader.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Loader.Timeout)
		defer cancel()
	}

	data, err := loader.ReadFile(ctx, filepath.Clean(path), cfg.Loader.MaxFileSize)
	if err != nil {
		return err
	}
	names, err := loader.SheetNames(data)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	result := SheetsOutput{
		File:   path,
		Format: string(loader.Detect(data)),
		Sheets: names,
	}
	if len(names) > 0 {
		result.Selected = names[0]
	}

	if getOutputFormat() == "json" {
		encoded, err := jsoniter.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sheets: %w", err)
		}
		_, err = fmt.Fprintln(out, string(encoded))
		return err
	}

	_, err = fmt.Fprint(out, formatSheetList(result))
	return err
}

// formatSheetList renders the sheet names as a tree
func formatSheetList(result SheetsOutput) string {
	opts := termfmt.DefaultOptions()
	opts.Color = colorEnabled()
	opts.Emoji = !emoji.IsEmojiDisabled()

	items := make([]termfmt.TreeItem, 0, len(result.Sheets))
	for i, name := range result.Sheets {
		value := ""
		if i == 0 {
			value = emoji.GetEmoji("selected") + " shown"
		}
		items = append(items, termfmt.TreeItem{
			Label: name,
			Value: value,
			Last:  i == len(result.Sheets)-1,
		})
	}

	header := fmt.Sprintf("%s %s (%s, %d sheets)\n", emoji.GetEmoji("workbook"),
		filepath.Base(result.File), result.Format, len(result.Sheets))
	return header + termfmt.TreeViewWithOptions(items, opts) + "\n"
}
