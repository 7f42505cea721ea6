package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/search"
	"github.com/urfave/cli/v3"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 1, 0)

	hitStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1).
			Margin(0, 0, 1, 2)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Margin(1, 0, 0, 0)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search a species' annotation databases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "species",
				Usage:    "Species to search",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "query",
				Usage:    "Search terms, append * for prefix matching",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "index",
				Usage: "Search a single index instead of all of them",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Fetch budget override (0 uses the configured budget)",
			},
			&cli.BoolFlag{
				Name:  "no-pager",
				Usage: "Disable pager and output directly to terminal",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			setupLogging(c)
			req := search.Request{
				Species: c.String("species"),
				Index:   c.String("index"),
				Query:   c.String("query"),
				Budget:  c.Int("limit"),
			}
			return runSearch(ctx, c.String("config"), req, c.Bool("no-pager"))
		},
	}
}

func runSearch(ctx context.Context, configPath string, req search.Request, noPager bool) error {
	_, provider, service, err := openSearchService(configPath)
	if err != nil {
		return err
	}
	defer closeProvider(provider)

	set, err := service.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	output := formatResultSet(set)

	if noPager || !isTerminal() {
		fmt.Print(output)
		return nil
	}
	return displayWithPager(output)
}

// formatResultSet creates the formatted output for one search
func formatResultSet(set *core.ResultSet) string {
	var output strings.Builder

	title := fmt.Sprintf("🔍 %s @ %s", set.Query, set.Species)
	output.WriteString(titleStyle.Render(title))
	output.WriteString("\n")

	if set.Empty() {
		output.WriteString(noDataStyle.Render("Nothing to search for."))
		output.WriteString("\n")
		return output.String()
	}

	if set.TotalMatched() == 0 {
		output.WriteString(noDataStyle.Render("No results found."))
		output.WriteString("\n")
		return output.String()
	}

	summary := fmt.Sprintf("📊 Summary: %d matches, %d shown", set.TotalMatched(), set.TotalFetched())
	output.WriteString(summaryStyle.Render(summary))
	output.WriteString("\n")

	for _, name := range set.Sources() {
		hits, _ := set.Hits(name)
		if hits.Matched == 0 {
			continue
		}

		header := fmt.Sprintf("🧬 %s (%d of %d matches shown)", name, len(hits.Results), hits.Matched)
		output.WriteString(headerStyle.Render(header))
		output.WriteString("\n")

		for i, result := range hits.Results {
			output.WriteString(formatResult(result, i+1))
			output.WriteString("\n")
		}
	}

	return output.String()
}

// formatResult formats a single result for display
func formatResult(result core.Result, index int) string {
	var content strings.Builder

	header := fmt.Sprintf("#%d %s", index, result.ID)
	if result.Subtype != "" {
		header = fmt.Sprintf("%s (%s)", header, result.Subtype)
	}
	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Render(header))
	content.WriteString("\n\n")

	content.WriteString(result.Description)

	if result.URL != "" {
		urlText := fmt.Sprintf("🔗 %s", result.URL)
		content.WriteString("\n" + urlStyle.Render(urlText))
	}
	if result.Extra != nil {
		extraText := fmt.Sprintf("🔗 %s: %s", result.Extra.Label, result.Extra.URL)
		content.WriteString("\n" + urlStyle.Render(extraText))
	}

	metaInfo := fmt.Sprintf("Index: %s | Species: %s", result.Index, result.Species)
	content.WriteString("\n\n")
	content.WriteString(metaStyle.Render(metaInfo))

	return hitStyle.Render(content.String())
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// displayWithPager displays content using a pager
func displayWithPager(content string) error {
	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		// Try common pagers in order of preference
		pagers := []string{"less", "more", "cat"}
		for _, pager := range pagers {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}

	if pagerCmd == "" {
		// No pager found, output directly
		fmt.Print(content)
		return nil
	}

	// Set up less with good defaults if it's available
	args := []string{}
	if strings.Contains(pagerCmd, "less") {
		args = []string{"-R", "-S", "-F", "-X"}
	}

	cmd := exec.Command(pagerCmd, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
