package cmd

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// countPrinter renders row counts with thousands separators.
var countPrinter = message.NewPrinter(language.English)

func formatCount(n int64) string {
	return countPrinter.Sprintf("%d", n)
}

// formatBytes formats a file size in human-readable form
func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
