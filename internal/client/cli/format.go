package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// humanBytes renders n with a binary unit, e.g. 1536 -> "1.5 KB".
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func printFiles(w io.Writer, files []models.FileRecord) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files uploaded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tSIZE\tUPLOADED BY")
	for i, f := range files {
		size := "-"
		if f.FileSize != nil {
			size = humanBytes(*f.FileSize)
		}
		by := f.Uploader()
		if by == "" {
			by = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, f.ID, f.FileName, size, by)
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, s models.Stats) {
	fmt.Fprintf(w, "Files: %d  Total size: %s\n", s.Count, humanBytes(s.TotalBytes))
}
