package output

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"bioc-extractor/internal/dispatcher"
)

// WriteReport prints the per-file outcome of a run, failures with their cause.
func WriteReport(w io.Writer, report *dispatcher.Report) error {
	bw := bufio.NewWriter(w)
	for _, result := range report.Results {
		switch result.Status {
		case dispatcher.StatusOK:
			fmt.Fprintf(bw, "ok      %s (%d articles, %s)\n", result.File, result.Articles, result.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(bw, "FAILED  %s: %s\n", result.File, result.Error)
		}
	}
	fmt.Fprintf(bw, "%d processed, %d succeeded, %d failed in %s\n",
		len(report.Results), report.Succeeded, report.Failed, report.Elapsed.Round(time.Millisecond))
	return bw.Flush()
}
