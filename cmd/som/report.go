package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/drakos74/det-som/internal/eval"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Report prints the summary of the run, the label grid and the convergence plot.
func Report(w io.Writer, result Result) {
	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"run", "strategy", "converged", "iterations", "budget", "qe", "te", "empty", "elapsed"})
	summary.Append([]string{
		result.Run,
		string(result.Status.Strategy),
		strconv.FormatBool(result.Status.Converged),
		strconv.Itoa(result.Status.Iterations),
		strconv.Itoa(result.Status.Budget),
		f(result.Quality.Quantization),
		f(result.Quality.Topographic),
		strconv.Itoa(result.Quality.Empty),
		result.Elapsed.String(),
	})
	if result.HasBase {
		summary.SetCaption(true, fmt.Sprintf("k-means baseline qe %s", f(result.Baseline)))
	}
	summary.Render()

	if result.Map != nil {
		grid := tablewriter.NewWriter(w)
		header := make([]string, result.Map.Cols())
		for j := range header {
			header[j] = strconv.Itoa(j)
		}
		grid.SetHeader(header)
		for _, row := range eval.Labels(result.Map) {
			line := make([]string, len(row))
			for j, counts := range row {
				label, ok := eval.Majority(counts)
				if !ok {
					continue
				}
				total := 0
				for _, n := range counts {
					total += n
				}
				line[j] = fmt.Sprintf("%s (%d/%d)", label, counts[label], total)
			}
			grid.Append(line)
		}
		grid.Render()
	}

	if len(result.Status.Changes) > 1 {
		changes := make([]float64, len(result.Status.Changes))
		for i, c := range result.Status.Changes {
			changes[i] = float64(c)
		}
		fmt.Fprintln(w, asciigraph.Plot(changes, asciigraph.Height(10), asciigraph.Caption("assignment changes per iteration")))
	}

	fmt.Fprintf(w, "weights: %s\n", result.Weights)
	if result.Snapshot != nil {
		fmt.Fprintf(w, "snapshot: %s\n", result.Snapshot.Path())
	}
	fmt.Fprintf(w, "Elapsed time = %s\n", result.Elapsed)
}
