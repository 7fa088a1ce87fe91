package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"csub/internal/selection"
)

// promptForTracks lists the items and reads one line of stream indexes.
func promptForTracks(in io.Reader, out io.Writer, items []selection.Item) ([]int, error) {
	fmt.Fprintln(out, "Subtitle tracks:")
	for _, item := range items {
		fmt.Fprintf(out, "  %s\n", item.Label)
	}
	fmt.Fprint(out, "Tracks to extract (e.g. 2,3 or 'all'): ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read selection: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, errors.New("no tracks selected")
	}
	if strings.EqualFold(line, "all") {
		indexes := make([]int, 0, len(items))
		for _, item := range items {
			indexes = append(indexes, item.Index)
		}
		return indexes, nil
	}
	return selection.ParseChoice(line)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
