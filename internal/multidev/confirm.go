package multidev

// ABOUTME: Context-aware y/N confirmation gate in front of batch deletion.

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirm writes prompt to output and reads a single y/N answer from input.
// Only "y" or "yes" (case-insensitive) confirms; an empty line or EOF counts
// as a decline. Returns an error if ctx is cancelled before an answer
// arrives (e.g. Ctrl+C). The reading goroutine may outlive the call on
// cancellation, which is acceptable for a CLI that is about to exit.
func Confirm(ctx context.Context, prompt string, input io.Reader, output io.Writer) (bool, error) {
	fmt.Fprint(output, prompt) //nolint:errcheck // best-effort output

	ch := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(input)
		if scanner.Scan() {
			ch <- scanner.Text()
		} else {
			ch <- ""
		}
	}()

	var line string
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line = <-ch:
	}

	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes", nil
}
