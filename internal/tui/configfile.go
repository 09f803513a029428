package tui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ApplyConfig runs every command line of the file at path through the
// interpreter. Blank lines and lines starting with '#' are skipped. It
// returns one "path:line: message" entry per failed command.
func (c *Controller) ApplyConfig(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("error: could not open config file '%s'", path)}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()

	var problems []string
	scanner := bufio.NewScanner(f)
	num := 0
	for scanner.Scan() {
		num++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if out := c.Command(line); out != nil && !out.OK {
			problems = append(problems, fmt.Sprintf("%s:%d: %s", path, num, out.Message))
		}
	}
	if err := scanner.Err(); err != nil {
		problems = append(problems, fmt.Sprintf("error: failed to read config file '%s': %v", path, err))
	}
	return problems
}
