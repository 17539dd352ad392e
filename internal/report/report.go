// Package report fetches build-result artifacts and attributes each error
// line to the topic branch that introduced it via blame. Errors whose
// blamed commit is reachable from the baseline are shared code and never
// attributed.
package report

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotAvailable reports that the artifact could not be fetched. Reports
// are published asynchronously by the CI system, so this is a soft
// condition, not a failure.
var ErrNotAvailable = fmt.Errorf("report not available")

// ErrorRecord is one parsed error line from a report artifact.
type ErrorRecord struct {
	FilePath   string
	LineNumber int
	RawMessage string
}

// Fetch retrieves the artifact at url. Any transport error or non-200
// status maps to ErrNotAvailable.
func Fetch(client *http.Client, url string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %s", ErrNotAvailable, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrNotAvailable, err)
	}
	return string(body), nil
}

// locationRe matches a <path>:<line> token. The path must contain at least
// one non-colon character; trailing fields after the line number (column,
// severity) are tolerated by matching the token prefix.
var locationRe = regexp.MustCompile(`^([^:\s]+):([0-9]+)(?::|$)`)

// ParseRecords parses the line-oriented report format. Blank lines and '#'
// comment lines are skipped. The source location is the first whitespace
// token of the form <path>:<line>; lines carrying no such token are not
// error records and are skipped.
func ParseRecords(r io.Reader) ([]ErrorRecord, error) {
	var records []ErrorRecord

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, ok := parseLine(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func parseLine(line string) (ErrorRecord, bool) {
	for _, tok := range strings.Fields(line) {
		m := locationRe.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 {
			continue
		}
		return ErrorRecord{FilePath: m[1], LineNumber: n, RawMessage: line}, true
	}
	return ErrorRecord{}, false
}
