package results

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/hdlplan/internal/ctxlog"
)

// Simulator message prefixes that decide a run's outcome.
const (
	markerError   = "** Error"
	markerFatal   = "** Fatal"
	markerFailure = "** Failure"
)

// Collector folds per-suite captures into the aggregate artifact.
type Collector struct {
	// ResultsDir holds <name>.out, <name>.err and <name>.rc for every run.
	ResultsDir string
	// Output is the aggregate artifact to write.
	Output string
	// Name is written as the testsuites name attribute.
	Name string
}

// Collect builds the aggregate for the given run names, or for every run
// found in ResultsDir when names is empty, and writes it to Output.
//
// A run counts as an error when its output capture or exit status is
// missing, the exit status is not 0, its error capture is not empty or the
// output reports an error or fatal message. It counts as a failure when the
// output reports a failure message.
func (c *Collector) Collect(ctx context.Context, names []string) (*AggregateResult, error) {
	logger := ctxlog.FromContext(ctx)

	if len(names) == 0 {
		found, err := c.discover()
		if err != nil {
			return nil, err
		}
		names = found
	}
	logger.Debug("Collecting simulation results.", "results_dir", c.ResultsDir, "suites", len(names))

	agg := &AggregateResult{Name: c.Name}
	for _, name := range names {
		suite, err := c.collectSuite(name)
		if err != nil {
			return nil, err
		}
		if !suite.Passed() {
			logger.Warn("Simulation run did not pass.", "suite", name, "errors", suite.Errors, "failures", suite.Failures)
		}
		agg.Suites = append(agg.Suites, suite)
		agg.Tests += suite.Tests
		agg.Errors += suite.Errors
		agg.Failures += suite.Failures
	}

	if err := writeAggregate(c.Output, agg); err != nil {
		return nil, err
	}
	logger.Info("Aggregate result written.",
		"path", c.Output,
		"tests", agg.Tests,
		"errors", agg.Errors,
		"failures", agg.Failures,
	)
	return agg, nil
}

// discover lists the run names that have a capture or an exit status.
func (c *Collector) discover() ([]string, error) {
	entries, err := os.ReadDir(c.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".out" && ext != ".err" && ext != ".rc" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

func (c *Collector) collectSuite(name string) (SuiteResult, error) {
	tc := CaseResult{Name: name, ClassName: name}

	out, outErr := readCapture(filepath.Join(c.ResultsDir, name+".out"))
	if outErr != nil && !errors.Is(outErr, fs.ErrNotExist) {
		return SuiteResult{}, outErr
	}
	stderr, err := readCapture(filepath.Join(c.ResultsDir, name+".err"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return SuiteResult{}, err
	}
	status, statusErr := readCapture(filepath.Join(c.ResultsDir, name+".rc"))
	if statusErr != nil && !errors.Is(statusErr, fs.ErrNotExist) {
		return SuiteResult{}, statusErr
	}
	tc.SystemOut = string(out)
	tc.SystemErr = string(stderr)

	switch {
	case outErr != nil:
		tc.Error = &Message{Message: "no simulator output captured"}
	case statusErr != nil:
		tc.Error = &Message{Message: "no exit status recorded"}
	case firstLine(status) != "0":
		tc.Error = statusMessage(firstLine(status))
	case len(bytes.TrimSpace(stderr)) > 0:
		tc.Error = &Message{Message: "simulator wrote to standard error", Text: firstLine(stderr)}
	default:
		if line := findMarker(out, markerError, markerFatal); line != "" {
			tc.Error = &Message{Message: "simulator reported an error", Text: line}
		} else if line := findMarker(out, markerFailure); line != "" {
			tc.Failure = &Message{Message: "simulator reported a failure", Text: line}
		}
	}

	suite := SuiteResult{Name: name, Tests: 1, TestCases: []CaseResult{tc}}
	if tc.Error != nil {
		suite.Errors = 1
	}
	if tc.Failure != nil {
		suite.Failures = 1
	}
	return suite, nil
}

// statusMessage describes a non-zero exit status, or the error that kept
// the simulator from starting.
func statusMessage(status string) *Message {
	if _, err := strconv.Atoi(status); err == nil {
		return &Message{Message: "simulator exited with status " + status}
	}
	return &Message{Message: "simulator could not be started", Text: status}
}

func readCapture(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	return data, nil
}

// findMarker returns the first line containing one of markers.
func findMarker(data []byte, markers ...string) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		for _, m := range markers {
			if strings.Contains(line, m) {
				return strings.TrimSpace(line)
			}
		}
	}
	return ""
}

func firstLine(data []byte) string {
	line, _, _ := bytes.Cut(bytes.TrimSpace(data), []byte("\n"))
	return string(line)
}

// writeAggregate writes agg next to path and renames it into place, so a
// reader never sees a half written artifact.
func writeAggregate(path string, agg *AggregateResult) error {
	data, err := xml.MarshalIndent(agg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode aggregate result: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".aggregate-*")
	if err != nil {
		return fmt.Errorf("failed to write aggregate result: %w", err)
	}
	defer os.Remove(tmp.Name())

	err = tmp.Chmod(0o644)
	if err == nil {
		_, err = tmp.WriteString(xml.Header)
	}
	if err == nil {
		_, err = tmp.Write(append(data, '\n'))
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write aggregate result: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write aggregate result: %w", err)
	}
	return nil
}
