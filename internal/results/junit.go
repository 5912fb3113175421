package results

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
)

// AggregateResult is the testsuites document. One testsuite is written per
// fanned-out run, each holding a single testcase.
type AggregateResult struct {
	XMLName  xml.Name      `xml:"testsuites"`
	Name     string        `xml:"name,attr,omitempty"`
	Tests    int           `xml:"tests,attr"`
	Errors   int           `xml:"errors,attr"`
	Failures int           `xml:"failures,attr"`
	Suites   []SuiteResult `xml:"testsuite"`
}

// SuiteResult is the outcome of one simulation run.
type SuiteResult struct {
	Name      string       `xml:"name,attr"`
	Tests     int          `xml:"tests,attr"`
	Errors    int          `xml:"errors,attr"`
	Failures  int          `xml:"failures,attr"`
	TestCases []CaseResult `xml:"testcase"`
}

// CaseResult is a single testcase. At most one of Error and Failure is set.
type CaseResult struct {
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr,omitempty"`
	Error     *Message `xml:"error,omitempty"`
	Failure   *Message `xml:"failure,omitempty"`
	SystemOut string   `xml:"system-out,omitempty"`
	SystemErr string   `xml:"system-err,omitempty"`
}

// Message is the body of an error or failure element.
type Message struct {
	Message string `xml:"message,attr,omitempty"`
	Text    string `xml:",chardata"`
}

// Passed reports whether the suite finished without errors or failures.
func (s SuiteResult) Passed() bool {
	return s.Errors == 0 && s.Failures == 0
}

// AggregationFailure means the aggregate artifact is missing, unreadable or
// malformed. The exit gate treats it as a failed build.
type AggregationFailure struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *AggregationFailure) Error() string {
	return fmt.Sprintf("aggregate result %s is unusable: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AggregationFailure) Unwrap() error { return e.Err }

// GateFailure means the aggregate reports at least one error or failure.
type GateFailure struct {
	Path     string
	Errors   int
	Failures int
}

// Error implements the error interface.
func (e *GateFailure) Error() string {
	return fmt.Sprintf("%s reports %d errors and %d failures", e.Path, e.Errors, e.Failures)
}

// counters is the minimal view the gate needs. Attributes are read as
// strings so an absent counter can be told apart from a zero one.
type counters struct {
	XMLName  xml.Name `xml:"testsuites"`
	Errors   *string  `xml:"errors,attr"`
	Failures *string  `xml:"failures,attr"`
}

// Load reads and decodes an aggregate artifact. Every problem is reported as
// an *AggregationFailure.
func Load(path string) (*AggregateResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &AggregationFailure{Path: path, Err: errors.New("artifact does not exist")}
		}
		return nil, &AggregationFailure{Path: path, Err: err}
	}

	var c counters
	if err := xml.Unmarshal(data, &c); err != nil {
		return nil, &AggregationFailure{Path: path, Err: fmt.Errorf("malformed document: %w", err)}
	}
	errCount, err := parseCounter("errors", c.Errors)
	if err != nil {
		return nil, &AggregationFailure{Path: path, Err: err}
	}
	failCount, err := parseCounter("failures", c.Failures)
	if err != nil {
		return nil, &AggregationFailure{Path: path, Err: err}
	}

	var agg AggregateResult
	if err := xml.Unmarshal(data, &agg); err != nil {
		return nil, &AggregationFailure{Path: path, Err: fmt.Errorf("malformed document: %w", err)}
	}
	agg.Errors, agg.Failures = errCount, failCount
	return &agg, nil
}

func parseCounter(name string, raw *string) (int, error) {
	if raw == nil {
		return 0, fmt.Errorf("testsuites has no %s counter", name)
	}
	n, err := strconv.Atoi(*raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("testsuites %s counter %q is not a count", name, *raw)
	}
	return n, nil
}

// Evaluate is the exit gate. It succeeds only for a present, well-formed
// artifact whose errors and failures counters are both exactly zero.
func Evaluate(path string) (*AggregateResult, error) {
	agg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if agg.Errors != 0 || agg.Failures != 0 {
		return agg, &GateFailure{Path: path, Errors: agg.Errors, Failures: agg.Failures}
	}
	return agg, nil
}
