package results

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Summary prints one line per run and a totals line.
func Summary(w io.Writer, agg *AggregateResult) error {
	for _, s := range agg.Suites {
		var status, detail string
		switch {
		case s.Errors > 0:
			status = color.Danger.Sprint("ERROR")
			detail = caseDetail(s, func(c CaseResult) *Message { return c.Error })
		case s.Failures > 0:
			status = color.Warn.Sprint("FAIL ")
			detail = caseDetail(s, func(c CaseResult) *Message { return c.Failure })
		default:
			status = color.Success.Sprint("PASS ")
		}

		line := fmt.Sprintf("  %s %s", status, s.Name)
		if detail != "" {
			line += "  " + color.Gray.Sprint(detail)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	totals := fmt.Sprintf("%d runs, %d errors, %d failures", agg.Tests, agg.Errors, agg.Failures)
	if agg.Errors == 0 && agg.Failures == 0 {
		totals = color.Success.Sprint(totals)
	} else {
		totals = color.Danger.Sprint(totals)
	}
	_, err := fmt.Fprintln(w, totals)
	return err
}

func caseDetail(s SuiteResult, pick func(CaseResult) *Message) string {
	for _, c := range s.TestCases {
		if m := pick(c); m != nil {
			if m.Text != "" {
				return m.Text
			}
			return m.Message
		}
	}
	return ""
}
