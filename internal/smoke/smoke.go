// Package smoke runs end-to-end checks against the hosted backend and
// reports PASS, FAIL or SKIP per check.
package smoke

import (
	"fmt"
	"io"
	"text/tabwriter"
)

type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
	Skip Status = "SKIP"
)

type Result struct {
	Name   string
	Status Status
	Detail string
}

type Report struct {
	Results []Result
}

func (r *Report) add(status Status, name, format string, args ...any) {
	r.Results = append(r.Results, Result{Name: name, Status: status, Detail: fmt.Sprintf(format, args...)})
}

func (r *Report) pass(name, format string, args ...any) { r.add(Pass, name, format, args...) }
func (r *Report) fail(name, format string, args ...any) { r.add(Fail, name, format, args...) }
func (r *Report) skip(name, format string, args ...any) { r.add(Skip, name, format, args...) }

// Failed reports whether any check failed. Skips do not count.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Print writes one aligned line per check and a summary.
func (r *Report) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, res := range r.Results {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", res.Status, res.Name, res.Detail); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d passed, %d failed, %d skipped\n", r.Count(Pass), r.Count(Fail), r.Count(Skip))
	return err
}
