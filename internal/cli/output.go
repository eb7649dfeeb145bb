package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/katalvlaran/cbsplan/cbs"
	"github.com/katalvlaran/cbsplan/gridworld"
)

// Exit codes.
const (
	ExitSuccess      = 0 // solved, or the scenario is valid
	ExitFailure      = 1 // no solution, budget exhausted or cancelled
	ExitCommandError = 2 // unreadable input, invalid scenario or configuration
)

// ExitError carries a process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the code of the first ExitError in err's chain,
// ExitSuccess for nil and ExitFailure otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Report is the outcome of one solve run.
type Report struct {
	Scenario string        `json:"scenario"`
	Result   string        `json:"result"` // solved | no_solution | budget_exhausted | cancelled
	Cost     float64       `json:"cost,omitempty"`
	Stats    StatsReport   `json:"stats"`
	Agents   []AgentReport `json:"agents,omitempty"`
}

// StatsReport is cbs.Stats with stable JSON names.
type StatsReport struct {
	Expansions     int `json:"expansions"`
	Branches       int `json:"branches"`
	Bypasses       int `json:"bypasses"`
	BypassRejected int `json:"bypass_rejected"`
	Pruned         int `json:"pruned"`
	OracleCalls    int `json:"oracle_calls"`
	Nodes          int `json:"nodes"`
	MaxDepth       int `json:"max_depth"`
}

// AgentReport is one agent's trajectory; Path entries are [x, y, t].
type AgentReport struct {
	Name string   `json:"name"`
	Cost float64  `json:"cost"`
	Path [][3]int `json:"path"`

	states []gridworld.State
}

func newStatsReport(s cbs.Stats) StatsReport {
	return StatsReport{
		Expansions:     s.Expansions,
		Branches:       s.Branches,
		Bypasses:       s.Bypasses,
		BypassRejected: s.BypassRejected,
		Pruned:         s.Pruned,
		OracleCalls:    s.OracleCalls,
		Nodes:          s.Nodes,
		MaxDepth:       s.MaxDepth,
	}
}

func newAgentReport(name string, t cbs.Trajectory[gridworld.State]) AgentReport {
	a := AgentReport{Name: name, Cost: t.Cost, Path: make([][3]int, len(t.States)), states: t.States}
	for i, s := range t.States {
		a.Path[i] = [3]int{s.X, s.Y, s.T}
	}
	return a
}

// Formatter writes results in the selected format.
type Formatter struct {
	Format string
	Writer io.Writer
}

// Response wraps every JSON document.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError describes a failed command in JSON output.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Report writes r. status is "ok" for solved runs.
func (f *Formatter) Report(r Report) error {
	if f.Format == "json" {
		status := "ok"
		if r.Result != "solved" {
			status = "error"
		}
		return json.NewEncoder(f.Writer).Encode(Response{Status: status, Data: r})
	}

	fmt.Fprintf(f.Writer, "scenario: %s\n", r.Scenario)
	fmt.Fprintf(f.Writer, "result: %s\n", r.Result)
	if r.Result == "solved" {
		fmt.Fprintf(f.Writer, "cost: %s\n", number(r.Cost))
	}
	s := r.Stats
	fmt.Fprintf(f.Writer, "stats: expansions=%d branches=%d bypasses=%d pruned=%d nodes=%d max_depth=%d\n",
		s.Expansions, s.Branches, s.Bypasses, s.Pruned, s.Nodes, s.MaxDepth)
	for _, a := range r.Agents {
		fmt.Fprintf(f.Writer, "agent %s cost=%s:", a.Name, number(a.Cost))
		for _, st := range a.states {
			fmt.Fprintf(f.Writer, " %v", st)
		}
		fmt.Fprintln(f.Writer)
	}
	return nil
}

// Message writes a one-line success message.
func (f *Formatter) Message(msg string, data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, msg)
	return err
}

// Error writes err; its exit code is reported in JSON output.
func (f *Formatter) Error(err error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error:  &ResponseError{Code: GetExitCode(err), Message: err.Error()},
		})
	}
	_, werr := fmt.Fprintf(f.Writer, "error: %v\n", err)
	return werr
}

// number prints v with at most six decimals and no trailing zeros.
func number(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
