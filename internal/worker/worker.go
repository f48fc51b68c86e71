// Package worker runs diff computations off the caller's goroutine. Callers
// exchange one Request for exactly one Response.
package worker

import (
	"github.com/agenthands/jsonstudio/internal/core/diff"
	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

type Request struct {
	Seq       uint64 `json:"seq"`
	LeftJSON  string `json:"leftJson"`
	RightJSON string `json:"rightJson"`
}

// Response carries the full diff result with its pre-rendered change summary.
type Response struct {
	Seq           uint64       `json:"seq"`
	HasDiff       bool         `json:"hasDiff"`
	Delta         *model.Delta `json:"delta"`
	LeftParsed    value.Value  `json:"leftParsed"`
	RightParsed   value.Value  `json:"rightParsed"`
	Error         string       `json:"error,omitempty"`
	ChangeSummary []string     `json:"changeSummary"`
}

// Compute answers one request synchronously.
func Compute(engine *diff.Engine, req Request) Response {
	res := engine.ComputeDiff(req.LeftJSON, req.RightJSON)
	out := Response{
		Seq:         req.Seq,
		HasDiff:     res.HasDiff,
		Delta:       res.Delta,
		LeftParsed:  res.LeftParsed,
		RightParsed: res.RightParsed,
		Error:       res.Error,
	}
	if res.Error != "" {
		out.ChangeSummary = []string{}
		return out
	}
	out.ChangeSummary = diff.FormatDiffSummary(res.Delta)
	return out
}
