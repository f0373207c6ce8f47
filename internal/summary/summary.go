// Package summary asks a generative model for a natural-language digest of
// upcoming deadlines and tracks which request's answer is current.
package summary

import (
	"context"
	"time"

	"agendu/internal/tasks"
)

// EmptySummary is shown instead of calling the service when there is
// nothing pending.
const EmptySummary = "No upcoming deadlines. Great job!"

// FailureMessage is the inline error shown when the service fails.
const FailureMessage = "Could not generate summary. Please try again later."

type TaskSummary struct {
	Title    string `json:"title"`
	DueDate  string `json:"dueDate,omitempty"`
	Priority string `json:"priority"`
}

type Request struct {
	Tasks               []TaskSummary `json:"tasks"`
	IncludePlannedDates bool          `json:"includePlannedDates"`
}

type Response struct {
	Summary string `json:"summary"`
}

// Summarizer is the remote summary service.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (Response, error)
}

// BuildRequest lists the incomplete tasks in stored order. Tasks without a
// due date are sent with an empty dueDate.
func BuildRequest(list []tasks.Task, includePlanned bool) Request {
	req := Request{Tasks: []TaskSummary{}, IncludePlannedDates: includePlanned}
	for _, t := range list {
		if t.Completed {
			continue
		}
		ts := TaskSummary{Title: t.Title, Priority: string(t.Priority)}
		if t.DueDate != nil {
			ts.DueDate = t.DueDate.UTC().Format(time.RFC3339Nano)
		}
		req.Tasks = append(req.Tasks, ts)
	}
	return req
}

// Generate returns EmptySummary without calling s when req has no tasks.
func Generate(ctx context.Context, s Summarizer, req Request) (string, error) {
	if len(req.Tasks) == 0 {
		return EmptySummary, nil
	}
	resp, err := s.Summarize(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Summary, nil
}
