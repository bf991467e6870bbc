// Package metrics counts what crawls do: searches, researched profiles,
// extracted employees and finished runs.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "linkedin-leads"

// Recorder wraps the counters. A nil *Recorder records nothing.
type Recorder struct {
	searches  metric.Int64Counter
	profiles  metric.Int64Counter
	employees metric.Int64Counter
	runs      metric.Int64Counter
	saved     metric.Int64Counter
}

// New creates the counters on mp, or on the global provider when mp is nil.
func New(mp metric.MeterProvider) (*Recorder, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	var (
		r   Recorder
		err error
	)
	if r.searches, err = meter.Int64Counter("linkedin_leads.searches",
		metric.WithDescription("Search pipeline calls by outcome"),
		metric.WithUnit("{search}")); err != nil {
		return nil, fmt.Errorf("metrics: searches counter: %w", err)
	}
	if r.profiles, err = meter.Int64Counter("linkedin_leads.profiles",
		metric.WithDescription("Company profiles researched by status"),
		metric.WithUnit("{profile}")); err != nil {
		return nil, fmt.Errorf("metrics: profiles counter: %w", err)
	}
	if r.employees, err = meter.Int64Counter("linkedin_leads.employees",
		metric.WithDescription("Employees extracted with a matching job title"),
		metric.WithUnit("{employee}")); err != nil {
		return nil, fmt.Errorf("metrics: employees counter: %w", err)
	}
	if r.runs, err = meter.Int64Counter("linkedin_leads.runs",
		metric.WithDescription("Finished runs by status"),
		metric.WithUnit("{run}")); err != nil {
		return nil, fmt.Errorf("metrics: runs counter: %w", err)
	}
	if r.saved, err = meter.Int64Counter("linkedin_leads.leads_saved",
		metric.WithDescription("Leads appended to the Google Sheets log"),
		metric.WithUnit("{lead}")); err != nil {
		return nil, fmt.Errorf("metrics: saved counter: %w", err)
	}
	return &r, nil
}

// Search records one search pipeline call. outcome is "links", a reason
// slug such as "no_results", or "error".
func (r *Recorder) Search(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.searches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Profile records one researched company profile.
func (r *Recorder) Profile(ctx context.Context, status string) {
	if r == nil {
		return
	}
	r.profiles.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (r *Recorder) Employees(ctx context.Context, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.employees.Add(ctx, int64(n))
}

func (r *Recorder) Run(ctx context.Context, ok bool) {
	if r == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	r.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (r *Recorder) Saved(ctx context.Context) {
	if r == nil {
		return
	}
	r.saved.Add(ctx, 1)
}
