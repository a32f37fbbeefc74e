package events

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/robotalks/doorlock/pkg/framework"
)

// Reporter delivers events to a sink.
type Reporter interface {
	Report(context.Context, *Event) error
}

// ReportFunc is the func form of Reporter.
type ReportFunc func(context.Context, *Event) error

// Report implements Reporter.
func (f ReportFunc) Report(ctx context.Context, ev *Event) error {
	return f(ctx, ev)
}

// Mux reports to multiple Reporters.
type Mux struct {
	Reporters []Reporter
}

// Add adds more reporters.
func (m *Mux) Add(reporters ...Reporter) *Mux {
	m.Reporters = append(m.Reporters, reporters...)
	return m
}

// Report implements Reporter.
func (m *Mux) Report(ctx context.Context, ev *Event) error {
	var errs fx.AggregatedError
	for _, r := range m.Reporters {
		errs.Add(r.Report(ctx, ev))
	}
	return errs.Aggregate()
}

// Log reports events to the log at verbosity V.
type Log struct {
	V glog.Level
}

// Report implements Reporter.
func (l *Log) Report(ctx context.Context, ev *Event) error {
	if glog.V(l.V) {
		glog.Infof("event %s %s", ev.Kind, ev.String())
	}
	return nil
}

// Discard drops all events.
var Discard Reporter = ReportFunc(func(context.Context, *Event) error { return nil })
