package otel

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/MrEthical07/goConsole/access"
	"github.com/MrEthical07/goConsole/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// Instrument names.
const (
	SessionLoadsName    = "goconsole.session.loads"
	RoleRejectedName    = "goconsole.session.role_rejected"
	LoginsName          = "goconsole.logins"
	LogoutsName         = "goconsole.logouts"
	StorageFailuresName = "goconsole.session.storage_failures"
	AccessDeniedName    = "goconsole.access.denied"
	AuditDroppedName    = "goconsole.audit.dropped"
	LoadBucketName      = "goconsole.session.load.duration.bucket"
	LoadCountName       = "goconsole.session.load.duration.count"
	StateName           = "goconsole.session.state"
)

// Attribute keys.
const (
	OutcomeKey = attribute.Key("outcome")
	ResultKey  = attribute.Key("result")
	OpKey      = attribute.Key("op")
	LeKey      = attribute.Key("le")
	StateKey   = attribute.Key("state")
)

type metricsSource interface {
	MetricsSnapshot() goConsole.MetricsSnapshot
	AuditDropped() uint64
}

// viewSource is implemented by *goConsole.Console; other sources get no state gauge.
type viewSource interface {
	View() access.View
}

type series struct {
	id   goConsole.MetricID
	opts []metric.ObserveOption
}

type counterGroup struct {
	name   string
	desc   string
	series []series
}

func labelled(id goConsole.MetricID, kv attribute.KeyValue) series {
	return series{id: id, opts: []metric.ObserveOption{metric.WithAttributes(kv)}}
}

func plain(id goConsole.MetricID) series {
	return series{id: id}
}

func counterGroups() []counterGroup {
	return []counterGroup{
		{
			name: SessionLoadsName,
			desc: "Startup session loads by outcome.",
			series: []series{
				labelled(goConsole.MetricSessionPresent, OutcomeKey.String("present")),
				labelled(goConsole.MetricSessionAbsent, OutcomeKey.String("absent")),
				labelled(goConsole.MetricSessionMalformed, OutcomeKey.String("malformed")),
				labelled(goConsole.MetricSessionUnavailable, OutcomeKey.String("unavailable")),
			},
		},
		{
			name:   RoleRejectedName,
			desc:   "Sessions dropped for an unrecognized role, at load or login.",
			series: []series{plain(goConsole.MetricRoleRejected)},
		},
		{
			name: LoginsName,
			desc: "Login attempts by result.",
			series: []series{
				labelled(goConsole.MetricLoginSuccess, ResultKey.String("success")),
				labelled(goConsole.MetricLoginFailure, ResultKey.String("failure")),
			},
		},
		{
			name:   LogoutsName,
			desc:   "Logouts.",
			series: []series{plain(goConsole.MetricLogout)},
		},
		{
			name: StorageFailuresName,
			desc: "Session writes that did not reach storage, by operation.",
			series: []series{
				labelled(goConsole.MetricSessionSaveFailure, OpKey.String("save")),
				labelled(goConsole.MetricSessionClearFailure, OpKey.String("clear")),
			},
		},
		{
			name:   AccessDeniedName,
			desc:   "Navigation attempts to routes outside the current view.",
			series: []series{plain(goConsole.MetricAccessDenied)},
		},
	}
}

var observedStates = []access.State{
	access.StateInitializing,
	access.StateUnauthenticated,
	access.StateAuthenticatedAsAdmin,
	access.StateAuthenticatedAsSuperAdmin,
}

type observedGroup struct {
	group      counterGroup
	instrument metric.Int64ObservableCounter
}

// OTelExporter keeps the callback registration alive until Close.
type OTelExporter struct {
	source       metricsSource
	views        viewSource
	registration metric.Registration

	groups       []observedGroup
	auditDropped metric.Int64ObservableCounter
	loadBuckets  metric.Int64ObservableGauge
	loadCount    metric.Int64ObservableGauge
	bucketOpts   [8]metric.ObserveOption
	state        metric.Int64ObservableGauge
}

// NewOTelExporter observes c on every collection of meter's provider, including its
// current lifecycle state.
func NewOTelExporter(meter metric.Meter, c *goConsole.Console) (*OTelExporter, error) {
	if c == nil {
		return nil, ErrNilSource
	}
	return NewOTelExporterFromSource(meter, c)
}

// NewOTelExporterFromSource observes any snapshot source. The state gauge is only
// registered when source also reports its view.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{source: source}
	e.views, _ = source.(viewSource)

	var observables []metric.Observable

	for _, g := range counterGroups() {
		ins, err := meter.Int64ObservableCounter(g.name, metric.WithDescription(g.desc))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", g.name, err)
		}
		e.groups = append(e.groups, observedGroup{group: g, instrument: ins})
		observables = append(observables, ins)
	}

	var err error
	e.auditDropped, err = meter.Int64ObservableCounter(AuditDroppedName,
		metric.WithDescription("Audit events dropped by dispatcher backpressure."))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", AuditDroppedName, err)
	}
	observables = append(observables, e.auditDropped)

	e.loadBuckets, err = meter.Int64ObservableGauge(LoadBucketName,
		metric.WithDescription("Cumulative startup loads at or under each latency bound."),
		metric.WithUnit("{load}"))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s: %w", LoadBucketName, err)
	}
	e.loadCount, err = meter.Int64ObservableGauge(LoadCountName,
		metric.WithDescription("Startup loads with a recorded latency."),
		metric.WithUnit("{load}"))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s: %w", LoadCountName, err)
	}
	observables = append(observables, e.loadBuckets, e.loadCount)

	for i, bound := range internaldefs.HistogramBounds {
		e.bucketOpts[i] = metric.WithAttributes(LeKey.String(strconv.FormatFloat(bound, 'g', -1, 64)))
	}
	e.bucketOpts[len(e.bucketOpts)-1] = metric.WithAttributes(LeKey.String("+Inf"))

	if e.views != nil {
		e.state, err = meter.Int64ObservableGauge(StateName,
			metric.WithDescription("1 for the console's current lifecycle state, 0 otherwise."))
		if err != nil {
			return nil, fmt.Errorf("create gauge %s: %w", StateName, err)
		}
		observables = append(observables, e.state)
	}

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()

	for _, g := range e.groups {
		for _, s := range g.group.series {
			v, ok := snapshot.Counters[s.id]
			if !ok {
				continue
			}
			o.ObserveInt64(g.instrument, int64(v), s.opts...)
		}
	}

	if raw, ok := snapshot.Histograms[goConsole.MetricLoadLatency]; ok {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, v := range cumulative {
			o.ObserveInt64(e.loadBuckets, int64(v), e.bucketOpts[i])
		}
		o.ObserveInt64(e.loadCount, int64(cumulative[len(cumulative)-1]))
	}

	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))

	if e.views != nil {
		current := e.views.View().State
		for _, st := range observedStates {
			var v int64
			if st == current {
				v = 1
			}
			o.ObserveInt64(e.state, v, metric.WithAttributes(StateKey.String(st.String())))
		}
	}
	return nil
}

// Close unregisters the callback. The instruments stay with the meter.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
