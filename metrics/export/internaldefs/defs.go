package internaldefs

import (
	goConsole "github.com/MrEthical07/goConsole"
)

type CounterDef struct {
	ID   goConsole.MetricID
	Name string
	Help string
}

type HistogramDef struct {
	ID   goConsole.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter for events lost to audit backpressure.
const AuditDroppedName = "goconsole_audit_dropped_total"

var CounterDefs = []CounterDef{
	{ID: goConsole.MetricSessionPresent, Name: "goconsole_session_present_total", Help: "Startup loads that found a well-formed session."},
	{ID: goConsole.MetricSessionAbsent, Name: "goconsole_session_absent_total", Help: "Startup loads that found no session."},
	{ID: goConsole.MetricSessionMalformed, Name: "goconsole_session_malformed_total", Help: "Startup loads that found a malformed session."},
	{ID: goConsole.MetricSessionUnavailable, Name: "goconsole_session_unavailable_total", Help: "Startup loads that could not reach session storage."},
	{ID: goConsole.MetricRoleRejected, Name: "goconsole_role_rejected_total", Help: "Sessions dropped for an unrecognized role."},
	{ID: goConsole.MetricLoginSuccess, Name: "goconsole_login_success_total", Help: "Successful logins."},
	{ID: goConsole.MetricLoginFailure, Name: "goconsole_login_failure_total", Help: "Failed logins."},
	{ID: goConsole.MetricLogout, Name: "goconsole_logout_total", Help: "Logouts."},
	{ID: goConsole.MetricSessionSaveFailure, Name: "goconsole_session_save_failure_total", Help: "Sessions that could not be persisted after login."},
	{ID: goConsole.MetricSessionClearFailure, Name: "goconsole_session_clear_failure_total", Help: "Logouts whose persisted session could not be removed."},
	{ID: goConsole.MetricAccessDenied, Name: "goconsole_access_denied_total", Help: "Navigation attempts to routes outside the view."},
}

var HistogramDefs = []HistogramDef{
	{ID: goConsole.MetricLoadLatency, Name: "goconsole_load_latency_seconds", Help: "Time from start to the first published view."},
}

// HistogramBounds are the upper bounds in seconds, mirroring goConsole.HistogramBounds.
// The last bucket is +Inf.
var HistogramBounds = func() []float64 {
	out := make([]float64, len(goConsole.HistogramBounds))
	for i, d := range goConsole.HistogramBounds {
		out[i] = d.Seconds()
	}
	return out
}()

// HistogramBoundSuffix names each bucket in instrument names, +Inf last.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the eight fixed buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
