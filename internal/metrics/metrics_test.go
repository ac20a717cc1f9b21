package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistersEverything(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWith(reg)

	m.StatementsParsed.Inc()
	m.ParseFailures.WithLabelValues("authentication").Inc()
	m.TransactionsExtracted.Add(42)
	m.ParseDuration.Observe(0.25)
	m.HTTPRequests.WithLabelValues("POST", "/parse", "200").Inc()
	m.HTTPDuration.WithLabelValues("POST", "/parse").Observe(0.1)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"sbiparser_statements_parsed_total",
		"sbiparser_parse_failures_total",
		"sbiparser_transactions_extracted_total",
		"sbiparser_parse_duration_seconds",
		"sbiparser_http_requests_total",
		"sbiparser_http_request_duration_seconds",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(m.StatementsParsed))
	assert.Equal(t, float64(42), testutil.ToFloat64(m.TransactionsExtracted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ParseFailures.WithLabelValues("authentication")))
}

func TestNewWithSeparateRegistries(t *testing.T) {
	// Two instances on distinct registries must not collide.
	a := NewWith(prometheus.NewRegistry())
	b := NewWith(prometheus.NewRegistry())

	a.StatementsParsed.Inc()
	assert.Equal(t, float64(0), testutil.ToFloat64(b.StatementsParsed))
}
