package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng := tally.New(tally.WithLifecycleHooks(m.Hooks()))
	keys, err := domain.ParseKeys("5 + 3 = ÷ 0 = AC")
	require.NoError(t, err)
	_, err = eng.Apply(context.Background(), nil, keys...)
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Keys.WithLabelValues("digit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Keys.WithLabelValues("operator")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Keys.WithLabelValues("equals")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Keys.WithLabelValues("clear_all")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("+", observability.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("÷", observability.OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues(domain.MessageError)))

	expected := `
# HELP tally_errors_total Total number of latched error messages
# TYPE tally_errors_total counter
tally_errors_total{message="Error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "tally_errors_total"))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)

	hooks := domain.CombineHooks(m.Hooks(), observability.LogHooks(logger))
	c := tally.NewCalculator(tally.WithLifecycleHooks(hooks))
	c.PressAll(domain.Digit("1"), domain.Op(domain.OpDivide), domain.Digit("0"), domain.Equals)

	out := buf.String()
	assert.Contains(t, out, "msg=evaluate")
	assert.Contains(t, out, "failure=divide_by_zero")
	assert.Contains(t, out, `msg="error latched" message=Error`)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues(domain.MessageError)))
}
