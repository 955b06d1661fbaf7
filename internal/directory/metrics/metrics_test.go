package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistrationCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementRegistration(OutcomeLinked)
	m.IncrementRegistration(OutcomeLinked)
	m.IncrementRegistration(OutcomeConflict)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Registrations.WithLabelValues(OutcomeLinked)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues(OutcomeConflict)))
	require.Equal(t, 0.0, testutil.ToFloat64(m.Registrations.WithLabelValues(OutcomeNotFound)))
}

func TestGaugesAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetDirectoryEntries(7)
	m.IncrementUsersCreated()
	m.IncrementUsersDeleted()
	m.ObserveRefresh(time.Now())
	m.ObserveRegister(time.Now())

	require.Equal(t, 7.0, testutil.ToFloat64(m.DirectoryEntries))
	require.Equal(t, 1.0, testutil.ToFloat64(m.UsersCreated))
	require.Equal(t, 1.0, testutil.ToFloat64(m.UsersDeleted))

	count, err := testutil.GatherAndCount(reg, "linkbot_directory_refresh_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.IncrementRegistration(OutcomeLinked)
		m.IncrementUsersCreated()
		m.IncrementUsersDeleted()
		m.SetDirectoryEntries(1)
		m.ObserveRefresh(time.Now())
		m.ObserveRegister(time.Now())
	})
}
