package service

import (
	"context"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassLabel(t *testing.T) {
	tests := map[string]string{
		"VIP":          "vip",
		" vip ":        "vip",
		"General":      "general",
		"Preferencial": "preferencial",
		"Palco 7":      "other",
		"":             "other",
	}
	for in, want := range tests {
		assert.Equal(t, want, classLabel(in), in)
	}
}

func TestService_CreateTickets_IssuedMetricBuckets(t *testing.T) {
	f := newFixture(t, Options{})
	otherBefore := promtest.ToFloat64(ticketsIssued.WithLabelValues("other"))
	series := promtest.CollectAndCount(ticketsIssued)

	for _, class := range []string{"Palco A", "Palco B", "Camerino 3"} {
		template := f.template()
		template.Class = class
		_, err := f.svc.CreateTickets(context.Background(), template, 2)
		require.NoError(t, err)
	}

	assert.Equal(t, otherBefore+6, promtest.ToFloat64(ticketsIssued.WithLabelValues("other")))
	assert.Equal(t, series, promtest.CollectAndCount(ticketsIssued))
}
