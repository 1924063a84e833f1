package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveQueryIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("192.0.2.53:53", "udp", "success"))
	ObserveQuery("192.0.2.53:53", "udp", "success", time.Now())
	after := testutil.ToFloat64(QueriesTotal.WithLabelValues("192.0.2.53:53", "udp", "success"))

	if after != before+1 {
		t.Errorf("QueriesTotal = %v, want %v", after, before+1)
	}
}

func TestRecordRetryIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(RetriesTotal.WithLabelValues("timeout"))
	RecordRetry("timeout")
	after := testutil.ToFloat64(RetriesTotal.WithLabelValues("timeout"))

	if after != before+1 {
		t.Errorf("RetriesTotal = %v, want %v", after, before+1)
	}
}

func TestRecordTSIGFailureIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(TSIGFailuresTotal.WithLabelValues("bad-signature"))
	RecordTSIGFailure("bad-signature")
	after := testutil.ToFloat64(TSIGFailuresTotal.WithLabelValues("bad-signature"))

	if after != before+1 {
		t.Errorf("TSIGFailuresTotal = %v, want %v", after, before+1)
	}
}
