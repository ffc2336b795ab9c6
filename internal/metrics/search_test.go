package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSearchCollector(t *testing.T) {
	before := testutil.ToFloat64(SearchesTotal.WithLabelValues("remote"))
	fallbacksBefore := testutil.ToFloat64(SearchFallbacksTotal)

	var c SearchCollector
	c.SearchServed("remote")
	c.FallbackOccurred()

	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues("remote")); got != before+1 {
		t.Errorf("searches_total: got %f, want %f", got, before+1)
	}
	if got := testutil.ToFloat64(SearchFallbacksTotal); got != fallbacksBefore+1 {
		t.Errorf("search_fallbacks_total: got %f, want %f", got, fallbacksBefore+1)
	}
}

func TestIndexCollector(t *testing.T) {
	before := testutil.ToFloat64(IndexOpsTotal.WithLabelValues("upsert"))
	failuresBefore := testutil.ToFloat64(RemoteWriteFailuresTotal)

	var c IndexCollector
	c.IndexOp("upsert")
	c.RemoteWriteFailed()
	c.SetLocalDocs(42)

	if got := testutil.ToFloat64(IndexOpsTotal.WithLabelValues("upsert")); got != before+1 {
		t.Errorf("index_ops_total: got %f, want %f", got, before+1)
	}
	if got := testutil.ToFloat64(RemoteWriteFailuresTotal); got != failuresBefore+1 {
		t.Errorf("remote_write_failures_total: got %f, want %f", got, failuresBefore+1)
	}
	if got := testutil.ToFloat64(LocalIndexDocuments); got != 42 {
		t.Errorf("local_index_documents: got %f, want 42", got)
	}
}

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics() // second call must not panic
}
