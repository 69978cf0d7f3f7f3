package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordImportMerchant(t *testing.T) {
	before := testutil.ToFloat64(ImportMerchantsTotal.WithLabelValues("imported"))
	RecordImportMerchant("imported")
	assert.Equal(t, before+1, testutil.ToFloat64(ImportMerchantsTotal.WithLabelValues("imported")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/categories", "200"))
	RecordHTTPRequest("GET", "/api/v1/categories", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/categories", "200")))
}
