package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCommand(t *testing.T) {
	before := testutil.ToFloat64(commandsTotal.WithLabelValues("create_list", "ok"))

	RecordCommand("create_list", "ok", 15*time.Millisecond)
	RecordCommand("create_list", "ok", 5*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(commandsTotal.WithLabelValues("create_list", "ok")))
}

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("geocode", "500"))

	RecordUpstream("geocode", "500", time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("geocode", "500")))
}

func TestRecordUpdateAndError(t *testing.T) {
	updates := testutil.ToFloat64(updatesTotal.WithLabelValues("message"))
	errs := testutil.ToFloat64(errorsTotal.WithLabelValues("not_found"))

	RecordUpdate("message")
	RecordError("not_found")

	assert.Equal(t, updates+1, testutil.ToFloat64(updatesTotal.WithLabelValues("message")))
	assert.Equal(t, errs+1, testutil.ToFloat64(errorsTotal.WithLabelValues("not_found")))
}
