package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentHandlerUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(InstrumentHandler)
	r.HandleFunc("/questions/{emotion}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/questions/{emotion}", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/questions/nada", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/questions/{emotion}", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordEntryLogged(t *testing.T) {
	before := testutil.ToFloat64(entriesLogged.WithLabelValues("miedo"))
	RecordEntryLogged("miedo")
	assert.Equal(t, before+1, testutil.ToFloat64(entriesLogged.WithLabelValues("miedo")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordStoreCorruption()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "moodscale_store_corruptions_total")
}
