package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/sakif/snippet-library/internal/apperror"
)

func TestObserveSnippetOp(t *testing.T) {
	m := New()

	m.ObserveSnippetOp("create", nil)
	m.ObserveSnippetOp("create", nil)
	m.ObserveSnippetOp("create", apperror.ValidationFailed("title", "required"))
	m.ObserveSnippetOp("get", apperror.NotFound("Snippet not found"))
	m.ObserveSnippetOp("get", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SnippetOps.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnippetOps.WithLabelValues("create", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnippetOps.WithLabelValues("get", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnippetOps.WithLabelValues("get", "error")))
}

func TestObserveSnippetOp_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveSnippetOp("create", nil) })
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSnippetOp("delete", nil)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `snippet_operations_total{op="delete",result="ok"} 1`)
}

func TestNew_Independent(t *testing.T) {
	// Two instances must not collide on registration.
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
