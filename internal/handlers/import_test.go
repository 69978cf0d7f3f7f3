package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/backoffice/pkg/importer"
	"github.com/Ramsey-B/backoffice/pkg/redis"
)

type fakeRunner struct {
	summary importer.Summary
	err     error
}

func (r *fakeRunner) Run(context.Context) (importer.Summary, error) {
	return r.summary, r.err
}

type factoryCall struct {
	policy importer.OnConflict
	reset  bool
}

func newImportServer(runner *fakeRunner, factoryErr error) (*[]factoryCall, func(t *testing.T, body any) (int, []byte)) {
	calls := &[]factoryCall{}
	factory := func(policy importer.OnConflict, reset bool) (ImportRunner, error) {
		*calls = append(*calls, factoryCall{policy: policy, reset: reset})
		if factoryErr != nil {
			return nil, factoryErr
		}
		return runner, nil
	}
	e, api := newTestEcho()
	NewImportHandler(factory, testLogger()).RegisterRoutes(api)
	return calls, func(t *testing.T, body any) (int, []byte) {
		rec := do(t, e, http.MethodPost, "/api/v1/imports/merchants", body)
		return rec.Code, rec.Body.Bytes()
	}
}

func TestImportMerchants_Success(t *testing.T) {
	runner := &fakeRunner{summary: importer.Summary{RunID: "run-1", Policy: importer.OnConflictUpsert, Total: 3, Imported: 2, Updated: 1}}
	calls, call := newImportServer(runner, nil)

	code, raw := call(t, map[string]any{"on_conflict": "UPSERT", "reset": true})

	require.Equal(t, http.StatusOK, code, string(raw))
	summary := decodeBytes[importer.Summary](t, raw)
	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, []factoryCall{{policy: importer.OnConflictUpsert, reset: true}}, *calls)
}

func TestImportMerchants_PolicyRequired(t *testing.T) {
	for _, body := range []any{map[string]any{}, map[string]any{"on_conflict": "replace"}} {
		calls, call := newImportServer(&fakeRunner{}, nil)

		code, raw := call(t, body)

		require.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, map[string]any{"on_conflict": "oneof"}, decodeBytes[errorBody](t, raw).Meta["fields"])
		assert.Empty(t, *calls)
	}
}

func TestImportMerchants_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"lock held", redis.ErrLockNotAcquired, http.StatusConflict},
		{"feed down", fmt.Errorf("%w: %w", importer.ErrFeed, errors.New("dock returned 503")), http.StatusBadGateway},
		{"aborted", fmt.Errorf("%w at merchant x: disk full", importer.ErrAborted), http.StatusUnprocessableEntity},
		{"reset failed", errors.New("reset import tables: permission denied"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, call := newImportServer(&fakeRunner{summary: importer.Summary{RunID: "run-2", Aborted: true}, err: tt.err}, nil)

			code, _ := call(t, map[string]any{"on_conflict": "skip"})

			assert.Equal(t, tt.code, code)
		})
	}
}

func TestImportMerchants_FactoryFailure(t *testing.T) {
	_, call := newImportServer(nil, errors.New("store unavailable"))

	code, _ := call(t, map[string]any{"on_conflict": "fail"})

	assert.Equal(t, http.StatusInternalServerError, code)
}
