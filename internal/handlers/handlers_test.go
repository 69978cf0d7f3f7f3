package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/backoffice/pkg/middleware"
	"github.com/Ramsey-B/backoffice/pkg/models"
	"github.com/Ramsey-B/backoffice/pkg/repositories"
	"github.com/Ramsey-B/backoffice/pkg/slug"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestEcho() (*echo.Echo, *echo.Group) {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(testLogger())
	e.Use(middleware.Context())
	return e, e.Group("/api/v1")
}

func do(t *testing.T, e *echo.Echo, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBytes[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func httperrorFields(t *testing.T, err error) map[string]string {
	t.Helper()
	require.True(t, httperror.IsHTTPError(err), err.Error())
	fields, ok := httperror.ToHTTPError(err).Meta["fields"].(map[string]string)
	require.True(t, ok)
	return fields
}

// memSlugStore keeps rows in memory with the same error surface as the SQL repositories.
type memSlugStore[T any, PT slugEntityPtr[T]] struct {
	rows   map[int64]T
	nextID int64
	// referenced ids fail to delete with a conflict
	referenced map[int64]bool
	lastList   repositories.ListParams
}

func newMemSlugStore[T any, PT slugEntityPtr[T]]() *memSlugStore[T, PT] {
	return &memSlugStore[T, PT]{rows: map[int64]T{}, referenced: map[int64]bool{}}
}

func (s *memSlugStore[T, PT]) List(_ context.Context, params repositories.ListParams) (*models.Page[T], error) {
	s.lastList = params
	items := []T{}
	for id := int64(1); id <= s.nextID; id++ {
		if row, ok := s.rows[id]; ok {
			if params.Active != nil && PT(&row).GetBase().Active != *params.Active {
				continue
			}
			items = append(items, row)
		}
	}
	return &models.Page[T]{Items: items, TotalCount: len(items), Page: 1, PageSize: 20}, nil
}

func (s *memSlugStore[T, PT]) GetByID(_ context.Context, id int64) (*T, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, repositories.NotFound("row %d does not exist", id)
	}
	return &row, nil
}

func (s *memSlugStore[T, PT]) GetBySlug(_ context.Context, value string) (*T, error) {
	for _, row := range s.rows {
		if PT(&row).GetBase().Slug == value {
			return &row, nil
		}
	}
	return nil, repositories.NotFound("row %s does not exist", value)
}

func (s *memSlugStore[T, PT]) conflict(value string, except int64) error {
	for id, row := range s.rows {
		if id != except && PT(&row).GetBase().Slug == value {
			return repositories.Conflict("slug '%s' already exists", value)
		}
	}
	return nil
}

func (s *memSlugStore[T, PT]) Create(_ context.Context, item *T) error {
	base := PT(item).GetBase()
	if base.Slug == "" {
		base.Slug = slug.Make(PT(item).SlugSource())
	}
	if err := s.conflict(base.Slug, 0); err != nil {
		return err
	}
	s.nextID++
	base.ID = s.nextID
	s.rows[base.ID] = *item
	return nil
}

func (s *memSlugStore[T, PT]) Update(_ context.Context, item *T) error {
	base := PT(item).GetBase()
	existing, ok := s.rows[base.ID]
	if !ok {
		return repositories.NotFound("row %d does not exist", base.ID)
	}
	if base.Slug == "" {
		base.Slug = PT(&existing).GetBase().Slug
	}
	if err := s.conflict(base.Slug, base.ID); err != nil {
		return err
	}
	s.rows[base.ID] = *item
	return nil
}

func (s *memSlugStore[T, PT]) Delete(_ context.Context, id int64) error {
	if s.referenced[id] {
		return repositories.Conflict("row %d is still referenced", id)
	}
	if _, ok := s.rows[id]; !ok {
		return repositories.NotFound("row %d does not exist", id)
	}
	delete(s.rows, id)
	return nil
}

func (s *memSlugStore[T, PT]) seed(items ...T) {
	for i := range items {
		if err := s.Create(context.Background(), &items[i]); err != nil {
			panic(fmt.Sprintf("seed: %v", err))
		}
	}
}

type errorBody struct {
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta"`
}
