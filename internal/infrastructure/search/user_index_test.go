package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
)

type captured struct {
	method, path string
	body         map[string]any
}

func fakeES(t *testing.T, status int, reply string) (*UserIndex, *[]captured) {
	t.Helper()
	var calls []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &c.body)
		}
		calls = append(calls, c)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewUserIndex(es, "users"), &calls
}

func TestUserIndex_Index(t *testing.T) {
	x, calls := fakeES(t, http.StatusCreated, `{"result":"created"}`)
	tenant := "t-1"
	s := entity.Snapshot{
		ID:        "550e8400-e29b-41d4-a716-446655440000",
		Email:     "jo@co.com",
		Roles:     []string{"ROLE_USER"},
		Status:    "active",
		TenantID:  &tenant,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, x.Index(context.Background(), s))

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, http.MethodPut, c.method)
	assert.Equal(t, "/users/_doc/"+s.ID, c.path)
	assert.Equal(t, "jo@co.com", c.body["email"])
	assert.Equal(t, "t-1", c.body["tenantId"])
	assert.NotContains(t, c.body, "hash")
}

func TestUserIndex_IndexError(t *testing.T) {
	x, _ := fakeES(t, http.StatusBadRequest, `{"error":"bad"}`)
	err := x.Index(context.Background(), entity.Snapshot{ID: "1"})
	assert.ErrorContains(t, err, "index user 1")
}

func TestUserIndex_Search(t *testing.T) {
	reply := `{"hits":{"hits":[
		{"_source":{"id":"a","email":"ann@corp.io","roles":["ROLE_USER"],"status":"active","tenantId":null}},
		{"_source":{"id":"b","email":"bob@corp.io","roles":["ROLE_MANAGER"],"status":"pending","tenantId":"t"}}
	]}}`
	x, calls := fakeES(t, http.StatusOK, reply)

	users, err := x.Search(context.Background(), " Corp* ", 5)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ann@corp.io", users[0].Email)
	assert.Nil(t, users[0].TenantID)
	require.NotNil(t, users[1].TenantID)
	assert.Equal(t, "t", *users[1].TenantID)

	c := (*calls)[0]
	assert.Equal(t, "/users/_search", c.path)
	assert.EqualValues(t, 5, c.body["size"])
	wildcard := c.body["query"].(map[string]any)["wildcard"].(map[string]any)["email"].(map[string]any)
	assert.Equal(t, `*corp\**`, wildcard["value"])
	assert.Equal(t, true, wildcard["case_insensitive"])
}

func TestUserIndex_SearchError(t *testing.T) {
	x, _ := fakeES(t, http.StatusServiceUnavailable, `{}`)
	_, err := x.Search(context.Background(), "a", 10)
	assert.Error(t, err)
}

func TestEscapeWildcard(t *testing.T) {
	assert.Equal(t, `a\*b\?c\\d`, escapeWildcard(`a*b?c\d`))
}
