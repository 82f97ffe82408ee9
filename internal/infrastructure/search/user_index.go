package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
)

// Mapping keeps email as a keyword so wildcard queries match whole addresses.
const Mapping = `{
  "mappings": {
    "properties": {
      "id":        {"type": "keyword"},
      "email":     {"type": "keyword"},
      "roles":     {"type": "keyword"},
      "status":    {"type": "keyword"},
      "tenantId":  {"type": "keyword"},
      "createdAt": {"type": "date"},
      "updatedAt": {"type": "date"}
    }
  }
}`

// UserIndex is the Elasticsearch projection of users. Documents are user
// snapshots keyed by user id; the password hash never reaches the index.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	return helpers.EnsureIndex(ctx, x.es, x.index, Mapping)
}

func (x *UserIndex) Index(ctx context.Context, s entity.Snapshot) error {
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: s.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user %s: %s", s.ID, res.Status())
	}
	return nil
}

// Search matches q as a case-insensitive substring of the email.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]entity.Snapshot, error) {
	query := map[string]any{
		"size": size,
		"sort": []any{map[string]any{"createdAt": "asc"}},
		"query": map[string]any{
			"wildcard": map[string]any{
				"email": map[string]any{
					"value":            "*" + escapeWildcard(strings.ToLower(strings.TrimSpace(q))) + "*",
					"case_insensitive": true,
				},
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}
	res, err := esapi.SearchRequest{Index: []string{x.index}, Body: &buf}.Do(ctx, x.es)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search users: %s", res.Status())
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source entity.Snapshot `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	users := make([]entity.Snapshot, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		users = append(users, h.Source)
	}
	return users, nil
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}
