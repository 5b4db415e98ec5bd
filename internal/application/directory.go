package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/squadhub/identity-api/internal/domain/entity"
)

// UserDirectory mirrors public profile fields into Elasticsearch for search.
// Indexing is best-effort; a nil client turns both operations into no-ops so
// the service runs without a cluster in development.
type UserDirectory struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewUserDirectory(es *elasticsearch.Client, index string, logger *logrus.Logger) *UserDirectory {
	return &UserDirectory{ES: es, Index: index, Logger: logger}
}

// IndexUser writes the searchable projection of u. Password hashes and
// session tokens are never indexed.
func (d *UserDirectory) IndexUser(ctx context.Context, u *entity.User) error {
	if d.ES == nil || d.Index == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"platform":   string(u.Platform),
		"region":     u.Region,
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: d.Index, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, d.ES)
	if err != nil {
		if d.Logger != nil {
			d.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && d.Logger != nil {
		d.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// Search runs a multi_match over email and names.
func (d *UserDirectory) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if d.ES == nil || d.Index == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := d.ES.Search(
		d.ES.Search.WithContext(c),
		d.ES.Search.WithIndex(d.Index),
		d.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
