package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
)

const itemsIndex = "items"

// Index mirrors the item catalog into Elasticsearch for fuzzy search. A nil
// Index is a no-op, the catalog works without a search cluster.
type Index struct {
	es *elasticsearch.Client
}

func New(url, user, password string) (*Index, error) {
	if url == "" {
		return nil, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return &Index{es: client}, nil
}

func (ix *Index) IndexItem(ctx context.Context, item models.Item) {
	if ix == nil {
		return
	}

	data, err := json.Marshal(item)
	if err != nil {
		logging.FromContext(ctx).Error("index marshal failed", "error", err)
		return
	}

	res, err := ix.es.Index(
		itemsIndex,
		bytes.NewReader(data),
		ix.es.Index.WithContext(ctx),
		ix.es.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
	)
	if err != nil {
		logging.FromContext(ctx).Error("index item failed", "item_id", item.ID, "error", err)
		return
	}
	res.Body.Close()
}

func (ix *Index) RemoveItem(ctx context.Context, id uint) {
	if ix == nil {
		return
	}

	res, err := ix.es.Delete(
		itemsIndex,
		strconv.FormatUint(uint64(id), 10),
		ix.es.Delete.WithContext(ctx),
	)
	if err != nil {
		logging.FromContext(ctx).Error("remove item from index failed", "item_id", id, "error", err)
		return
	}
	res.Body.Close()
}

// Search runs a fuzzy multi-match over title and description.
func (ix *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Item, error) {
	if ix == nil {
		return 0, nil, fmt.Errorf("search is not configured")
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := ix.es.Search(
		ix.es.Search.WithContext(ctx),
		ix.es.Search.WithIndex(itemsIndex),
		ix.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}
