package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"futspot/internal/config"
	"futspot/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// maxHits ограничивает число кандидатов, возвращаемых поиском
const maxHits = 1000

// VenueDocument - документ площадки в индексе
type VenueDocument struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	City      string    `json:"cidade"`
	Address   string    `json:"endereco"`
	Category  string    `json:"tipo_local"`
	OwnerID   int64     `json:"dono_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewVenueDocument строит документ из строки таблицы locais
func NewVenueDocument(v *models.Venue) VenueDocument {
	doc := VenueDocument{
		ID:        v.ID,
		Name:      v.Name,
		Address:   v.Address,
		Category:  v.Category,
		OwnerID:   v.OwnerID,
		CreatedAt: v.CreatedAt,
	}
	if v.City != nil {
		doc.City = *v.City
	}
	return doc
}

// ElasticsearchClient представляет клиент для работы с индексом площадок
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

// NewElasticsearchClient создает новый клиент Elasticsearch
func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

// ensureIndex создает индекс если он не существует
func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	// cidade хранится как keyword с lowercase нормализатором,
	// чтобы wildcard поиск был регистронезависимым
	mapping := map[string]any{
		"settings": map[string]any{
			"number_of_shards":   1,
			"number_of_replicas": 0,
			"analysis": map[string]any{
				"normalizer": map[string]any{
					"lowercase_normalizer": map[string]any{
						"type":   "custom",
						"filter": []string{"lowercase", "asciifolding"},
					},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":   map[string]any{"type": "long"},
				"nome": map[string]any{"type": "text"},
				"cidade": map[string]any{
					"type":       "keyword",
					"normalizer": "lowercase_normalizer",
				},
				"endereco":   map[string]any{"type": "text"},
				"tipo_local": map[string]any{"type": "keyword"},
				"dono_id":    map[string]any{"type": "long"},
				"created_at": map[string]any{"type": "date"},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  bytes.NewReader(mappingJSON),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// IndexVenue индексирует площадку
func (c *ElasticsearchClient) IndexVenue(ctx context.Context, venue *models.Venue) error {
	body, err := json.Marshal(NewVenueDocument(venue))
	if err != nil {
		return fmt.Errorf("failed to marshal venue: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(venue.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index venue: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}
	return nil
}

// DeleteVenue удаляет площадку из индекса
func (c *ElasticsearchClient) DeleteVenue(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}
	return nil
}

// SearchVenueIDs возвращает id площадок по городу (подстрока) и категориям
func (c *ElasticsearchClient) SearchVenueIDs(ctx context.Context, city string, categories []string) ([]int64, error) {
	searchRequest := map[string]any{
		"query":   buildVenueQuery(city, categories),
		"sort":    []map[string]any{{"created_at": map[string]any{"order": "desc"}}},
		"size":    maxHits,
		"_source": []string{"id"},
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  bytes.NewReader(searchJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]int64, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return ids, nil
}

// buildVenueQuery строит bool запрос: wildcard по городу, terms по категориям
func buildVenueQuery(city string, categories []string) map[string]any {
	filters := []map[string]any{}

	if city = strings.TrimSpace(city); city != "" {
		filters = append(filters, map[string]any{
			"wildcard": map[string]any{
				"cidade": map[string]any{
					"value":            "*" + escapeWildcard(strings.ToLower(city)) + "*",
					"case_insensitive": true,
				},
			},
		})
	}

	if len(categories) > 0 {
		filters = append(filters, map[string]any{
			"terms": map[string]any{"tipo_local": categories},
		})
	}

	if len(filters) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}

	return map[string]any{
		"bool": map[string]any{"filter": filters},
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

// HealthCheck проверяет состояние Elasticsearch
func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	req := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}
	return nil
}
