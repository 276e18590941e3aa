// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/directory"
)

// DirectoryIndexName is the ES index holding the directory roster for
// reporting and analytics. The API's deterministic search never queries
// it.
const DirectoryIndexName = "directory_entries"

// defineDirectoryMapping returns the JSON string for the directory index
// mapping.
func defineDirectoryMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"user_id":    map[string]interface{}{"type": "keyword"},
				"name":       map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"email":      map[string]interface{}{"type": "keyword"},
				"department": map[string]interface{}{"type": "keyword"},
				"skills": map[string]interface{}{
					"type": "nested",
					"properties": map[string]interface{}{
						"name":  map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
						"years": map[string]interface{}{"type": "integer"},
					},
				},
				"indexed_at": map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling directory mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateDirectoryIndexIfNotExists creates the directory index with its
// mapping if it does not already exist.
func CreateDirectoryIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{DirectoryIndexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if directory index exists", zap.Error(err))
		return fmt.Errorf("error checking if directory index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Directory index already exists", zap.String("index_name", DirectoryIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Unexpected status checking directory index", zap.String("status", res.Status()))
		return fmt.Errorf("error checking if directory index exists: status %s", res.Status())
	}

	mappingJSON, err := defineDirectoryMapping()
	if err != nil {
		log.Error("Failed to define directory mapping", zap.Error(err))
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: DirectoryIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating directory index", zap.Error(err))
		return fmt.Errorf("error creating directory index %s: %w", DirectoryIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err != nil {
			log.Error("Failed to parse index creation error response", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create directory index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody))
		}
		return fmt.Errorf("failed to create directory index %s: status %s", DirectoryIndexName, createRes.Status())
	}

	log.Info("Directory index created", zap.String("index_name", DirectoryIndexName))
	return nil
}

type indexedEntry struct {
	UserID     string                   `json:"user_id"`
	Name       string                   `json:"name"`
	Email      string                   `json:"email"`
	Department string                   `json:"department,omitempty"`
	Skills     []directory.SkillSummary `json:"skills"`
	IndexedAt  time.Time                `json:"indexed_at"`
}

// SyncDirectory bulk-indexes the full roster into the directory index,
// one document per entry keyed by user ID. Returns the number of entries
// indexed.
func SyncDirectory(ctx context.Context, client *ESClientWrapper, entries []directory.Entry, logger *zap.Logger) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	var buf bytes.Buffer
	for _, e := range entries {
		action := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": DirectoryIndexName,
				"_id":    e.UserID,
			},
		}
		actionBytes, err := json.Marshal(action)
		if err != nil {
			return 0, fmt.Errorf("error marshalling bulk action: %w", err)
		}
		doc := indexedEntry{
			UserID:     e.UserID,
			Name:       e.Name,
			Email:      e.Email,
			Department: e.Department,
			Skills:     e.Skills,
			IndexedAt:  now,
		}
		docBytes, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("error marshalling directory document: %w", err)
		}
		buf.Write(actionBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Body:    bytes.NewReader(buf.Bytes()),
		Refresh: "true",
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		return 0, fmt.Errorf("bulk indexing directory entries failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk indexing directory entries failed: status %s", res.Status())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return 0, fmt.Errorf("error decoding bulk response: %w", err)
	}
	if bulkResp.Errors {
		logger.Warn("Bulk directory sync completed with item errors", zap.Int("entries", len(entries)))
	}
	return len(entries), nil
}
