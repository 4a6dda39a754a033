package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"catalog-service/apperrors"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticIndexer implements Indexer against an Elasticsearch cluster.
type ElasticIndexer struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticIndexer creates an ElasticIndexer for the given addresses and
// index name.
func NewElasticIndexer(addresses []string, index string) (*ElasticIndexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticIndexer{client: client, index: index}, nil
}

func (e *ElasticIndexer) Index(ctx context.Context, doc ProductDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.New(apperrors.KindRemoteIndex, "marshal product document", err)
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithDocumentID(doc.ID),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return apperrors.New(apperrors.KindRemoteIndex, "index product "+doc.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.New(apperrors.KindRemoteIndex,
			fmt.Sprintf("index product %s: %s", doc.ID, res.Status()), nil)
	}
	return nil
}

func (e *ElasticIndexer) Remove(ctx context.Context, productID string) error {
	res, err := e.client.Delete(
		e.index,
		productID,
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return apperrors.New(apperrors.KindRemoteIndex, "remove product "+productID, err)
	}
	defer res.Body.Close()

	// A missing document is fine; the goal is absence.
	if res.IsError() && res.StatusCode != 404 {
		return apperrors.New(apperrors.KindRemoteIndex,
			fmt.Sprintf("remove product %s: %s", productID, res.Status()), nil)
	}
	return nil
}
