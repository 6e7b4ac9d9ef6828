package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/product/dto"
	"go.uber.org/zap"
)

const (
	indexName       = "products"
	listCachePrefix = "products:list:"
	listCacheTTL    = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"unit_type": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"category_name": { "type": "text" },
			"supplier_id": { "type": "keyword" },
			"supplier_name": { "type": "text" },
			"barcode": { "type": "keyword" },
			"created_at": { "type": "date" },
			"updated_at": { "type": "date" }
		}
	}
}`

// productDocument is what gets indexed. Stock is left out: it changes with
// every sale and is read from the ledger instead.
type productDocument struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	UnitType     string    `json:"unit_type"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	SupplierID   string    `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Barcode      *string   `json:"barcode"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	products, count, err := uc.listRows(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range products {
		if err := uc.withStock(ctx, &products[i]); err != nil {
			return nil, 0, err
		}
	}
	return products, count, nil
}

// listRows serves catalog rows from the Redis cache when it can.
func (uc *productUseCase) listRows(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		if key, err := generateCacheKey(filters); err == nil {
			cacheKey = key
			if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
				var hit cachedList
				if err := json.Unmarshal([]byte(val), &hit); err == nil {
					return hit.Products, hit.Count, nil
				}
			}
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.Client.Set(ctx, cacheKey, data, listCacheTTL).Err(); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}
	return products, count, nil
}

// SearchProducts queries Elasticsearch and falls back to a SQL name and
// barcode match when the index is unavailable.
func (uc *productUseCase) SearchProducts(ctx context.Context, input *dto.SearchInput) ([]model.Product, int, error) {
	query := strings.TrimSpace(input.Query)
	page := input.Page
	if page < 1 {
		page = 1
	}

	if query != "" && uc.es != nil {
		products, total, err := uc.searchIndex(ctx, query, page, input.PageSize)
		if err == nil {
			return products, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	return uc.ListProducts(ctx, &dto.ProductFilters{
		SearchQuery: query,
		SortBy:      "name",
		SortOrder:   "asc",
		Page:        page,
		PageSize:    input.PageSize,
	})
}

func (uc *productUseCase) searchIndex(ctx context.Context, query string, page, pageSize int) ([]model.Product, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"multi_match": map[string]interface{}{
							"query":     query,
							"fields":    []string{"name^3", "category_name", "supplier_name"},
							"fuzziness": "AUTO",
						},
					},
					{
						"term": map[string]interface{}{
							"barcode": query,
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
	}
	if pageSize > 0 {
		q["from"] = (page - 1) * pageSize
		q["size"] = pageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			uc.logger.Warn("skipping malformed search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		if p.ID == "" {
			p.ID = hit.ID
		}
		if err := uc.withStock(ctx, &p); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	// Lazily created; a no-op once the index exists.
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}

	doc := productDocument{
		ID:           p.ID,
		Name:         p.Name,
		UnitType:     string(p.UnitType),
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		Barcode:      p.Barcode,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if err := uc.es.Index(ctx, indexName, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listCachePrefix, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, listCachePrefix+"*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}
