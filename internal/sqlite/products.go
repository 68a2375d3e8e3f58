package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/dukaforge/stockroom/pkg/types"
)

const productColumns = "product_id, name, category, selling_price, buying_price, stock, barcode, created_at, updated_at"

// ProductFilter narrows ListProductsPage. Zero values match everything.
type ProductFilter struct {
	Category string // exact category match
	Search   string // substring match on name or barcode
}

// ListProductsPage returns one page of products ordered by name, together
// with the hydrated entities for that page.
func (s *Store) ListProductsPage(ctx context.Context, filter ProductFilter, page, pageSize int) (types.PagedResult, []*types.Product, error) {
	statement := "SELECT " + productColumns + " FROM products"
	var params []any
	var where []string

	if filter.Category != "" {
		where = append(where, "category = ?")
		params = append(params, filter.Category)
	}
	if filter.Search != "" {
		where = append(where, "(name LIKE ? OR barcode LIKE ?)")
		like := "%" + filter.Search + "%"
		params = append(params, like, like)
	}
	statement += whereClause(where) + " ORDER BY name"

	result, err := s.QueryPage(ctx, statement, params, page, pageSize)
	if err != nil {
		return types.PagedResult{}, nil, err
	}

	products := make([]*types.Product, len(result.Rows))
	for i, row := range result.Rows {
		products[i] = productFromRow(row)
	}
	return result, products, nil
}

// GetProduct retrieves one product by ID. Returns types.ErrNotFound when no
// product has that ID.
func (s *Store) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	result, err := s.QueryPage(ctx,
		"SELECT "+productColumns+" FROM products WHERE product_id = ?",
		[]any{id}, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return nil, types.ErrNotFound
	}
	return productFromRow(result.Rows[0]), nil
}

// SaveProduct creates or updates a product and returns its ID. An empty
// ProductID means create: a UUID v7 is generated and timestamps are set.
// The write invalidates every cached page referencing products.
func (s *Store) SaveProduct(ctx context.Context, p *types.Product) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	if p.ProductID == "" {
		p.ProductID = generateID()
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.Exec(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(product_id) DO UPDATE SET
		     name = excluded.name,
		     category = excluded.category,
		     selling_price = excluded.selling_price,
		     buying_price = excluded.buying_price,
		     stock = excluded.stock,
		     barcode = excluded.barcode,
		     updated_at = excluded.updated_at`,
		p.ProductID, p.Name, p.Category, p.SellingPrice, p.BuyingPrice,
		p.Stock, p.Barcode,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("saving product: %w", err)
	}
	return p.ProductID, nil
}

// DeleteProduct removes a product. Returns types.ErrNotFound when no
// product has that ID.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	affected, err := s.Exec(ctx, "DELETE FROM products WHERE product_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// AdjustStock changes a product's stock by delta (negative for a sale).
func (s *Store) AdjustStock(ctx context.Context, id string, delta int) error {
	affected, err := s.Exec(ctx,
		"UPDATE products SET stock = stock + ?, updated_at = ? WHERE product_id = ?",
		delta, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("adjusting stock for %s: %w", id, err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// productFromRow hydrates one result row into a Product.
func productFromRow(r types.Row) *types.Product {
	return &types.Product{
		ProductID:    rowString(r, "product_id"),
		Name:         rowString(r, "name"),
		Category:     rowString(r, "category"),
		SellingPrice: rowFloat(r, "selling_price"),
		BuyingPrice:  rowFloat(r, "buying_price"),
		Stock:        rowInt(r, "stock"),
		Barcode:      rowString(r, "barcode"),
		CreatedAt:    rowTime(r, "created_at"),
		UpdatedAt:    rowTime(r, "updated_at"),
	}
}

// whereClause joins conditions into a WHERE clause, or returns "" when
// there are none.
func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	clause := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		clause += " AND " + c
	}
	return clause
}
