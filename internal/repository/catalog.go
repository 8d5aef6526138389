package repository

import (
	"context"
	"errors"
	"fmt"

	"trolley/navigator/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested catalog entity does not exist.
var ErrNotFound = errors.New("not found")

type CatalogRepository interface {
	SaveStore(ctx context.Context, store domain.Store) error
	ListStores(ctx context.Context) ([]domain.Store, error)
	GetStore(ctx context.Context, id string) (domain.Store, error)
	StoreData(ctx context.Context, storeID string) (domain.StoreData, error)

	SaveSection(ctx context.Context, section domain.Section) error
	SectionsByStore(ctx context.Context, storeID string) ([]domain.Section, error)

	SaveCategory(ctx context.Context, category domain.Category) error
	CategoriesByStore(ctx context.Context, storeID string) ([]domain.Category, error)

	SaveProduct(ctx context.Context, product domain.Product) error
	SaveProducts(ctx context.Context, products []domain.Product) error
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)

	Reset(ctx context.Context) error
}

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

func (r *catalogRepository) SaveStore(ctx context.Context, store domain.Store) error {
	query := `
	INSERT INTO stores (id, name, address, layout_svg, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id)
	DO UPDATE SET name = $2, address = $3, layout_svg = $4`
	_, err := r.db.Exec(ctx, query, store.ID, store.Name, store.Address, store.LayoutSVG, store.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}

	return nil
}

func (r *catalogRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	query := `SELECT id, name, address, layout_svg, created_at FROM stores ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.LayoutSVG, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}

	return stores, rows.Err()
}

func (r *catalogRepository) GetStore(ctx context.Context, id string) (domain.Store, error) {
	query := `SELECT id, name, address, layout_svg, created_at FROM stores WHERE id = $1`

	var s domain.Store
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Address, &s.LayoutSVG, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Store{}, fmt.Errorf("store %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Store{}, fmt.Errorf("failed to get store: %w", err)
	}

	return s, nil
}

// StoreData loads the full catalog payload for one store.
func (r *catalogRepository) StoreData(ctx context.Context, storeID string) (domain.StoreData, error) {
	store, err := r.GetStore(ctx, storeID)
	if err != nil {
		return domain.StoreData{}, err
	}

	sections, err := r.SectionsByStore(ctx, storeID)
	if err != nil {
		return domain.StoreData{}, err
	}

	categories, err := r.CategoriesByStore(ctx, storeID)
	if err != nil {
		return domain.StoreData{}, err
	}

	query := `
	SELECT p.id, p.category_id, p.section_id, p.name, p.price, p.description
	FROM products p
	JOIN categories c ON c.id = p.category_id
	WHERE c.store_id = $1
	ORDER BY p.name`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return domain.StoreData{}, fmt.Errorf("failed to load store products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.SectionID, &p.Name, &p.Price, &p.Description); err != nil {
			return domain.StoreData{}, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return domain.StoreData{}, err
	}

	return domain.StoreData{
		Store:      store,
		Sections:   sections,
		Categories: categories,
		Products:   products,
	}, nil
}

func (r *catalogRepository) SaveSection(ctx context.Context, section domain.Section) error {
	query := `
	INSERT INTO sections (id, store_id, name, color, svg_element_id, x, y, priority, landmark)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id)
	DO UPDATE SET store_id = $2, name = $3, color = $4, svg_element_id = $5, x = $6, y = $7, priority = $8, landmark = $9`
	_, err := r.db.Exec(ctx, query,
		section.ID, section.StoreID, section.Name, section.Color, section.SVGElementID,
		section.Position.X, section.Position.Y, section.Priority, section.Landmark)
	if err != nil {
		return fmt.Errorf("failed to save section: %w", err)
	}

	return nil
}

func (r *catalogRepository) SectionsByStore(ctx context.Context, storeID string) ([]domain.Section, error) {
	query := `
	SELECT id, store_id, name, color, svg_element_id, x, y, priority, landmark
	FROM sections WHERE store_id = $1 ORDER BY priority, name`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	sections := []domain.Section{}
	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(&s.ID, &s.StoreID, &s.Name, &s.Color, &s.SVGElementID,
			&s.Position.X, &s.Position.Y, &s.Priority, &s.Landmark); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, s)
	}

	return sections, rows.Err()
}

func (r *catalogRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
	INSERT INTO categories (id, store_id, section_id, name, color)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id)
	DO UPDATE SET store_id = $2, section_id = $3, name = $4, color = $5`
	_, err := r.db.Exec(ctx, query, category.ID, category.StoreID, category.SectionID, category.Name, category.Color)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	return nil
}

func (r *catalogRepository) CategoriesByStore(ctx context.Context, storeID string) ([]domain.Category, error) {
	query := `SELECT id, store_id, section_id, name, color FROM categories WHERE store_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.StoreID, &c.SectionID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *catalogRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	query := `
	INSERT INTO products (id, category_id, section_id, name, price, description)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id)
	DO UPDATE SET category_id = $2, section_id = $3, name = $4, price = $5, description = $6`
	_, err := r.db.Exec(ctx, query,
		product.ID, product.CategoryID, product.SectionID, product.Name, product.Price, product.Description)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	return nil
}

// SaveProducts upserts an import batch in one round trip.
func (r *catalogRepository) SaveProducts(ctx context.Context, products []domain.Product) error {
	batch := &pgx.Batch{}
	query := `
	INSERT INTO products (id, category_id, section_id, name, price, description)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id)
	DO UPDATE SET category_id = $2, section_id = $3, name = $4, price = $5, description = $6`
	for _, p := range products {
		batch.Queue(query, p.ID, p.CategoryID, p.SectionID, p.Name, p.Price, p.Description)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range products {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save product batch: %w", err)
		}
	}

	return nil
}

func (r *catalogRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	query := `SELECT id, category_id, section_id, name, price, description FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.CategoryID, &p.SectionID, &p.Name, &p.Price, &p.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

func (r *catalogRepository) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	query := `
	SELECT id, category_id, section_id, name, price, description
	FROM products WHERE category_id = $1 ORDER BY name`
	return r.queryProducts(ctx, query, categoryID)
}

// SearchProducts matches product names case-insensitively.
func (r *catalogRepository) SearchProducts(ctx context.Context, search string) ([]domain.Product, error) {
	query := `
	SELECT id, category_id, section_id, name, price, description
	FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY name`
	return r.queryProducts(ctx, query, search)
}

func (r *catalogRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.SectionID, &p.Name, &p.Price, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// Reset clears all catalog data. Used by the sample-data seeder.
func (r *catalogRepository) Reset(ctx context.Context) error {
	for _, table := range []string{"products", "categories", "sections", "stores"} {
		if _, err := r.db.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}
