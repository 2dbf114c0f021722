package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// costArg converts Money to a nullable SQL argument.
func costArg(m domain.Money) *int64 {
	if !m.Known {
		return nil
	}
	amount := m.Amount
	return &amount
}

// costFromColumn converts a scanned nullable column back to Money.
func costFromColumn(v *int64) domain.Money {
	if v == nil {
		return domain.UnknownMoney()
	}
	return domain.NewMoney(*v)
}

// CreateComponent inserts a component and fills in its generated fields.
func (s *PostgresStore) CreateComponent(ctx context.Context, c *domain.Component) error {
	args := pgx.NamedArgs{
		"sku":             c.SKU,
		"description":     c.Description,
		"brand":           c.Brand,
		"unit_cost_minor": costArg(c.UnitCost),
	}

	return s.pool.QueryRow(ctx, queryCreateComponent, args).Scan(
		&c.ID, &c.CreatedAt, &c.UpdatedAt,
	)
}

func scanComponent(row pgx.Row, c *domain.Component) error {
	var cost *int64
	if err := row.Scan(
		&c.ID, &c.SKU, &c.Description, &c.Brand, &cost, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return err
	}
	c.UnitCost = costFromColumn(cost)
	return nil
}

// GetComponent retrieves a component by its internal UUID.
func (s *PostgresStore) GetComponent(ctx context.Context, id string) (*domain.Component, error) {
	c := &domain.Component{}
	if err := scanComponent(s.pool.QueryRow(ctx, queryGetComponent, id), c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetComponentBySKU retrieves a component by its SKU.
func (s *PostgresStore) GetComponentBySKU(ctx context.Context, sku string) (*domain.Component, error) {
	c := &domain.Component{}
	if err := scanComponent(s.pool.QueryRow(ctx, queryGetComponentBySKU, sku), c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComponents queries components with optional filters, returning results
// and total count.
func (s *PostgresStore) ListComponents(
	ctx context.Context,
	opts *ComponentQuery,
) ([]domain.Component, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting components: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying components: %w", err)
	}
	defer rows.Close()

	var components []domain.Component
	for rows.Next() {
		var c domain.Component
		if err := scanComponent(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("scanning component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating components: %w", err)
	}

	return components, total, nil
}

// UpdateComponentCost sets a component's unit cost. An unknown Money
// clears the stored cost.
func (s *PostgresStore) UpdateComponentCost(ctx context.Context, id string, unitCost domain.Money) error {
	tag, err := s.pool.Exec(ctx, queryUpdateComponentCost, id, costArg(unitCost))
	if err != nil {
		return fmt.Errorf("updating component cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteComponent removes a component.
func (s *PostgresStore) DeleteComponent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteComponent, id)
	if err != nil {
		return fmt.Errorf("deleting component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CreateBom inserts a BOM and its lines in a single transaction.
func (s *PostgresStore) CreateBom(ctx context.Context, b *domain.BillOfMaterials) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	args := pgx.NamedArgs{
		"sku":         b.SKU,
		"description": b.Description,
		"active":      b.Active,
	}
	if err := tx.QueryRow(ctx, queryCreateBom, args).Scan(
		&b.ID, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return fmt.Errorf("inserting bom: %w", err)
	}

	for i, line := range b.Lines {
		if _, err := tx.Exec(ctx, queryInsertBomLine,
			b.ID, line.ComponentID, line.Quantity,
		); err != nil {
			return fmt.Errorf("inserting bom line %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetBom retrieves a BOM with its lines by internal UUID.
func (s *PostgresStore) GetBom(ctx context.Context, id string) (*domain.BillOfMaterials, error) {
	b := &domain.BillOfMaterials{}
	err := s.pool.QueryRow(ctx, queryGetBom, id).Scan(
		&b.ID, &b.SKU, &b.Description, &b.Active, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.attachLines(ctx, []*domain.BillOfMaterials{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBomBySKU retrieves a BOM with its lines by SKU.
func (s *PostgresStore) GetBomBySKU(ctx context.Context, sku string) (*domain.BillOfMaterials, error) {
	b := &domain.BillOfMaterials{}
	err := s.pool.QueryRow(ctx, queryGetBomBySKU, sku).Scan(
		&b.ID, &b.SKU, &b.Description, &b.Active, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.attachLines(ctx, []*domain.BillOfMaterials{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// GetActiveBoms returns all active BOMs with their lines and line costs.
func (s *PostgresStore) GetActiveBoms(ctx context.Context) ([]domain.BillOfMaterials, error) {
	rows, err := s.pool.Query(ctx, queryGetActiveBoms)
	if err != nil {
		return nil, fmt.Errorf("querying active boms: %w", err)
	}
	defer rows.Close()

	var boms []domain.BillOfMaterials
	for rows.Next() {
		var b domain.BillOfMaterials
		if err := rows.Scan(
			&b.ID, &b.SKU, &b.Description, &b.Active, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning bom: %w", err)
		}
		boms = append(boms, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating boms: %w", err)
	}

	refs := make([]*domain.BillOfMaterials, len(boms))
	for i := range boms {
		refs[i] = &boms[i]
	}
	if err := s.attachLines(ctx, refs); err != nil {
		return nil, err
	}

	return boms, nil
}

// attachLines loads bom_lines for the given BOMs in one query.
func (s *PostgresStore) attachLines(ctx context.Context, boms []*domain.BillOfMaterials) error {
	if len(boms) == 0 {
		return nil
	}

	ids := make([]string, len(boms))
	byID := make(map[string]*domain.BillOfMaterials, len(boms))
	for i, b := range boms {
		ids[i] = b.ID
		byID[b.ID] = b
	}

	rows, err := s.pool.Query(ctx, queryGetBomLines, ids)
	if err != nil {
		return fmt.Errorf("querying bom lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bomID string
			line  domain.BomLine
			cost  *int64
		)
		if err := rows.Scan(&bomID, &line.ComponentID, &line.ComponentSKU, &line.Quantity, &cost); err != nil {
			return fmt.Errorf("scanning bom line: %w", err)
		}
		line.UnitCost = costFromColumn(cost)

		if b, ok := byID[bomID]; ok {
			b.Lines = append(b.Lines, line)
		}
	}
	return rows.Err()
}

// SetBomActive toggles a BOM's active flag.
func (s *PostgresStore) SetBomActive(ctx context.Context, id string, active bool) error {
	tag, err := s.pool.Exec(ctx, querySetBomActive, id, active)
	if err != nil {
		return fmt.Errorf("setting bom active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteBom removes a BOM and, via cascade, its lines and mappings.
func (s *PostgresStore) DeleteBom(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteBom, id)
	if err != nil {
		return fmt.Errorf("deleting bom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpsertListingMapping inserts or replaces a marketplace-identifier-to-BOM link.
func (s *PostgresStore) UpsertListingMapping(ctx context.Context, m *domain.ListingMapping) error {
	_, err := s.pool.Exec(ctx, queryUpsertListingMapping,
		m.ASIN, m.BomID, m.FeeOverridePercent,
	)
	if err != nil {
		return fmt.Errorf("upserting listing mapping: %w", err)
	}
	return nil
}

// GetListingMappings returns mappings for the given identifiers, keyed by
// identifier. Identifiers without a mapping are simply absent.
func (s *PostgresStore) GetListingMappings(
	ctx context.Context,
	asins []string,
) (map[string]domain.ListingMapping, error) {
	rows, err := s.pool.Query(ctx, queryGetListingMappings, asins)
	if err != nil {
		return nil, fmt.Errorf("querying listing mappings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.ListingMapping)
	for rows.Next() {
		var m domain.ListingMapping
		if err := rows.Scan(&m.ASIN, &m.BomID, &m.FeeOverridePercent); err != nil {
			return nil, fmt.Errorf("scanning listing mapping: %w", err)
		}
		out[m.ASIN] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listing mappings: %w", err)
	}

	return out, nil
}

// DeleteListingMapping removes an identifier-to-BOM link.
func (s *PostgresStore) DeleteListingMapping(ctx context.Context, asin string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteListingMapping, asin)
	if err != nil {
		return fmt.Errorf("deleting listing mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetStockLevels returns stock for the given components at one location.
// Components with no stock row are simply absent from the snapshot.
func (s *PostgresStore) GetStockLevels(
	ctx context.Context,
	componentIDs []string,
	location string,
) (domain.StockSnapshot, error) {
	rows, err := s.pool.Query(ctx, queryGetStockLevels, componentIDs, location)
	if err != nil {
		return nil, fmt.Errorf("querying stock levels: %w", err)
	}
	defer rows.Close()

	snapshot := make(domain.StockSnapshot)
	for rows.Next() {
		var (
			componentID string
			level       domain.StockLevel
		)
		if err := rows.Scan(&componentID, &level.OnHand, &level.Reserved); err != nil {
			return nil, fmt.Errorf("scanning stock level: %w", err)
		}
		snapshot[componentID] = level
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock levels: %w", err)
	}

	return snapshot, nil
}

// UpsertStockLevel inserts or replaces one component's stock at a location.
func (s *PostgresStore) UpsertStockLevel(
	ctx context.Context,
	componentID, location string,
	onHand, reserved int,
) error {
	_, err := s.pool.Exec(ctx, queryUpsertStockLevel, componentID, location, onHand, reserved)
	if err != nil {
		return fmt.Errorf("upserting stock level: %w", err)
	}
	return nil
}

// ListWatchlist returns all watched identifiers in insertion order.
func (s *PostgresStore) ListWatchlist(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, queryListWatchlist)
	if err != nil {
		return nil, fmt.Errorf("querying watchlist: %w", err)
	}
	defer rows.Close()

	var asins []string
	for rows.Next() {
		var asin string
		if err := rows.Scan(&asin); err != nil {
			return nil, fmt.Errorf("scanning watchlist item: %w", err)
		}
		asins = append(asins, asin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating watchlist: %w", err)
	}

	return asins, nil
}

// AddWatchlistItem adds an identifier to the watchlist. Adding a watched
// identifier again is a no-op.
func (s *PostgresStore) AddWatchlistItem(ctx context.Context, asin string) error {
	_, err := s.pool.Exec(ctx, queryAddWatchlistItem, asin)
	if err != nil {
		return fmt.Errorf("adding watchlist item: %w", err)
	}
	return nil
}

// RemoveWatchlistItem removes an identifier from the watchlist.
func (s *PostgresStore) RemoveWatchlistItem(ctx context.Context, asin string) error {
	tag, err := s.pool.Exec(ctx, queryRemoveWatchlistItem, asin)
	if err != nil {
		return fmt.Errorf("removing watchlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IsNotFound reports whether an error is the store's not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
