package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Component queries.
const (
	queryCreateComponent = `
		INSERT INTO components (sku, description, brand, unit_cost_minor)
		VALUES (@sku, @description, @brand, @unit_cost_minor)
		RETURNING id, created_at, updated_at`

	queryGetComponent = `
		SELECT id, sku, description, brand, unit_cost_minor, created_at, updated_at
		FROM components
		WHERE id = $1`

	queryGetComponentBySKU = `
		SELECT id, sku, description, brand, unit_cost_minor, created_at, updated_at
		FROM components
		WHERE sku = $1`

	queryUpdateComponentCost = `
		UPDATE components SET
			unit_cost_minor = $2,
			updated_at = now()
		WHERE id = $1`

	queryDeleteComponent = `
		DELETE FROM components WHERE id = $1`
)

// BOM queries.
const (
	queryCreateBom = `
		INSERT INTO boms (sku, description, active)
		VALUES (@sku, @description, @active)
		RETURNING id, created_at, updated_at`

	queryInsertBomLine = `
		INSERT INTO bom_lines (bom_id, component_id, quantity)
		VALUES ($1, $2, $3)`

	queryGetBom = `
		SELECT id, sku, description, active, created_at, updated_at
		FROM boms
		WHERE id = $1`

	queryGetBomBySKU = `
		SELECT id, sku, description, active, created_at, updated_at
		FROM boms
		WHERE sku = $1`

	queryGetActiveBoms = `
		SELECT id, sku, description, active, created_at, updated_at
		FROM boms
		WHERE active
		ORDER BY sku`

	queryGetBomLines = `
		SELECT bl.bom_id, bl.component_id, c.sku, bl.quantity, c.unit_cost_minor
		FROM bom_lines bl
		JOIN components c ON c.id = bl.component_id
		WHERE bl.bom_id = ANY($1)
		ORDER BY bl.bom_id, c.sku`

	querySetBomActive = `
		UPDATE boms SET
			active = $2,
			updated_at = now()
		WHERE id = $1`

	queryDeleteBom = `
		DELETE FROM boms WHERE id = $1`
)

// Listing mapping queries.
const (
	queryUpsertListingMapping = `
		INSERT INTO listing_mappings (asin, bom_id, fee_override_percent)
		VALUES ($1, $2, $3)
		ON CONFLICT (asin) DO UPDATE SET
			bom_id = EXCLUDED.bom_id,
			fee_override_percent = EXCLUDED.fee_override_percent`

	queryGetListingMappings = `
		SELECT asin, bom_id, fee_override_percent
		FROM listing_mappings
		WHERE asin = ANY($1)`

	queryDeleteListingMapping = `
		DELETE FROM listing_mappings WHERE asin = $1`
)

// Stock queries.
const (
	queryGetStockLevels = `
		SELECT component_id, on_hand, reserved
		FROM stock_levels
		WHERE component_id = ANY($1) AND location = $2`

	queryUpsertStockLevel = `
		INSERT INTO stock_levels (component_id, location, on_hand, reserved, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (component_id, location) DO UPDATE SET
			on_hand = EXCLUDED.on_hand,
			reserved = EXCLUDED.reserved,
			updated_at = now()`
)

// Watchlist queries.
const (
	queryListWatchlist = `
		SELECT asin FROM watchlist ORDER BY added_at`

	queryAddWatchlistItem = `
		INSERT INTO watchlist (asin) VALUES ($1)
		ON CONFLICT (asin) DO NOTHING`

	queryRemoveWatchlistItem = `
		DELETE FROM watchlist WHERE asin = $1`
)
