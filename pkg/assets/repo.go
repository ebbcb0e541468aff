package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssetRepository interface {
	ExistsBySerialNumber(ctx context.Context, serialNumber string) (bool, error)
	ExistsBySerialNumberExcluding(ctx context.Context, serialNumber string, id uuid.UUID) (bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (Asset, error)
	FindAll(ctx context.Context, filters AssetFilters) ([]Asset, error)
	Save(ctx context.Context, a Asset) (Asset, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// InTx runs fn against a repository bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(repo AssetRepository) error) error
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const assetColumns = `id, name, serial_number, acquisition_date, status, created_at, updated_at`

type postgresAssetRepository struct {
	db dbtx
}

func NewPostgresAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &postgresAssetRepository{db: pool}
}

func (r *postgresAssetRepository) InTx(ctx context.Context, fn func(repo AssetRepository) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&postgresAssetRepository{db: tx})
	})
}

func (r *postgresAssetRepository) ExistsBySerialNumber(ctx context.Context, serialNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM assets WHERE serial_number = $1)", serialNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check serial number: %w", err)
	}
	return exists, nil
}

func (r *postgresAssetRepository) ExistsBySerialNumberExcluding(ctx context.Context, serialNumber string, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM assets WHERE serial_number = $1 AND id <> $2)", serialNumber, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check serial number: %w", err)
	}
	return exists, nil
}

func (r *postgresAssetRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1)", id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check asset id: %w", err)
	}
	return exists, nil
}

func (r *postgresAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (Asset, error) {
	row := r.db.QueryRow(ctx, "SELECT "+assetColumns+" FROM assets WHERE id = $1", id)

	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrAssetNotFound
		}
		return Asset{}, fmt.Errorf("find asset: %w", err)
	}
	return a, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *postgresAssetRepository) FindAll(ctx context.Context, filters AssetFilters) ([]Asset, error) {
	whereClauses := []string{}
	args := []any{}
	argPos := 1

	if filters.Name != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("name ILIKE $%d", argPos))
		args = append(args, "%"+likeEscaper.Replace(filters.Name)+"%")
		argPos++
	}

	if filters.SerialNumber != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("serial_number ILIKE $%d", argPos))
		args = append(args, "%"+likeEscaper.Replace(filters.SerialNumber)+"%")
		argPos++
	}

	if filters.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*filters.Status))
		argPos++
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s
              FROM assets
              %s
              ORDER BY created_at, id`, assetColumns, whereSQL)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	items := make([]Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("list assets: %w", err)
		}
		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	return items, nil
}

// Save inserts a when it has no ID. Otherwise it overwrites the existing
// row with that ID and returns ErrAssetNotFound when there is none; a
// deleted asset is never recreated. created_at is never changed once written.
func (r *postgresAssetRepository) Save(ctx context.Context, a Asset) (Asset, error) {
	var row pgx.Row
	if a.ID == uuid.Nil {
		query := `INSERT INTO assets (name, serial_number, acquisition_date, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, NOW(), NOW())
              RETURNING ` + assetColumns
		row = r.db.QueryRow(ctx, query, a.Name, a.SerialNumber, a.AcquisitionDate, string(a.Status))
	} else {
		query := `UPDATE assets
              SET name = $2, serial_number = $3, acquisition_date = $4, status = $5, updated_at = NOW()
              WHERE id = $1
              RETURNING ` + assetColumns
		row = r.db.QueryRow(ctx, query, a.ID, a.Name, a.SerialNumber, a.AcquisitionDate, string(a.Status))
	}

	saved, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrAssetNotFound
		}
		return Asset{}, fmt.Errorf("save asset: %w", err)
	}
	return saved, nil
}

func (r *postgresAssetRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, "DELETE FROM assets WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func scanAsset(row pgx.Row) (Asset, error) {
	var a Asset
	var status string
	if err := row.Scan(&a.ID, &a.Name, &a.SerialNumber, &a.AcquisitionDate, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Asset{}, err
	}
	a.Status = Status(status)
	return a, nil
}

// isUniqueViolation reports whether err is PostgreSQL's unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
