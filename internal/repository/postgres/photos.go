package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
	"github.com/FrancoTaaber/photos-api/internal/core/port"
	"github.com/FrancoTaaber/photos-api/internal/repository"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const photoColumns = "id, auth, title, url, description, created_at, updated_at"

// PhotoRepository implements photo persistence on PostgreSQL.
type PhotoRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPhotoRepository constructs a repository backed by any executor that
// satisfies pgExecutor, typically a pgxpool.Pool.
func NewPhotoRepository(exec pgExecutor) *PhotoRepository {
	return &PhotoRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindAll retrieves all photos ordered by identifier.
func (r *PhotoRepository) FindAll(ctx context.Context) ([]domain.Photo, error) {
	stmt, args, err := r.builder.Select(photoColumns).
		From("photos").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list photos sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	photos := make([]domain.Photo, 0)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}

	return photos, nil
}

// FindByID retrieves a photo by its identifier.
func (r *PhotoRepository) FindByID(ctx context.Context, id int) (*domain.Photo, error) {
	stmt, args, err := r.builder.Select(photoColumns).
		From("photos").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select photo sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	photo, err := scanPhoto(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan photo by id: %w", err)
	}

	return &photo, nil
}

// Save inserts the photo when it carries no identifier yet, otherwise
// overwrites the record at the same identifier. On insert the assigned id is
// written back onto the passed struct.
func (r *PhotoRepository) Save(ctx context.Context, photo *domain.Photo) error {
	if photo.ID == 0 {
		return r.insert(ctx, photo)
	}
	return r.upsert(ctx, photo)
}

func (r *PhotoRepository) insert(ctx context.Context, photo *domain.Photo) error {
	stmt, args, err := r.builder.Insert("photos").
		Columns("auth", "title", "url", "description", "created_at", "updated_at").
		Values(photo.Auth, photo.Title, photo.URL, photo.Description, photo.CreatedAt, photo.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert photo sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&photo.ID); err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}

	return nil
}

func (r *PhotoRepository) upsert(ctx context.Context, photo *domain.Photo) error {
	stmt, args, err := r.builder.Insert("photos").
		Columns("id", "auth", "title", "url", "description", "created_at", "updated_at").
		Values(photo.ID, photo.Auth, photo.Title, photo.URL, photo.Description, photo.CreatedAt, photo.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET auth = EXCLUDED.auth, title = EXCLUDED.title, url = EXCLUDED.url, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert photo sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert photo: %w", err)
	}

	return nil
}

// DeleteByID removes a photo by identifier.
func (r *PhotoRepository) DeleteByID(ctx context.Context, id int) error {
	stmt, args, err := r.builder.Delete("photos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete photo sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanPhoto(row pgx.Row) (domain.Photo, error) {
	var (
		photo       domain.Photo
		description sql.NullString
	)

	if err := row.Scan(
		&photo.ID,
		&photo.Auth,
		&photo.Title,
		&photo.URL,
		&description,
		&photo.CreatedAt,
		&photo.UpdatedAt,
	); err != nil {
		return domain.Photo{}, err
	}

	if description.Valid {
		photo.Description = &description.String
	}

	return photo, nil
}

var _ port.PhotoRepository = (*PhotoRepository)(nil)
