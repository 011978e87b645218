package postgres

import (
	"context"
	"errors"
	"fmt"
	"postboard/internal/adapter/out/storage"
	"postboard/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var ErrBuildingQuery = errors.New("error building sql-query")

var createTableQuery = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s TEXT PRIMARY KEY,
	%s JSONB NOT NULL,
	%s TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	tableinfo.CollectionsTableName,
	tableinfo.CollectionNameColumn,
	tableinfo.CollectionBodyColumn,
	tableinfo.CollectionUpdatedAtColumn,
)

// DocumentStore keeps every collection as one jsonb row keyed by name.
type DocumentStore struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewDocumentStore(db trmpgx.Tr, getter *trmpgx.CtxGetter) *DocumentStore {
	return &DocumentStore{
		db:     db,
		getter: getter,
	}
}

func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if _, err := tr.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("%w: create %s: %v", storage.ErrUnavailable, tableinfo.CollectionsTableName, err)
	}
	return nil
}

func (s *DocumentStore) Load(ctx context.Context, c storage.Collection) ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", storage.ErrBadCollection, c)
	}

	query, args, err := sq.
		Select(tableinfo.CollectionBodyColumn).
		From(tableinfo.CollectionsTableName).
		Where(sq.Eq{tableinfo.CollectionNameColumn: string(c)}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	var doc []byte
	if err := tr.QueryRow(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: select %s: %v", storage.ErrCorrupt, c, err)
	}
	return doc, nil
}

func (s *DocumentStore) Save(ctx context.Context, c storage.Collection, doc []byte) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", storage.ErrBadCollection, c)
	}

	query, args, err := sq.
		Insert(tableinfo.CollectionsTableName).
		Columns(
			tableinfo.CollectionNameColumn,
			tableinfo.CollectionBodyColumn,
			tableinfo.CollectionUpdatedAtColumn,
		).
		Values(string(c), doc, sq.Expr("now()")).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s",
			tableinfo.CollectionNameColumn,
			tableinfo.CollectionBodyColumn, tableinfo.CollectionBodyColumn,
			tableinfo.CollectionUpdatedAtColumn, tableinfo.CollectionUpdatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if _, err := tr.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", storage.ErrUnavailable, c, err)
	}
	return nil
}
