package postgres

import (
	"context"
	"errors"
	"postboard/internal/adapter/out/storage"
	"testing"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*DocumentStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewDocumentStore(mock, trmpgx.DefaultCtxGetter), mock
}

func TestDocumentStore_Load(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m pgxmock.PgxPoolIface)
		want    []byte
		wantErr error
	}{
		{
			name: "found",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT body FROM collections WHERE name").
					WithArgs("posts").
					WillReturnRows(pgxmock.NewRows([]string{"body"}).AddRow([]byte(`{"next_id":1,"posts":[]}`)))
			},
			want: []byte(`{"next_id":1,"posts":[]}`),
		},
		{
			name: "missing row",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT body FROM collections WHERE name").
					WithArgs("posts").
					WillReturnError(pgx.ErrNoRows)
			},
			want: nil,
		},
		{
			name: "db down",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT body FROM collections WHERE name").
					WithArgs("posts").
					WillReturnError(errors.New("db down"))
			},
			wantErr: storage.ErrCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, mock := newMockStore(t)
			tt.setup(mock)

			got, err := st.Load(context.Background(), storage.CollectionPosts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentStore_Save(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "upsert",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec("INSERT INTO collections .* ON CONFLICT \\(name\\) DO UPDATE").
					WithArgs("users", []byte(`{}`)).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "write fails",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectExec("INSERT INTO collections").
					WithArgs("users", []byte(`{}`)).
					WillReturnError(errors.New("disk full"))
			},
			wantErr: storage.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, mock := newMockStore(t)
			tt.setup(mock)

			err := st.Save(context.Background(), storage.CollectionAccounts, []byte(`{}`))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentStore_EnsureSchema(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS collections").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, st.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_InvalidCollection(t *testing.T) {
	st, mock := newMockStore(t)

	_, err := st.Load(context.Background(), "")
	require.ErrorIs(t, err, storage.ErrBadCollection)
	require.ErrorIs(t, st.Save(context.Background(), "x.y", nil), storage.ErrBadCollection)
	require.NoError(t, mock.ExpectationsWereMet())
}
