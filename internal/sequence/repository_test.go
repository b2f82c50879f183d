package sequence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const nextSequenceSQL = `
		INSERT INTO number_sequences (partition_key, last_sequence, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (partition_key)
		DO UPDATE SET last_sequence = number_sequences.last_sequence + 1, updated_at = NOW()
		RETURNING last_sequence
	`

func TestNextSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(nextSequenceSQL)).
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"last_sequence"}).AddRow(int64(42)))

	seq, err := repo.NextSequence(context.Background(), "orders")
	require.NoError(t, err)
	require.Equal(t, int64(42), seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextSequence_EmptyPartitionKey(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	_, err = repo.NextSequence(context.Background(), "")
	require.Error(t, err)
}

func TestNextSequence_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(nextSequenceSQL)).
		WithArgs("orders").
		WillReturnError(errors.New("db down"))

	_, err = repo.NextSequence(context.Background(), "orders")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
