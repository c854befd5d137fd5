package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"meetup/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var talkColumns = []string{
	"id", "event_id", "event_title", "event_date", "speaker_id", "username", "first_name", "last_name",
	"title", "description", "start_time", "end_time",
}

func TestEventRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepo(db)

	date := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO events").
		WithArgs("Go meetup", date, "Talks about Go").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	e := &domain.Event{Title: "Go meetup", Date: date, Description: "Talks about Go"}
	err = repo.Create(context.Background(), e)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), e.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepo(db)

	mock.ExpectExec("UPDATE events").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), &domain.Event{ID: 99, Title: "x"})

	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepo(db)

	date := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, title, date, description FROM events WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "description"}).
			AddRow(3, "Go meetup", date, "Talks"))
	mock.ExpectQuery("FROM talks t JOIN events e ON e.id = t.event_id JOIN users u ON u.id = t.speaker_id WHERE t.event_id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(talkColumns).
			AddRow(7, 3, "Go meetup", date, 10, "gopher", "", "", "Generics", "Type params", "18:00:00", "18:45:00"))

	e, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	require.NotNil(t, e)
	require.Len(t, e.Talks, 1)
	assert.Equal(t, domain.TimeOfDay{Hour: 18, Minute: 45}, e.Talks[0].End)
	assert.Equal(t, "gopher", e.Talks[0].Speaker.DisplayName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepo(db)

	mock.ExpectQuery("FROM events WHERE id = \\$1").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	e, err := repo.GetByID(context.Background(), 404)

	assert.NoError(t, err)
	assert.Nil(t, e)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_ListSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEventRepo(db)

	since := time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
	first := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	second := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, title, date, description FROM events WHERE date >= \\$1").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "description"}).
			AddRow(1, "June", first, "").
			AddRow(2, "July", second, ""))
	mock.ExpectQuery("WHERE t.event_id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(talkColumns).
			AddRow(5, 2, "July", second, 10, "gopher", "", "", "Late talk", "", "19:00:00", "20:00:00").
			AddRow(4, 2, "July", second, 11, "rob", "", "", "Early talk", "", "18:00:00", "19:00:00"))

	events, err := repo.ListSince(context.Background(), since)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Empty(t, events[0].Talks)
	assert.Len(t, events[1].Talks, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
