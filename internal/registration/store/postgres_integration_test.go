//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"motoreg/internal/registration/models"
	"motoreg/internal/registration/store"
	"motoreg/pkg/platform/sentinel"
	"motoreg/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background(), "registrations"))
}

func newTestRecord(document, plate string) *models.Record {
	return &models.Record{
		FullName:  "JUAN PÉREZ",
		BirthDate: time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC),
		Document:  document,
		Phone:     "3001234567",
		Plate:     plate,
		Sector:    models.SectorSamaria,
	}
}

func (s *PostgresStoreSuite) TestCreateAssignsServerFields() {
	ctx := context.Background()
	rec := newTestRecord("1234567", "ABC12")
	s.Require().NoError(s.store.Create(ctx, rec))
	s.NotEmpty(rec.ID)
	s.False(rec.CreatedAt.IsZero())
}

func (s *PostgresStoreSuite) TestFindByDocumentAndPlate() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRecord("1234567", "ABC12")))

	found, err := s.store.FindByDocument(ctx, "1234567")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("ABC12", found[0].Plate)
	s.Equal(models.SectorSamaria, found[0].Sector)

	found, err = s.store.FindByPlate(ctx, "ABC12")
	s.Require().NoError(err)
	s.Len(found, 1)

	found, err = s.store.FindByDocument(ctx, "999")
	s.Require().NoError(err)
	s.Empty(found)
}

func (s *PostgresStoreSuite) TestUniqueViolationSurfacesAsConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestRecord("1234567", "ABC12")))

	err := s.store.Create(ctx, newTestRecord("1234567", "XYZ99"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	err = s.store.Create(ctx, newTestRecord("7654321", "ABC12"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestListAllNewestFirst() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		rec := newTestRecord(fmt.Sprintf("100000%d", i), fmt.Sprintf("AAA1%d", i))
		s.Require().NoError(s.store.Create(ctx, rec))
		time.Sleep(10 * time.Millisecond) // distinct created_at
	}

	recs, err := s.store.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(recs, 3)
	s.Equal("1000002", recs[0].Document)
	s.Equal("1000000", recs[2].Document)
}

// TestConcurrentDuplicateDocument verifies the unique index is the real
// uniqueness guarantee: racing creates with the same document yield exactly
// one success, the rest conflict.
func (s *PostgresStoreSuite) TestConcurrentDuplicateDocument() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := newTestRecord("5555555", fmt.Sprintf("ZZZ%02d", i))
			switch err := s.store.Create(ctx, rec); {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}
