package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/einherij/surveyor/pkg/mission"
)

type StoreSuite struct {
	suite.Suite

	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	store, err := Open(filepath.Join(s.T().TempDir(), "missions.db"))
	s.Require().NoError(err)
	s.store = store
}

func (s *StoreSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *StoreSuite) TestSaveAndRecent() {
	started := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	ended := time.Now().UTC().Truncate(time.Second)

	err := s.store.Save(context.Background(), mission.Context{
		ID:               "ab12cd34",
		WaypointsVisited: 2,
		PhotosCaptured:   6,
		Errors:           []string{"return home failed: wind drift"},
		StartTime:        started,
		EndTime:          ended,
	}, mission.StateError)
	s.NoError(err)

	records, err := s.store.Recent(context.Background(), 10)
	s.NoError(err)
	s.Require().Len(records, 1)

	r := records[0]
	s.Equal("ab12cd34", r.ID)
	s.Equal("ERROR", r.State)
	s.Equal(2, r.WaypointsVisited)
	s.Equal(6, r.PhotosCaptured)
	s.Equal([]string{"return home failed: wind drift"}, r.Errors)
	s.True(r.StartedAt.Equal(started))
	s.True(r.EndedAt.Equal(ended))
}

func (s *StoreSuite) TestRecentOrdersNewestFirst() {
	base := time.Now().UTC()
	for i, id := range []string{"run1", "run2", "run3"} {
		err := s.store.Save(context.Background(), mission.Context{
			ID:        id,
			StartTime: base.Add(time.Duration(i) * time.Minute),
			EndTime:   base.Add(time.Duration(i+1) * time.Minute),
		}, mission.StateComplete)
		s.NoError(err)
	}

	records, err := s.store.Recent(context.Background(), 2)
	s.NoError(err)
	s.Require().Len(records, 2)
	s.Equal("run3", records[0].ID)
	s.Equal("run2", records[1].ID)
}

func (s *StoreSuite) TestRecentEmpty() {
	records, err := s.store.Recent(context.Background(), 10)
	s.NoError(err)
	s.Empty(records)
}
