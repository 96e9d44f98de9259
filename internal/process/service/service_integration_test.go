//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"visaflow/internal/audit"
	"visaflow/internal/checklist"
	"visaflow/internal/process/engine"
	"visaflow/internal/process/models"
	"visaflow/internal/process/store"
	id "visaflow/pkg/domain"
	"visaflow/pkg/requestcontext"
	"visaflow/pkg/testutil/containers"
)

// BackedServiceSuite runs the service against real Postgres and Redis.
type BackedServiceSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	redis  *containers.RedisContainer
	remote *store.PostgresStore
	cache  *store.RedisCache
	audits *audit.InMemoryStore
	svc    *Service
}

func TestBackedServiceSuite(t *testing.T) {
	suite.Run(t, new(BackedServiceSuite))
}

func (s *BackedServiceSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.redis = containers.NewRedisContainer(s.T())
	s.remote = store.NewPostgres(s.pg.Pool)
	s.Require().NoError(s.remote.Migrate(context.Background()))
	s.cache = store.NewRedisCache(s.redis.Client, time.Hour)
}

func (s *BackedServiceSuite) TearDownSuite() {
	s.redis.Close()
	s.pg.Close()
}

func (s *BackedServiceSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	eng, err := engine.New(checklist.DefaultDefinition())
	s.Require().NoError(err)
	s.audits = audit.NewInMemoryStore()
	s.svc = New(eng, s.remote, s.remote,
		WithLocalCache(s.cache),
		WithAuditPublisher(audit.NewPublisher(s.audits)),
	)
}

func (s *BackedServiceSuite) TestSpainFlowSurvivesCacheLoss() {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	staff := requestcontext.WithActor(ctx, requestcontext.ActorInfo{ID: "staff-1", Name: "Marta"})
	userID := id.UserID(uuid.New())

	for _, key := range []string{checklist.KeyBackgroundCheck, checklist.KeyBackgroundApostille} {
		_, err := s.svc.AttachDocument(ctx, userID, key, checklist.File{URL: "https://files.example/" + key + ".pdf"})
		s.Require().NoError(err)
		_, err = s.svc.ReviewDocument(staff, userID, key, checklist.DecisionVerified, "")
		s.Require().NoError(err)
	}
	_, err := s.svc.RequestSpain(ctx, userID, "club season starts in August")
	s.Require().NoError(err)
	_, err = s.svc.DecideSpain(staff, userID, true, "")
	s.Require().NoError(err)
	want, err := s.svc.ChooseRoute(ctx, userID, "spain")
	s.Require().NoError(err)
	s.True(want.TripUnlocked)

	s.Require().NoError(s.redis.FlushAll(ctx))

	got, err := s.svc.Load(ctx, userID)
	s.Require().NoError(err)
	s.Equal(want.Progress, got.Progress)
	s.Equal(want.Gate, got.Gate)
	s.True(got.TripUnlocked)
}

func (s *BackedServiceSuite) TestProfileDrivesMinorFlag() {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	userID := id.UserID(uuid.New())
	dob := time.Date(2011, 9, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.remote.SaveProfile(ctx, userID, models.Profile{DateOfBirth: &dob}))

	st, err := s.svc.ChooseRoute(ctx, userID, "spain")
	s.Require().NoError(err)
	s.True(st.IsMinor)
	s.Equal("usa", string(st.EffectiveRoute))
	s.Equal(9, st.Progress.Total)
}
