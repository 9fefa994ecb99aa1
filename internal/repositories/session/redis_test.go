package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/phorm-app/phorm/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	// Set up test time
	s.testNow = time.Date(2025, 8, 10, 19, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newSession(id, passcode string, createdAt time.Time) *models.Session {
	return &models.Session{
		ID:       id,
		Name:     "Game Night",
		Passcode: passcode,
		Active:   true,
		Players: []*models.Player{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetSession() {
	session := s.newSession("test-session-id", "123456", s.testNow)

	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: session,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-session-id", retrieved.ID)
	s.Equal("Game Night", retrieved.Name)
	s.Equal("123456", retrieved.Passcode)
	s.True(retrieved.Active)
	s.Len(retrieved.Players, 2)
	s.Equal("Alice", retrieved.Players[0].Name)
	s.Equal("Bob", retrieved.Players[1].Name)
	s.Equal(s.testNow.Unix(), retrieved.CreatedAt.Unix())
}

func (s *RedisRepositoryTestSuite) TestGetSessionNotFound() {
	_, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		SessionID: "missing",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetActiveSessionByPasscode() {
	session := s.newSession("test-session-id", "123456", s.testNow)

	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: session,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetActiveSessionByPasscode(context.Background(), &GetActiveSessionByPasscodeInput{
		Passcode: "123456",
	})
	s.Require().NoError(err)
	s.Equal("test-session-id", retrieved.ID)
}

func (s *RedisRepositoryTestSuite) TestGetActiveSessionByPasscodeNotFound() {
	_, err := s.repo.GetActiveSessionByPasscode(context.Background(), &GetActiveSessionByPasscodeInput{
		Passcode: "999999",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestEndedSessionReleasesPasscode() {
	session := s.newSession("test-session-id", "123456", s.testNow)

	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: session,
	})
	s.Require().NoError(err)

	inUse, err := s.repo.PasscodeInUse(context.Background(), &PasscodeInUseInput{
		Passcode: "123456",
	})
	s.Require().NoError(err)
	s.True(inUse)

	// End the session
	endedAt := s.testNow.Add(time.Hour)
	session.Active = false
	session.EndedAt = &endedAt

	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: session,
	})
	s.Require().NoError(err)

	// The passcode is free for reuse
	inUse, err = s.repo.PasscodeInUse(context.Background(), &PasscodeInUseInput{
		Passcode: "123456",
	})
	s.Require().NoError(err)
	s.False(inUse)

	_, err = s.repo.GetActiveSessionByPasscode(context.Background(), &GetActiveSessionByPasscodeInput{
		Passcode: "123456",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestEndedSessionDoesNotReleaseReusedPasscode() {
	first := s.newSession("first-session", "123456", s.testNow)
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: first})
	s.Require().NoError(err)

	// A second session claims the same passcode while the first still holds
	// the mapping (the accepted check-then-save race)
	second := s.newSession("second-session", "123456", s.testNow.Add(time.Minute))
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: second})
	s.Require().NoError(err)

	// Ending the first session must not free the second session's passcode
	endedAt := s.testNow.Add(time.Hour)
	first.Active = false
	first.EndedAt = &endedAt
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: first})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetActiveSessionByPasscode(context.Background(), &GetActiveSessionByPasscodeInput{
		Passcode: "123456",
	})
	s.Require().NoError(err)
	s.Equal("second-session", retrieved.ID)
}

func (s *RedisRepositoryTestSuite) TestChangedPasscodeReleasesOldMapping() {
	session := s.newSession("test-session-id", "123456", s.testNow)
	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: session})
	s.Require().NoError(err)

	session.Passcode = "654321"
	err = s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: session})
	s.Require().NoError(err)

	inUse, err := s.repo.PasscodeInUse(context.Background(), &PasscodeInUseInput{
		Passcode: "123456",
	})
	s.Require().NoError(err)
	s.False(inUse)

	retrieved, err := s.repo.GetActiveSessionByPasscode(context.Background(), &GetActiveSessionByPasscodeInput{
		Passcode: "654321",
	})
	s.Require().NoError(err)
	s.Equal("test-session-id", retrieved.ID)
}

func (s *RedisRepositoryTestSuite) TestListSessionsNewestFirst() {
	older := s.newSession("older-session", "111111", s.testNow)
	newer := s.newSession("newer-session", "222222", s.testNow.Add(time.Hour))

	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: older}))
	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: newer}))

	output, err := s.repo.ListSessions(context.Background(), &ListSessionsInput{})
	s.Require().NoError(err)
	s.Require().Len(output.Sessions, 2)

	s.Equal("newer-session", output.Sessions[0].ID)
	s.Equal("older-session", output.Sessions[1].ID)
}

func (s *RedisRepositoryTestSuite) TestListSessionsEmpty() {
	output, err := s.repo.ListSessions(context.Background(), &ListSessionsInput{})
	s.Require().NoError(err)
	s.Empty(output.Sessions)
}

func (s *RedisRepositoryTestSuite) TestGetActiveSessions() {
	active := s.newSession("active-session", "111111", s.testNow)
	ended := s.newSession("ended-session", "222222", s.testNow.Add(time.Minute))
	endedAt := s.testNow.Add(time.Hour)
	ended.Active = false
	ended.EndedAt = &endedAt

	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: active}))
	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: ended}))

	output, err := s.repo.GetActiveSessions(context.Background(), &GetActiveSessionsInput{})
	s.Require().NoError(err)
	s.Require().Len(output.Sessions, 1)
	s.Equal("active-session", output.Sessions[0].ID)

	// Ended sessions remain listed in the full history
	all, err := s.repo.ListSessions(context.Background(), &ListSessionsInput{})
	s.Require().NoError(err)
	s.Len(all.Sessions, 2)
}
