package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicchallenge/internal/dependencies/mocks"
	"github.com/mcoot/musicchallenge/internal/dependencies/random"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage/memory"
	"github.com/mcoot/musicchallenge/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
	player  *model.Player
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger(), DefaultConfig())
	s.ctx = context.Background()

	s.player = &model.Player{Name: "Alice", Country: "US", Gender: model.GenderFemale, PasswordHash: "x", CreatedAt: s.clock.Now()}
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, s.player))
}

func (s *ServiceSuite) issue() *model.Session {
	session, err := s.service.Issue(s.ctx, s.player)
	s.Require().NoError(err)
	return session
}

// Issue tests

func (s *ServiceSuite) TestIssueStoresSession() {
	session := s.issue()

	s.True(random.IsToken(session.Token))
	s.Equal(s.player.ID, session.PlayerID)
	s.Equal(s.clock.Now().Add(7*24*time.Hour), session.ExpiresAt)

	stored, err := s.storage.GetSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(s.player.ID, stored.PlayerID)
}

func (s *ServiceSuite) TestIssueTokensAreDistinct() {
	s.NotEqual(s.issue().Token, s.issue().Token)
}

// Resolve tests

func (s *ServiceSuite) TestResolveValidToken() {
	session := s.issue()

	player := s.service.Resolve(s.ctx, session.Token)
	s.Require().NotNil(player)
	s.Equal("Alice", player.Name)
}

func (s *ServiceSuite) TestResolveRejectsBadTokens() {
	cases := map[string]string{
		"empty":          "",
		"numeric id":     "1",
		"wrong alphabet": strings.Repeat("!", random.TokenLength),
		"unknown":        strings.Repeat("a", random.TokenLength),
	}
	for name, token := range cases {
		s.Nil(s.service.Resolve(s.ctx, token), name)
	}
}

func (s *ServiceSuite) TestResolveExpiredDeletesSession() {
	session := s.issue()

	s.clock.Advance(7*24*time.Hour + time.Second)

	s.Nil(s.service.Resolve(s.ctx, session.Token))
	_, err := s.storage.GetSession(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestResolveJustBeforeExpiry() {
	session := s.issue()

	s.clock.Advance(7*24*time.Hour - time.Second)

	s.NotNil(s.service.Resolve(s.ctx, session.Token))
}

func (s *ServiceSuite) TestResolveDanglingPlayer() {
	token := strings.Repeat("b", random.TokenLength)
	s.Require().NoError(s.storage.SaveSession(s.ctx, &model.Session{
		Token:     token,
		PlayerID:  999,
		CreatedAt: s.clock.Now(),
		ExpiresAt: s.clock.Now().Add(time.Hour),
	}))

	s.Nil(s.service.Resolve(s.ctx, token))
	_, err := s.storage.GetSession(s.ctx, token)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Revoke tests

func (s *ServiceSuite) TestRevokeInvalidatesToken() {
	session := s.issue()

	s.service.Revoke(s.ctx, session.Token)

	s.Nil(s.service.Resolve(s.ctx, session.Token))
}

func (s *ServiceSuite) TestRevokeIsIdempotent() {
	session := s.issue()

	s.service.Revoke(s.ctx, session.Token)
	s.service.Revoke(s.ctx, session.Token)
	s.service.Revoke(s.ctx, "")
}

// CleanExpired tests

func (s *ServiceSuite) TestCleanExpiredRemovesOnlyExpired() {
	old := s.issue()
	s.clock.Advance(8 * 24 * time.Hour)
	fresh := s.issue()

	removed, err := s.service.CleanExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), removed)

	_, err = s.storage.GetSession(s.ctx, old.Token)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.NotNil(s.service.Resolve(s.ctx, fresh.Token))
}

// Cookie tests

func (s *ServiceSuite) TestSetCookieAttributes() {
	session := s.issue()
	rec := httptest.NewRecorder()

	s.service.SetCookie(rec, session)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	c := cookies[0]
	s.Equal(CookieName, c.Name)
	s.Equal(session.Token, c.Value)
	s.Equal("/", c.Path)
	s.Equal(7*24*60*60, c.MaxAge)
	s.True(c.HttpOnly)
	s.False(c.Secure)
	s.Equal(http.SameSiteLaxMode, c.SameSite)
}

func (s *ServiceSuite) TestSetCookieSecureFromConfig() {
	svc := New(s.storage, s.clock, s.random, testutil.NopLogger(), Config{CookieSecure: true})
	session, err := svc.Issue(s.ctx, s.player)
	s.Require().NoError(err)
	rec := httptest.NewRecorder()

	svc.SetCookie(rec, session)

	s.True(rec.Result().Cookies()[0].Secure)
}

func (s *ServiceSuite) TestClearCookie() {
	rec := httptest.NewRecorder()

	s.service.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(CookieName, cookies[0].Name)
	s.Empty(cookies[0].Value)
	s.Equal(-1, cookies[0].MaxAge)
}

func (s *ServiceSuite) TestTokenFromCookie() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Empty(TokenFromCookie(req))

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})
	s.Equal("abc", TokenFromCookie(req))
}
