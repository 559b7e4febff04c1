package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/musicchallenge/internal/dependencies/mocks"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage/memory"
	"github.com/mcoot/musicchallenge/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = s.newService(Config{BcryptCost: bcrypt.MinCost})
	s.ctx = context.Background()
}

func (s *ServiceSuite) newService(cfg Config) *Service {
	svc, err := New(s.storage, s.clock, mocks.NewMockRandom(), testutil.NopLogger(), cfg)
	s.Require().NoError(err)
	return svc
}

func alice() RegisterInput {
	return RegisterInput{Name: "Alice", Country: "US", Gender: model.GenderFemale, Password: "Secret123"}
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	player, err := s.service.Register(s.ctx, alice())
	s.Require().NoError(err)

	s.NotZero(player.ID)
	s.Equal("Alice", player.Name)
	s.Equal("US", player.Country)
	s.Equal(model.GenderFemale, player.Gender)
	s.Nil(player.BestScore)
	s.Equal(s.clock.Now(), player.CreatedAt)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	player, err := s.service.Register(s.ctx, alice())
	s.Require().NoError(err)

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.NotEqual("Secret123", stored.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123")))

	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	s.Require().NoError(err)
	s.Equal(bcrypt.MinCost, cost)
}

func (s *ServiceSuite) TestRegisterTrimsAndNormalizes() {
	in := alice()
	in.Name = "  Alice "
	in.Gender = "Female"

	player, err := s.service.Register(s.ctx, in)
	s.Require().NoError(err)
	s.Equal("Alice", player.Name)
	s.Equal(model.GenderFemale, player.Gender)
}

func (s *ServiceSuite) TestRegisterDuplicateName() {
	_, err := s.service.Register(s.ctx, RegisterInput{Name: "Bob", Country: "UK", Gender: model.GenderMale, Password: "pw"})
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, RegisterInput{Name: "Bob", Country: "FR", Gender: model.GenderMale, Password: "other"})
	s.ErrorIs(err, model.ErrDuplicateName)

	top, err := s.storage.TopPlayers(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(top, 1)
}

func (s *ServiceSuite) TestRegisterConcurrentDuplicateOneWinner() {
	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Register(s.ctx, RegisterInput{Name: "Bob", Country: "UK", Gender: model.GenderMale, Password: "pw"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrDuplicateName)
	}
	s.Equal(1, succeeded)
}

func (s *ServiceSuite) TestRegisterValidation() {
	cases := []struct {
		name   string
		modify func(*RegisterInput)
		want   error
	}{
		{"empty name", func(in *RegisterInput) { in.Name = "   " }, ErrInvalidName},
		{"long name", func(in *RegisterInput) { in.Name = strings.Repeat("a", 33) }, ErrInvalidName},
		{"empty country", func(in *RegisterInput) { in.Country = "" }, ErrInvalidCountry},
		{"bad gender", func(in *RegisterInput) { in.Gender = "other" }, ErrInvalidGender},
		{"empty password", func(in *RegisterInput) { in.Password = "" }, ErrInvalidPassword},
		{"password too long", func(in *RegisterInput) { in.Password = strings.Repeat("x", 73) }, ErrInvalidPassword},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			in := alice()
			tc.modify(&in)
			_, err := s.service.Register(s.ctx, in)
			s.ErrorIs(err, tc.want)
			s.True(IsValidationError(err))
		})
	}
}

func (s *ServiceSuite) TestRegisterStrongPasswordPolicy() {
	svc := s.newService(Config{BcryptCost: bcrypt.MinCost, RequireStrongPassword: true})

	for _, pw := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		in := alice()
		in.Password = pw
		_, err := svc.Register(s.ctx, in)
		s.ErrorIs(err, ErrWeakPassword, pw)
	}

	_, err := svc.Register(s.ctx, alice())
	s.NoError(err)
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateSucceeds() {
	registered, _ := s.service.Register(s.ctx, alice())

	player, err := s.service.Authenticate(s.ctx, "Alice", "Secret123")
	s.Require().NoError(err)
	s.Equal(registered.ID, player.ID)
}

func (s *ServiceSuite) TestAuthenticateTrimsName() {
	in := alice()
	in.Name = " Alice"
	registered, err := s.service.Register(s.ctx, in)
	s.Require().NoError(err)

	for _, name := range []string{" Alice", "Alice", "Alice  "} {
		player, err := s.service.Authenticate(s.ctx, name, "Secret123")
		s.Require().NoError(err, name)
		s.Equal(registered.ID, player.ID)
	}
}

func (s *ServiceSuite) TestAuthenticateWrongPasswordAndUnknownNameMatch() {
	_, _ = s.service.Register(s.ctx, alice())

	_, wrongPassword := s.service.Authenticate(s.ctx, "Alice", "nope")
	_, unknownName := s.service.Authenticate(s.ctx, "Nobody", "Secret123")

	s.ErrorIs(wrongPassword, ErrInvalidCredentials)
	s.ErrorIs(unknownName, ErrInvalidCredentials)
	s.Equal(wrongPassword.Error(), unknownName.Error())
}

func (s *ServiceSuite) TestDummyHashUsesConfiguredCost() {
	cost, err := bcrypt.Cost(s.service.dummyHash)
	s.Require().NoError(err)
	s.Equal(bcrypt.MinCost, cost)
}

// FindByID tests

func (s *ServiceSuite) TestFindByID() {
	registered, _ := s.service.Register(s.ctx, alice())

	player, err := s.service.FindByID(s.ctx, registered.ID)
	s.Require().NoError(err)
	s.Equal("Alice", player.Name)

	_, err = s.service.FindByID(s.ctx, 999)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// DemoPlayer tests

func (s *ServiceSuite) TestDemoPlayerCreatedOnce() {
	first, err := s.service.DemoPlayer(s.ctx)
	s.Require().NoError(err)
	s.Equal(DemoPlayerName, first.Name)

	second, err := s.service.DemoPlayer(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
}

func (s *ServiceSuite) TestDemoPlayerCannotLogInWithPassword() {
	_, err := s.service.DemoPlayer(s.ctx)
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, DemoPlayerName, "")
	s.ErrorIs(err, ErrInvalidCredentials)
}
