package service

import (
	"context"
	"testing"

	"kitchen-api/internal/domain"
	"kitchen-api/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mock repository for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Username]; exists {
		return repository.ErrUsernameTaken
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, exists := m.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email && email != "" {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Phone == phone && phone != "" {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	if existing, exists := m.users[username]; exists {
		existing.PasswordHash = passwordHash
		existing.Role = domain.RoleAdmin
		return nil
	}
	m.users[username] = &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
	}
	return nil
}

func newTestAuthService(repo repository.UserRepository) AuthService {
	return NewAuthService(repo, "test-secret-0123456789", 7)
}

func TestProperty_RegistrationHashesPasswords(t *testing.T) {
	// The SuchThat filters below discard generated strings outside their
	// length bounds; keep the generator size near those bounds and allow a
	// higher discard ratio so the run can reach the required successes.
	params := gopter.DefaultTestParameters()
	params.MinSize = 10
	params.MaxSize = 40
	params.MaxDiscardRatio = 30
	properties := gopter.NewProperties(params)

	properties.Property("stored hash is bcrypt and never the plaintext", prop.ForAll(
		func(username string, password string) bool {
			repo := newMockUserRepository()
			svc := newTestAuthService(repo)

			user, _, err := svc.Register(context.Background(), username, password, "")
			if err != nil {
				return true
			}

			if user.PasswordHash == password {
				t.Logf("FAIL: password stored as plaintext for %q", username)
				return false
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				t.Logf("FAIL: hash does not verify: %v", err)
				return false
			}
			return true
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) >= 3 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) >= 6 && len(s) <= 20 }),
	))

	properties.TestingRun(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "aizu", "secret123", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "aizu", "other-secret", "")
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
}

func TestRegister_ReturnsVerifiableToken(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	user, token, err := svc.Register(context.Background(), "aizu", "secret123", "aizu@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, domain.RoleUser, user.Role)

	principal, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, domain.RoleUser, principal.Role)
}

// Failed logins must not reveal whether the identifier or the password was
// wrong.
func TestLogin_UniformErrorOnBadCredentials(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "aizu", "secret123", "")
	require.NoError(t, err)

	_, _, errUnknownUser := svc.Login(ctx, "nobody", "secret123")
	_, _, errWrongPassword := svc.Login(ctx, "aizu", "wrong-password")

	assert.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.Equal(t, errUnknownUser.Error(), errWrongPassword.Error())
}

func TestLogin_IdentifierDispatch(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), BcryptCost)
	require.NoError(t, err)
	repo.users["aizu"] = &domain.User{
		ID:           uuid.New(),
		Username:     "aizu",
		Email:        "aizu@example.com",
		Phone:        "919876543210",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	for _, identifier := range []string{"aizu", "aizu@example.com", "919876543210"} {
		user, token, err := svc.Login(ctx, identifier, "secret123")
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, "aizu", user.Username)
		assert.NotEmpty(t, token)
	}
}

func TestClassifyIdentifier(t *testing.T) {
	cases := []struct {
		identifier string
		want       IdentifierKind
	}{
		{"aizu", IdentifierUsername},
		{"aizu@example.com", IdentifierEmail},
		{"9876543210", IdentifierPhone},
		{"+91 98765-43210", IdentifierPhone},
		{"user123", IdentifierUsername},
		{"", IdentifierUsername},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyIdentifier(tc.identifier), "identifier %q", tc.identifier)
	}
}

func TestVerifyToken_RejectsGarbage(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestVerifyToken_RejectsForeignSecret(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)

	other := NewAuthService(repo, "another-secret-9876543210", 7)
	user, token, err := other.Register(context.Background(), "aizu", "secret123", "")
	require.NoError(t, err)
	require.NotNil(t, user)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEnsureAdmin(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	// no-op when credentials are not configured
	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	assert.Empty(t, repo.users)

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "bootstrap-secret"))
	admin, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("bootstrap-secret")))
}
