package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/hash"
	"github.com/Skotchmaster/shop_backend/internal/mail"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/testutil"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) (mail.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return mail.Receipt{}, m.err
	}
	m.sent = append(m.sent, msg)
	return mail.Receipt{MessageID: "<test@local>"}, nil
}

func (m *fakeMailer) last(t *testing.T) mail.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

type published struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, published{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

var linkToken = regexp.MustCompile(`/auth/(?:verify-me|reset)/([A-Za-z0-9_\-.]+)`)

func tokenFromMail(t *testing.T, msg mail.Message) string {
	t.Helper()
	m := linkToken.FindStringSubmatch(msg.HTML)
	require.Len(t, m, 2, "no link in %q", msg.HTML)
	return m[1]
}

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Tokens *tokens.Manager
	Mailer *fakeMailer
	Events *fakePublisher
	Auth   *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.InitTestDB(t)
	r := repo.New(db)
	tm := tokens.NewManager(testSecret)
	mailer := &fakeMailer{}
	pub := &fakePublisher{}

	return &testEnv{
		DB:     db,
		Repo:   r,
		Tokens: tm,
		Mailer: mailer,
		Events: pub,
		Auth: &AuthService{
			Repo:      r,
			Tokens:    tm,
			Mailer:    mailer,
			Events:    pub,
			PublicURL: "http://shop.test",
		},
	}
}

// seedUser stores a verified user with the given password.
func (e *testEnv) seedUser(t *testing.T, email, password string, admin bool) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	u := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Mobile:       uuid.NewString()[:12],
		PasswordHash: pwHash,
		IsAdmin:      admin,
		IsVerified:   true,
	}
	require.NoError(t, e.Repo.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) seedProduct(t *testing.T, title string, price float64, qty int) models.Product {
	t.Helper()
	return testutil.SeedProduct(t, e.DB, models.Product{
		Title:    title,
		Price:    price,
		Quantity: qty,
		Category: "misc",
		Brand:    "acme",
		Color:    "red",
	})
}

func fixedNow(ts string) func() time.Time {
	tm, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return tm }
}

var errBoom = errors.New("boom")
