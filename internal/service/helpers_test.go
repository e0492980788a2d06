package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/shortlink/config"
	"github.com/Payphone-Digital/shortlink/internal/model"
	"github.com/Payphone-Digital/shortlink/internal/repository"
	"github.com/Payphone-Digital/shortlink/internal/testutil"
	"github.com/Payphone-Digital/shortlink/pkg/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	links    *repository.LinkRepository
	cache    *TieredLinkCache
	tokens   *TokenService
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	env := &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		sessions: repository.NewSessionRepository(db),
		links:    repository.NewLinkRepository(db),
		tokens:   NewTokenService(testJWTConfig()),
	}
	redisClient, err := redis.NewClient(disabledRedisConfig())
	if err != nil {
		t.Fatal(err)
	}
	env.cache = NewTieredLinkCache(redisClient, time.Minute)
	t.Cleanup(env.cache.Close)
	env.auth = NewAuthService(env.users, env.sessions, env.tokens, NewBcryptHasher(bcrypt.MinCost))
	return env
}

func (e *testEnv) linkService(gen CodeGenerator, attempts int) *LinkService {
	return NewLinkService(e.links, gen, e.cache, "http://sho.rt/api/user", attempts)
}

func (e *testEnv) countLinks(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&model.Link{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

// sequenceGenerator replays fixed codes, then repeats the last one.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	if i >= len(g.codes) {
		i = len(g.codes) - 1
	}
	g.calls++
	return g.codes[i], nil
}

// blindLinkStore never reports a short code as taken, forcing conflicts onto the unique index.
type blindLinkStore struct {
	*repository.LinkRepository
}

func (blindLinkStore) ExistsByShortCode(context.Context, string) (bool, error) {
	return false, nil
}

func disabledRedisConfig() *config.Config {
	return &config.Config{Redis: config.RedisConfig{Enabled: false}}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
