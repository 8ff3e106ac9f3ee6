package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/themes"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

// memStore backs the fake repositories. failOn makes the named method return
// the error; writes counts every mutating call that reached the store.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
	themes map[int64]models.Theme
	posts  map[int64]models.Post
	failOn map[string]error
	writes int
	now    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[int64]models.User{},
		themes: map[int64]models.Theme{},
		posts:  map[int64]models.Post{},
		failOn: map[string]error{},
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) fail(method string) error {
	return s.failOn[method]
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// --- users ---

type memUsers struct{ s *memStore }

var _ users.Repository = (*memUsers)(nil)

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.Create"); err != nil {
		return nil, err
	}
	for _, other := range r.s.users {
		if other.Username == u.Username || other.Email == u.Email {
			return nil, fmt.Errorf("%w: users_email_key", common.ErrorAlreadyExists)
		}
	}
	r.s.writes++
	u.ID = r.s.id()
	u.CreatedAt = r.s.tick()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return u, nil
}

func (r *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) FindByUsername(ctx context.Context, fragment string) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.FindByUsername"); err != nil {
		return nil, err
	}
	res := make([]*models.User, 0)
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		if containsFold(u.Username, fragment) {
			res = append(res, &u)
		}
	}
	return res, nil
}

func (r *memUsers) List(ctx context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.List"); err != nil {
		return nil, err
	}
	res := make([]*models.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		res = append(res, &u)
	}
	return res, nil
}

func (r *memUsers) Update(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.Update"); err != nil {
		return nil, err
	}
	old, ok := r.s.users[u.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	r.s.writes++
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = r.s.tick()
	r.s.users[u.ID] = *u
	return u, nil
}

func (r *memUsers) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	r.s.writes++
	delete(r.s.users, id)
	for pid, p := range r.s.posts {
		if p.UserID == id {
			delete(r.s.posts, pid)
		}
	}
	return nil
}

// --- themes ---

type memThemes struct{ s *memStore }

var _ themes.Repository = (*memThemes)(nil)

func (r *memThemes) Create(ctx context.Context, t *models.Theme) (*models.Theme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Themes.Create"); err != nil {
		return nil, err
	}
	r.s.writes++
	t.ID = r.s.id()
	t.CreatedAt = r.s.tick()
	t.UpdatedAt = t.CreatedAt
	r.s.themes[t.ID] = *t
	return t, nil
}

func (r *memThemes) GetByID(ctx context.Context, id int64) (*models.Theme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Themes.GetByID"); err != nil {
		return nil, err
	}
	t, ok := r.s.themes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *memThemes) filter(method string, match func(models.Theme) bool) ([]*models.Theme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(method); err != nil {
		return nil, err
	}
	res := make([]*models.Theme, 0)
	for _, id := range sortedKeys(r.s.themes) {
		t := r.s.themes[id]
		if match(t) {
			res = append(res, &t)
		}
	}
	return res, nil
}

func (r *memThemes) List(ctx context.Context) ([]*models.Theme, error) {
	return r.filter("Themes.List", func(models.Theme) bool { return true })
}

func (r *memThemes) FindByName(ctx context.Context, fragment string) ([]*models.Theme, error) {
	return r.filter("Themes.FindByName", func(t models.Theme) bool { return containsFold(t.Name, fragment) })
}

func (r *memThemes) FindByDescription(ctx context.Context, fragment string) ([]*models.Theme, error) {
	return r.filter("Themes.FindByDescription", func(t models.Theme) bool { return containsFold(t.Description, fragment) })
}

func (r *memThemes) Update(ctx context.Context, t *models.Theme) (*models.Theme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Themes.Update"); err != nil {
		return nil, err
	}
	old, ok := r.s.themes[t.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	r.s.writes++
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = r.s.tick()
	r.s.themes[t.ID] = *t
	return t, nil
}

func (r *memThemes) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Themes.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.themes[id]; !ok {
		return common.ErrorNotFound
	}
	r.s.writes++
	delete(r.s.themes, id)
	return nil
}

// --- posts ---

type memPosts struct{ s *memStore }

var _ posts.Repository = (*memPosts)(nil)

// joined must be called with the lock held.
func (r *memPosts) joined(p models.Post) *models.Post {
	if t, ok := r.s.themes[p.ThemeID]; ok {
		p.Theme = &t
	}
	if u, ok := r.s.users[p.UserID]; ok {
		pub := u.Public()
		p.User = &pub
	}
	return &p
}

func (r *memPosts) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Posts.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.s.themes[p.ThemeID]; !ok {
		return nil, fmt.Errorf("%w: posts_theme_id_fkey", common.ErrorNotFound)
	}
	r.s.writes++
	p.ID = r.s.id()
	p.CreatedAt = r.s.tick()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Theme, stored.User = nil, nil
	r.s.posts[p.ID] = stored
	return p, nil
}

func (r *memPosts) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Posts.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.joined(p), nil
}

func (r *memPosts) filter(method string, match func(models.Post) bool) ([]*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(method); err != nil {
		return nil, err
	}
	res := make([]*models.Post, 0)
	for _, id := range sortedKeys(r.s.posts) {
		p := r.s.posts[id]
		if match(p) {
			res = append(res, r.joined(p))
		}
	}
	return res, nil
}

func (r *memPosts) List(ctx context.Context) ([]*models.Post, error) {
	return r.filter("Posts.List", func(models.Post) bool { return true })
}

func (r *memPosts) FindByTitle(ctx context.Context, fragment string) ([]*models.Post, error) {
	return r.filter("Posts.FindByTitle", func(p models.Post) bool { return containsFold(p.Title, fragment) })
}

func (r *memPosts) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Posts.Update"); err != nil {
		return nil, err
	}
	old, ok := r.s.posts[p.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	r.s.writes++
	old.Title, old.Text, old.ThemeID = p.Title, p.Text, p.ThemeID
	old.UpdatedAt = r.s.tick()
	r.s.posts[p.ID] = old
	p.UserID, p.CreatedAt, p.UpdatedAt = old.UserID, old.CreatedAt, old.UpdatedAt
	return p, nil
}

func (r *memPosts) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Posts.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.posts[id]; !ok {
		return common.ErrorNotFound
	}
	r.s.writes++
	delete(r.s.posts, id)
	return nil
}

func (r *memPosts) DeleteByTheme(ctx context.Context, themeID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Posts.DeleteByTheme"); err != nil {
		return 0, err
	}
	var n int64
	for id, p := range r.s.posts {
		if p.ThemeID == themeID {
			delete(r.s.posts, id)
			n++
		}
	}
	if n > 0 {
		r.s.writes++
	}
	return n, nil
}

// --- manager ---

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return &memUsers{m.s} }
func (m *fakeRepoManager) Themes(db dbx.DBTX) themes.Repository        { return &memThemes{m.s} }
func (m *fakeRepoManager) Posts(db dbx.DBTX) posts.Repository          { return &memPosts{m.s} }

// plainHasher is a transparent PasswordHasher for tests that do not care
// about bcrypt cost.
type plainHasher struct {
	verifyCalls int
	hashErr     error
}

func (h *plainHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "plain$" + p, nil
}

func (h *plainHasher) Verify(p, hash string) (bool, error) {
	h.verifyCalls++
	if !strings.HasPrefix(hash, "plain$") {
		return false, fmt.Errorf("%w: bad hash", common.ErrorInternal)
	}
	return hash == "plain$"+p, nil
}

type errBoom struct{}

func (errBoom) Error() string { return "boom: connection reset" }
