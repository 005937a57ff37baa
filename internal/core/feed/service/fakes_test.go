package feedapp

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"feedline/internal/core/imagecleanup"
	postEntity "feedline/internal/core/post"
	userEntity "feedline/internal/core/user"
	"feedline/internal/ports"
	cleanupPort "feedline/internal/ports/imagecleanup"
	postPort "feedline/internal/ports/post"
	"feedline/internal/ports/store"
	userPort "feedline/internal/ports/user"

	"github.com/gofrs/uuid"
)

type memState struct {
	users map[string]userEntity.User
	owned map[string][]string
	posts map[string]postEntity.Post
	tasks []imagecleanup.Task
	seq   uint64
}

func (m *memState) clone() *memState {
	c := &memState{
		users: map[string]userEntity.User{},
		owned: map[string][]string{},
		posts: map[string]postEntity.Post{},
		tasks: append([]imagecleanup.Task(nil), m.tasks...),
		seq:   m.seq,
	}
	for k, v := range m.users {
		c.users[k] = v
	}
	for k, v := range m.owned {
		c.owned[k] = append([]string(nil), v...)
	}
	for k, v := range m.posts {
		c.posts[k] = v
	}
	return c
}

// memStore is an in-memory store.Transactor. WithinTx restores the previous
// state when fn fails.
type memStore struct {
	mu    sync.Mutex
	state *memState
	clock time.Time

	failCount  error
	failCreate error
}

func newMemStore() *memStore {
	return &memStore{
		state: &memState{
			users: map[string]userEntity.User{},
			owned: map[string][]string{},
			posts: map[string]postEntity.Post{},
		},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Posts() postPort.PostRepository { return memPosts{m} }

func (m *memStore) Users() userPort.UserRepository { return memUsers{m} }

func (m *memStore) Cleanup() cleanupPort.CleanupRepository { return memCleanup{m} }

func (m *memStore) WithinTx(ctx context.Context, fn func(tx store.Stores) error) error {
	m.mu.Lock()
	snapshot := m.state.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *memStore) addUser(name string) userEntity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := userEntity.User{ID: uuid.Must(uuid.NewV4()), Email: name + "@example.com", Name: name, Status: userEntity.DefaultStatus}
	m.state.users[u.ID.String()] = u
	return u
}

func (m *memStore) pendingPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var paths []string
	for _, t := range m.state.tasks {
		if t.Status == imagecleanup.StatusPending {
			paths = append(paths, t.ImagePath)
		}
	}
	return paths
}

type memPosts struct{ m *memStore }

func (r memPosts) Create(ctx context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failCreate != nil {
		return nil, r.m.failCreate
	}
	r.m.state.seq++
	r.m.clock = r.m.clock.Add(time.Minute)
	p.Seq = r.m.state.seq
	p.CreatedAt = r.m.clock
	p.UpdatedAt = r.m.clock
	r.m.state.posts[p.ID.String()] = *p
	return p, nil
}

func (r memPosts) FindByID(ctx context.Context, id string) (*postEntity.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.state.posts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	p.Creator = r.m.state.users[p.CreatorID.String()]
	return &p, nil
}

func (r memPosts) Update(ctx context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	r.m.mu.Lock()
	stored, ok := r.m.state.posts[p.ID.String()]
	if !ok {
		r.m.mu.Unlock()
		return nil, ports.ErrNotFound
	}
	stored.Title, stored.Content, stored.ImageURL = p.Title, p.Content, p.ImageURL
	r.m.state.posts[p.ID.String()] = stored
	r.m.mu.Unlock()
	return r.FindByID(ctx, p.ID.String())
}

func (r memPosts) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.state.posts[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.m.state.posts, id)
	return nil
}

func (r memPosts) List(ctx context.Context, offset, limit int) ([]*postEntity.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	all := make([]postEntity.Post, 0, len(r.m.state.posts))
	for _, p := range r.m.state.posts {
		p.Creator = r.m.state.users[p.CreatorID.String()]
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Seq > all[j].Seq
	})
	var out []*postEntity.Post
	for i := offset; i < len(all) && i < offset+limit; i++ {
		p := all[i]
		out = append(out, &p)
	}
	return out, nil
}

func (r memPosts) Count(ctx context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failCount != nil {
		return 0, r.m.failCount
	}
	return int64(len(r.m.state.posts)), nil
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(ctx context.Context, u *userEntity.User) (*userEntity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.state.users[u.ID.String()] = *u
	return u, nil
}

func (r memUsers) FindByID(ctx context.Context, id string) (*userEntity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.state.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*userEntity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.state.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r memUsers) UpdateStatus(ctx context.Context, id, status string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.state.users[id]
	if !ok {
		return ports.ErrNotFound
	}
	u.Status = status
	r.m.state.users[id] = u
	return nil
}

func (r memUsers) AddPost(ctx context.Context, userID, postID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.state.owned[userID] = append(r.m.state.owned[userID], postID)
	return nil
}

func (r memUsers) RemovePost(ctx context.Context, userID, postID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ids := r.m.state.owned[userID]
	kept := ids[:0]
	for _, id := range ids {
		if id != postID {
			kept = append(kept, id)
		}
	}
	r.m.state.owned[userID] = kept
	return nil
}

func (r memUsers) PostIDs(ctx context.Context, userID string) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]string(nil), r.m.state.owned[userID]...), nil
}

type memCleanup struct{ m *memStore }

func (r memCleanup) Enqueue(ctx context.Context, tasks ...*imagecleanup.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range tasks {
		r.m.state.tasks = append(r.m.state.tasks, *t)
	}
	return nil
}

func (r memCleanup) GetPending(ctx context.Context, limit int64) ([]*imagecleanup.Task, error) {
	return nil, errors.New("not used")
}

func (r memCleanup) MarkDone(ctx context.Context, id uuid.UUID) error { return nil }

func (r memCleanup) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error { return nil }

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) Notify(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return nil
}

func (n *countingNotifier) Wait(ctx context.Context, timeout time.Duration) (bool, error) {
	return false, nil
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}
