// file: repository/memory_repository.go

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-blog-api/model"

	"github.com/google/uuid"
)

// MemoryStore keeps users, blogs and posts in process memory. It mirrors the
// PostgreSQL repositories row for row and backs the service and HTTP tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
	blogs map[uuid.UUID]model.Blog
	posts map[uuid.UUID]model.Post
	seq   time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]model.User),
		blogs: make(map[uuid.UUID]model.Blog),
		posts: make(map[uuid.UUID]model.Post),
		seq:   time.Now(),
	}
}

// stamp returns strictly increasing creation times so ordering is deterministic.
func (s *MemoryStore) stamp() time.Time {
	s.seq = s.seq.Add(time.Millisecond)
	return s.seq
}

func (s *MemoryStore) Users() IUserRepository { return memoryUsers{s} }
func (s *MemoryStore) Blogs() IBlogRepository { return memoryBlogs{s} }
func (s *MemoryStore) Posts() IPostRepository { return memoryPosts{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.s.stamp()
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUsers) find(match func(model.User) bool) *model.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			found := u
			return &found
		}
	}
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id }), nil
}

func (r memoryUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username }), nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email }), nil
}

func (r memoryUsers) update(username string, apply func(*model.User)) *model.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if u.Username == username {
			apply(&u)
			r.s.users[id] = u
			return &u
		}
	}
	return nil
}

func (r memoryUsers) Patch(_ context.Context, username string, patch model.UserPatch) (*model.User, error) {
	return r.update(username, func(u *model.User) {
		if patch.FirstName != nil {
			u.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			u.LastName = *patch.LastName
		}
		if patch.Password != nil {
			u.Password = *patch.Password
		}
		if patch.IsActive != nil {
			u.IsActive = *patch.IsActive
		}
		if patch.IsDisabled != nil {
			u.IsDisabled = *patch.IsDisabled
		}
	}), nil
}

func (r memoryUsers) Disable(_ context.Context, username string) (*model.User, error) {
	return r.update(username, func(u *model.User) {
		u.IsActive = false
		u.IsDisabled = true
	}), nil
}

func (r memoryUsers) List(_ context.Context) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

type memoryBlogs struct{ s *MemoryStore }

func (r memoryBlogs) Create(_ context.Context, blog *model.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	blog.CreatedAt = r.s.stamp()
	blog.IsDeleted = false
	r.s.blogs[blog.ID] = *blog
	return nil
}

func (r memoryBlogs) FindByID(_ context.Context, id uuid.UUID) (*model.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.blogs[id]
	if !ok || b.IsDeleted {
		return nil, nil
	}
	return &b, nil
}

func (r memoryBlogs) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	blogs := []*model.Blog{}
	for _, b := range r.s.blogs {
		if b.OwnerID == ownerID && !b.IsDeleted {
			b := b
			blogs = append(blogs, &b)
		}
	}
	sort.Slice(blogs, func(i, j int) bool { return blogs[i].CreatedAt.After(blogs[j].CreatedAt) })
	return blogs, nil
}

func (r memoryBlogs) UpdateTitle(_ context.Context, id uuid.UUID, title string) (*model.Blog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.blogs[id]
	if !ok || b.IsDeleted {
		return nil, nil
	}
	b.Title = title
	r.s.blogs[id] = b
	return &b, nil
}

func (r memoryBlogs) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.blogs[id]; ok {
		b.IsDeleted = true
		r.s.blogs[id] = b
	}
	return nil
}

func (r memoryBlogs) TitleAvailable(_ context.Context, ownerID uuid.UUID, title string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.blogs {
		if b.OwnerID == ownerID && b.Title == title && !b.IsDeleted {
			return false, nil
		}
	}
	return true, nil
}

type memoryPosts struct{ s *MemoryStore }

// live reports whether p and its blog are both not deleted. Callers hold the lock.
func (r memoryPosts) live(p model.Post) (model.Blog, bool) {
	b, ok := r.s.blogs[p.BlogID]
	return b, ok && !b.IsDeleted && !p.IsDeleted
}

func (r memoryPosts) Create(_ context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.CreatedAt = r.s.stamp()
	post.IsDeleted = false
	r.s.posts[post.ID] = *post
	return nil
}

func (r memoryPosts) FindByID(_ context.Context, id uuid.UUID) (*model.PostWithOwner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	blog, live := r.live(p)
	if !live {
		return nil, nil
	}
	return &model.PostWithOwner{Post: p, OwnerID: blog.OwnerID}, nil
}

func (r memoryPosts) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	posts := []*model.Post{}
	for _, p := range r.s.posts {
		if blog, live := r.live(p); live && blog.OwnerID == ownerID {
			p := p
			posts = append(posts, &p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (r memoryPosts) ListTitlesByBlog(_ context.Context, blogID uuid.UUID) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var live []model.Post
	for _, p := range r.s.posts {
		if p.BlogID == blogID && !p.IsDeleted {
			live = append(live, p)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].CreatedAt.Before(live[j].CreatedAt) })
	titles := make([]string, 0, len(live))
	for _, p := range live {
		titles = append(titles, p.Title)
	}
	return titles, nil
}

func (r memoryPosts) Update(_ context.Context, id uuid.UUID, title, body string) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok || p.IsDeleted {
		return nil, nil
	}
	if title != "" {
		p.Title = title
	}
	if body != "" {
		p.Body = body
	}
	r.s.posts[id] = p
	return &p, nil
}

func (r memoryPosts) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.posts[id]; ok {
		p.IsDeleted = true
		r.s.posts[id] = p
	}
	return nil
}

func (r memoryPosts) TitleAvailable(_ context.Context, blogID uuid.UUID, title string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.posts {
		if p.BlogID == blogID && p.Title == title && !p.IsDeleted {
			return false, nil
		}
	}
	return true, nil
}
