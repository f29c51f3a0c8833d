package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"connected/pkg/models"
	"connected/pkg/repository"
)

// memDB is an in-memory stand-in for the PostgreSQL schema, including its
// unique constraints and ON DELETE CASCADE foreign keys.
type memDB struct {
	mu    sync.Mutex
	seq   int
	clock time.Time

	users         map[int]models.User
	posts         map[int]models.Post
	comments      map[int]models.Comment
	likes         map[int]models.Like
	notifications map[int]models.Notification
	topics        map[string]models.TrendingTopic
	messages      map[int]models.Message
	follows       map[[2]int]bool

	notificationErr error
	trendingErr     error
}

func newMemDB() *memDB {
	return &memDB{
		clock:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:         map[int]models.User{},
		posts:         map[int]models.Post{},
		comments:      map[int]models.Comment{},
		likes:         map[int]models.Like{},
		notifications: map[int]models.Notification{},
		topics:        map[string]models.TrendingTopic{},
		messages:      map[int]models.Message{},
		follows:       map[[2]int]bool{},
	}
}

func (m *memDB) next() (int, time.Time) {
	m.seq++
	m.clock = m.clock.Add(time.Second)
	return m.seq, m.clock
}

func (m *memDB) store() *repository.Store {
	return &repository.Store{
		Users:         fakeUsers{m},
		Posts:         fakePosts{m},
		Comments:      fakeComments{m},
		Likes:         fakeLikes{m},
		Notifications: fakeNotifications{m},
		Trending:      fakeTrending{m},
		Messages:      fakeMessages{m},
		Follows:       fakeFollows{m},
	}
}

func (m *memDB) addUser(username string) models.User {
	u, _ := fakeUsers{m}.Create(context.Background(), models.User{Username: username, DisplayName: username})
	return u
}

func (m *memDB) addPost(userID int, content string, original *int) models.Post {
	p, _ := fakePosts{m}.Create(context.Background(), userID, content, nil, original)
	return p
}

func (m *memDB) notificationsOf(t models.NotificationType) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type fakeUsers struct{ db *memDB }

func (f fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.users {
		if existing.Username == u.Username {
			return models.User{}, repository.ErrDuplicate
		}
	}
	u.ID, _ = f.db.next()
	f.db.users[u.ID] = u
	return u, nil
}

func (f fakeUsers) GetByID(_ context.Context, id int) (models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f fakeUsers) GetByUsername(_ context.Context, username string) (models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f fakeUsers) List(_ context.Context) ([]models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []models.User{}
	for _, u := range f.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeUsers) SetProfileImage(_ context.Context, id int, url string) (models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	u.ProfileImageURL = &url
	f.db.users[id] = u
	return u, nil
}

type fakePosts struct{ db *memDB }

func (f fakePosts) Create(_ context.Context, userID int, content string, imageURL *string, originalPostID *int) (models.Post, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id, now := f.db.next()
	p := models.Post{ID: id, UserID: userID, Content: content, ImageURL: imageURL, OriginalPostID: originalPostID, CreatedAt: now}
	f.db.posts[id] = p
	return p, nil
}

func (f fakePosts) GetByID(_ context.Context, id int) (models.Post, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.posts[id]
	if !ok {
		return models.Post{}, repository.ErrNotFound
	}
	return p, nil
}

func (f fakePosts) filter(keep func(models.Post) bool) []models.Post {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []models.Post{}
	for _, p := range f.db.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f fakePosts) List(_ context.Context) ([]models.Post, error) {
	return f.filter(func(models.Post) bool { return true }), nil
}

func (f fakePosts) ListByUser(_ context.Context, userID, limit int) ([]models.Post, error) {
	out := f.filter(func(p models.Post) bool { return p.UserID == userID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakePosts) Search(_ context.Context, query string) ([]models.Post, error) {
	q := strings.ToLower(query)
	return f.filter(func(p models.Post) bool { return strings.Contains(strings.ToLower(p.Content), q) }), nil
}

func (f fakePosts) UpdateContent(_ context.Context, id int, content string) (models.Post, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.posts[id]
	if !ok {
		return models.Post{}, repository.ErrNotFound
	}
	p.Content = content
	f.db.posts[id] = p
	return p, nil
}

func (f fakePosts) Delete(_ context.Context, id int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.posts[id]; !ok {
		return repository.ErrNotFound
	}
	f.db.cascadeDelete(id)
	return nil
}

func (m *memDB) cascadeDelete(postID int) {
	delete(m.posts, postID)
	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
		}
	}
	for id, l := range m.likes {
		if l.PostID == postID {
			delete(m.likes, id)
		}
	}
	for id, n := range m.notifications {
		if n.PostID != nil && *n.PostID == postID {
			delete(m.notifications, id)
		}
	}
	for id, p := range m.posts {
		if p.OriginalPostID != nil && *p.OriginalPostID == postID {
			m.cascadeDelete(id)
		}
	}
}

type fakeComments struct{ db *memDB }

func (f fakeComments) Create(_ context.Context, postID, userID int, content string) (models.Comment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id, now := f.db.next()
	c := models.Comment{ID: id, PostID: postID, UserID: userID, Content: content, CreatedAt: now}
	f.db.comments[id] = c
	return c, nil
}

func (f fakeComments) ListByPost(_ context.Context, postID int) ([]models.CommentWithUser, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []models.CommentWithUser{}
	for _, c := range f.db.comments {
		if c.PostID == postID {
			out = append(out, models.CommentWithUser{Comment: c, User: f.db.users[c.UserID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeLikes struct{ db *memDB }

func (f fakeLikes) Create(_ context.Context, postID, userID int) (models.Like, bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, l := range f.db.likes {
		if l.PostID == postID && l.UserID == userID {
			return l, false, nil
		}
	}
	id, now := f.db.next()
	l := models.Like{ID: id, PostID: postID, UserID: userID, CreatedAt: now}
	f.db.likes[id] = l
	return l, true, nil
}

func (f fakeLikes) Delete(_ context.Context, postID, userID int) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for id, l := range f.db.likes {
		if l.PostID == postID && l.UserID == userID {
			delete(f.db.likes, id)
			return true, nil
		}
	}
	return false, nil
}

func (f fakeLikes) CountByPost(_ context.Context, postID int) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, l := range f.db.likes {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (f fakeLikes) Exists(_ context.Context, postID, userID int) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, l := range f.db.likes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotifications struct{ db *memDB }

func (f fakeNotifications) Create(_ context.Context, n models.Notification) (models.Notification, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.notificationErr != nil {
		return models.Notification{}, f.db.notificationErr
	}
	n.ID, n.CreatedAt = f.db.next()
	n.Read = false
	f.db.notifications[n.ID] = n
	return n, nil
}

func (f fakeNotifications) GetByID(_ context.Context, id int) (models.Notification, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n, ok := f.db.notifications[id]
	if !ok {
		return models.Notification{}, repository.ErrNotFound
	}
	return n, nil
}

func (f fakeNotifications) ListByUser(_ context.Context, userID int) ([]models.Notification, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []models.Notification{}
	for _, n := range f.db.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeNotifications) MarkRead(_ context.Context, id int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n, ok := f.db.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Read = true
	f.db.notifications[id] = n
	return nil
}

type fakeTrending struct{ db *memDB }

func (f fakeTrending) Increment(_ context.Context, topic string) (models.TrendingTopic, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.trendingErr != nil {
		return models.TrendingTopic{}, f.db.trendingErr
	}
	t, ok := f.db.topics[topic]
	if !ok {
		t = models.TrendingTopic{Topic: topic}
		t.ID, _ = f.db.next()
	}
	t.PostCount++
	f.db.topics[topic] = t
	return t, nil
}

func (f fakeTrending) Top(_ context.Context, limit int) ([]models.TrendingTopic, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []models.TrendingTopic{}
	for _, t := range f.db.topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PostCount != out[j].PostCount {
			return out[i].PostCount > out[j].PostCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeMessages struct{ db *memDB }

func (f fakeMessages) Create(_ context.Context, senderID, receiverID int, content string) (models.Message, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id, now := f.db.next()
	m := models.Message{ID: id, SenderID: senderID, ReceiverID: receiverID, Content: content, CreatedAt: now}
	f.db.messages[id] = m
	return m, nil
}

func (f fakeMessages) sorted(keep func(models.Message) bool, newestFirst bool) []models.Message {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []models.Message{}
	for _, m := range f.db.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f fakeMessages) ListForUser(_ context.Context, userID int) ([]models.Message, error) {
	return f.sorted(func(m models.Message) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	}, true), nil
}

func (f fakeMessages) ListBetween(_ context.Context, a, b int) ([]models.Message, error) {
	return f.sorted(func(m models.Message) bool {
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	}, false), nil
}

type fakeFollows struct{ db *memDB }

func (f fakeFollows) Create(_ context.Context, followerID, followingID int) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	key := [2]int{followerID, followingID}
	if f.db.follows[key] {
		return false, nil
	}
	f.db.follows[key] = true
	return true, nil
}

func (f fakeFollows) Delete(_ context.Context, followerID, followingID int) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	key := [2]int{followerID, followingID}
	existed := f.db.follows[key]
	delete(f.db.follows, key)
	return existed, nil
}

func (f fakeFollows) count(match func([2]int) bool) int {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for k := range f.db.follows {
		if match(k) {
			n++
		}
	}
	return n
}

func (f fakeFollows) CountFollowers(_ context.Context, userID int) (int, error) {
	return f.count(func(k [2]int) bool { return k[1] == userID }), nil
}

func (f fakeFollows) CountFollowing(_ context.Context, userID int) (int, error) {
	return f.count(func(k [2]int) bool { return k[0] == userID }), nil
}

type queuedJob struct {
	action string
	data   any
}

type fakeRetry struct {
	mu   sync.Mutex
	jobs []queuedJob
}

func (q *fakeRetry) Enqueue(_ context.Context, action string, data any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, queuedJob{action: action, data: data})
	return nil
}

// testApp wires every service over one memDB the way cmd/server does.
type testApp struct {
	db            *memDB
	retry         *fakeRetry
	trending      TrendingService
	notifications NotificationService
	posts         PostService
	comments      CommentService
	likes         LikeService
	messages      MessageService
	follows       FollowService
}

func newTestApp() *testApp {
	db := newMemDB()
	store := db.store()
	retry := &fakeRetry{}
	log := zap.NewNop()

	trending := NewTrendingService(store.Trending, retry, log)
	notifications := NewNotificationService(store, retry, log)
	posts := NewPostService(store, trending, notifications, log)

	return &testApp{
		db:            db,
		retry:         retry,
		trending:      trending,
		notifications: notifications,
		posts:         posts,
		comments:      NewCommentService(store, notifications),
		likes:         NewLikeService(store, posts, notifications),
		messages:      NewMessageService(store),
		follows:       NewFollowService(store, notifications),
	}
}
