package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/auth"
	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/form"
	"github.com/debemdeboas/folio/internal/model"
)

type request struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// backend is a small in-memory stand-in for the posts and projects API.
type backend struct {
	mu       sync.Mutex
	posts    []model.BlogPost
	projects []model.Project
	requests []request
	fail     int
}

func (b *backend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *backend) log() []request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]request(nil), b.requests...)
}

func (b *backend) handledRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, request{r.Method, r.URL.Path, r.Header.Get("Authorization"), string(body)})

	w.Header().Set("Content-Type", "application/json")
	if b.fail != 0 {
		w.WriteHeader(b.fail)
		_, _ = w.Write([]byte(`{"message":"backend exploded"}`))
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/post":
		_ = json.NewEncoder(w).Encode(map[string]any{"data": b.posts})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/v1/post/"):
		slug := strings.TrimPrefix(r.URL.Path, "/api/v1/post/")
		for _, p := range b.posts {
			if p.Slug == slug {
				// Single posts come back bare.
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Post not found"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/post":
		var p model.BlogPost
		_ = json.Unmarshal(body, &p)
		p.ID = "new-post"
		b.posts = append(b.posts, p)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": p})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/v1/post/"):
		id := model.PostID(strings.TrimPrefix(r.URL.Path, "/api/v1/post/"))
		kept := []model.BlogPost{}
		for _, p := range b.posts {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		b.posts = kept
		_, _ = w.Write([]byte(`{"success":true}`))
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/v1/post/"):
		_, _ = w.Write([]byte(`{"success":true}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/project":
		_ = json.NewEncoder(w).Encode(map[string]any{"data": b.projects})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/v1/project/"):
		id := model.ProjectID(strings.TrimPrefix(r.URL.Path, "/api/v1/project/"))
		for _, p := range b.projects {
			if p.ID == id {
				_ = json.NewEncoder(w).Encode(map[string]any{"data": p})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/project":
		var p model.Project
		_ = json.Unmarshal(body, &p)
		p.ID = "new-project"
		b.projects = append(b.projects, p)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/v1/project/"):
		_, _ = w.Write([]byte(`{"success":true}`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/login":
		var c credentials
		_ = json.Unmarshal(body, &c)
		if c.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u1","name":"Ada","email":"` + c.Email + `","picture":"https://img/ada","role":"ADMIN","token":"jwt-1"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// recorder remembers invalidated tags and how many requests the backend had
// handled at that moment.
type recorder struct {
	mu      sync.Mutex
	backend *backend
	tags    []string
	seenAt  []int
}

func (r *recorder) Invalidate(_ context.Context, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tag)
	r.seenAt = append(r.seenAt, r.backend.handledRequests())
	return nil
}

func setup(t *testing.T) (*Client, *backend, *recorder) {
	t.Helper()
	cache.SetLogger(zerolog.Nop())

	b := &backend{
		posts: []model.BlogPost{
			{ID: "1", Title: "First", Slug: "first", Published: true},
			{ID: "2", Title: "Second", Slug: "second"},
			{ID: "3", Title: "Third", Slug: "third", Published: true},
		},
		projects: []model.Project{
			{ID: "p1", Title: "CLI", Status: model.StatusCompleted},
		},
	}
	server := httptest.NewServer(b)
	t.Cleanup(server.Close)

	rec := &recorder{backend: b}
	client := New(server.URL+"/",
		WithHTTPClient(server.Client()),
		WithCache(cache.NewMemoryStore(0)),
		WithInvalidator(rec),
		WithToken("service-token"),
		WithLogger(zerolog.Nop()),
	)
	return client, b, rec
}

func titles(posts []model.BlogPost) []string {
	out := []string{}
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestListPostsSnapshot(t *testing.T) {
	client, b, _ := setup(t)
	ctx := context.Background()

	first, err := client.ListPosts(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if diff := cmp.Diff([]string{"First", "Second", "Third"}, titles(first)); diff != "" {
		t.Errorf("Titles mismatch (-want +got):\n%s", diff)
	}

	t.Run("Second read is served from the snapshot", func(t *testing.T) {
		if _, err := client.ListPosts(ctx); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if n := b.count(http.MethodGet, "/api/v1/post"); n != 1 {
			t.Errorf("Expected 1 list request, got %d", n)
		}
	})

	t.Run("Reads are independent", func(t *testing.T) {
		first[0].Title = "changed"
		again, _ := client.ListPosts(ctx)
		if again[0].Title != "First" {
			t.Errorf("Expected cached snapshot untouched, got %q", again[0].Title)
		}
	})
}

func TestDeletePostRefreshesNextSnapshot(t *testing.T) {
	client, b, rec := setup(t)
	ctx := context.Background()

	before, _ := client.ListPosts(ctx)
	rendered := titles(before)

	res := client.DeletePost(ctx, "2")
	if !res.OK {
		t.Fatalf("Expected success, got %+v", res)
	}

	after, err := client.ListPosts(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if diff := cmp.Diff([]string{"First", "Third"}, titles(after)); diff != "" {
		t.Errorf("Next snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rendered, titles(before)); diff != "" {
		t.Errorf("Expected previous snapshot untouched (-want +got):\n%s", diff)
	}
	if n := b.count(http.MethodGet, "/api/v1/post"); n != 2 {
		t.Errorf("Expected a refetch after delete, got %d list requests", n)
	}
	if diff := cmp.Diff([]string{"POSTS"}, rec.tags); diff != "" {
		t.Errorf("Invalidated tags mismatch (-want +got):\n%s", diff)
	}
}

// gatedList holds the first list response after it has been read from the
// backend, until release is closed.
type gatedList struct {
	*backend
	once    sync.Once
	fetched chan struct{}
	release chan struct{}
}

func (g *gatedList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gate := false
	if r.Method == http.MethodGet && r.URL.Path == "/api/v1/post" {
		g.once.Do(func() { gate = true })
	}
	if !gate {
		g.backend.ServeHTTP(w, r)
		return
	}

	rec := httptest.NewRecorder()
	g.backend.ServeHTTP(rec, r)
	close(g.fetched)
	<-g.release

	for k, v := range rec.Header() {
		w.Header()[k] = v
	}
	w.WriteHeader(rec.Code)
	_, _ = w.Write(rec.Body.Bytes())
}

func TestListInFlightDuringDeleteIsNotCached(t *testing.T) {
	cache.SetLogger(zerolog.Nop())
	b := &backend{
		posts: []model.BlogPost{
			{ID: "1", Title: "First", Slug: "first"},
			{ID: "2", Title: "Second", Slug: "second"},
		},
	}
	g := &gatedList{backend: b, fetched: make(chan struct{}), release: make(chan struct{})}
	server := httptest.NewServer(g)
	t.Cleanup(server.Close)

	client := New(server.URL+"/",
		WithHTTPClient(server.Client()),
		WithCache(cache.NewMemoryStore(0)),
		WithLogger(zerolog.Nop()),
	)
	ctx := context.Background()

	done := make(chan []model.BlogPost, 1)
	go func() {
		posts, _ := client.ListPosts(ctx)
		done <- posts
	}()

	<-g.fetched
	if res := client.DeletePost(ctx, "2"); !res.OK {
		t.Fatalf("Expected success, got %+v", res)
	}
	close(g.release)

	if diff := cmp.Diff([]string{"First", "Second"}, titles(<-done)); diff != "" {
		t.Errorf("In-flight read mismatch (-want +got):\n%s", diff)
	}

	after, err := client.ListPosts(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if diff := cmp.Diff([]string{"First"}, titles(after)); diff != "" {
		t.Errorf("Expected the list read after the delete to be fresh (-want +got):\n%s", diff)
	}
	if n := b.count(http.MethodGet, "/api/v1/post"); n != 2 {
		t.Errorf("Expected 2 list requests, got %d", n)
	}
}

func TestCreateProjectScenario(t *testing.T) {
	client, b, rec := setup(t)
	ctx := context.Background()

	draft := form.Project{
		Title:           "Portfolio Site",
		Status:          model.StatusPlanned,
		Description:     "desc",
		LongDescription: "long desc",
		GithubURL:       "https://example.com",
		LiveURL:         "https://example.com",
		TechnologiesStr: "TS, React",
		Images:          []string{"https://img/1", "https://img/2", "https://img/3"},
	}
	if res := form.ValidateProject(draft); !res.Valid() {
		t.Fatalf("Expected valid draft, got %v", res)
	}

	_, _ = client.ListProjects(ctx)

	result := client.CreateProject(ctx, draft.ToModel(nil))
	if !result.OK || result.Status != http.StatusCreated || result.ID != "new-project" {
		t.Fatalf("Expected created project, got %+v", result)
	}

	if n := b.count(http.MethodPost, "/api/v1/project"); n != 1 {
		t.Fatalf("Expected exactly one POST, got %d", n)
	}

	var sent model.Project
	for _, r := range b.log() {
		if r.Method == http.MethodPost {
			_ = json.Unmarshal([]byte(r.Body), &sent)
		}
	}
	if diff := cmp.Diff([]string{"TS", "React"}, sent.Technologies); diff != "" {
		t.Errorf("Technologies mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"https://img/1", "https://img/2", "https://img/3"}, sent.Images); diff != "" {
		t.Errorf("Images mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"PROJECTS"}, rec.tags); diff != "" {
		t.Errorf("Invalidated tags mismatch (-want +got):\n%s", diff)
	}
	// GET list + POST were both handled before the invalidation ran.
	if rec.seenAt[0] != 2 {
		t.Errorf("Expected invalidation after the acknowledged POST, saw %d requests", rec.seenAt[0])
	}

	projects, _ := client.ListProjects(ctx)
	if len(projects) != 2 {
		t.Errorf("Expected the new project in the next snapshot, got %d projects", len(projects))
	}
}

func TestMutationFailure(t *testing.T) {
	client, b, rec := setup(t)
	ctx := context.Background()

	_, _ = client.ListPosts(ctx)
	b.mu.Lock()
	b.fail = http.StatusInternalServerError
	b.mu.Unlock()

	res := client.CreatePost(ctx, model.BlogPost{Title: "New"})
	if res.OK {
		t.Fatal("Expected failure")
	}
	if res.Status != http.StatusInternalServerError || res.Message != "backend exploded" {
		t.Errorf("Unexpected result %+v", res)
	}
	var statusErr *StatusError
	if !errors.As(res.Err, &statusErr) || statusErr.Status != http.StatusInternalServerError {
		t.Errorf("Expected StatusError, got %v", res.Err)
	}
	if len(rec.tags) != 0 {
		t.Errorf("Expected no invalidation, got %v", rec.tags)
	}

	// The snapshot survived, so no refetch hits the failing backend.
	if _, err := client.ListPosts(ctx); err != nil {
		t.Errorf("Expected snapshot hit, got %v", err)
	}
}

func TestMutationUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	rec := &recorder{backend: &backend{}}
	client := New(server.URL, WithInvalidator(rec))

	res := client.DeleteProject(context.Background(), "p1")
	if res.OK || res.Err == nil {
		t.Fatalf("Expected transport failure, got %+v", res)
	}
	if res.Message == "" {
		t.Error("Expected a message for the user")
	}
	if len(rec.tags) != 0 {
		t.Errorf("Expected no invalidation, got %v", rec.tags)
	}
}

func TestUpdate(t *testing.T) {
	client, b, rec := setup(t)
	ctx := context.Background()

	patch := Patch{"title": json.RawMessage(`"Renamed"`)}
	if res := client.UpdateProject(ctx, "p1", patch); !res.OK {
		t.Fatalf("Expected success, got %+v", res)
	}
	if res := client.UpdatePost(ctx, "1", Patch{"published": json.RawMessage(`false`)}); !res.OK {
		t.Fatalf("Expected success, got %+v", res)
	}

	var body string
	for _, r := range b.log() {
		if r.Method == http.MethodPatch && r.Path == "/api/v1/project/p1" {
			body = r.Body
		}
	}
	if body != `{"title":"Renamed"}` {
		t.Errorf("Expected only the changed field, got %s", body)
	}
	if diff := cmp.Diff([]string{"PROJECTS", "POSTS"}, rec.tags); diff != "" {
		t.Errorf("Invalidated tags mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSingle(t *testing.T) {
	client, _, _ := setup(t)
	ctx := context.Background()

	post, err := client.GetPost(ctx, "second")
	if err != nil || post.ID != "2" {
		t.Errorf("Expected post 2, got %+v (%v)", post, err)
	}

	project, err := client.GetProject(ctx, "p1")
	if err != nil || project.Title != "CLI" {
		t.Errorf("Expected project CLI, got %+v (%v)", project, err)
	}

	if _, err := client.GetPost(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := client.GetProject(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	client, b, _ := setup(t)

	client.DeletePost(context.Background(), "1")
	ctx := auth.ContextWithSession(context.Background(), auth.Authenticated{Token: "user-token"})
	client.DeletePost(ctx, "3")

	want := []string{"Bearer service-token", "Bearer user-token"}
	got := []string{}
	for _, r := range b.log() {
		if r.Method == http.MethodDelete {
			got = append(got, r.Auth)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Authorization mismatch (-want +got):\n%s", diff)
	}
}

func TestLogin(t *testing.T) {
	client, _, _ := setup(t)
	ctx := context.Background()

	t.Run("Accepted", func(t *testing.T) {
		session, err := client.Login(ctx, "ada@example.com", "secret")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		got, ok := session.(auth.Authenticated)
		if !ok {
			t.Fatalf("Expected Authenticated, got %T", session)
		}
		want := auth.Authenticated{
			User:  model.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Image: "https://img/ada", Role: model.RoleAdmin},
			Token: "jwt-1",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Session mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		session, err := client.Login(ctx, "ada@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
		if _, ok := session.(auth.Anonymous); !ok {
			t.Errorf("Expected Anonymous, got %T", session)
		}
	})
}

func TestInvalidateWithoutCache(t *testing.T) {
	rec := &recorder{backend: &backend{}}
	client := New("http://localhost", WithInvalidator(rec))

	if err := client.Invalidate(context.Background(), "POSTS"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if diff := cmp.Diff([]string{"POSTS"}, rec.tags); diff != "" {
		t.Errorf("Invalidated tags mismatch (-want +got):\n%s", diff)
	}
}
