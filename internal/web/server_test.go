package web

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskfollow/internal/config"
	"taskfollow/internal/repository/sqlite"
	"taskfollow/internal/services"
)

// fakeRenderer records the last view handed to each render method so
// handler tests can assert on view contents without parsing HTML.
type fakeRenderer struct {
	home     *HomeView
	calendar *CalendarView
	expired  *ExpiredView
	users    *UsersView
	register *FormView
	login    *FormView
}

func (f *fakeRenderer) RenderHome(w http.ResponseWriter, view *HomeView) error {
	f.home = view
	w.WriteHeader(http.StatusOK)
	return nil
}

func (f *fakeRenderer) RenderCalendar(w http.ResponseWriter, view *CalendarView) error {
	f.calendar = view
	w.WriteHeader(http.StatusOK)
	return nil
}

func (f *fakeRenderer) RenderExpired(w http.ResponseWriter, view *ExpiredView) error {
	f.expired = view
	w.WriteHeader(http.StatusOK)
	return nil
}

func (f *fakeRenderer) RenderUsers(w http.ResponseWriter, view *UsersView) error {
	f.users = view
	w.WriteHeader(http.StatusOK)
	return nil
}

func (f *fakeRenderer) RenderRegister(w http.ResponseWriter, view *FormView) error {
	f.register = view
	w.WriteHeader(http.StatusOK)
	return nil
}

func (f *fakeRenderer) RenderLogin(w http.ResponseWriter, view *FormView) error {
	f.login = view
	w.WriteHeader(http.StatusOK)
	return nil
}

type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	renderer *fakeRenderer
}

func setupTestServer(t *testing.T) *testEnv {
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := config.NewConfig()
	cfg.Session.Secret = "test-secret"
	cfg.Time.Zone = "UTC"

	container := services.NewServiceContainer(repo, time.UTC)
	renderer := &fakeRenderer{}
	srv := NewServer(cfg, container, renderer, time.UTC)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server:   ts,
		client:   &http.Client{Jar: jar},
		renderer: renderer,
	}
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func (e *testEnv) signUp(t *testing.T, id string) {
	t.Helper()
	resp := e.post(t, "/register", url.Values{
		"user_id":   {id},
		"password":  {"secret"},
		"lastname":  {"Last" + id},
		"firstname": {"First" + id},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (e *testEnv) signOut(t *testing.T) {
	t.Helper()
	e.get(t, "/logout")
}

func (e *testEnv) signIn(t *testing.T, id string) {
	t.Helper()
	resp := e.post(t, "/login", url.Values{
		"user_id":  {id},
		"password": {"secret"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (e *testEnv) createTask(t *testing.T, name string, deadline time.Time, shareWith ...string) int64 {
	t.Helper()
	form := url.Values{
		"name":     {name},
		"deadline": {deadline.UTC().Format("2006-01-02T15:04")},
	}
	for _, id := range shareWith {
		form.Add("share_with", id)
	}
	resp := e.post(t, "/create", form)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The redirect landed on the home view; the newest task is in it
	require.NotNil(t, e.renderer.home)
	rows := e.renderer.home.MyActive
	require.NotEmpty(t, rows)
	for _, row := range rows {
		if row.Task.Name == name {
			return row.Task.ID
		}
	}
	t.Fatalf("task %q not found in home view", name)
	return 0
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	env := setupTestServer(t)

	for _, path := range []string{"/", "/calendar", "/expired", "/users"} {
		env.renderer.login = nil
		resp := env.get(t, path)
		// The client followed the redirect to the login page
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotNil(t, env.renderer.login, "path %s", path)
	}
}

func TestRegisterSignsIn(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	// Registration redirects straight into the signed-in home view
	require.NotNil(t, env.renderer.home)
	require.NotNil(t, env.renderer.home.User)
	assert.Equal(t, "alice", env.renderer.home.User.ID)
}

func TestRegisterDuplicateFlashes(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")
	env.signOut(t)

	env.post(t, "/register", url.Values{
		"user_id":   {"alice"},
		"password":  {"other"},
		"lastname":  {"X"},
		"firstname": {"Y"},
	})

	// Back on the register page with a conflict message
	require.NotNil(t, env.renderer.register)
	require.NotEmpty(t, env.renderer.register.Messages)
	assert.Contains(t, env.renderer.register.Messages[0], "alice")
}

func TestLoginLogout(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")
	env.signOut(t)

	env.renderer.home = nil
	env.signIn(t, "alice")
	require.NotNil(t, env.renderer.home)
	assert.Equal(t, "alice", env.renderer.home.User.ID)

	env.signOut(t)
	env.renderer.login = nil
	env.get(t, "/")
	assert.NotNil(t, env.renderer.login)
}

func TestLoginFailureFlashes(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")
	env.signOut(t)

	env.renderer.login = nil
	env.post(t, "/login", url.Values{
		"user_id":  {"alice"},
		"password": {"wrong"},
	})

	require.NotNil(t, env.renderer.login)
	require.NotEmpty(t, env.renderer.login.Messages)
	assert.Contains(t, env.renderer.login.Messages[0], "Login failed")
}

func TestLoginNextRedirect(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")
	env.signOut(t)

	env.renderer.expired = nil
	env.post(t, "/login", url.Values{
		"user_id":  {"alice"},
		"password": {"secret"},
		"next":     {"/expired"},
	})
	assert.NotNil(t, env.renderer.expired)

	// An off-site target falls back to the home page
	env.signOut(t)
	env.renderer.home = nil
	env.post(t, "/login", url.Values{
		"user_id":  {"alice"},
		"password": {"secret"},
		"next":     {"https://evil.example"},
	})
	assert.NotNil(t, env.renderer.home)
}

func TestCreateTaskAppearsInHome(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	deadline := time.Now().Add(24 * time.Hour)
	env.createTask(t, "write report", deadline)

	require.Len(t, env.renderer.home.MyActive, 1)
	row := env.renderer.home.MyActive[0]
	assert.Equal(t, "write report", row.Task.Name)
	assert.NotEmpty(t, row.DeadlineText)
	assert.NotEmpty(t, row.Classification.Label)
}

func TestCreateTaskInvalidDeadlineFlashes(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	env.post(t, "/create", url.Values{
		"name":     {"no deadline"},
		"deadline": {"whenever"},
	})

	require.NotNil(t, env.renderer.home)
	require.NotEmpty(t, env.renderer.home.Messages)
	assert.Empty(t, env.renderer.home.MyActive)
}

func TestUpdateTask(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	taskID := env.createTask(t, "draft", time.Now().Add(24*time.Hour))

	env.post(t, "/update/"+strconv.FormatInt(taskID, 10), url.Values{
		"name":     {"final"},
		"deadline": {time.Now().Add(48 * time.Hour).UTC().Format("2006-01-02T15:04")},
	})

	require.Len(t, env.renderer.home.MyActive, 1)
	assert.Equal(t, "final", env.renderer.home.MyActive[0].Task.Name)
}

func TestCompleteAndDeleteTask(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	taskID := env.createTask(t, "report", time.Now().Add(24*time.Hour))

	env.post(t, "/complete/"+strconv.FormatInt(taskID, 10), nil)
	assert.Empty(t, env.renderer.home.MyActive)
	require.Len(t, env.renderer.home.MyCompleted, 1)

	env.post(t, "/delete/"+strconv.FormatInt(taskID, 10), nil)
	assert.Empty(t, env.renderer.home.MyCompleted)
}

func TestCompleteTaskNextRedirect(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	taskID := env.createTask(t, "late", time.Now().Add(24*time.Hour))

	env.renderer.expired = nil
	env.post(t, "/complete/"+strconv.FormatInt(taskID, 10), url.Values{
		"next": {"/expired"},
	})
	assert.NotNil(t, env.renderer.expired)
}

func TestUpdateAndDeleteNextRedirect(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	taskID := env.createTask(t, "draft", time.Now().Add(24*time.Hour))

	env.renderer.calendar = nil
	env.post(t, "/update/"+strconv.FormatInt(taskID, 10), url.Values{
		"name":     {"final"},
		"deadline": {time.Now().Add(48 * time.Hour).UTC().Format("2006-01-02T15:04")},
		"next":     {"/calendar"},
	})
	assert.NotNil(t, env.renderer.calendar)

	env.renderer.expired = nil
	env.post(t, "/delete/"+strconv.FormatInt(taskID, 10), url.Values{
		"next": {"/expired"},
	})
	assert.NotNil(t, env.renderer.expired)
}

func TestTaskMutationRequiresOwnership(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")
	taskID := env.createTask(t, "private", time.Now().Add(24*time.Hour))
	env.signOut(t)

	env.signUp(t, "bob")
	env.post(t, "/delete/"+strconv.FormatInt(taskID, 10), nil)

	// bob sees a flash and no task details
	require.NotEmpty(t, env.renderer.home.Messages)
	assert.Contains(t, env.renderer.home.Messages[0], "does not exist")

	// alice still has the task
	env.signOut(t)
	env.signIn(t, "alice")
	require.Len(t, env.renderer.home.MyActive, 1)
}

func TestFollowAndShareFlow(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "bob")
	env.signOut(t)
	env.signUp(t, "alice")

	// alice follows bob on the users page
	env.get(t, "/follow/bob")
	require.NotNil(t, env.renderer.users)
	require.Len(t, env.renderer.users.Users, 1)
	assert.True(t, env.renderer.users.Users[0].Followed)

	// alice shares a task with bob
	env.createTask(t, "shared work", time.Now().Add(24*time.Hour), "bob")

	// bob sees it in the shared list
	env.signOut(t)
	env.signIn(t, "bob")
	require.Len(t, env.renderer.home.SharedActive, 1)
	assert.Equal(t, "shared work", env.renderer.home.SharedActive[0].Task.Name)
	assert.Equal(t, "alice", env.renderer.home.SharedActive[0].Task.OwnerID)
}

func TestUnfollow(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "bob")
	env.signOut(t)
	env.signUp(t, "alice")

	env.get(t, "/follow/bob")
	env.get(t, "/unfollow/bob")
	require.NotNil(t, env.renderer.users)
	require.Len(t, env.renderer.users.Users, 1)
	assert.False(t, env.renderer.users.Users[0].Followed)

	// Unfollowing again flashes a conflict
	env.get(t, "/unfollow/bob")
	assert.NotEmpty(t, env.renderer.users.Messages)
}

func TestCalendarView(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	deadline := time.Now().UTC().Add(24 * time.Hour)
	env.createTask(t, "on the calendar", deadline)

	env.get(t, "/calendar?year=" + strconv.Itoa(deadline.Year()) + "&month=" + strconv.Itoa(int(deadline.Month())))
	require.NotNil(t, env.renderer.calendar)
	grid := env.renderer.calendar.Calendar
	require.NotNil(t, grid)
	assert.Equal(t, deadline.Year(), grid.Year)

	var found bool
	for _, week := range grid.Weeks {
		for _, day := range week {
			if day.InMonth && day.Number == deadline.Day() {
				require.Len(t, day.Tasks, 1)
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestHomeCalendarShowsActiveOnly(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	deadline := time.Now().UTC().Add(24 * time.Hour)
	taskID := env.createTask(t, "done already", deadline)
	env.post(t, "/complete/"+strconv.FormatInt(taskID, 10), nil)

	monthQuery := "year=" + strconv.Itoa(deadline.Year()) + "&month=" + strconv.Itoa(int(deadline.Month()))

	// The completed task drops off the home page grid
	env.get(t, "/?"+monthQuery)
	require.NotNil(t, env.renderer.home.Calendar)
	for _, week := range env.renderer.home.Calendar.Weeks {
		for _, day := range week {
			assert.Empty(t, day.Tasks)
		}
	}

	// The standalone calendar still shows it
	env.get(t, "/calendar?"+monthQuery)
	require.NotNil(t, env.renderer.calendar)
	var found bool
	for _, week := range env.renderer.calendar.Calendar.Weeks {
		for _, day := range week {
			if day.InMonth && day.Number == deadline.Day() {
				require.Len(t, day.Tasks, 1)
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestExpiredView(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	// An overdue task never shows in the active lists, so post it directly
	env.post(t, "/create", url.Values{
		"name":     {"overdue"},
		"deadline": {time.Now().UTC().Add(-24 * time.Hour).Format("2006-01-02T15:04")},
	})
	env.createTask(t, "upcoming", time.Now().Add(24*time.Hour))

	env.get(t, "/expired")
	require.NotNil(t, env.renderer.expired)
	require.Len(t, env.renderer.expired.MyExpired, 1)
	assert.Equal(t, "overdue", env.renderer.expired.MyExpired[0].Task.Name)
}

func TestProfileUpdateRename(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")
	env.createTask(t, "mine", time.Now().Add(24*time.Hour))

	env.post(t, "/user/update", url.Values{
		"user_id":   {"alicia"},
		"lastname":  {"Suzuki"},
		"firstname": {"Ichiro"},
	})

	// The session follows the rename; the home view shows the new identity
	// and the task moved along with it
	require.NotNil(t, env.renderer.home.User)
	assert.Equal(t, "alicia", env.renderer.home.User.ID)
	require.Len(t, env.renderer.home.MyActive, 1)
}

func TestHomeSortParameters(t *testing.T) {
	env := setupTestServer(t)
	env.signUp(t, "alice")

	now := time.Now()
	env.createTask(t, "banana", now.Add(26*time.Hour))
	env.createTask(t, "apple", now.Add(50*time.Hour))

	env.get(t, "/?sort=name&order=desc")
	require.Len(t, env.renderer.home.MyActive, 2)
	assert.Equal(t, "banana", env.renderer.home.MyActive[0].Task.Name)
	assert.Equal(t, services.SortByName, env.renderer.home.CurrentSort)
	assert.Equal(t, services.SortDesc, env.renderer.home.CurrentOrder)

	// Unknown parameters fall back to deadline ascending
	env.get(t, "/?sort=bogus&order=bogus")
	require.Len(t, env.renderer.home.MyActive, 2)
	assert.Equal(t, "banana", env.renderer.home.MyActive[0].Task.Name)
	assert.Equal(t, services.SortByDeadline, env.renderer.home.CurrentSort)
}
