package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskman/internal/database"
	"taskman/internal/middleware"
	"taskman/internal/models"
	"taskman/internal/secure"
)

// testEnv serves the full router (method-override wrapper included)
// over an in-memory database with a cookie session store.
type testEnv struct {
	db        *gorm.DB
	encryptor *secure.Encryptor
	handler   http.Handler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.TaskStatus{},
		&models.Task{},
		&models.Tag{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	encryptor := secure.NewEncryptor("test-encrypt-secret")
	store := cookie.NewStore([]byte("test-session-secret"))
	router := NewRouter(store, db, encryptor)

	return &testEnv{
		db:        db,
		encryptor: encryptor,
		handler:   middleware.MethodOverride(router),
	}
}

// do performs a request against the router, carrying the given session
// cookies and an optional urlencoded form body.
func (e *testEnv) do(method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// login signs the user in and returns the session cookies to carry on
// subsequent requests.
func (e *testEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	w := e.do("POST", "/sessions", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code, "login should redirect")

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func (e *testEnv) createUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:      "Test",
		LastName:       "User",
		Email:          email,
		PasswordDigest: e.encryptor.Digest(password),
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createStatus(t *testing.T, name string) *models.TaskStatus {
	t.Helper()

	status := &models.TaskStatus{Name: name}
	require.NoError(t, e.db.Create(status).Error)
	return status
}

func (e *testEnv) createTask(t *testing.T, name string, statusID, creatorID, assignedToID uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		Name:         name,
		Description:  "Test Description",
		TaskStatusID: statusID,
		CreatorID:    creatorID,
		AssignedToID: assignedToID,
	}
	require.NoError(t, e.db.Create(task).Error)
	return task
}

func (e *testEnv) setTaskTags(t *testing.T, task *models.Task, names ...string) {
	t.Helper()

	tags := make([]models.Tag, len(names))
	for i, name := range names {
		tag := models.Tag{Name: name}
		require.NoError(t, e.db.Where("name = ?", name).FirstOrCreate(&tag).Error)
		tags[i] = tag
	}
	require.NoError(t, e.db.Model(task).Association("Tags").Replace(&tags))
}

func (e *testEnv) taskTagNames(t *testing.T, taskID uint64) []string {
	t.Helper()

	var task models.Task
	require.NoError(t, e.db.Preload("Tags").First(&task, taskID).Error)

	names := make([]string, len(task.Tags))
	for i, tag := range task.Tags {
		names[i] = tag.Name
	}
	return names
}

func (e *testEnv) tagExists(t *testing.T, name string) bool {
	t.Helper()

	var count int64
	require.NoError(t, e.db.Model(&models.Tag{}).Where("name = ?", name).Count(&count).Error)
	return count > 0
}
