package forms

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func formContext(t *testing.T, values url.Values) *gin.Context {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("POST", "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestPickValues(t *testing.T) {
	c := formContext(t, url.Values{
		"firstName": {"Jonh"},
		"email":     {"jonh@example.com"},
		"isAdmin":   {"true"},
	})

	values := PickValues(c, "firstName", "lastName", "email")

	require.Equal(t, map[string]string{
		"firstName": "Jonh",
		"email":     "jonh@example.com",
	}, values)

	_, submitted := values["lastName"]
	require.False(t, submitted, "absent fields must stay absent")
}

func TestComputeChanges(t *testing.T) {
	current := map[string]string{
		"name":         "Fix the build",
		"description":  "",
		"taskStatusId": "2",
	}

	changes := ComputeChanges(map[string]string{
		"name":         "Fix the build",
		"taskStatusId": "3",
	}, current)

	require.Equal(t, map[string]string{"taskStatusId": "3"}, changes)
}

func TestComputeChangesEmptyWhenIdentical(t *testing.T) {
	current := map[string]string{"name": "Deploy", "taskStatusId": "1"}

	changes := ComputeChanges(map[string]string{
		"name":         "Deploy",
		"taskStatusId": "1",
	}, current)

	require.Empty(t, changes)
}
