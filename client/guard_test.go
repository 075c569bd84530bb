package client_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/facilities-app/client"
	"github.com/yeremiapane/facilities-app/models"
)

func loadedSession(t *testing.T, role string) *client.Session {
	s := client.NewSession(filepath.Join(t.TempDir(), "session.json"))
	s.Load()
	if role != "" {
		assert.NoError(t, s.Login(models.User{ID: 1, Name: "u", Role: role}, "tok"))
	}
	return s
}

func TestDecideWhileLoading(t *testing.T) {
	s := client.NewSession(filepath.Join(t.TempDir(), "session.json"))

	assert.Equal(t, client.RenderLoading, client.Decide(client.RouteDashboard, s))
	assert.Equal(t, client.RenderLoading, client.Decide(client.RouteLogin, s))
}

func TestDecideUnauthenticated(t *testing.T) {
	s := loadedSession(t, "")

	assert.Equal(t, client.Render, client.Decide(client.RouteLogin, s))
	assert.Equal(t, client.RedirectLogin, client.Decide(client.RouteDashboard, s))
	assert.Equal(t, client.RedirectLogin, client.Decide("/admin/users", s))
}

func TestDecideAuthenticatedOnLoginRoute(t *testing.T) {
	s := loadedSession(t, models.RoleStudent)
	assert.Equal(t, client.RedirectDashboard, client.Decide(client.RouteLogin, s))
}

func TestDecideCapabilityGates(t *testing.T) {
	student := loadedSession(t, models.RoleStudent)
	worker := loadedSession(t, models.RoleWorker)
	admin := loadedSession(t, models.RoleAdmin)

	assert.Equal(t, client.Render, client.Decide(client.RouteDashboard, student))
	assert.Equal(t, client.RedirectDashboard, client.Decide("/admin/users", student))
	assert.Equal(t, client.RedirectDashboard, client.Decide("/worker/queue", student))

	assert.Equal(t, client.Render, client.Decide("/worker/queue", worker))
	assert.Equal(t, client.RedirectDashboard, client.Decide("/admin/analytics", worker))

	assert.Equal(t, client.Render, client.Decide("/admin/users", admin))
	assert.Equal(t, client.Render, client.Decide("/worker/queue", admin))
}

func TestCanCapabilities(t *testing.T) {
	student := loadedSession(t, models.RoleStudent)
	admin := loadedSession(t, models.RoleAdmin)
	anon := loadedSession(t, "")

	assert.True(t, student.Can(client.CapRaiseQuery))
	assert.False(t, student.Can(client.CapManageUsers))
	assert.True(t, admin.Can(client.CapManageUsers))
	assert.False(t, anon.Can(client.CapRaiseQuery))
}

func TestNavItemsFilterByCapability(t *testing.T) {
	anon := loadedSession(t, "")
	assert.Nil(t, client.NavItems(anon))

	student := loadedSession(t, models.RoleStudent)
	studentItems := client.NavItems(student)
	assert.Len(t, studentItems, 2)
	assert.Equal(t, "Dashboard", studentItems[0].Label)
	assert.Equal(t, "Raise Query", studentItems[1].Label)

	worker := loadedSession(t, models.RoleWorker)
	workerItems := client.NavItems(worker)
	assert.Len(t, workerItems, 3)
	assert.Equal(t, "My Queue", workerItems[2].Label)

	admin := loadedSession(t, models.RoleAdmin)
	adminItems := client.NavItems(admin)
	assert.Len(t, adminItems, 6)
}
