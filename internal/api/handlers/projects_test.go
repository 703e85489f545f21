package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/api/dto"
	"github.com/clientdesk/clientdesk/internal/api/handlers"
	"github.com/clientdesk/clientdesk/internal/database/models"
	"github.com/clientdesk/clientdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjects_Create(t *testing.T) {
	ts, server := newTestServer(t)

	client := testutil.CreateTestClient(t, ts.DB, ts.User.ID)
	start := time.Now().Truncate(time.Second).UTC()

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/projects/", map[string]interface{}{
		"name":      "Website Redesign",
		"clientId":  client.ID.String(),
		"startDate": start.Format(time.RFC3339),
		"budget":    25000.0,
	}, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var created handlers.ProjectResponse
	testutil.ParseJSONResponse(t, rr, &created)
	assert.Equal(t, "Website Redesign", created.Name)
	assert.Equal(t, models.ProjectStatusActive, created.Status, "default status")
	require.NotNil(t, created.StartDate)
	assert.Equal(t, start.Format(time.RFC3339), *created.StartDate)
	assert.Nil(t, created.EndDate)
	require.NotNil(t, created.Budget)
	assert.Equal(t, 25000.0, *created.Budget)
	assert.Equal(t, client.Name, created.ClientName)
}

func TestProjects_CreateForeignClientRejected(t *testing.T) {
	ts, server := newTestServer(t)

	other, _ := otherUser(t, ts)
	foreign := testutil.CreateTestClient(t, ts.DB, other.ID)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/projects/", map[string]interface{}{
		"name":     "Sneaky",
		"clientId": foreign.ID.String(),
	}, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Client not found or does not belong to you", resp.Error)
}

func TestProjects_CreateBadDate(t *testing.T) {
	ts, server := newTestServer(t)

	client := testutil.CreateTestClient(t, ts.DB, ts.User.ID)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/projects/", map[string]interface{}{
		"name":      "Bad Dates",
		"clientId":  client.ID.String(),
		"startDate": "next tuesday",
	}, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestProjects_ListIncludeTasks(t *testing.T) {
	ts, server := newTestServer(t)

	client := testutil.CreateTestClient(t, ts.DB, ts.User.ID)
	project := testutil.CreateTestProject(t, ts.DB, ts.User.ID, client.ID)
	testutil.CreateTestTask(t, ts.DB, ts.User.ID, project.ID)
	testutil.CreateTestTask(t, ts.DB, ts.User.ID, project.ID)

	t.Run("without tasks", func(t *testing.T) {
		rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/projects/", nil, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var list []handlers.ProjectResponse
		testutil.ParseJSONResponse(t, rr, &list)
		require.Len(t, list, 1)
		assert.Empty(t, list[0].Tasks)
	})

	t.Run("with tasks", func(t *testing.T) {
		rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/projects/?include_tasks=true", nil, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var list []handlers.ProjectResponse
		testutil.ParseJSONResponse(t, rr, &list)
		require.Len(t, list, 1)
		assert.Len(t, list[0].Tasks, 2)
	})
}

func TestProjects_ForeignProjectIs404(t *testing.T) {
	ts, server := newTestServer(t)

	other, _ := otherUser(t, ts)
	foreignClient := testutil.CreateTestClient(t, ts.DB, other.ID)
	foreign := testutil.CreateTestProject(t, ts.DB, other.ID, foreignClient.ID)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/projects/"+foreign.ID.String(), nil, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestProjects_Update(t *testing.T) {
	ts, server := newTestServer(t)

	client := testutil.CreateTestClient(t, ts.DB, ts.User.ID)
	project := testutil.CreateTestProject(t, ts.DB, ts.User.ID, client.ID)

	t.Run("partial fields", func(t *testing.T) {
		rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPut, "/api/projects/"+project.ID.String(), map[string]interface{}{
			"status": models.ProjectStatusCompleted,
			"budget": 12000.0,
		}, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var updated handlers.ProjectResponse
		testutil.ParseJSONResponse(t, rr, &updated)
		assert.Equal(t, models.ProjectStatusCompleted, updated.Status)
		require.NotNil(t, updated.Budget)
		assert.Equal(t, 12000.0, *updated.Budget)
		assert.Equal(t, project.Name, updated.Name)
	})

	t.Run("set then clear end date", func(t *testing.T) {
		end := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

		rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPut, "/api/projects/"+project.ID.String(), map[string]interface{}{
			"endDate": end,
		}, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var updated handlers.ProjectResponse
		testutil.ParseJSONResponse(t, rr, &updated)
		require.NotNil(t, updated.EndDate)

		rr = serve(server, testutil.AuthenticatedRequest(t, http.MethodPut, "/api/projects/"+project.ID.String(), map[string]interface{}{
			"endDate": nil,
		}, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		testutil.ParseJSONResponse(t, rr, &updated)
		assert.Nil(t, updated.EndDate)
	})

	t.Run("re-pointing to a foreign client is rejected", func(t *testing.T) {
		other, _ := otherUser(t, ts)
		foreign := testutil.CreateTestClient(t, ts.DB, other.ID)

		rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPut, "/api/projects/"+project.ID.String(), map[string]interface{}{
			"clientId": foreign.ID.String(),
		}, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var check models.Project
		require.NoError(t, ts.DB.First(&check, "id = ?", project.ID).Error)
		assert.Equal(t, client.ID, check.ClientID)
	})
}

func TestProjects_DeleteRemovesTasks(t *testing.T) {
	ts, server := newTestServer(t)

	client := testutil.CreateTestClient(t, ts.DB, ts.User.ID)
	project := testutil.CreateTestProject(t, ts.DB, ts.User.ID, client.ID)
	testutil.CreateTestTask(t, ts.DB, ts.User.ID, project.ID)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/projects/"+project.ID.String(), nil, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var tasks, projects, clients int64
	ts.DB.Model(&models.Task{}).Count(&tasks)
	ts.DB.Model(&models.Project{}).Count(&projects)
	ts.DB.Model(&models.Client{}).Count(&clients)
	assert.EqualValues(t, 0, tasks)
	assert.EqualValues(t, 0, projects)
	assert.EqualValues(t, 1, clients, "the client is untouched")
}
