package handlers_test

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/clientdesk/clientdesk/internal/api/dto"
	"github.com/clientdesk/clientdesk/internal/api/handlers"
	"github.com/clientdesk/clientdesk/internal/database/models"
	"github.com/clientdesk/clientdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionIDPattern = regexp.MustCompile(`^TXN-[0-9A-F]{12}$`)

func TestPayments_Create(t *testing.T) {
	ts, server := newTestServer(t)

	client := testutil.CreateTestClient(t, ts.DB, ts.User.ID)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/payments/", map[string]interface{}{
		"amount":   1500.75,
		"clientId": client.ID.String(),
	}, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var created handlers.PaymentResponse
	testutil.ParseJSONResponse(t, rr, &created)
	assert.Equal(t, 1500.75, created.Amount)
	assert.Equal(t, client.ID.String(), created.ClientID)
	assert.Equal(t, client.Name, created.ClientName)

	// Server-side defaults
	assert.Equal(t, models.PaymentStatusPending, created.Status)
	assert.Equal(t, "USD", created.Currency)
	assert.NotEmpty(t, created.PaymentDate)
	assert.Regexp(t, transactionIDPattern, created.TransactionID)
}

func TestPayments_CreateForeignClientRejected(t *testing.T) {
	ts, server := newTestServer(t)

	other, _ := otherUser(t, ts)
	foreign := testutil.CreateTestClient(t, ts.DB, other.ID)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/payments/", map[string]interface{}{
		"amount":   100.0,
		"clientId": foreign.ID.String(),
	}, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Client not found", resp.Error)

	var count int64
	ts.DB.Model(&models.Payment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPayments_CreateValidation(t *testing.T) {
	ts, server := newTestServer(t)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPost, "/api/payments/", map[string]interface{}{}, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Contains(t, resp.Details, "amount")
	assert.Contains(t, resp.Details, "clientId")
}

func TestPayments_ListFilters(t *testing.T) {
	ts, server := newTestServer(t)

	clientA := testutil.CreateTestClient(t, ts.DB, ts.User.ID)
	clientB := testutil.CreateTestClient(t, ts.DB, ts.User.ID)

	paid := testutil.CreateTestPayment(t, ts.DB, ts.User.ID, clientA.ID)
	require.NoError(t, ts.DB.Model(paid).Update("status", models.PaymentStatusCompleted).Error)
	testutil.CreateTestPayment(t, ts.DB, ts.User.ID, clientA.ID)
	testutil.CreateTestPayment(t, ts.DB, ts.User.ID, clientB.ID)

	t.Run("all", func(t *testing.T) {
		rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/payments/", nil, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var list []handlers.PaymentResponse
		testutil.ParseJSONResponse(t, rr, &list)
		assert.Len(t, list, 3)
	})

	t.Run("by client", func(t *testing.T) {
		rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/payments/?client_id="+clientA.ID.String(), nil, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var list []handlers.PaymentResponse
		testutil.ParseJSONResponse(t, rr, &list)
		require.Len(t, list, 2)
		for _, p := range list {
			assert.Equal(t, clientA.ID.String(), p.ClientID)
		}
	})

	t.Run("by status", func(t *testing.T) {
		rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodGet, "/api/payments/?status="+models.PaymentStatusCompleted, nil, ts.Token))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var list []handlers.PaymentResponse
		testutil.ParseJSONResponse(t, rr, &list)
		require.Len(t, list, 1)
		assert.Equal(t, paid.ID.String(), list[0].ID)
	})
}

func TestPayments_ForeignPaymentIs404(t *testing.T) {
	ts, server := newTestServer(t)

	other, _ := otherUser(t, ts)
	foreignClient := testutil.CreateTestClient(t, ts.DB, other.ID)
	foreign := testutil.CreateTestPayment(t, ts.DB, other.ID, foreignClient.ID)

	for name, req := range map[string]*http.Request{
		"get":    testutil.AuthenticatedRequest(t, http.MethodGet, "/api/payments/"+foreign.ID.String(), nil, ts.Token),
		"update": testutil.AuthenticatedRequest(t, http.MethodPut, "/api/payments/"+foreign.ID.String(), map[string]interface{}{"amount": 1.0}, ts.Token),
		"delete": testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/payments/"+foreign.ID.String(), nil, ts.Token),
	} {
		t.Run(name, func(t *testing.T) {
			rr := serve(server, req)
			testutil.AssertStatus(t, rr, http.StatusNotFound)
		})
	}
}

func TestPayments_Update(t *testing.T) {
	ts, server := newTestServer(t)

	client := testutil.CreateTestClient(t, ts.DB, ts.User.ID)
	payment := testutil.CreateTestPayment(t, ts.DB, ts.User.ID, client.ID)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodPut, "/api/payments/"+payment.ID.String(), map[string]interface{}{
		"status":        models.PaymentStatusCompleted,
		"paymentMethod": "wire",
	}, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var updated handlers.PaymentResponse
	testutil.ParseJSONResponse(t, rr, &updated)
	assert.Equal(t, models.PaymentStatusCompleted, updated.Status)
	assert.Equal(t, "wire", updated.PaymentMethod)
	// Untouched fields survive a partial update
	assert.Equal(t, payment.Amount, updated.Amount)
	assert.Equal(t, payment.TransactionID, updated.TransactionID)
}

func TestPayments_Delete(t *testing.T) {
	ts, server := newTestServer(t)

	client := testutil.CreateTestClient(t, ts.DB, ts.User.ID)
	payment := testutil.CreateTestPayment(t, ts.DB, ts.User.ID, client.ID)

	rr := serve(server, testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/payments/"+payment.ID.String(), nil, ts.Token))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var count int64
	ts.DB.Model(&models.Payment{}).Count(&count)
	assert.EqualValues(t, 0, count)

	// The client itself is untouched
	var clients int64
	ts.DB.Model(&models.Client{}).Count(&clients)
	assert.EqualValues(t, 1, clients)
}
