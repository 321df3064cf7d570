package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfa-assurance/assurance-connector/internal/gateway"
	"github.com/pfa-assurance/assurance-connector/internal/models"
)

func TestDashboard_StaffOnly(t *testing.T) {
	f := &fakeGateway{}
	svc := NewAdminService(f)

	_, err := svc.GetDashboard(context.Background(), clientSession)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.calls)
}

func TestDashboard_Aggregates(t *testing.T) {
	f := &fakeGateway{
		clients: []models.User{
			{ID: 42, Email: "dupont@example.com", Role: models.RoleClient},
			{ID: 99, Email: "martin@example.com", Role: models.RoleClient},
		},
		sinistres: []models.Sinistre{
			{ID: 1, Statut: models.StatutDeclare},
			{ID: 2, Statut: models.StatutEnCours},
			{ID: 3, Statut: models.StatutValide},
			{ID: 4, Statut: models.StatutIndemnise},
			{ID: 5, Statut: models.StatutRejete},
		},
	}
	svc := NewAdminService(f)

	dash, err := svc.GetDashboard(context.Background(), staffSession)
	require.NoError(t, err)

	assert.Equal(t, 2, dash.TotalClients)
	assert.Equal(t, 5, dash.TotalSinistres)
	assert.Equal(t, 2, dash.SinistresEnAttente)
	assert.Equal(t, 2, dash.SinistresValides)
}

func TestServicesStatus_AllUp(t *testing.T) {
	f := &fakeGateway{}
	svc := NewAdminService(f)

	status, err := svc.GetServicesStatus(context.Background(), staffSession)
	require.NoError(t, err)

	assert.Equal(t, "UP", status.Assurance)
	assert.Equal(t, "UP", status.Sinistre)
	assert.Equal(t, "UP", status.Auth)
}

func TestServicesStatus_DownOnProbeFailure(t *testing.T) {
	f := &fakeGateway{err: gateway.ErrUnreachable}
	svc := NewAdminService(f)

	status, err := svc.GetServicesStatus(context.Background(), staffSession)
	require.NoError(t, err)

	assert.Equal(t, "DOWN", status.Assurance)
	assert.Equal(t, "DOWN", status.Sinistre)
	assert.Equal(t, "DOWN", status.Auth)
}
