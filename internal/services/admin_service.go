package services

import (
	"context"
	"fmt"

	"github.com/pfa-assurance/assurance-connector/internal/gateway"
	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/session"
)

// Dashboard aggregates the numbers shown on the admin landing view
type Dashboard struct {
	TotalClients       int    `json:"totalClients"`
	TotalSinistres     int    `json:"totalSinistres"`
	SinistresEnAttente int    `json:"sinistresEnAttente"`
	SinistresValides   int    `json:"sinistresValides"`
	Message            string `json:"message"`
}

// ServicesStatus reports the reachability of each upstream service
type ServicesStatus struct {
	Assurance string `json:"assurance"`
	Sinistre  string `json:"sinistre"`
	Auth      string `json:"auth"`
}

// AdminService computes staff-only aggregates over the upstream listings
type AdminService struct {
	gw gateway.Client
}

// NewAdminService creates an admin service
func NewAdminService(gw gateway.Client) *AdminService {
	return &AdminService{gw: gw}
}

// GetDashboard aggregates client and claim counts. Staff only.
func (s *AdminService) GetDashboard(ctx context.Context, sess session.Session) (*Dashboard, error) {
	if !sess.Role.IsStaff() {
		return nil, ErrForbidden
	}

	clients, err := s.gw.ListClients(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	sinistres, err := s.gw.ListSinistres(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	stats := models.ComputeSinistreStats(sinistres)
	return &Dashboard{
		TotalClients:       len(clients),
		TotalSinistres:     stats.Total,
		SinistresEnAttente: stats.Declare + stats.EnCours,
		SinistresValides:   stats.Valide + stats.Indemnise,
		Message:            "Tableau de bord à jour",
	}, nil
}

// GetServicesStatus probes each upstream surface. A failed probe reports
// DOWN without failing the whole call.
func (s *AdminService) GetServicesStatus(ctx context.Context, sess session.Session) (*ServicesStatus, error) {
	if !sess.Role.IsStaff() {
		return nil, ErrForbidden
	}

	return &ServicesStatus{
		Assurance: s.probe(ctx, sess, "/contracts"),
		Sinistre:  s.probe(ctx, sess, "/sinistres"),
		Auth:      s.probe(ctx, sess, "/auth/users"),
	}, nil
}

func (s *AdminService) probe(ctx context.Context, sess session.Session, path string) string {
	if err := s.gw.Ping(ctx, sess, path); err != nil {
		return "DOWN"
	}
	return "UP"
}
