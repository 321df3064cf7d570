package gateway

import (
	"context"

	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/session"
)

// Client is the surface of the remote insurance gateway the connector
// consumes. Every call carries the session's bearer token and identity
// headers; the gateway performs the authoritative authorization checks.
type Client interface {
	// Contracts
	ListContracts(ctx context.Context, sess session.Session) ([]models.Contract, error)
	ListContractsByClient(ctx context.Context, sess session.Session, clientID int64) ([]models.Contract, error)
	ListActiveContracts(ctx context.Context, sess session.Session) ([]models.Contract, error)
	CreateContract(ctx context.Context, sess session.Session, req models.CreateContractRequest) (*models.Contract, error)
	CancelContract(ctx context.Context, sess session.Session, id int64) error

	// Claims
	ListSinistres(ctx context.Context, sess session.Session) ([]models.Sinistre, error)
	ListSinistresByClient(ctx context.Context, sess session.Session, clientID int64) ([]models.Sinistre, error)
	ListSinistresByContrat(ctx context.Context, sess session.Session, contratID int64) ([]models.Sinistre, error)
	CreateSinistre(ctx context.Context, sess session.Session, req models.CreateSinistreRequest) (*models.Sinistre, error)
	UpdateSinistreStatut(ctx context.Context, sess session.Session, id int64, req models.UpdateStatutRequest) (*models.Sinistre, error)
	DeleteSinistre(ctx context.Context, sess session.Session, id int64) error

	// Auth
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	ListUsers(ctx context.Context, sess session.Session) ([]models.User, error)
	ListClients(ctx context.Context, sess session.Session) ([]models.User, error)

	// Ping probes one upstream surface for the health view
	Ping(ctx context.Context, sess session.Session, path string) error
}
