package services

import (
	"context"
	"errors"

	"github.com/pfa-assurance/assurance-connector/internal/models"
	"github.com/pfa-assurance/assurance-connector/internal/session"
)

// fakeGateway records which upstream operations were invoked and serves
// canned data. Unset funcs answer with the corresponding field.
type fakeGateway struct {
	contracts       []models.Contract
	activeContracts []models.Contract
	sinistres       []models.Sinistre
	users           []models.User
	clients         []models.User
	loginResp       *models.LoginResponse
	err             error

	calls []string
}

var errFakeUnset = errors.New("fake: unexpected call")

func (f *fakeGateway) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeGateway) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeGateway) ListContracts(ctx context.Context, sess session.Session) ([]models.Contract, error) {
	f.record("ListContracts")
	return f.contracts, f.err
}

func (f *fakeGateway) ListContractsByClient(ctx context.Context, sess session.Session, clientID int64) ([]models.Contract, error) {
	f.record("ListContractsByClient")
	var own []models.Contract
	for _, c := range f.contracts {
		if c.ClientID == clientID {
			own = append(own, c)
		}
	}
	return own, f.err
}

func (f *fakeGateway) ListActiveContracts(ctx context.Context, sess session.Session) ([]models.Contract, error) {
	f.record("ListActiveContracts")
	return f.activeContracts, f.err
}

func (f *fakeGateway) CreateContract(ctx context.Context, sess session.Session, req models.CreateContractRequest) (*models.Contract, error) {
	f.record("CreateContract")
	if f.err != nil {
		return nil, f.err
	}
	created := models.Contract{
		ID:            991,
		ClientID:      req.ClientID,
		Type:          req.Type,
		PrimeAnnuelle: req.PrimeAnnuelle,
		Statut:        models.ContratActive,
	}
	return &created, nil
}

func (f *fakeGateway) CancelContract(ctx context.Context, sess session.Session, id int64) error {
	f.record("CancelContract")
	return f.err
}

func (f *fakeGateway) ListSinistres(ctx context.Context, sess session.Session) ([]models.Sinistre, error) {
	f.record("ListSinistres")
	return f.sinistres, f.err
}

func (f *fakeGateway) ListSinistresByClient(ctx context.Context, sess session.Session, clientID int64) ([]models.Sinistre, error) {
	f.record("ListSinistresByClient")
	var own []models.Sinistre
	for _, s := range f.sinistres {
		if s.ClientID == clientID {
			own = append(own, s)
		}
	}
	return own, f.err
}

func (f *fakeGateway) ListSinistresByContrat(ctx context.Context, sess session.Session, contratID int64) ([]models.Sinistre, error) {
	f.record("ListSinistresByContrat")
	var matching []models.Sinistre
	for _, s := range f.sinistres {
		if s.ContratID == contratID {
			matching = append(matching, s)
		}
	}
	return matching, f.err
}

func (f *fakeGateway) CreateSinistre(ctx context.Context, sess session.Session, req models.CreateSinistreRequest) (*models.Sinistre, error) {
	f.record("CreateSinistre")
	if f.err != nil {
		return nil, f.err
	}
	created := models.Sinistre{
		ID:             881,
		NumeroSinistre: "SIN-TEST881",
		ClientID:       sess.UserID,
		ContratID:      req.ContratID,
		Description:    req.Description,
		DateSinistre:   req.DateSinistre,
		MontantDemande: req.MontantDemande,
		Statut:         models.StatutDeclare,
	}
	return &created, nil
}

func (f *fakeGateway) UpdateSinistreStatut(ctx context.Context, sess session.Session, id int64, req models.UpdateStatutRequest) (*models.Sinistre, error) {
	f.record("UpdateSinistreStatut")
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.sinistres {
		if s.ID == id {
			updated := s
			updated.Statut = req.Statut
			if req.MontantApprouve != nil {
				updated.MontantApprouve = req.MontantApprouve
			}
			return &updated, nil
		}
	}
	return nil, errFakeUnset
}

func (f *fakeGateway) DeleteSinistre(ctx context.Context, sess session.Session, id int64) error {
	f.record("DeleteSinistre")
	return f.err
}

func (f *fakeGateway) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.record("Login")
	if f.err != nil {
		return nil, f.err
	}
	if f.loginResp == nil {
		return nil, errFakeUnset
	}
	resp := *f.loginResp
	return &resp, nil
}

func (f *fakeGateway) Register(ctx context.Context, req models.RegisterRequest) error {
	f.record("Register")
	return f.err
}

func (f *fakeGateway) ListUsers(ctx context.Context, sess session.Session) ([]models.User, error) {
	f.record("ListUsers")
	return f.users, f.err
}

func (f *fakeGateway) ListClients(ctx context.Context, sess session.Session) ([]models.User, error) {
	f.record("ListClients")
	return f.clients, f.err
}

func (f *fakeGateway) Ping(ctx context.Context, sess session.Session, path string) error {
	f.record("Ping " + path)
	return f.err
}
