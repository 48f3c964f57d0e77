package service

import (
	"context"

	"go.uber.org/zap"

	"studiohub/internal/domain/models"
	"studiohub/internal/domain/schema"
	"studiohub/internal/validation"
)

type Stores struct {
	Users     Store[models.User]
	Clients   Store[models.Client]
	Craftsmen Store[models.Craftsman]
	Projects  Store[models.Project]
	Campaigns Store[models.Campaign]
	Items     Store[models.Item]
	Quotes    Store[models.Quote]
	Tasks     Store[models.Task]
	Tx        Transactor
}

// Messenger delivers a text message to a phone number and returns the
// provider's message id.
type Messenger interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type Service struct {
	Users     *Users
	Clients   *CRUD[models.Client, models.ClientCreate, models.ClientUpdate]
	Craftsmen *CRUD[models.Craftsman, models.CraftsmanCreate, models.CraftsmanUpdate]
	Projects  *CRUD[models.Project, models.ProjectCreate, models.ProjectUpdate]
	Campaigns *CRUD[models.Campaign, models.CampaignCreate, models.CampaignUpdate]
	Items     *CRUD[models.Item, models.ItemCreate, models.ItemUpdate]
	Quotes    *Quotes
	Tasks     *CRUD[models.Task, models.TaskCreate, models.TaskUpdate]

	stores Stores
}

// New wires the entity services. messenger may be nil, in which case
// sending quotes reports messaging as unavailable.
func New(st Stores, v *validation.Validator, messenger Messenger, log *zap.Logger) *Service {
	s := &Service{stores: st}

	s.Users = &Users{stores: st, log: log}
	s.Users.CRUD = &CRUD[models.User, models.UserCreate, models.UserUpdate]{
		Name:           "user",
		Store:          st.Users,
		Tx:             st.Tx,
		ValidateCreate: v.UserCreate,
		ValidateUpdate: v.UserUpdate,
		Build:          s.Users.build,
		Apply:          models.UserUpdate.Apply,
		ID:             func(e *models.User) int64 { return e.ID },
		Log:            log,
	}
	s.Clients = &CRUD[models.Client, models.ClientCreate, models.ClientUpdate]{
		Name:           "client",
		Store:          st.Clients,
		Tx:             st.Tx,
		ValidateCreate: v.ClientCreate,
		ValidateUpdate: v.ClientUpdate,
		Build:          pure(models.ClientCreate.Build),
		Apply:          models.ClientUpdate.Apply,
		ID:             func(e *models.Client) int64 { return e.ID },
		Log:            log,
	}
	s.Craftsmen = &CRUD[models.Craftsman, models.CraftsmanCreate, models.CraftsmanUpdate]{
		Name:           "craftsman",
		Store:          st.Craftsmen,
		Tx:             st.Tx,
		ValidateCreate: v.CraftsmanCreate,
		ValidateUpdate: v.CraftsmanUpdate,
		Build:          pure(models.CraftsmanCreate.Build),
		Apply:          models.CraftsmanUpdate.Apply,
		ID:             func(e *models.Craftsman) int64 { return e.ID },
		Log:            log,
	}
	s.Projects = &CRUD[models.Project, models.ProjectCreate, models.ProjectUpdate]{
		Name:           "project",
		Store:          st.Projects,
		Tx:             st.Tx,
		ValidateCreate: v.ProjectCreate,
		ValidateUpdate: v.ProjectUpdate,
		Build:          pure(models.ProjectCreate.Build),
		Apply:          models.ProjectUpdate.Apply,
		Cascade:        s.deleteProjectDependants,
		ID:             func(e *models.Project) int64 { return e.ID },
		Log:            log,
	}
	s.Campaigns = &CRUD[models.Campaign, models.CampaignCreate, models.CampaignUpdate]{
		Name:           "campaign",
		Store:          st.Campaigns,
		Tx:             st.Tx,
		ValidateCreate: v.CampaignCreate,
		ValidateUpdate: v.CampaignUpdate,
		Build:          pure(models.CampaignCreate.Build),
		Apply:          models.CampaignUpdate.Apply,
		Cascade:        s.deleteCampaignDependants,
		ID:             func(e *models.Campaign) int64 { return e.ID },
		Log:            log,
	}
	s.Items = &CRUD[models.Item, models.ItemCreate, models.ItemUpdate]{
		Name:           "item",
		Store:          st.Items,
		Tx:             st.Tx,
		ValidateCreate: v.ItemCreate,
		ValidateUpdate: v.ItemUpdate,
		Build:          pure(models.ItemCreate.Build),
		Apply:          models.ItemUpdate.Apply,
		Cascade:        s.deleteItemDependants,
		ID:             func(e *models.Item) int64 { return e.ID },
		Log:            log,
	}
	s.Quotes = &Quotes{
		CRUD: &CRUD[models.Quote, models.QuoteCreate, models.QuoteUpdate]{
			Name:           "quote",
			Store:          st.Quotes,
			Tx:             st.Tx,
			ValidateCreate: v.QuoteCreate,
			ValidateUpdate: v.QuoteUpdate,
			Build:          pure(models.QuoteCreate.Build),
			Apply:          models.QuoteUpdate.Apply,
			ID:             func(e *models.Quote) int64 { return e.ID },
			Log:            log,
		},
		craftsmen: st.Craftsmen,
		messenger: messenger,
		log:       log,
	}
	s.Tasks = &CRUD[models.Task, models.TaskCreate, models.TaskUpdate]{
		Name:           "task",
		Store:          st.Tasks,
		Tx:             st.Tx,
		ValidateCreate: v.TaskCreate,
		ValidateUpdate: v.TaskUpdate,
		Build:          pure(models.TaskCreate.Build),
		Apply:          models.TaskUpdate.Apply,
		ID:             func(e *models.Task) int64 { return e.ID },
		Log:            log,
	}
	return s
}

func pure[C, E any](build func(C) E) func(context.Context, C) (E, error) {
	return func(_ context.Context, in C) (E, error) {
		return build(in), nil
	}
}

// deleteItemDependants removes the quotes of item.
func (s *Service) deleteItemDependants(ctx context.Context, item models.Item) error {
	_, err := s.stores.Quotes.DeleteWhere(ctx, []schema.Condition{schema.Eq("item_id", item.ID)})
	return err
}

// deleteCampaignDependants removes the items of campaign and their quotes.
func (s *Service) deleteCampaignDependants(ctx context.Context, campaign models.Campaign) error {
	items, err := s.stores.Items.List(ctx, schema.Query{Conditions: []schema.Condition{schema.Eq("campaign_id", campaign.ID)}})
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.deleteItemDependants(ctx, item); err != nil {
			return err
		}
	}
	_, err = s.stores.Items.DeleteWhere(ctx, []schema.Condition{schema.Eq("campaign_id", campaign.ID)})
	return err
}

// deleteProjectDependants removes the campaigns of project, everything
// below them, and the project's tasks.
func (s *Service) deleteProjectDependants(ctx context.Context, project models.Project) error {
	campaigns, err := s.stores.Campaigns.List(ctx, schema.Query{Conditions: []schema.Condition{schema.Eq("project_id", project.ID)}})
	if err != nil {
		return err
	}
	for _, campaign := range campaigns {
		if err := s.deleteCampaignDependants(ctx, campaign); err != nil {
			return err
		}
	}
	if _, err := s.stores.Campaigns.DeleteWhere(ctx, []schema.Condition{schema.Eq("project_id", project.ID)}); err != nil {
		return err
	}
	_, err = s.stores.Tasks.DeleteWhere(ctx, []schema.Condition{schema.Eq("project_id", project.ID)})
	return err
}
