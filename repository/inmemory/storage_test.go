package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiohub/internal/domain/errors"
	"studiohub/internal/domain/models"
	"studiohub/internal/domain/schema"
)

type fixture struct {
	storage   *Storage
	users     *Table[models.User]
	clients   *Table[models.Client]
	projects  *Table[models.Project]
	campaigns *Table[models.Campaign]
}

func newFixture() fixture {
	s := NewStorage().WithClock(func() time.Time {
		return time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	})
	return fixture{
		storage:   s,
		users:     NewTable(s, schema.Users),
		clients:   NewTable(s, schema.Clients),
		projects:  NewTable(s, schema.Projects),
		campaigns: NewTable(s, schema.Campaigns),
	}
}

func TestNewStorage(t *testing.T) {
	storage := NewStorage()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.tables)
	assert.Empty(t, storage.tables)
	assert.NoError(t, storage.Ping(context.Background()))
}

func TestTableCreate(t *testing.T) {
	tests := []struct {
		name  string
		user  models.User
		setup func(f fixture)
		want  struct {
			error     bool
			integrity bool
			id        int64
		}
	}{
		{
			name: "successful creation",
			user: models.User{Email: "ana@example.com", FullName: "Ana"},
			want: struct {
				error     bool
				integrity bool
				id        int64
			}{id: 1},
		},
		{
			name: "duplicate email",
			user: models.User{Email: "ana@example.com", FullName: "Ana Bis"},
			setup: func(f fixture) {
				_ = f.users.Create(context.Background(), &models.User{Email: "ana@example.com", FullName: "Ana"})
			},
			want: struct {
				error     bool
				integrity bool
				id        int64
			}{error: true, integrity: true},
		},
		{
			name: "ids keep increasing",
			user: models.User{Email: "luis@example.com", FullName: "Luis"},
			setup: func(f fixture) {
				_ = f.users.Create(context.Background(), &models.User{Email: "ana@example.com", FullName: "Ana"})
			},
			want: struct {
				error     bool
				integrity bool
				id        int64
			}{id: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			user := tt.user
			err := f.users.Create(context.Background(), &user)
			if tt.want.error {
				require.Error(t, err)
				assert.Equal(t, tt.want.integrity, errors.IsIntegrity(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.id, user.ID)
			assert.False(t, user.CreatedAt.IsZero())
			assert.Nil(t, user.UpdatedAt)
		})
	}
}

func TestForeignKeys(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	err := f.projects.Create(ctx, &models.Project{Name: "Loft", UserID: 1, ClientID: 1})
	require.Error(t, err)
	var ierr *errors.IntegrityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "referenced row does not exist", ierr.Reason)

	user := models.User{Email: "ana@example.com", FullName: "Ana"}
	require.NoError(t, f.users.Create(ctx, &user))
	client := models.Client{Name: "Acme"}
	require.NoError(t, f.clients.Create(ctx, &client))

	project := models.Project{Name: "Loft", UserID: user.ID, ClientID: client.ID, Status: models.ProjectPlanning}
	require.NoError(t, f.projects.Create(ctx, &project))

	err = f.clients.Delete(ctx, client.ID)
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "projects_client_id_fkey", ierr.Constraint)

	require.NoError(t, f.projects.Delete(ctx, project.ID))
	assert.NoError(t, f.clients.Delete(ctx, client.ID))
}

func TestTableUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	client := models.Client{Name: "Acme"}
	require.NoError(t, f.clients.Create(ctx, &client))
	created := client.CreatedAt

	client.Name = "Acme Ltd"
	client.CreatedAt = time.Time{}
	require.NoError(t, f.clients.Update(ctx, &client))
	assert.Equal(t, created, client.CreatedAt)
	require.NotNil(t, client.UpdatedAt)

	got, err := f.clients.Get(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Name)

	missing := models.Client{Base: models.Base{ID: 99}, Name: "Ghost"}
	assert.ErrorIs(t, f.clients.Update(ctx, &missing), errors.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, name := range []string{"Acme", "Beta Works", "acme interiors", "Gamma"} {
		c := models.Client{Name: name}
		if name == "Gamma" {
			c.Company = models.Ptr("Gamma SL")
		}
		require.NoError(t, f.clients.Create(ctx, &c))
	}

	tests := []struct {
		name  string
		query schema.Query
		want  []string
	}{
		{name: "all", query: schema.Query{}, want: []string{"Acme", "Beta Works", "acme interiors", "Gamma"}},
		{name: "contains ignores case", query: schema.Query{Conditions: []schema.Condition{schema.Contains("name", "ACME")}}, want: []string{"Acme", "acme interiors"}},
		{name: "is null", query: schema.Query{Conditions: []schema.Condition{schema.IsNull("company")}}, want: []string{"Acme", "Beta Works", "acme interiors"}},
		{name: "conditions are and-ed", query: schema.Query{Conditions: []schema.Condition{schema.Contains("name", "a"), schema.Eq("company", "Gamma SL")}}, want: []string{"Gamma"}},
		{name: "skip and limit", query: schema.Query{Skip: 1, Limit: 2}, want: []string{"Beta Works", "acme interiors"}},
		{name: "skip past end", query: schema.Query{Skip: 10}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.clients.List(ctx, tt.query)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, c := range got {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	_, err := f.clients.List(ctx, schema.Query{Conditions: []schema.Condition{schema.Eq("nope", 1)}})
	assert.ErrorIs(t, err, errors.ErrUnknownColumn)

	n, err := f.clients.Count(ctx, []schema.Condition{schema.Contains("name", "acme")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWithinTxRestoresOnError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	client := models.Client{Name: "Acme"}
	require.NoError(t, f.clients.Create(ctx, &client))

	boom := errors.New("boom")
	err := f.storage.WithinTx(ctx, func(ctx context.Context) error {
		if err := f.clients.Delete(ctx, client.ID); err != nil {
			return err
		}
		return f.storage.WithinTx(ctx, func(ctx context.Context) error {
			_ = f.clients.Create(ctx, &models.Client{Name: "Temp"})
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	got, err := f.clients.Get(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	n, err := f.clients.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Ids handed out inside the failed transaction are not reused.
	next := models.Client{Name: "Next"}
	require.NoError(t, f.clients.Create(ctx, &next))
	assert.Equal(t, int64(3), next.ID)
}

func TestWithinTxKeepsWritesMadeOutside(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	existing := models.Client{Name: "Acme"}
	require.NoError(t, f.clients.Create(ctx, &existing))

	boom := errors.New("boom")
	err := f.storage.WithinTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, f.clients.Create(txCtx, &models.Client{Name: "Temp"}))

		done := make(chan error, 1)
		go func() {
			done <- f.users.Create(ctx, &models.User{Email: "ana@example.com", FullName: "Ana"})
		}()
		require.NoError(t, <-done)

		existing.Name = "Acme Studio"
		require.NoError(t, f.clients.Update(ctx, &existing))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	users, err := f.users.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, users)

	clients, err := f.clients.List(ctx, schema.Query{})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme Studio", clients[0].Name)
}

func TestDeleteWhere(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	user := models.User{Email: "ana@example.com", FullName: "Ana"}
	require.NoError(t, f.users.Create(ctx, &user))
	client := models.Client{Name: "Acme"}
	require.NoError(t, f.clients.Create(ctx, &client))
	project := models.Project{Name: "Loft", UserID: user.ID, ClientID: client.ID}
	require.NoError(t, f.projects.Create(ctx, &project))

	for _, name := range []string{"Spring", "Summer"} {
		require.NoError(t, f.campaigns.Create(ctx, &models.Campaign{Name: name, ProjectID: project.ID, Status: models.CampaignActive}))
	}

	n, err := f.campaigns.DeleteWhere(ctx, []schema.Condition{schema.Eq("project_id", project.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := f.campaigns.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}
