package schema

import (
	"studiohub/internal/domain/models"
)

var Users = Mapping[models.User]{
	Table:   "users",
	Columns: []string{"email", "hashed_password", "full_name", "phone", "is_active", "is_admin"},
	Unique:  []string{"email"},
	Meta:    func(e *models.User) *models.Base { return &e.Base },
	Values: func(e *models.User) []any {
		return []any{e.Email, e.HashedPassword, e.FullName, e.Phone, e.IsActive, e.IsAdmin}
	},
	Targets: func(e *models.User) []any {
		return []any{&e.Email, &e.HashedPassword, &e.FullName, &e.Phone, &e.IsActive, &e.IsAdmin}
	},
}

var Clients = Mapping[models.Client]{
	Table:   "clients",
	Columns: []string{"name", "email", "phone", "whatsapp", "address", "company", "notes"},
	Meta:    func(e *models.Client) *models.Base { return &e.Base },
	Values: func(e *models.Client) []any {
		return []any{e.Name, e.Email, e.Phone, e.WhatsApp, e.Address, e.Company, e.Notes}
	},
	Targets: func(e *models.Client) []any {
		return []any{&e.Name, &e.Email, &e.Phone, &e.WhatsApp, &e.Address, &e.Company, &e.Notes}
	},
}

var Craftsmen = Mapping[models.Craftsman]{
	Table:   "craftsmen",
	Columns: []string{"name", "email", "phone", "whatsapp", "specialties", "hourly_rate", "notes", "is_active"},
	Meta:    func(e *models.Craftsman) *models.Base { return &e.Base },
	Values: func(e *models.Craftsman) []any {
		return []any{e.Name, e.Email, e.Phone, e.WhatsApp, e.Specialties, decimalValue(e.HourlyRate), e.Notes, e.IsActive}
	},
	Targets: func(e *models.Craftsman) []any {
		return []any{&e.Name, &e.Email, &e.Phone, &e.WhatsApp, &e.Specialties, &e.HourlyRate, &e.Notes, &e.IsActive}
	},
}

var Projects = Mapping[models.Project]{
	Table:      "projects",
	Columns:    []string{"name", "description", "status", "budget", "start_date", "end_date", "user_id", "client_id"},
	References: map[string]string{"user_id": "users", "client_id": "clients"},
	Meta:       func(e *models.Project) *models.Base { return &e.Base },
	Values: func(e *models.Project) []any {
		return []any{e.Name, e.Description, string(e.Status), decimalValue(e.Budget), dateValue(e.StartDate), dateValue(e.EndDate), e.UserID, e.ClientID}
	},
	Targets: func(e *models.Project) []any {
		return []any{&e.Name, &e.Description, &e.Status, &e.Budget, &e.StartDate, &e.EndDate, &e.UserID, &e.ClientID}
	},
}

var Campaigns = Mapping[models.Campaign]{
	Table:      "campaigns",
	Columns:    []string{"name", "description", "status", "project_id"},
	References: map[string]string{"project_id": "projects"},
	Meta:       func(e *models.Campaign) *models.Base { return &e.Base },
	Values: func(e *models.Campaign) []any {
		return []any{e.Name, e.Description, string(e.Status), e.ProjectID}
	},
	Targets: func(e *models.Campaign) []any {
		return []any{&e.Name, &e.Description, &e.Status, &e.ProjectID}
	},
}

var Items = Mapping[models.Item]{
	Table:      "items",
	Columns:    []string{"name", "description", "quantity", "unit", "estimated_cost", "campaign_id"},
	References: map[string]string{"campaign_id": "campaigns"},
	Meta:       func(e *models.Item) *models.Base { return &e.Base },
	Values: func(e *models.Item) []any {
		return []any{e.Name, e.Description, e.Quantity, string(e.Unit), decimalValue(e.EstimatedCost), e.CampaignID}
	},
	Targets: func(e *models.Item) []any {
		return []any{&e.Name, &e.Description, &e.Quantity, &e.Unit, &e.EstimatedCost, &e.CampaignID}
	},
}

var Quotes = Mapping[models.Quote]{
	Table: "quotes",
	Columns: []string{
		"price", "currency", "description", "status", "margin_percentage",
		"valid_until", "whatsapp_message", "item_id", "craftsman_id",
	},
	References: map[string]string{"item_id": "items", "craftsman_id": "craftsmen"},
	Meta:       func(e *models.Quote) *models.Base { return &e.Base },
	Values: func(e *models.Quote) []any {
		return []any{
			decimalValue(&e.Price), string(e.Currency), e.Description, string(e.Status), decimalValue(e.MarginPercentage),
			dateValue(e.ValidUntil), e.WhatsAppMessage, e.ItemID, e.CraftsmanID,
		}
	},
	Targets: func(e *models.Quote) []any {
		return []any{
			&e.Price, &e.Currency, &e.Description, &e.Status, &e.MarginPercentage,
			&e.ValidUntil, &e.WhatsAppMessage, &e.ItemID, &e.CraftsmanID,
		}
	},
}

var Tasks = Mapping[models.Task]{
	Table:      "tasks",
	Columns:    []string{"title", "description", "status", "priority", "due_date", "project_id", "assigned_user_id"},
	References: map[string]string{"project_id": "projects", "assigned_user_id": "users"},
	Meta:       func(e *models.Task) *models.Base { return &e.Base },
	Values: func(e *models.Task) []any {
		return []any{e.Title, e.Description, string(e.Status), string(e.Priority), dateValue(e.DueDate), e.ProjectID, e.AssignedUserID}
	},
	Targets: func(e *models.Task) []any {
		return []any{&e.Title, &e.Description, &e.Status, &e.Priority, &e.DueDate, &e.ProjectID, &e.AssignedUserID}
	},
}

// decimalValue renders amounts as text so the driver hands them to NUMERIC
// columns without a float round trip.
func decimalValue(d *models.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(2)
}

func dateValue(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}
