package service

import (
	"studiohub/internal/domain/models"
	"studiohub/internal/domain/schema"
)

// Filters of the same listing are combined with AND.

type UserFilter struct {
	Email      string
	ActiveOnly bool
}

func (f UserFilter) Conditions() []schema.Condition {
	var conds []schema.Condition
	if f.Email != "" {
		conds = append(conds, schema.Eq("email", f.Email))
	}
	if f.ActiveOnly {
		conds = append(conds, schema.Eq("is_active", true))
	}
	return conds
}

type ClientFilter struct {
	// Name matches any client whose name contains it, ignoring case.
	Name string
}

func (f ClientFilter) Conditions() []schema.Condition {
	if f.Name == "" {
		return nil
	}
	return []schema.Condition{schema.Contains("name", f.Name)}
}

type CraftsmanFilter struct {
	ActiveOnly  bool
	Phone       string
	WhatsApp    string
	Specialties string
}

func (f CraftsmanFilter) Conditions() []schema.Condition {
	var conds []schema.Condition
	if f.ActiveOnly {
		conds = append(conds, schema.Eq("is_active", true))
	}
	if f.Phone != "" {
		conds = append(conds, schema.Eq("phone", f.Phone))
	}
	if f.WhatsApp != "" {
		conds = append(conds, schema.Eq("whatsapp", f.WhatsApp))
	}
	if f.Specialties != "" {
		conds = append(conds, schema.Contains("specialties", f.Specialties))
	}
	return conds
}

type ProjectFilter struct {
	UserID     *int64
	ClientID   *int64
	Status     *models.ProjectStatus
	ActiveOnly bool
}

func (f ProjectFilter) Conditions() []schema.Condition {
	var conds []schema.Condition
	if f.UserID != nil {
		conds = append(conds, schema.Eq("user_id", *f.UserID))
	}
	if f.ClientID != nil {
		conds = append(conds, schema.Eq("client_id", *f.ClientID))
	}
	if f.Status != nil {
		conds = append(conds, schema.Eq("status", string(*f.Status)))
	}
	if f.ActiveOnly {
		conds = append(conds, schema.In("status", toStrings(models.ActiveProjectStatuses)...))
	}
	return conds
}

type CampaignFilter struct {
	ProjectID  *int64
	Status     *models.CampaignStatus
	ActiveOnly bool
}

func (f CampaignFilter) Conditions() []schema.Condition {
	var conds []schema.Condition
	if f.ProjectID != nil {
		conds = append(conds, schema.Eq("project_id", *f.ProjectID))
	}
	if f.Status != nil {
		conds = append(conds, schema.Eq("status", string(*f.Status)))
	}
	if f.ActiveOnly {
		conds = append(conds, schema.Eq("status", string(models.CampaignActive)))
	}
	return conds
}

type ItemFilter struct {
	CampaignID *int64
	Name       string
}

func (f ItemFilter) Conditions() []schema.Condition {
	var conds []schema.Condition
	if f.CampaignID != nil {
		conds = append(conds, schema.Eq("campaign_id", *f.CampaignID))
	}
	if f.Name != "" {
		conds = append(conds, schema.Contains("name", f.Name))
	}
	return conds
}

type QuoteFilter struct {
	ItemID       *int64
	CraftsmanID  *int64
	Status       *models.QuoteStatus
	PendingOnly  bool
	ApprovedOnly bool
}

func (f QuoteFilter) Conditions() []schema.Condition {
	var conds []schema.Condition
	if f.ItemID != nil {
		conds = append(conds, schema.Eq("item_id", *f.ItemID))
	}
	if f.CraftsmanID != nil {
		conds = append(conds, schema.Eq("craftsman_id", *f.CraftsmanID))
	}
	if f.Status != nil {
		conds = append(conds, schema.Eq("status", string(*f.Status)))
	}
	if f.PendingOnly {
		conds = append(conds, schema.Eq("status", string(models.QuotePending)))
	}
	if f.ApprovedOnly {
		conds = append(conds, schema.Eq("status", string(models.QuoteApproved)))
	}
	return conds
}

type TaskFilter struct {
	ProjectID      *int64
	AssignedUserID *int64
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	TodoOnly       bool
	InProgressOnly bool
	UnassignedOnly bool
}

func (f TaskFilter) Conditions() []schema.Condition {
	var conds []schema.Condition
	if f.ProjectID != nil {
		conds = append(conds, schema.Eq("project_id", *f.ProjectID))
	}
	if f.AssignedUserID != nil {
		conds = append(conds, schema.Eq("assigned_user_id", *f.AssignedUserID))
	}
	if f.Status != nil {
		conds = append(conds, schema.Eq("status", string(*f.Status)))
	}
	if f.Priority != nil {
		conds = append(conds, schema.Eq("priority", string(*f.Priority)))
	}
	if f.TodoOnly {
		conds = append(conds, schema.Eq("status", string(models.TaskTodo)))
	}
	if f.InProgressOnly {
		conds = append(conds, schema.Eq("status", string(models.TaskInProgress)))
	}
	if f.UnassignedOnly {
		conds = append(conds, schema.IsNull("assigned_user_id"))
	}
	return conds
}

func toStrings[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
