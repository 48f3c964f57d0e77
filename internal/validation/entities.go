package validation

import (
	"studiohub/internal/domain/models"
)

var personName = TextOptions{Charset: true, TitleCase: true}

func (v *Validator) UserCreate(in models.UserCreate) (models.UserCreate, error) {
	p := v.begin(in)
	p.text("full_name", "Full name", &in.FullName, personName)
	p.phone("phone", &in.Phone)
	p.password("password", in.Password)
	return in, p.err()
}

func (v *Validator) UserUpdate(_ models.User, in models.UserUpdate) (models.UserUpdate, error) {
	p := v.begin(in)
	p.optText("full_name", "Full name", &in.FullName, personName)
	p.phone("phone", &in.Phone)
	return in, p.err()
}

func (v *Validator) ClientCreate(in models.ClientCreate) (models.ClientCreate, error) {
	return in, v.begin(in).err()
}

func (v *Validator) ClientUpdate(_ models.Client, in models.ClientUpdate) (models.ClientUpdate, error) {
	return in, v.begin(in).err()
}

func (v *Validator) hourlyRate() Bound {
	return Bound{Max: &v.policy.MaxHourlyRate}
}

func (v *Validator) CraftsmanCreate(in models.CraftsmanCreate) (models.CraftsmanCreate, error) {
	p := v.begin(in)
	p.text("name", "Name", &in.Name, personName)
	p.text("specialties", "Specialties", &in.Specialties, TextOptions{})
	p.phone("phone", &in.Phone)
	p.phone("whatsapp", &in.WhatsApp)
	p.amount("hourly_rate", &in.HourlyRate, v.hourlyRate())
	return in, p.err()
}

func (v *Validator) CraftsmanUpdate(_ models.Craftsman, in models.CraftsmanUpdate) (models.CraftsmanUpdate, error) {
	p := v.begin(in)
	p.optText("name", "Name", &in.Name, personName)
	p.optText("specialties", "Specialties", &in.Specialties, TextOptions{})
	p.phone("phone", &in.Phone)
	p.phone("whatsapp", &in.WhatsApp)
	p.amount("hourly_rate", &in.HourlyRate, v.hourlyRate())
	return in, p.err()
}

func (v *Validator) ProjectCreate(in models.ProjectCreate) (models.ProjectCreate, error) {
	p := v.begin(in)
	p.text("name", "Project name", &in.Name, TextOptions{})
	in.Description = BlankToAbsent(in.Description)
	enum(p, "status", in.Status, models.ProjectStatuses)
	p.amount("budget", &in.Budget, positive())
	p.startDate("start_date", in.StartDate)
	p.dateRange("end_date", in.StartDate, in.EndDate)
	return in, p.err()
}

// ProjectUpdate checks the date range against current for whichever bound
// the payload leaves untouched.
func (v *Validator) ProjectUpdate(current models.Project, in models.ProjectUpdate) (models.ProjectUpdate, error) {
	p := v.begin(in)
	p.optText("name", "Project name", &in.Name, TextOptions{})
	in.Description = BlankToAbsent(in.Description)
	enum(p, "status", in.Status, models.ProjectStatuses)
	p.amount("budget", &in.Budget, positive())
	p.startDate("start_date", in.StartDate)
	if in.StartDate != nil || in.EndDate != nil {
		start, end := current.StartDate, current.EndDate
		if in.StartDate != nil {
			start = in.StartDate
		}
		if in.EndDate != nil {
			end = in.EndDate
		}
		p.dateRange("end_date", start, end)
	}
	return in, p.err()
}

func (v *Validator) CampaignCreate(in models.CampaignCreate) (models.CampaignCreate, error) {
	p := v.begin(in)
	in.Description = BlankToAbsent(in.Description)
	enum(p, "status", in.Status, models.CampaignStatuses)
	return in, p.err()
}

func (v *Validator) CampaignUpdate(_ models.Campaign, in models.CampaignUpdate) (models.CampaignUpdate, error) {
	p := v.begin(in)
	in.Description = BlankToAbsent(in.Description)
	enum(p, "status", in.Status, models.CampaignStatuses)
	return in, p.err()
}

func (v *Validator) ItemCreate(in models.ItemCreate) (models.ItemCreate, error) {
	p := v.begin(in)
	in.Description = BlankToAbsent(in.Description)
	enum(p, "unit", in.Unit, models.Units)
	p.amount("estimated_cost", &in.EstimatedCost, minZero())
	return in, p.err()
}

func (v *Validator) ItemUpdate(_ models.Item, in models.ItemUpdate) (models.ItemUpdate, error) {
	p := v.begin(in)
	in.Description = BlankToAbsent(in.Description)
	enum(p, "unit", in.Unit, models.Units)
	p.amount("estimated_cost", &in.EstimatedCost, minZero())
	return in, p.err()
}

func (v *Validator) price() Bound {
	return Bound{MinExclusive: true, Max: &v.policy.MaxQuotePrice}
}

func (v *Validator) margin() Bound {
	return Bound{Max: &v.policy.MaxMarginPercentage, Between: true}
}

func (v *Validator) QuoteCreate(in models.QuoteCreate) (models.QuoteCreate, error) {
	p := v.begin(in)
	p.amount("price", &in.Price, v.price())
	enum(p, "currency", in.Currency, models.Currencies)
	in.Description = BlankToAbsent(in.Description)
	enum(p, "status", in.Status, models.QuoteStatuses)
	p.amount("margin_percentage", &in.MarginPercentage, v.margin())
	p.validUntil("valid_until", in.ValidUntil)
	p.message("whatsapp_message", &in.WhatsAppMessage)
	return in, p.err()
}

func (v *Validator) QuoteUpdate(_ models.Quote, in models.QuoteUpdate) (models.QuoteUpdate, error) {
	p := v.begin(in)
	p.amount("price", &in.Price, v.price())
	enum(p, "currency", in.Currency, models.Currencies)
	in.Description = BlankToAbsent(in.Description)
	enum(p, "status", in.Status, models.QuoteStatuses)
	p.amount("margin_percentage", &in.MarginPercentage, v.margin())
	p.validUntil("valid_until", in.ValidUntil)
	p.message("whatsapp_message", &in.WhatsAppMessage)
	return in, p.err()
}

func (v *Validator) TaskCreate(in models.TaskCreate) (models.TaskCreate, error) {
	p := v.begin(in)
	in.Description = BlankToAbsent(in.Description)
	enum(p, "status", in.Status, models.TaskStatuses)
	enum(p, "priority", in.Priority, models.TaskPriorities)
	return in, p.err()
}

func (v *Validator) TaskUpdate(_ models.Task, in models.TaskUpdate) (models.TaskUpdate, error) {
	p := v.begin(in)
	in.Description = BlankToAbsent(in.Description)
	enum(p, "status", in.Status, models.TaskStatuses)
	enum(p, "priority", in.Priority, models.TaskPriorities)
	return in, p.err()
}
