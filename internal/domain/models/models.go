package models

type User struct {
	Base
	Email          string  `json:"email"`
	HashedPassword string  `json:"-"`
	FullName       string  `json:"full_name"`
	Phone          *string `json:"phone"`
	IsActive       bool    `json:"is_active"`
	IsAdmin        bool    `json:"is_admin"`
}

type UserCreate struct {
	Email    string  `json:"email" validate:"required,max=255,email"`
	FullName string  `json:"full_name" validate:"required,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Password string  `json:"password" validate:"required,max=255"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

type UserUpdate struct {
	Email    *string `json:"email" validate:"omitempty,max=255,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

// Build turns a validated payload into a user. The hash is computed by the
// caller; the clear password never reaches the entity.
func (c UserCreate) Build(hashedPassword string) User {
	return User{
		Email:          c.Email,
		HashedPassword: hashedPassword,
		FullName:       c.FullName,
		Phone:          c.Phone,
		IsActive:       valueOr(c.IsActive, true),
		IsAdmin:        valueOr(c.IsAdmin, false),
	}
}

func (u UserUpdate) Apply(e *User) {
	assign(&e.Email, u.Email)
	assign(&e.FullName, u.FullName)
	assignPtr(&e.Phone, u.Phone)
	assign(&e.IsActive, u.IsActive)
	assign(&e.IsAdmin, u.IsAdmin)
}

type Client struct {
	Base
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	WhatsApp *string `json:"whatsapp"`
	Address  *string `json:"address"`
	Company  *string `json:"company"`
	Notes    *string `json:"notes"`
}

type ClientCreate struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    *string `json:"email" validate:"omitempty,max=255,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	WhatsApp *string `json:"whatsapp" validate:"omitempty,max=20"`
	Address  *string `json:"address"`
	Company  *string `json:"company" validate:"omitempty,max=255"`
	Notes    *string `json:"notes"`
}

type ClientUpdate struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,max=255,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	WhatsApp *string `json:"whatsapp" validate:"omitempty,max=20"`
	Address  *string `json:"address"`
	Company  *string `json:"company" validate:"omitempty,max=255"`
	Notes    *string `json:"notes"`
}

func (c ClientCreate) Build() Client {
	return Client{
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		WhatsApp: c.WhatsApp,
		Address:  c.Address,
		Company:  c.Company,
		Notes:    c.Notes,
	}
}

func (u ClientUpdate) Apply(e *Client) {
	assign(&e.Name, u.Name)
	assignPtr(&e.Email, u.Email)
	assignPtr(&e.Phone, u.Phone)
	assignPtr(&e.WhatsApp, u.WhatsApp)
	assignPtr(&e.Address, u.Address)
	assignPtr(&e.Company, u.Company)
	assignPtr(&e.Notes, u.Notes)
}

type Craftsman struct {
	Base
	Name        string   `json:"name"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	WhatsApp    *string  `json:"whatsapp"`
	Specialties string   `json:"specialties"`
	HourlyRate  *Decimal `json:"hourly_rate"`
	Notes       *string  `json:"notes"`
	IsActive    bool     `json:"is_active"`
}

type CraftsmanCreate struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Specialties string   `json:"specialties" validate:"required,max=500"`
	Phone       *string  `json:"phone" validate:"omitempty,max=20"`
	Email       *string  `json:"email" validate:"omitempty,max=255,email"`
	WhatsApp    *string  `json:"whatsapp" validate:"omitempty,max=20"`
	HourlyRate  *Decimal `json:"hourly_rate"`
	Notes       *string  `json:"notes"`
	IsActive    *bool    `json:"is_active"`
}

type CraftsmanUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Specialties *string  `json:"specialties" validate:"omitempty,min=1,max=500"`
	Phone       *string  `json:"phone" validate:"omitempty,max=20"`
	Email       *string  `json:"email" validate:"omitempty,max=255,email"`
	WhatsApp    *string  `json:"whatsapp" validate:"omitempty,max=20"`
	HourlyRate  *Decimal `json:"hourly_rate"`
	Notes       *string  `json:"notes"`
	IsActive    *bool    `json:"is_active"`
}

func (c CraftsmanCreate) Build() Craftsman {
	return Craftsman{
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		WhatsApp:    c.WhatsApp,
		Specialties: c.Specialties,
		HourlyRate:  c.HourlyRate,
		Notes:       c.Notes,
		IsActive:    valueOr(c.IsActive, true),
	}
}

func (u CraftsmanUpdate) Apply(e *Craftsman) {
	assign(&e.Name, u.Name)
	assign(&e.Specialties, u.Specialties)
	assignPtr(&e.Phone, u.Phone)
	assignPtr(&e.Email, u.Email)
	assignPtr(&e.WhatsApp, u.WhatsApp)
	assignPtr(&e.HourlyRate, u.HourlyRate)
	assignPtr(&e.Notes, u.Notes)
	assign(&e.IsActive, u.IsActive)
}

type Project struct {
	Base
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Status      ProjectStatus `json:"status"`
	Budget      *Decimal      `json:"budget"`
	StartDate   *Date         `json:"start_date"`
	EndDate     *Date         `json:"end_date"`
	UserID      int64         `json:"user_id"`
	ClientID    int64         `json:"client_id"`
}

type ProjectCreate struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Description *string        `json:"description"`
	Status      *ProjectStatus `json:"status"`
	Budget      *Decimal       `json:"budget"`
	StartDate   *Date          `json:"start_date"`
	EndDate     *Date          `json:"end_date"`
	ClientID    int64          `json:"client_id" validate:"gt=0"`
	// UserID is the owning user; it does not come from the request body.
	UserID int64 `json:"-"`
}

type ProjectUpdate struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string        `json:"description"`
	Status      *ProjectStatus `json:"status"`
	Budget      *Decimal       `json:"budget"`
	StartDate   *Date          `json:"start_date"`
	EndDate     *Date          `json:"end_date"`
	ClientID    *int64         `json:"client_id" validate:"omitempty,gt=0"`
}

func (c ProjectCreate) Build() Project {
	return Project{
		Name:        c.Name,
		Description: c.Description,
		Status:      valueOr(c.Status, ProjectPlanning),
		Budget:      c.Budget,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		UserID:      c.UserID,
		ClientID:    c.ClientID,
	}
}

func (u ProjectUpdate) Apply(e *Project) {
	assign(&e.Name, u.Name)
	assignPtr(&e.Description, u.Description)
	assign(&e.Status, u.Status)
	assignPtr(&e.Budget, u.Budget)
	assignPtr(&e.StartDate, u.StartDate)
	assignPtr(&e.EndDate, u.EndDate)
	assign(&e.ClientID, u.ClientID)
}

type Campaign struct {
	Base
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Status      CampaignStatus `json:"status"`
	ProjectID   int64          `json:"project_id"`
}

type CampaignCreate struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description *string         `json:"description"`
	Status      *CampaignStatus `json:"status"`
	ProjectID   int64           `json:"project_id" validate:"gt=0"`
}

type CampaignUpdate struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string         `json:"description"`
	Status      *CampaignStatus `json:"status"`
}

func (c CampaignCreate) Build() Campaign {
	return Campaign{
		Name:        c.Name,
		Description: c.Description,
		Status:      valueOr(c.Status, CampaignActive),
		ProjectID:   c.ProjectID,
	}
}

func (u CampaignUpdate) Apply(e *Campaign) {
	assign(&e.Name, u.Name)
	assignPtr(&e.Description, u.Description)
	assign(&e.Status, u.Status)
}

type Item struct {
	Base
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Quantity      int      `json:"quantity"`
	Unit          Unit     `json:"unit"`
	EstimatedCost *Decimal `json:"estimated_cost"`
	CampaignID    int64    `json:"campaign_id"`
}

type ItemCreate struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Description   *string  `json:"description"`
	Quantity      *int     `json:"quantity" validate:"omitempty,gt=0"`
	Unit          *Unit    `json:"unit"`
	EstimatedCost *Decimal `json:"estimated_cost"`
	CampaignID    int64    `json:"campaign_id" validate:"gt=0"`
}

type ItemUpdate struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description"`
	Quantity      *int     `json:"quantity" validate:"omitempty,gt=0"`
	Unit          *Unit    `json:"unit"`
	EstimatedCost *Decimal `json:"estimated_cost"`
}

func (c ItemCreate) Build() Item {
	return Item{
		Name:          c.Name,
		Description:   c.Description,
		Quantity:      valueOr(c.Quantity, 1),
		Unit:          valueOr(c.Unit, UnitUnit),
		EstimatedCost: c.EstimatedCost,
		CampaignID:    c.CampaignID,
	}
}

func (u ItemUpdate) Apply(e *Item) {
	assign(&e.Name, u.Name)
	assignPtr(&e.Description, u.Description)
	assign(&e.Quantity, u.Quantity)
	assign(&e.Unit, u.Unit)
	assignPtr(&e.EstimatedCost, u.EstimatedCost)
}

type Quote struct {
	Base
	Price            Decimal     `json:"price"`
	Currency         Currency    `json:"currency"`
	Description      *string     `json:"description"`
	Status           QuoteStatus `json:"status"`
	MarginPercentage *Decimal    `json:"margin_percentage"`
	ValidUntil       *Date       `json:"valid_until"`
	WhatsAppMessage  *string     `json:"whatsapp_message"`
	ItemID           int64       `json:"item_id"`
	CraftsmanID      int64       `json:"craftsman_id"`
}

type QuoteCreate struct {
	Price            *Decimal     `json:"price" validate:"required"`
	Currency         *Currency    `json:"currency"`
	Description      *string      `json:"description"`
	Status           *QuoteStatus `json:"status"`
	MarginPercentage *Decimal     `json:"margin_percentage"`
	ValidUntil       *Date        `json:"valid_until"`
	WhatsAppMessage  *string      `json:"whatsapp_message"`
	ItemID           int64        `json:"item_id" validate:"gt=0"`
	CraftsmanID      int64        `json:"craftsman_id" validate:"gt=0"`
}

type QuoteUpdate struct {
	Price            *Decimal     `json:"price"`
	Currency         *Currency    `json:"currency"`
	Description      *string      `json:"description"`
	Status           *QuoteStatus `json:"status"`
	MarginPercentage *Decimal     `json:"margin_percentage"`
	ValidUntil       *Date        `json:"valid_until"`
	WhatsAppMessage  *string      `json:"whatsapp_message"`
}

func (c QuoteCreate) Build() Quote {
	q := Quote{
		Currency:         valueOr(c.Currency, EUR),
		Description:      c.Description,
		Status:           valueOr(c.Status, QuotePending),
		MarginPercentage: c.MarginPercentage,
		ValidUntil:       c.ValidUntil,
		WhatsAppMessage:  c.WhatsAppMessage,
		ItemID:           c.ItemID,
		CraftsmanID:      c.CraftsmanID,
	}
	if c.Price != nil {
		q.Price = *c.Price
	}
	return q
}

func (u QuoteUpdate) Apply(e *Quote) {
	assign(&e.Price, u.Price)
	assign(&e.Currency, u.Currency)
	assignPtr(&e.Description, u.Description)
	assign(&e.Status, u.Status)
	assignPtr(&e.MarginPercentage, u.MarginPercentage)
	assignPtr(&e.ValidUntil, u.ValidUntil)
	assignPtr(&e.WhatsAppMessage, u.WhatsAppMessage)
}

type Task struct {
	Base
	Title          string       `json:"title"`
	Description    *string      `json:"description"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	DueDate        *Date        `json:"due_date"`
	ProjectID      int64        `json:"project_id"`
	AssignedUserID *int64       `json:"assigned_user_id"`
}

type TaskCreate struct {
	Title          string        `json:"title" validate:"required,max=255"`
	Description    *string       `json:"description"`
	Status         *TaskStatus   `json:"status"`
	Priority       *TaskPriority `json:"priority"`
	DueDate        *Date         `json:"due_date"`
	ProjectID      int64         `json:"project_id" validate:"gt=0"`
	AssignedUserID *int64        `json:"assigned_user_id" validate:"omitempty,gt=0"`
}

type TaskUpdate struct {
	Title          *string       `json:"title" validate:"omitempty,min=1,max=255"`
	Description    *string       `json:"description"`
	Status         *TaskStatus   `json:"status"`
	Priority       *TaskPriority `json:"priority"`
	DueDate        *Date         `json:"due_date"`
	AssignedUserID *int64        `json:"assigned_user_id" validate:"omitempty,gt=0"`
}

func (c TaskCreate) Build() Task {
	return Task{
		Title:          c.Title,
		Description:    c.Description,
		Status:         valueOr(c.Status, TaskTodo),
		Priority:       valueOr(c.Priority, PriorityMedium),
		DueDate:        c.DueDate,
		ProjectID:      c.ProjectID,
		AssignedUserID: c.AssignedUserID,
	}
}

func (u TaskUpdate) Apply(e *Task) {
	assign(&e.Title, u.Title)
	assignPtr(&e.Description, u.Description)
	assign(&e.Status, u.Status)
	assign(&e.Priority, u.Priority)
	assignPtr(&e.DueDate, u.DueDate)
	assignPtr(&e.AssignedUserID, u.AssignedUserID)
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// assignPtr replaces a nullable field when the payload carries a value. The
// entity keeps its own copy so later payload edits do not leak into it.
func assignPtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
