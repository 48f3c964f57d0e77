package models

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
	ProjectOnHold    ProjectStatus = "on hold"
)

var ProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectActive, ProjectCompleted, ProjectCancelled, ProjectOnHold}

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
	CampaignOnHold    CampaignStatus = "on hold"
)

var CampaignStatuses = []CampaignStatus{CampaignActive, CampaignCompleted, CampaignCancelled, CampaignOnHold}

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteApproved QuoteStatus = "approved"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

var QuoteStatuses = []QuoteStatus{QuotePending, QuoteApproved, QuoteRejected, QuoteExpired}

type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
)

var Currencies = []Currency{EUR, USD, GBP}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskCompleted, TaskCancelled}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

type Unit string

const (
	UnitUnit        Unit = "unit"
	UnitHour        Unit = "hour"
	UnitSquareMeter Unit = "square meter"
	UnitLinearMeter Unit = "linear meter"
	UnitKilogram    Unit = "kilogram"
	UnitCubicMeter  Unit = "cubic meter"
)

var Units = []Unit{UnitUnit, UnitHour, UnitSquareMeter, UnitLinearMeter, UnitKilogram, UnitCubicMeter}

// ActiveProjectStatuses are the statuses of projects that are neither
// completed nor cancelled.
var ActiveProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectActive, ProjectOnHold}
