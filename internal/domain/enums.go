package domain

type Role string

const (
	RoleEngineer   Role = "engineer"
	RoleProgrammer Role = "programmer"
	RoleOperator   Role = "operator"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"engineer": true, "programmer": true, "operator": true,
	"manager": true, "admin": true,
}

type MachineStatus string

const (
	MachineAvailable MachineStatus = "available"
	MachineDown      MachineStatus = "down"
	MachineSetup     MachineStatus = "setup"
	MachineOffline   MachineStatus = "offline"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// TaskState is a kanban column. There is no enforced transition graph:
// any state is reachable from any other via a direct update. The UI guides
// valid flows; the core does not.
type TaskState string

const (
	TaskBacklog    TaskState = "backlog"
	TaskReady      TaskState = "ready"
	TaskInProgress TaskState = "in_progress"
	TaskBlocked    TaskState = "blocked"
	TaskReview     TaskState = "review"
	TaskDone       TaskState = "done"
)

// ValidTaskStates is the canonical set of accepted task state strings.
var ValidTaskStates = map[string]bool{
	"backlog": true, "ready": true, "in_progress": true,
	"blocked": true, "review": true, "done": true,
}

// BoardColumns lists task states in kanban column order.
var BoardColumns = []TaskState{
	TaskBacklog, TaskReady, TaskInProgress, TaskBlocked, TaskReview, TaskDone,
}

type AuditAction string

const (
	ActionCreate   AuditAction = "create"
	ActionUpdate   AuditAction = "update"
	ActionDelete   AuditAction = "delete"
	ActionAssign   AuditAction = "assign"
	ActionUnassign AuditAction = "unassign"
	ActionComment  AuditAction = "comment"
)
