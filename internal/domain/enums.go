package domain

type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
)

// ValidAuditActions is the canonical set of accepted audit action strings.
var ValidAuditActions = map[string]bool{
	"CREATE": true, "UPDATE": true, "DELETE": true,
}

// DependencyType tags the scheduling relationship an edge represents.
// The set is open: unrecognized tags are stored as-is; "FS" is the default.
type DependencyType string

const (
	DepFinishToStart  DependencyType = "FS"
	DepStartToStart   DependencyType = "SS"
	DepFinishToFinish DependencyType = "FF"
	DepStartToFinish  DependencyType = "SF"
)

type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
	PriorityUrgent Priority = 3
)
