package domain

type AllocationStatus string

const (
	AllocationPending         AllocationStatus = "PENDING"
	AllocationApproved        AllocationStatus = "APPROVED"
	AllocationRejected        AllocationStatus = "REJECTED"
	AllocationExpired         AllocationStatus = "EXPIRED"
	AllocationForfeited       AllocationStatus = "FORFEITED"
	AllocationDeletionPending AllocationStatus = "DELETION_PENDING"
)

// TerminalExcluded reports whether the status releases the allocation's
// hours back into the consultant's project budget pool.
func (s AllocationStatus) TerminalExcluded() bool {
	return s == AllocationExpired || s == AllocationForfeited
}

type WeeklyStatus string

const (
	WeeklyPending  WeeklyStatus = "PENDING"
	WeeklyApproved WeeklyStatus = "APPROVED"
	WeeklyRejected WeeklyStatus = "REJECTED"
	WeeklyModified WeeklyStatus = "MODIFIED"
)

type ChangeRequestStatus string

const (
	ChangePending  ChangeRequestStatus = "PENDING"
	ChangeApproved ChangeRequestStatus = "APPROVED"
	ChangeRejected ChangeRequestStatus = "REJECTED"
)

type ChangeType string

const (
	ChangeAdjustment ChangeType = "ADJUSTMENT"
	ChangeShift      ChangeType = "SHIFT"
)

// UtilizationStatus classifies a consultant's load for one calendar week
// against the fixed 40h full-time capacity.
type UtilizationStatus string

const (
	UtilizationAvailable     UtilizationStatus = "available"      // <= 15h
	UtilizationPartiallyBusy UtilizationStatus = "partially_busy" // 16-30h
	UtilizationBusy          UtilizationStatus = "busy"           // 31-40h
	UtilizationOverloaded    UtilizationStatus = "overloaded"     // > 40h
)

// ValidAllocationStatuses is the canonical set of accepted allocation status strings.
var ValidAllocationStatuses = map[string]bool{
	"PENDING": true, "APPROVED": true, "REJECTED": true,
	"EXPIRED": true, "FORFEITED": true, "DELETION_PENDING": true,
}
