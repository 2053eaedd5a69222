package domain

// ProposalKind identifies which mutation a pending proposal would apply.
type ProposalKind string

const (
	ProposalCreate     ProposalKind = "create"
	ProposalUpdate     ProposalKind = "update"
	ProposalDelete     ProposalKind = "delete"
	ProposalComplete   ProposalKind = "complete"
	ProposalBulkDelete ProposalKind = "bulk_delete"
)

// TaskPatch is a partial update to a task. Nil fields are untouched.
type TaskPatch struct {
	Title       *string
	Date        *string
	StartTime   *string
	EndTime     *string
	DurationMin *int
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.StartTime == nil &&
		p.EndTime == nil && p.DurationMin == nil
}

// Apply merges the patch into t and recomputes derived fields: when start
// or duration change without an explicit end, end is rederived; when only
// the end changes, duration is rederived from the range.
func (p TaskPatch) Apply(t *Task) error {
	if p.Title != nil {
		t.Title = *p.Title
		t.Type = InferEventType(t.Title)
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.DurationMin != nil {
		t.DurationMin = *p.DurationMin
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
		d, err := DurationBetween(t.StartTime, t.EndTime)
		if err != nil {
			return err
		}
		t.DurationMin = d
		return nil
	}
	if p.StartTime != nil || p.DurationMin != nil {
		end, err := CalculateEndTime(t.StartTime, t.DurationMin)
		if err != nil {
			return err
		}
		t.EndTime = end
	}
	return nil
}

// Proposal is an unsaved candidate mutation held by the state machine
// until the user confirms or discards it. Exactly one payload group is
// populated per kind.
type Proposal struct {
	Kind ProposalKind

	// create
	Task         *Task
	Instances    []*Task // recurring create, all sharing RecurrenceID
	RecurrenceID string

	// update / delete / complete
	TargetID string
	Patch    TaskPatch

	// bulk_delete
	BulkIDs []string

	// Rendered confirmation text shown when the proposal was issued.
	Confirmation string
}

// Recurring reports whether a create proposal expands to multiple instances.
func (p *Proposal) Recurring() bool {
	return p.Kind == ProposalCreate && len(p.Instances) > 0
}
