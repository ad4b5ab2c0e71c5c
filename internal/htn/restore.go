package htn

// Plan is an ordered sequence of primitive task ids.
type Plan []TaskID

// Names resolves every task id through d.
func (p Plan) Names(d *Domain) ([]string, error) {
	names := make([]string, len(p))
	for i, id := range p {
		name, err := d.TaskName(id)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// Clone returns an independent copy of p. A nil plan stays nil.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	return append(Plan(nil), p...)
}

// RestorePoint is a snapshot taken when a compound task's method is chosen,
// before the method's effect runs. Popping it restores WorldState, Plan and
// the pending work, and the planner retries ActiveTask starting at
// NextMethod+1.
//
// A restore point never aliases the live planning state or another restore
// point.
type RestorePoint struct {
	WorldState *WorldState
	Plan       Plan
	ActiveTask TaskID
	NextMethod int

	// Pending is the work stack as it was once ActiveTask had been popped.
	// Restoring it drops the sub-tasks of the rejected method and keeps the
	// siblings that were queued after ActiveTask.
	Pending []TaskID
}

func newRestorePoint(ws *WorldState) RestorePoint {
	return RestorePoint{WorldState: ws.Clone()}
}

// branch snapshots p for a retry of task, which chose method while pending
// was left on the work stack.
func (p *RestorePoint) branch(task TaskID, method int, pending []TaskID) RestorePoint {
	return RestorePoint{
		WorldState: p.WorldState.Clone(),
		Plan:       p.Plan.Clone(),
		ActiveTask: task,
		NextMethod: method,
		Pending:    append([]TaskID(nil), pending...),
	}
}
