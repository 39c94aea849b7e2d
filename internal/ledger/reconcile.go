package ledger

// Rule pairs an identity matcher with the merge applied when it matches.
type Rule[T any] struct {
	Name  string
	Match func(existing, incoming T) bool
	Merge func(existing, incoming T) T
}

// Policy is an ordered precedence of rules. Earlier rules win over later
// ones regardless of where their match sits in the existing collection.
type Policy[T any] []Rule[T]

// Resolve returns the index of the existing element claimed by the first
// matching rule, or -1 and nil when the incoming value is new.
func (p Policy[T]) Resolve(existing []T, incoming T) (int, *Rule[T]) {
	for i := range p {
		r := &p[i]
		for j := range existing {
			if r.Match(existing[j], incoming) {
				return j, r
			}
		}
	}
	return -1, nil
}

const (
	RuleExternalID = "external-id"
	RuleName       = "name"
	RuleDate       = "date"
)

// ProjectPolicy matches by external id first, then by case-insensitive name.
var ProjectPolicy = Policy[Project]{
	{Name: RuleExternalID, Match: sameExternalID, Merge: mergeProject},
	{Name: RuleName, Match: sameName, Merge: mergeProject},
}

// DayPolicy matches day entries by calendar date.
var DayPolicy = Policy[DayEntry]{
	{Name: RuleDate, Match: sameDate, Merge: mergeDay},
}

func sameExternalID(existing, incoming Project) bool {
	a, b := existing.ExternalRef, incoming.ExternalRef
	if a == nil || b == nil || a.ID == "" || a.ID != b.ID {
		return false
	}
	return a.System == "" || b.System == "" || a.System == b.System
}

func sameName(existing, incoming Project) bool {
	return nameKey(existing.Name) != "" && nameKey(existing.Name) == nameKey(incoming.Name)
}

func sameDate(existing, incoming DayEntry) bool {
	return existing.Date == incoming.Date
}

// mergeProject overlays the non-empty incoming fields. Identity, colour and
// creation time always stay with the existing project.
func mergeProject(existing, incoming Project) Project {
	out := existing.clone()
	out.Name = preferString(incoming.Name, out.Name)
	out.Description = preferString(incoming.Description, out.Description)
	out.StartDate = preferString(incoming.StartDate, out.StartDate)
	out.EndDate = preferString(incoming.EndDate, out.EndDate)
	if len(incoming.Tasks) > 0 {
		out.Tasks = cloneSlice(incoming.Tasks)
	}
	if incoming.ExternalRef != nil {
		ref := *incoming.ExternalRef
		out.ExternalRef = &ref
	}
	return out
}

// mergeDay applies field-level prefer-non-empty. List fields replace the
// whole existing list when the incoming one has any element.
func mergeDay(existing, incoming DayEntry) DayEntry {
	out := existing.clone()
	if len(incoming.Attendance) > 0 {
		out.Attendance = cloneSlice(incoming.Attendance)
	}
	if len(incoming.Breaks) > 0 {
		out.Breaks = cloneSlice(incoming.Breaks)
	}
	if len(incoming.Projects) > 0 {
		out.Projects = incoming.clone().Projects
	}
	out.ClockIn = preferString(incoming.ClockIn, out.ClockIn)
	out.ClockOut = preferString(incoming.ClockOut, out.ClockOut)
	out.LunchStart = preferString(incoming.LunchStart, out.LunchStart)
	out.LunchEnd = preferString(incoming.LunchEnd, out.LunchEnd)
	out.ScheduleNotes = preferString(incoming.ScheduleNotes, out.ScheduleNotes)
	return out
}

func preferString(incoming, existing string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}
