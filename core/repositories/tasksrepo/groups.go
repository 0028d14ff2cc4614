package tasksrepo

// Group is the set of tasks sharing an assignee.
type Group struct {
	User  User   `json:"user"`
	Tasks []Task `json:"tasks"`
}

// GroupByAssignee groups tasks by assignedTo.id. Groups appear in the order
// their first task appears and tasks keep their input order within a group,
// so grouping a filtered list preserves its sort.
func GroupByAssignee(tasks []Task) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, t := range tasks {
		i, ok := index[t.AssignedTo.ID]
		if !ok {
			i = len(groups)
			index[t.AssignedTo.ID] = i
			groups = append(groups, Group{User: t.AssignedTo})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// Stats counts tasks by status and by priority.
type Stats struct {
	Total      int              `json:"total"`
	ByStatus   map[Status]int   `json:"byStatus"`
	ByPriority map[Priority]int `json:"byPriority"`
}

// Summarize computes Stats. Every known status and priority is present in the
// maps, with zero counts where no task matches.
func Summarize(tasks []Task) Stats {
	s := Stats{
		Total:      len(tasks),
		ByStatus:   make(map[Status]int, len(Statuses)),
		ByPriority: make(map[Priority]int, len(Priorities)),
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}
	for _, p := range Priorities {
		s.ByPriority[p] = 0
	}
	for _, t := range tasks {
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++
	}
	return s
}

// Users returns the distinct users referenced by tasks as assignee or
// creator, in first-seen order. When an id carries different records the
// last one wins.
func Users(tasks []Task) []User {
	index := make(map[string]int)
	users := make([]User, 0)
	for _, t := range tasks {
		for _, u := range []User{t.AssignedTo, t.CreatedBy} {
			if u.ID == "" {
				continue
			}
			if i, ok := index[u.ID]; ok {
				users[i] = u
				continue
			}
			index[u.ID] = len(users)
			users = append(users, u)
		}
	}
	return users
}
