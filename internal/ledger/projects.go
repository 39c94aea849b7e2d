package ledger

import (
	"fmt"
	"strings"
	"time"
)

// ProjectInput carries the user-editable fields of a new project.
type ProjectInput struct {
	Name        string
	Description string
	StartDate   string
	EndDate     string
	Tasks       []Task
	ExternalRef *ExternalRef
}

// ProjectPatch holds the fields to overwrite; nil fields are left alone.
type ProjectPatch struct {
	Name        *string
	Description *string
	StartDate   *string
	EndDate     *string
	Tasks       *[]Task
	ExternalRef *ExternalRef
}

func validateProject(p Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProject)
	}
	for _, d := range []string{p.StartDate, p.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return fmt.Errorf("%w: date %q", ErrInvalidProject, d)
		}
	}
	if p.StartDate != "" && p.EndDate != "" && p.EndDate < p.StartDate {
		return fmt.Errorf("%w: end date %s before start date %s", ErrInvalidProject, p.EndDate, p.StartDate)
	}
	return nil
}

func (l *Ledger) AddProject(in ProjectInput) (Project, error) {
	now := l.stamp()
	p := Project{
		ID:          l.newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		ExternalRef: in.ExternalRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Tasks != nil {
		p.Tasks = cloneSlice(in.Tasks)
	}
	if err := validateProject(p); err != nil {
		return Project{}, err
	}
	l.assignTaskIDs(p.Tasks)
	l.projects = append(l.projects, p.clone())
	l.reassignColors()
	added, _ := l.Project(p.ID)
	return added, nil
}

func (l *Ledger) UpdateProject(id string, patch ProjectPatch) (Project, error) {
	i := l.projectIndex(id)
	if i < 0 {
		return Project{}, fmt.Errorf("update project %s: %w", id, ErrProjectNotFound)
	}
	p := l.projects[i].clone()
	renamed := false
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		renamed = name != p.Name
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	if patch.Tasks != nil {
		p.Tasks = cloneSlice(*patch.Tasks)
		l.assignTaskIDs(p.Tasks)
	}
	if patch.ExternalRef != nil {
		ref := *patch.ExternalRef
		p.ExternalRef = &ref
	}
	if err := validateProject(p); err != nil {
		return Project{}, err
	}
	p.UpdatedAt = l.stamp()
	l.projects[i] = p
	if renamed {
		l.reassignColors()
	}
	updated, _ := l.Project(id)
	return updated, nil
}

// DeleteProject removes the project. Day entries that reference it are left
// untouched; they simply no longer join to a name.
func (l *Ledger) DeleteProject(id string) error {
	i := l.projectIndex(id)
	if i < 0 {
		return fmt.Errorf("delete project %s: %w", id, ErrProjectNotFound)
	}
	l.projects = append(l.projects[:i], l.projects[i+1:]...)
	l.reassignColors()
	return nil
}

// FindProjectByName matches case-insensitively.
func (l *Ledger) FindProjectByName(name string) (Project, bool) {
	key := nameKey(name)
	for _, p := range l.projects {
		if nameKey(p.Name) == key {
			return p.clone(), true
		}
	}
	return Project{}, false
}

func (l *Ledger) assignTaskIDs(tasks []Task) {
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = l.newID()
		}
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
