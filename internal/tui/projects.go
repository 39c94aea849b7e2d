package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/workspace"
)

type projectsModel struct {
	ctx    context.Context
	ws     *workspace.Workspace
	width  int
	height int

	projects     []ledger.Project
	cursor       int
	taskCursor   int
	viewingTasks bool // true = viewing tasks of selected project

	formActive bool
	form       *huh.Form
	formType   string // "project", "edit_project", "task"

	// Form field pointers (survive value copies)
	formName        *string
	formDescription *string
	formStart       *string
	formEnd         *string
	formEstimate    *string

	editingID string // project ID being edited
}

func newProjectsModel(ctx context.Context, ws *workspace.Workspace) projectsModel {
	name, desc, start, end, est := "", "", "", "", ""
	return projectsModel{
		ctx:             ctx,
		ws:              ws,
		formName:        &name,
		formDescription: &desc,
		formStart:       &start,
		formEnd:         &end,
		formEstimate:    &est,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []ledger.Project
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		var projects []ledger.Project
		p.ws.Read(func(l *ledger.Ledger) { projects = l.Projects() })
		return projectsDataMsg{projects: projects}
	}
}

func (p projectsModel) selected() (ledger.Project, bool) {
	if p.cursor < 0 || p.cursor >= len(p.projects) {
		return ledger.Project{}, false
	}
	return p.projects[p.cursor], true
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		if proj, ok := p.selected(); ok && p.taskCursor >= len(proj.Tasks) {
			p.taskCursor = max(0, len(proj.Tasks)-1)
		}
		if len(p.projects) == 0 {
			p.viewingTasks = false
		}
		return p, nil

	case tea.KeyMsg:
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
		}
	case key.Matches(msg, keys.New):
		return p.showProjectForm(ledger.Project{}, "project")
	case key.Matches(msg, keys.Edit):
		if proj, ok := p.selected(); ok {
			return p.showProjectForm(proj, "edit_project")
		}
	case key.Matches(msg, keys.Delete):
		if proj, ok := p.selected(); ok {
			return p, p.mutate("delete project", func(l *ledger.Ledger) error {
				return l.DeleteProject(proj.ID)
			})
		}
	}
	return p, nil
}

func (p projectsModel) updateTaskView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	proj, ok := p.selected()
	if !ok {
		p.viewingTasks = false
		return p, nil
	}
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(proj.Tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New):
		return p.showNewTaskForm()
	case key.Matches(msg, keys.Delete):
		if p.taskCursor < len(proj.Tasks) {
			tasks := make([]ledger.Task, 0, len(proj.Tasks)-1)
			tasks = append(tasks, proj.Tasks[:p.taskCursor]...)
			tasks = append(tasks, proj.Tasks[p.taskCursor+1:]...)
			return p, p.mutate("delete task", func(l *ledger.Ledger) error {
				_, err := l.UpdateProject(proj.ID, ledger.ProjectPatch{Tasks: &tasks})
				return err
			})
		}
	}
	return p, nil
}

func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(ledger.DateLayout, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func (p projectsModel) showProjectForm(proj ledger.Project, formType string) (projectsModel, tea.Cmd) {
	*p.formName = proj.Name
	*p.formDescription = proj.Description
	*p.formStart = proj.StartDate
	*p.formEnd = proj.EndDate
	p.formType = formType
	p.editingID = proj.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName).Validate(validateName),
			huh.NewText().Title("Description").Value(p.formDescription).Lines(3),
			huh.NewInput().Title("Start date").Placeholder("YYYY-MM-DD").Value(p.formStart).Validate(validateDate),
			huh.NewInput().Title("End date").Placeholder("YYYY-MM-DD").Value(p.formEnd).Validate(validateDate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showNewTaskForm() (projectsModel, tea.Cmd) {
	*p.formName = ""
	*p.formEstimate = ""
	p.formType = "task"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Name").Value(p.formName).Validate(validateName),
			huh.NewInput().Title("Estimated hours").Value(p.formEstimate).Validate(func(s string) error {
				if s == "" {
					return nil
				}
				if _, err := strconv.ParseFloat(s, 64); err != nil {
					return errors.New("enter a number")
				}
				return nil
			}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, p.submitForm()
	}

	return p, cmd
}

func (p projectsModel) submitForm() tea.Cmd {
	name := strings.TrimSpace(*p.formName)
	switch p.formType {
	case "project":
		in := ledger.ProjectInput{
			Name:        name,
			Description: *p.formDescription,
			StartDate:   *p.formStart,
			EndDate:     *p.formEnd,
		}
		return p.mutate("add project", func(l *ledger.Ledger) error {
			_, err := l.AddProject(in)
			return err
		})
	case "edit_project":
		desc, start, end, id := *p.formDescription, *p.formStart, *p.formEnd, p.editingID
		patch := ledger.ProjectPatch{Name: &name, Description: &desc, StartDate: &start, EndDate: &end}
		return p.mutate("edit project", func(l *ledger.Ledger) error {
			_, err := l.UpdateProject(id, patch)
			return err
		})
	case "task":
		proj, ok := p.selected()
		if !ok {
			return nil
		}
		estimate, _ := strconv.ParseFloat(*p.formEstimate, 64)
		tasks := append(append([]ledger.Task{}, proj.Tasks...), ledger.Task{Name: name, EstimatedHours: estimate})
		return p.mutate("add task", func(l *ledger.Ledger) error {
			_, err := l.UpdateProject(proj.ID, ledger.ProjectPatch{Tasks: &tasks})
			return err
		})
	}
	return nil
}

func (p projectsModel) mutate(label string, fn func(*ledger.Ledger) error) tea.Cmd {
	if err := p.ws.Mutate(p.ctx, label, fn); err != nil {
		return errorStatus("%s: %v", label, err)
	}
	return changed(label)
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		if p.formType == "edit_project" {
			title = titleStyle.Render("Edit Project")
		} else if p.formType == "task" {
			title = titleStyle.Render("New Task")
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-24s %-6s", "", "Name", "Dates", "Tasks"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dates := ""
		if proj.StartDate != "" || proj.EndDate != "" {
			dates = proj.StartDate + " → " + proj.EndDate
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %-24s %-6d", cursor, dot(proj.Color), proj.Name, dates, len(proj.Tasks)))
		if proj.ExternalRef != nil {
			row += mutedStyle.Render(" " + proj.ExternalRef.System + "#" + proj.ExternalRef.ID)
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  enter: tasks  u: undo"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTaskView() string {
	w := p.width - 4
	proj, _ := p.selected()
	title := titleStyle.Render(fmt.Sprintf("%s %s / Tasks", dot(proj.Color), proj.Name))

	if len(proj.Tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range proj.Tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.taskCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		extra := ""
		if task.EstimatedHours > 0 {
			extra = mutedStyle.Render(fmt.Sprintf(" [%.1fh est, %d%%]", task.EstimatedHours, task.Progress))
		}
		rows = append(rows, style.Render(cursor+task.Name)+extra)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
