package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/jesseduffield/gocui"
)

type formKind int

const (
	formLogin formKind = iota
	formRegister
	formProject
	formTask
)

type formField struct {
	Label string
	Value string
	// Options, when set, makes the field a cycle through fixed values.
	Options []string
	Secret  bool
}

type formState struct {
	kind   formKind
	id     string
	fields []formField
	index  int
}

const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

const (
	fieldTitle = iota
	fieldDescription
	fieldStatus
	fieldDue
)

var (
	projectStatuses = []string{model.ProjectActive, model.ProjectCompleted, model.ProjectOnHold}
	taskStatuses    = []string{model.TaskTodo, model.TaskInProgress, model.TaskDone}
)

func (f *formState) title() string {
	switch f.kind {
	case formRegister:
		return "Create Account"
	case formProject:
		if f.id != "" {
			return "Edit Project"
		}
		return "New Project"
	case formTask:
		if f.id != "" {
			return "Edit Task"
		}
		return "New Task"
	default:
		return "Sign In"
	}
}

func (f *formState) value(index int) string {
	return strings.TrimSpace(f.fields[index].Value)
}

func authForm(register bool, email string) *formState {
	fields := []formField{
		{Label: "Email", Value: email},
		{Label: "Password", Secret: true},
	}
	kind := formLogin
	if register {
		kind = formRegister
		fields = append(fields, formField{Label: "Name"})
	}
	return &formState{kind: kind, fields: fields}
}

func projectForm(project *model.Project) *formState {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Status (space/←→)", Value: model.ProjectActive, Options: projectStatuses},
	}
	form := &formState{kind: formProject, fields: fields}
	if project == nil {
		return form
	}
	form.id = project.ID
	fields[fieldTitle].Value = project.Title
	fields[fieldDescription].Value = project.Description
	fields[fieldStatus].Value = project.Status
	return form
}

func taskForm(task *model.Task) *formState {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Status (space/←→)", Value: model.TaskTodo, Options: taskStatuses},
		{Label: "Due (YYYY-MM-DD)"},
	}
	form := &formState{kind: formTask, fields: fields}
	if task == nil {
		return form
	}
	form.id = task.ID
	fields[fieldTitle].Value = task.Title
	fields[fieldDescription].Value = task.Description
	fields[fieldStatus].Value = task.Status
	fields[fieldDue].Value = task.DueDate
	return form
}

func parseProjectForm(f *formState) (model.ProjectInput, error) {
	input := model.ProjectInput{
		Title:       f.value(fieldTitle),
		Description: f.value(fieldDescription),
		Status:      f.value(fieldStatus),
	}
	if input.Title == "" {
		return model.ProjectInput{}, fmt.Errorf("title is required")
	}
	return input, nil
}

func parseTaskForm(f *formState, projectID string) (model.TaskInput, error) {
	input := model.TaskInput{
		Title:       f.value(fieldTitle),
		Description: f.value(fieldDescription),
		Status:      f.value(fieldStatus),
		DueDate:     f.value(fieldDue),
		ProjectID:   projectID,
	}
	if input.Title == "" {
		return model.TaskInput{}, fmt.Errorf("title is required")
	}
	if input.DueDate != "" {
		if _, err := time.Parse(model.DateLayout, input.DueDate); err != nil {
			return model.TaskInput{}, fmt.Errorf("invalid due date")
		}
	}
	return input, nil
}

// projectPatch holds only the fields that differ from the current record.
func projectPatch(current model.Project, input model.ProjectInput) model.ProjectPatch {
	var patch model.ProjectPatch
	if input.Title != current.Title {
		patch.Title = model.String(input.Title)
	}
	if input.Description != current.Description {
		patch.Description = model.String(input.Description)
	}
	if input.Status != current.Status {
		patch.Status = model.String(input.Status)
	}
	return patch
}

func taskPatch(current model.Task, input model.TaskInput) model.TaskPatch {
	var patch model.TaskPatch
	if input.Title != current.Title {
		patch.Title = model.String(input.Title)
	}
	if input.Description != current.Description {
		patch.Description = model.String(input.Description)
	}
	if input.Status != current.Status {
		patch.Status = model.String(input.Status)
	}
	if input.DueDate != current.DueDate {
		patch.DueDate = model.String(input.DueDate)
	}
	return patch
}

func nextTaskStatus(current string) string {
	return cycleOption(taskStatuses, current, 1)
}

func cycleOption(order []string, current string, delta int) string {
	if len(order) == 0 {
		return current
	}
	index := slices.Index(order, current)
	if index < 0 {
		return order[0]
	}
	index = (index + delta + len(order)) % len(order)
	return order[index]
}

type formEditor struct {
	ui *UI
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if len(field.Options) > 0 {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = cycleOption(field.Options, field.Value, 1)
		case gocui.KeyArrowLeft:
			field.Value = cycleOption(field.Options, field.Value, -1)
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

func displayValue(field formField) string {
	if field.Secret {
		return strings.Repeat("*", len([]rune(field.Value)))
	}
	return field.Value
}
