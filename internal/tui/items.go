package tui

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazyproject/internal/model"
)

func formatProjectSummary(project model.Project) string {
	return fmt.Sprintf("%s | %s", project.Title, project.Status)
}

func formatTaskSummary(task model.Task) string {
	due := task.DueDate
	if due == "" {
		due = "no due date"
	}
	return fmt.Sprintf("%s %s | %s", statusMarker(task.Status), task.Title, due)
}

func statusMarker(status string) string {
	switch status {
	case model.TaskDone:
		return "[x]"
	case model.TaskInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

// projectDetail summarizes project. tasks are counted only when open is set,
// since the task list always belongs to the open project.
func projectDetail(project *model.Project, tasks []model.Task, open bool) string {
	if project == nil {
		return "No project selected"
	}

	done := 0
	for _, task := range tasks {
		if task.Status == model.TaskDone {
			done++
		}
	}

	progress := "Tasks: press enter to load"
	if open {
		progress = fmt.Sprintf("Tasks: %d/%d done", done, len(tasks))
	}
	lines := []string{
		project.Title,
		fmt.Sprintf("Status: %s", project.Status),
		progress,
	}
	if !project.CreatedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("Created: %s", project.CreatedAt.Format(model.DateLayout)))
	}
	if description := strings.TrimSpace(project.Description); description != "" {
		lines = append(lines, "", description)
	}
	return strings.Join(lines, "\n")
}

func findProject(projects []model.Project, id string) *model.Project {
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i]
		}
	}
	return nil
}

func clamp(index, length int) int {
	if index >= length {
		index = length - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}
