package mockapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/Joseda-hg/lazyproject/internal/db"
	"github.com/Joseda-hg/lazyproject/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

type seedProject struct {
	input model.ProjectInput
	tasks []model.TaskInput
}

type seedUser struct {
	name     string
	email    string
	projects []seedProject
}

var demoUsers = []seedUser{
	{
		name:  "Demo User",
		email: DemoEmail,
		projects: []seedProject{
			{
				input: model.ProjectInput{
					Title:       "Website Redesign",
					Description: "Complete redesign of the company website with modern UI/UX principles and responsive design.",
					Status:      model.ProjectActive,
				},
				tasks: []model.TaskInput{
					{Title: "Create wireframes and mockups", Description: "Design initial wireframes and high-fidelity mockups for all main pages.", Status: model.TaskDone, DueDate: "2024-01-20"},
					{Title: "Implement responsive navigation", Description: "Build a responsive navigation component that works across all device sizes.", Status: model.TaskInProgress, DueDate: "2024-02-01"},
					{Title: "Optimize images and assets", Description: "Compress and optimize all images and static assets for better performance.", Status: model.TaskTodo, DueDate: "2024-02-10"},
					{Title: "Implement contact form", Description: "Create a functional contact form with validation and email integration.", Status: model.TaskTodo, DueDate: "2024-02-15"},
				},
			},
			{
				input: model.ProjectInput{
					Title:       "Mobile App Development",
					Description: "Develop a cross-platform mobile application for iOS and Android.",
					Status:      model.ProjectActive,
				},
				tasks: []model.TaskInput{
					{Title: "Set up development environment", Description: "Configure the mobile development environment and project structure.", Status: model.TaskDone, DueDate: "2024-01-15"},
					{Title: "Design app architecture", Description: "Plan the overall app architecture, state management, and navigation structure.", Status: model.TaskDone, DueDate: "2024-01-22"},
					{Title: "Implement user authentication", Description: "Build login, registration, and password recovery functionality.", Status: model.TaskInProgress, DueDate: "2024-02-05"},
					{Title: "Create main dashboard", Description: "Develop the main dashboard with user statistics and quick actions.", Status: model.TaskTodo, DueDate: "2024-02-20"},
				},
			},
			{
				input: model.ProjectInput{
					Title:       "Database Migration",
					Description: "Migrate legacy database to modern cloud infrastructure with improved performance and security.",
					Status:      model.ProjectCompleted,
				},
				tasks: []model.TaskInput{
					{Title: "Analyze current database schema", Description: "Document and analyze the existing database structure and dependencies.", Status: model.TaskDone, DueDate: "2024-01-08"},
					{Title: "Set up cloud infrastructure", Description: "Configure cloud database instance with proper security and backup settings.", Status: model.TaskDone, DueDate: "2024-01-12"},
					{Title: "Migrate data", Description: "Execute the data migration process with validation and rollback procedures.", Status: model.TaskDone, DueDate: "2024-01-20"},
					{Title: "Update application connections", Description: "Update all application connection strings and test functionality.", Status: model.TaskDone, DueDate: "2024-01-25"},
				},
			},
		},
	},
	{
		name:  "John Smith",
		email: "john@example.com",
	},
}

// Seed creates the demo accounts, all with DemoPassword, and the demo user's
// projects and tasks. Accounts that already exist are left alone.
func Seed(ctx context.Context, store *db.Store, bcryptCost int) error {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	for _, seed := range demoUsers {
		user, err := store.CreateUser(ctx, db.UserInput{Name: seed.name, Email: seed.email, PasswordHash: string(hash)})
		if errors.Is(err, db.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", seed.email, err)
		}

		for _, sp := range seed.projects {
			project, err := store.CreateProject(ctx, user.ID, sp.input)
			if err != nil {
				return fmt.Errorf("seed project %q: %w", sp.input.Title, err)
			}
			for _, task := range sp.tasks {
				task.ProjectID = project.ID
				if _, err := store.CreateTask(ctx, user.ID, task); err != nil {
					return fmt.Errorf("seed task %q: %w", task.Title, err)
				}
			}
		}
	}
	return nil
}
