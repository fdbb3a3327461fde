package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazyproject/internal/model"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store persists the data served by the mock API: users, projects and tasks.
// Every project and task query is scoped to an owning user.
type Store struct {
	DB    *sql.DB
	clock clockwork.Clock
}

type UserInput struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
}

type UserRecord struct {
	model.User
	PasswordHash string
}

func NewStore(db *sql.DB, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{DB: db, clock: clock}
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Store) CreateUser(ctx context.Context, input UserInput) (UserRecord, error) {
	email := strings.TrimSpace(input.Email)
	if _, err := s.FindUserByLogin(ctx, email); err == nil {
		return UserRecord{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return UserRecord{}, err
	}

	record := UserRecord{
		User: model.User{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(input.Name),
			Email:     email,
			Phone:     strings.TrimSpace(input.Phone),
			CreatedAt: s.now(),
		},
		PasswordHash: input.PasswordHash,
	}

	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, email, phone, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		record.ID, record.Name, record.Email, record.Phone, record.PasswordHash, record.CreatedAt)
	if err != nil {
		return UserRecord{}, fmt.Errorf("insert user: %w", err)
	}
	return record, nil
}

// FindUserByLogin looks a user up by email (case-insensitive) or phone.
func (s *Store) FindUserByLogin(ctx context.Context, login string) (UserRecord, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return UserRecord{}, ErrNotFound
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT id, name, email, phone, password_hash, created_at FROM users
		 WHERE email = ? COLLATE NOCASE OR (phone != '' AND phone = ?) LIMIT 1`, login, login)

	var record UserRecord
	err := row.Scan(&record.ID, &record.Name, &record.Email, &record.Phone, &record.PasswordHash, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, fmt.Errorf("find user: %w", err)
	}
	return record, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (model.User, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT id, name, email, phone, created_at FROM users WHERE id = ?", userID)

	var user model.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Store) CreateProject(ctx context.Context, ownerID string, input model.ProjectInput) (model.Project, error) {
	now := s.now()
	project := model.Project{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      normalizeStatus(input.Status, model.ProjectActive),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO projects (id, owner_id, title, description, status, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM projects), ?, ?)`,
		project.ID, project.OwnerID, project.Title, project.Description, project.Status, project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return model.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

// ListProjects returns the owner's projects in creation order. An empty status
// lists everything except soft-deleted projects.
func (s *Store) ListProjects(ctx context.Context, ownerID, status string) ([]model.Project, error) {
	query := projectSelect + " WHERE owner_id = ? AND status != ?"
	args := []any{ownerID, model.ProjectDeleted}
	if status = strings.TrimSpace(strings.ToLower(status)); status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY position"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// GetProject returns a live (not soft-deleted) project owned by ownerID.
func (s *Store) GetProject(ctx context.Context, ownerID, projectID string) (model.Project, error) {
	row := s.DB.QueryRowContext(ctx, projectSelect+" WHERE id = ? AND owner_id = ? AND status != ?",
		projectID, ownerID, model.ProjectDeleted)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	return project, err
}

func (s *Store) UpdateProject(ctx context.Context, ownerID, projectID string, patch model.ProjectPatch) (model.Project, error) {
	project, err := s.GetProject(ctx, ownerID, projectID)
	if err != nil {
		return model.Project{}, err
	}

	if patch.Title != nil {
		project.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		project.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		project.Status = normalizeStatus(*patch.Status, project.Status)
	}
	project.UpdatedAt = s.now()

	_, err = s.DB.ExecContext(ctx,
		"UPDATE projects SET title = ?, description = ?, status = ?, updated_at = ? WHERE id = ?",
		project.Title, project.Description, project.Status, project.UpdatedAt, project.ID)
	if err != nil {
		return model.Project{}, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// SetProjectStatus changes a project's status. Setting model.ProjectDeleted
// hides the project and its tasks from every listing.
func (s *Store) SetProjectStatus(ctx context.Context, ownerID, projectID, status string) (model.Project, error) {
	return s.UpdateProject(ctx, ownerID, projectID, model.ProjectPatch{Status: &status})
}

func (s *Store) CreateTask(ctx context.Context, ownerID string, input model.TaskInput) (model.Task, error) {
	if _, err := s.GetProject(ctx, ownerID, input.ProjectID); err != nil {
		return model.Task{}, err
	}

	now := s.now()
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      normalizeStatus(input.Status, model.TaskTodo),
		DueDate:     strings.TrimSpace(input.DueDate),
		ProjectID:   input.ProjectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title, description, status, due_date, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks), ?, ?)`,
		task.ID, task.ProjectID, task.Title, task.Description, task.Status, task.DueDate, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *Store) ListTasks(ctx context.Context, ownerID, projectID string) ([]model.Task, error) {
	if _, err := s.GetProject(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, taskSelect+" WHERE t.project_id = ? ORDER BY t.position", projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, ownerID, taskID string) (model.Task, error) {
	row := s.DB.QueryRowContext(ctx,
		taskSelect+" JOIN projects p ON p.id = t.project_id WHERE t.id = ? AND p.owner_id = ? AND p.status != ?",
		taskID, ownerID, model.ProjectDeleted)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	return task, err
}

func (s *Store) UpdateTask(ctx context.Context, ownerID, taskID string, patch model.TaskPatch) (model.Task, error) {
	task, err := s.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		task.Status = normalizeStatus(*patch.Status, task.Status)
	}
	if patch.DueDate != nil {
		task.DueDate = strings.TrimSpace(*patch.DueDate)
	}
	task.UpdatedAt = s.now()

	_, err = s.DB.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, status = ?, due_date = ?, updated_at = ? WHERE id = ?",
		task.Title, task.Description, task.Status, task.DueDate, task.UpdatedAt, task.ID)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.GetTask(ctx, ownerID, taskID); err != nil {
		return err
	}
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

const (
	projectSelect = "SELECT id, owner_id, title, description, status, created_at, updated_at FROM projects"
	taskSelect    = "SELECT t.id, t.project_id, t.title, t.description, t.status, t.due_date, t.created_at, t.updated_at FROM tasks t"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (model.Project, error) {
	var project model.Project
	err := row.Scan(&project.ID, &project.OwnerID, &project.Title, &project.Description, &project.Status, &project.CreatedAt, &project.UpdatedAt)
	return project, err
}

func scanTask(row scanner) (model.Task, error) {
	var task model.Task
	err := row.Scan(&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.Status, &task.DueDate, &task.CreatedAt, &task.UpdatedAt)
	return task, err
}

func normalizeStatus(status, fallback string) string {
	value := strings.TrimSpace(strings.ToLower(status))
	if value == "" {
		return fallback
	}
	return value
}
