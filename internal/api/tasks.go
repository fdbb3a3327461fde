package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/Joseda-hg/lazyproject/internal/model"
)

// ListTasks lists the tasks of one project, in server order.
func (c *Client) ListTasks(ctx context.Context, token, projectID string) ([]model.Task, error) {
	env, err := c.postJSON(ctx, OpListTasks, listTasksPath+url.PathEscape(projectID), token, struct{}{})
	if err != nil {
		return nil, err
	}
	if err := requireResult(OpListTasks, env); err != nil {
		return nil, err
	}

	items, err := listField(OpListTasks, env.Result, "tasks")
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(items))
	for _, item := range items {
		task, err := decodeTask(OpListTasks, item)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, token string, input model.TaskInput) (model.Task, error) {
	env, err := c.postJSON(ctx, OpCreateTask, createTaskPath, token, input)
	if err != nil {
		return model.Task{}, err
	}
	return taskResult(OpCreateTask, env)
}

func (c *Client) EditTask(ctx context.Context, token, taskID string, patch model.TaskPatch) (model.Task, error) {
	env, err := c.postJSON(ctx, OpEditTask, editTaskPath+url.PathEscape(taskID), token, patch)
	if err != nil {
		return model.Task{}, err
	}
	return taskResult(OpEditTask, env)
}

func (c *Client) DeleteTask(ctx context.Context, token, taskID string) error {
	_, err := c.postJSON(ctx, OpDeleteTask, deleteTaskPath+url.PathEscape(taskID), token, struct{}{})
	return err
}

func taskResult(op string, env envelope) (model.Task, error) {
	if err := requireResult(op, env); err != nil {
		return model.Task{}, err
	}
	return decodeTask(op, unwrapEntity(env.Result, "task"))
}

func decodeTask(op string, raw json.RawMessage) (model.Task, error) {
	var task model.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return model.Task{}, apperrors.MalformedError("decode task", err).WithField("operation", op)
	}
	if task.ID == "" {
		task.ID = documentID(raw)
	}
	if task.ID == "" {
		return model.Task{}, apperrors.MalformedError("task has no id", nil).WithField("operation", op)
	}
	return task, nil
}
