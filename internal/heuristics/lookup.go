// SPDX-License-Identifier: AGPL-3.0-or-later
package heuristics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a key the configuration does not define.
type NotFoundError struct {
	Kind  string
	Key   string
	Known []string
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown %s %q", e.Kind, e.Key)
	}
	return fmt.Sprintf("unknown %s %q (known: %s)", e.Kind, e.Key, strings.Join(e.Known, ", "))
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TaskType returns the task type with the given id.
func (c *Config) TaskType(id string) (TaskType, error) {
	for _, t := range c.TaskTypes {
		if t.ID == id {
			return t, nil
		}
	}
	return TaskType{}, &NotFoundError{Kind: "task type", Key: id, Known: c.TaskTypeIDs()}
}

// ProjectType returns the project type with the given id.
func (c *Config) ProjectType(id string) (ProjectType, error) {
	for _, p := range c.ProjectTypes {
		if p.ID == id {
			return p, nil
		}
	}
	return ProjectType{}, &NotFoundError{Kind: "project type", Key: id, Known: c.ProjectTypeIDs()}
}

// Weights returns the complexity weights of a task type.
func (c *Config) Weights(taskType string) (Weights, error) {
	w, ok := c.ComplexityWeights[taskType]
	if !ok {
		return Weights{}, &NotFoundError{Kind: "complexity weights for task type", Key: taskType}
	}
	return w, nil
}

// TaskTypeIDs returns task type ids in declaration order.
func (c *Config) TaskTypeIDs() []string {
	ids := make([]string, 0, len(c.TaskTypes))
	for _, t := range c.TaskTypes {
		ids = append(ids, t.ID)
	}
	return ids
}

// ProjectTypeIDs returns project type ids in declaration order.
func (c *Config) ProjectTypeIDs() []string {
	ids := make([]string, 0, len(c.ProjectTypes))
	for _, p := range c.ProjectTypes {
		ids = append(ids, p.ID)
	}
	return ids
}
