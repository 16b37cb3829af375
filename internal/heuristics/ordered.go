// SPDX-License-Identifier: AGPL-3.0-or-later
package heuristics

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TaskTypes keeps task types in declaration order. Classification is
// first-match-wins, so the order of the YAML mapping is significant.
type TaskTypes []TaskType

// SizeRanges keeps T-shirt sizes in declaration order.
type SizeRanges []SizeRange

// ProjectTypes keeps project types in declaration order.
type ProjectTypes []ProjectType

// Activities keeps overhead activities in declaration order.
type Activities []Activity

// UnmarshalYAML decodes task types, taking each ID from its mapping key.
func (t *TaskTypes) UnmarshalYAML(node *yaml.Node) error {
	items, err := decodeOrdered[TaskType](node, "task_types")
	if err != nil {
		return err
	}
	out := make(TaskTypes, 0, len(items))
	for _, it := range items {
		it.value.ID = it.key
		out = append(out, it.value)
	}
	*t = out
	return nil
}

// UnmarshalYAML decodes size ranges, taking each label from its mapping key.
func (s *SizeRanges) UnmarshalYAML(node *yaml.Node) error {
	items, err := decodeOrdered[SizeRange](node, "t_shirt_sizing")
	if err != nil {
		return err
	}
	out := make(SizeRanges, 0, len(items))
	for _, it := range items {
		it.value.Label = it.key
		out = append(out, it.value)
	}
	*s = out
	return nil
}

// UnmarshalYAML decodes project types, taking each ID from its mapping key.
func (p *ProjectTypes) UnmarshalYAML(node *yaml.Node) error {
	items, err := decodeOrdered[ProjectType](node, "project_types")
	if err != nil {
		return err
	}
	out := make(ProjectTypes, 0, len(items))
	for _, it := range items {
		it.value.ID = it.key
		out = append(out, it.value)
	}
	*p = out
	return nil
}

// UnmarshalYAML decodes overhead activities, taking each key from the mapping.
func (a *Activities) UnmarshalYAML(node *yaml.Node) error {
	items, err := decodeOrdered[Activity](node, "overhead_activities.activities")
	if err != nil {
		return err
	}
	out := make(Activities, 0, len(items))
	for _, it := range items {
		it.value.Key = it.key
		out = append(out, it.value)
	}
	*a = out
	return nil
}

type keyed[T any] struct {
	key   string
	value T
}

// decodeOrdered walks a mapping node pair by pair so that the caller sees
// entries in document order rather than Go map order.
func decodeOrdered[T any](node *yaml.Node, section string) ([]keyed[T], error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: expected a mapping (line %d)", section, node.Line)
	}

	out := make([]keyed[T], 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if seen[key] {
			return nil, fmt.Errorf("%s: duplicate key %q (line %d)", section, key, node.Content[i].Line)
		}
		seen[key] = true

		var v T
		if err := node.Content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", section, key, err)
		}
		out = append(out, keyed[T]{key: key, value: v})
	}
	return out, nil
}
