package tasksrepo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ParseDocument decodes a fixture document and returns its tasks. Every
// structural problem is reported as a *DataFormatError.
func ParseDocument(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DataFormatError{Message: "Tasks data is empty"}
	}

	var raw struct {
		Meta  DocumentMeta    `json:"_meta"`
		Tasks json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DataFormatError{Message: "Failed to parse tasks data. Please check the JSON format.", Err: err}
	}

	body := bytes.TrimSpace(raw.Tasks)
	if len(body) == 0 || body[0] != '[' {
		return nil, &DataFormatError{Message: "Invalid tasks data format", Err: errors.New("tasks field missing or not an array")}
	}

	var tasks []Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, &DataFormatError{Message: "Failed to parse tasks data. Please check the JSON format.", Err: err}
	}

	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		id := tasks[i].ID
		if id == "" {
			return nil, &DataFormatError{Message: "Invalid tasks data format", Err: fmt.Errorf("task %d has no id", i)}
		}
		if seen[id] {
			return nil, &DataFormatError{Message: "Invalid tasks data format", Err: fmt.Errorf("duplicate task id %s", id)}
		}
		seen[id] = true
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
	}

	return tasks, nil
}

// EncodeDocument renders tasks as a fixture document.
func EncodeDocument(schema string, tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	return json.MarshalIndent(Document{Meta: DocumentMeta{Schema: schema}, Tasks: tasks}, "", "  ")
}
