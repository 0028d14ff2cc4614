package errs_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jrazmi/taskboard/bridge/scaffolding/errs"
	"github.com/jrazmi/taskboard/core/repositories"
	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    errs.ErrCode
		status  int
		message string
	}{
		{
			name:    "network",
			err:     fmt.Errorf("fetch tasks: %w", &tasksrepo.NetworkError{Message: "Failed to load tasks. Please try again."}),
			code:    errs.Unavailable,
			status:  http.StatusServiceUnavailable,
			message: "Failed to load tasks. Please try again.",
		},
		{
			name:    "data format",
			err:     &tasksrepo.DataFormatError{Message: "Invalid data format"},
			code:    errs.BadUpstream,
			status:  http.StatusBadGateway,
			message: "Invalid data format",
		},
		{
			name:    "not found",
			err:     fmt.Errorf("create task: %w", &tasksrepo.NotFoundError{Kind: "user", ID: "u9"}),
			code:    errs.NotFound,
			status:  http.StatusNotFound,
			message: "user not found: u9",
		},
		{
			name:    "invalid input",
			err:     repositories.NewFieldError("status", "unknown status"),
			code:    errs.InvalidArgument,
			status:  http.StatusBadRequest,
			message: "status: unknown status",
		},
		{
			name:    "other",
			err:     errors.New("boom"),
			code:    errs.Internal,
			status:  http.StatusInternalServerError,
			message: "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errs.FromError(tt.err)
			if got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
			if got.HTTPStatus() != tt.status {
				t.Errorf("status = %d, want %d", got.HTTPStatus(), tt.status)
			}
			if got.Message != tt.message {
				t.Errorf("message = %q, want %q", got.Message, tt.message)
			}
			if !strings.Contains(got.FileName, "errs_test.go") {
				t.Errorf("file = %q, want caller", got.FileName)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	data, contentType, err := errs.Newf(errs.NotFound, "task %s", "t9").Encode()
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}
	var body map[string]string
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != "not_found" || body["message"] != "task t9" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["FileName"]; ok {
		t.Error("source location leaked into the body")
	}
}
