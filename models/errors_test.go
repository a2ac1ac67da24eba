package models

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	cases := []struct {
		title   string
		wantErr string
	}{
		{"ok", ""},
		{strings.Repeat("ü", MaxTitleLength), ""},
		{"", "Title is required"},
		{strings.Repeat("a", MaxTitleLength+1), "Title must be at most 200 characters"},
	}
	for _, tc := range cases {
		err := ValidateTitle(tc.title)
		if tc.wantErr == "" {
			if err != nil {
				t.Fatalf("len %d: unexpected %v", len(tc.title), err)
			}
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Error() != tc.wantErr {
			t.Fatalf("len %d: err=%v, want %q", len(tc.title), err, tc.wantErr)
		}
	}
}

func TestTaskPatchEmpty(t *testing.T) {
	if !(TaskPatch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}
	done := false
	if (TaskPatch{Completed: &done}).Empty() {
		t.Fatalf("patch with completed=false is not empty")
	}
}
