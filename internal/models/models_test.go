package models

import (
	"encoding/json"
	"testing"
)

func TestProjectMarshalJSON_IDAlias(t *testing.T) {
	data, err := json.Marshal(Project{ID: "abc", Name: "n", Description: "d"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["_id"] != "abc" || raw["id"] != "abc" {
		t.Errorf("ids = %v / %v, want abc", raw["_id"], raw["id"])
	}
	if raw["nombre"] != "n" || raw["descripcion"] != "d" {
		t.Errorf("fields = %s", data)
	}
}

func TestProjectPatch_Apply(t *testing.T) {
	base := Project{ID: "1", Name: "Old", Description: "Keep", Image: "img"}
	name := " New "
	got := ProjectPatch{Name: &name}.Apply(base)
	want := Project{ID: "1", Name: " New ", Description: "Keep", Image: "img"}
	if got != want {
		t.Errorf("Apply = %+v, want %+v", got, want)
	}
	if !(ProjectPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	if (ProjectPatch{Name: &name}).Empty() {
		t.Error("patch with name should not be empty")
	}
}

func TestSprintReady(t *testing.T) {
	tests := []struct {
		name   string
		sprint Sprint
		want   bool
	}{
		{"no tasks", Sprint{}, false},
		{"open task", Sprint{Tasks: []Task{{Completed: true}, {}}}, false},
		{"all done", Sprint{Tasks: []Task{{Completed: true}, {Completed: true}}}, true},
	}
	for _, tt := range tests {
		if got := tt.sprint.Ready(); got != tt.want {
			t.Errorf("%s: Ready() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		in   string
		want TaskStatus
		ok   bool
	}{
		{"Pendiente", StatusPending, true},
		{"pendiente", StatusPending, true},
		{"en PROGRESO", StatusInProgress, true},
		{" Urgente ", StatusUrgent, true},
		{"Bloqueado", "Bloqueado", false},
	}
	for _, tt := range tests {
		got, ok := ParseTaskStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTaskStatus(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
