package repository

import (
	"context"
	"errors"
	"testing"
)

func roadRepair() ProjectInput {
	return ProjectInput{
		Title:       "Road Repair",
		Description: "Resurfacing",
		Status:      "Ongoing",
		Budget:      "50000",
		Date:        "2024-01-01",
		Category:    "Infrastructure",
	}
}

func TestProjectsCreate(t *testing.T) {
	projects := NewProjects(newTestDB(t))

	p, err := projects.Create(context.Background(), roadRepair())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected server-assigned id")
	}
	if p.ImageURL != nil {
		t.Errorf("image_url should be nil, got %q", *p.ImageURL)
	}
	in := roadRepair()
	if p.Title != in.Title || p.Description != in.Description || p.Status != in.Status ||
		p.Budget != in.Budget || p.Date != in.Date || p.Category != in.Category {
		t.Errorf("fields not echoed: %+v", p)
	}
}

func TestProjectsListCategoryFilter(t *testing.T) {
	ctx := context.Background()
	projects := NewProjects(newTestDB(t))

	for _, category := range []string{"Infrastructure", "Health", "infrastructure", "Infrastructure"} {
		in := roadRepair()
		in.Category = category
		if _, err := projects.Create(ctx, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		category string
		want     int
	}{
		{"", 4},
		{"Infrastructure", 2},
		{"infrastructure", 1},
		{"Education", 0},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			list, err := projects.List(ctx, tt.category)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != tt.want {
				t.Fatalf("expected %d projects, got %d", tt.want, len(list))
			}
			for i := 1; i < len(list); i++ {
				if list[i-1].ID >= list[i].ID {
					t.Errorf("list not in id order: %d before %d", list[i-1].ID, list[i].ID)
				}
			}
			for _, p := range list {
				if tt.category != "" && p.Category != tt.category {
					t.Errorf("unexpected category %q", p.Category)
				}
			}
		})
	}
}

func TestProjectsUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	projects := NewProjects(newTestDB(t))

	in := roadRepair()
	in.ImageURL = strPtr("first.png")
	p, err := projects.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	change := roadRepair()
	change.Status = "Completed"
	updated, err := projects.Update(ctx, p.ID, change)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != "Completed" || updated.ImageURL == nil || *updated.ImageURL != "first.png" {
		t.Errorf("unexpected update result %+v", updated)
	}

	change.ImageURL = strPtr("second.png")
	updated, err = projects.Update(ctx, p.ID, change)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if *updated.ImageURL != "second.png" {
		t.Errorf("image not replaced: %s", *updated.ImageURL)
	}

	if _, err := projects.Update(ctx, p.ID+100, change); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: expected ErrNotFound, got %v", err)
	}
	if err := projects.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := projects.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: expected ErrNotFound, got %v", err)
	}
}
