package interests

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/ternarybob/briefing/internal/models"
)

func row(userID, email, topics string, updatedAt time.Time) models.InterestRow {
	return models.InterestRow{
		UserID:    userID,
		Email:     email,
		Topics:    json.RawMessage(topics),
		UpdatedAt: updatedAt,
	}
}

func TestSelectLatestDedup(t *testing.T) {
	t2 := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	t1 := t2.Add(-time.Hour)

	rows := []models.InterestRow{
		row("u1", "a@x.com", `"ai, climate"`, t2),
		row("u2", "b@x.com", `["golf"]`, t2),
		row("u1", "a@x.com", `"old"`, t1),
		row("", "ghost@x.com", `["x"]`, t1),
	}

	got := SelectLatest(rows, "")
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}

	// First occurrence (newest row) per user wins
	if got[0].UserID != "u1" || !got[0].UpdatedAt.Equal(t2) {
		t.Errorf("u1 candidate = %+v, want newest row at %v", got[0], t2)
	}
	if !reflect.DeepEqual(got[0].Topics, []string{"ai", "climate"}) {
		t.Errorf("u1 topics = %v, want [ai climate]", got[0].Topics)
	}
	if got[1].UserID != "u2" {
		t.Errorf("second candidate = %q, want u2", got[1].UserID)
	}
}

func TestSelectLatestTargetEmail(t *testing.T) {
	now := time.Now().UTC()
	rows := []models.InterestRow{
		row("u1", "A@x.com", `["ai"]`, now),
		row("u2", "b@x.com", `["golf"]`, now),
	}

	tests := []struct {
		name   string
		target string
		want   []string // expected user ids
	}{
		{"exact match", "b@x.com", []string{"u2"}},
		{"case insensitive", "a@X.COM", []string{"u1"}},
		{"trimmed", "  b@x.com  ", []string{"u2"}},
		{"no match returns empty", "missing@x.com", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectLatest(rows, tt.target)

			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.UserID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("SelectLatest(rows, %q) users = %v, want %v", tt.target, ids, tt.want)
			}
		})
	}
}

func TestSelectLatestEmpty(t *testing.T) {
	if got := SelectLatest(nil, ""); len(got) != 0 {
		t.Errorf("SelectLatest(nil) = %v, want empty", got)
	}
	if got := SelectLatest([]models.InterestRow{}, "x@x.com"); len(got) != 0 {
		t.Errorf("SelectLatest(empty, target) = %v, want empty", got)
	}
}

func TestSelectLatestDeterministic(t *testing.T) {
	// Ties in updated_at keep input order
	ts := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	rows := []models.InterestRow{
		row("u3", "c@x.com", `["a"]`, ts),
		row("u1", "a@x.com", `["b"]`, ts),
		row("u2", "b@x.com", `["c"]`, ts),
	}

	first := SelectLatest(rows, "")
	second := SelectLatest(rows, "")
	if !reflect.DeepEqual(first, second) {
		t.Fatal("SelectLatest is not deterministic for identical input")
	}

	wantOrder := []string{"u3", "u1", "u2"}
	for i, c := range first {
		if c.UserID != wantOrder[i] {
			t.Errorf("candidate %d = %q, want %q (stable input order)", i, c.UserID, wantOrder[i])
		}
	}
}
