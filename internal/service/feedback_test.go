package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tandrade/havenlink/internal/apperror"
	"github.com/tandrade/havenlink/internal/model"
)

// mockFeedbackRepo is an in-memory FeedbackRepository.
type mockFeedbackRepo struct {
	feedback map[string]*model.Feedback
	nextID   int
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{feedback: make(map[string]*model.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, fb *model.Feedback) error {
	m.nextID++
	fb.ID = fmt.Sprintf("fb-%d", m.nextID)
	stored := *fb
	m.feedback[fb.ID] = &stored
	return nil
}

func (m *mockFeedbackRepo) GetByID(_ context.Context, id string) (*model.Feedback, error) {
	fb, ok := m.feedback[id]
	if !ok {
		return nil, apperror.NotFound("feedback", id)
	}
	result := *fb
	return &result, nil
}

func (m *mockFeedbackRepo) ListByServiceID(_ context.Context, serviceID string) ([]model.Feedback, error) {
	result := make([]model.Feedback, 0)
	for _, fb := range m.feedback {
		if fb.ServiceID == serviceID {
			result = append(result, *fb)
		}
	}
	return result, nil
}

func (m *mockFeedbackRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.feedback[id]; !ok {
		return apperror.NotFound("feedback", id)
	}
	delete(m.feedback, id)
	return nil
}

func TestFeedbackCreateAndGet(t *testing.T) {
	svc := NewFeedbackService(newMockFeedbackRepo(), testLogger())

	created, err := svc.Create(context.Background(), &model.Feedback{
		UserID:    "user-1",
		ServiceID: "svc-1",
		Rating:    4,
		Comment:   "warm meals, short wait",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected created feedback to have an ID")
	}

	found, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Comment != "warm meals, short wait" {
		t.Errorf("Comment = %q, want the stored comment", found.Comment)
	}
}

func TestFeedbackGetByID_NotFound(t *testing.T) {
	svc := NewFeedbackService(newMockFeedbackRepo(), testLogger())

	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFeedbackGetByServiceID(t *testing.T) {
	svc := NewFeedbackService(newMockFeedbackRepo(), testLogger())

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), &model.Feedback{
			UserID: "user-1", ServiceID: "svc-1", Rating: 5, Comment: "ok",
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := svc.Create(context.Background(), &model.Feedback{
		UserID: "user-1", ServiceID: "svc-2", Rating: 1, Comment: "closed early",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.GetByServiceID(context.Background(), "svc-1")
	if err != nil {
		t.Fatalf("GetByServiceID() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d records, want 2", len(got))
	}

	empty, err := svc.GetByServiceID(context.Background(), "svc-none")
	if err != nil {
		t.Fatalf("GetByServiceID() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d records for an unknown service, want 0", len(empty))
	}
}

func TestFeedbackDelete(t *testing.T) {
	svc := NewFeedbackService(newMockFeedbackRepo(), testLogger())

	created, err := svc.Create(context.Background(), &model.Feedback{
		UserID: "user-1", ServiceID: "svc-1", Rating: 3, Comment: "fine",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deleted, err := svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("Delete() = false, want true")
	}

	deleted, err = svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if deleted {
		t.Error("Delete() of a missing record = true, want false")
	}
}
