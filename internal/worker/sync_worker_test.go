package worker

import (
	"context"
	"errors"
	"testing"

	"bachat/internal/amqp"
	"bachat/internal/core"
)

type fakeSyncStore struct {
	expenses map[int64]core.Expense
	pending  []core.Expense
	synced   []int64
	errored  []int64
}

func (f *fakeSyncStore) GetExpense(_ context.Context, id int64, userID string) (core.Expense, error) {
	e, ok := f.expenses[id]
	if !ok || e.UserID != userID {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	return e, nil
}

func (f *fakeSyncStore) GetPendingSyncExpenses(_ context.Context, limit int) ([]core.Expense, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeSyncStore) MarkSynced(_ context.Context, id int64) error {
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeSyncStore) MarkSyncError(_ context.Context, id int64) error {
	f.errored = append(f.errored, id)
	return nil
}

type fakeWriter struct {
	appended []int64
	err      error
}

func (f *fakeWriter) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, e.ID)
	return "Expenses!A2:G2", nil
}

type fakeDeleter struct {
	deleted []int64
}

func (f *fakeDeleter) DeleteExpense(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestSyncWorker_HandleSyncMessage(t *testing.T) {
	store := &fakeSyncStore{expenses: map[int64]core.Expense{
		1: {ID: 1, UserID: "user-1", Amount: core.Money{Paise: 100_00}, Category: "misc"},
	}}
	writer := &fakeWriter{}
	w := NewSyncWorker(store, writer, nil, 10)

	msg := amqp.NewExpenseSyncMessage(1, "user-1")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage failed: %v", err)
	}
	if len(writer.appended) != 1 || writer.appended[0] != 1 {
		t.Errorf("Expected expense 1 exported, got %v", writer.appended)
	}
	if len(store.synced) != 1 || store.synced[0] != 1 {
		t.Errorf("Expected expense 1 marked synced, got %v", store.synced)
	}
}

func TestSyncWorker_HandleSyncMessage_GoneExpense(t *testing.T) {
	store := &fakeSyncStore{expenses: map[int64]core.Expense{}}
	writer := &fakeWriter{}
	w := NewSyncWorker(store, writer, nil, 10)

	// A row deleted between publish and consume is not an error; the delete
	// message for it is already in flight.
	msg := amqp.NewExpenseSyncMessage(99, "user-1")
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("Expected nil for missing expense, got %v", err)
	}
	if len(writer.appended) != 0 {
		t.Error("Nothing should be exported for a missing expense")
	}
}

func TestSyncWorker_HandleSyncMessage_AppendFailure(t *testing.T) {
	store := &fakeSyncStore{expenses: map[int64]core.Expense{
		1: {ID: 1, UserID: "user-1", Category: "misc"},
	}}
	writer := &fakeWriter{err: errors.New("quota exceeded")}
	w := NewSyncWorker(store, writer, nil, 10)

	msg := amqp.NewExpenseSyncMessage(1, "user-1")
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("Expected error when append fails")
	}
	if len(store.errored) != 1 || store.errored[0] != 1 {
		t.Errorf("Expected sync error recorded, got %v", store.errored)
	}
	if len(store.synced) != 0 {
		t.Error("Failed export must not be marked synced")
	}
}

func TestSyncWorker_HandleDeleteMessage(t *testing.T) {
	deleter := &fakeDeleter{}
	w := NewSyncWorker(&fakeSyncStore{}, &fakeWriter{}, deleter, 10)

	msg := amqp.NewExpenseDeleteMessage(7, "user-1")
	if err := w.HandleDeleteMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleDeleteMessage failed: %v", err)
	}
	if len(deleter.deleted) != 1 || deleter.deleted[0] != 7 {
		t.Errorf("Expected row 7 deleted, got %v", deleter.deleted)
	}
}

func TestSyncWorker_HandleDeleteMessage_NoDeleter(t *testing.T) {
	w := NewSyncWorker(&fakeSyncStore{}, &fakeWriter{}, nil, 10)

	msg := amqp.NewExpenseDeleteMessage(7, "user-1")
	if err := w.HandleDeleteMessage(context.Background(), msg); err != nil {
		t.Fatalf("Expected nil without a deleter, got %v", err)
	}
}

func TestSyncWorker_ProcessPendingExpenses(t *testing.T) {
	store := &fakeSyncStore{pending: []core.Expense{
		{ID: 1, UserID: "user-1", Category: "a"},
		{ID: 2, UserID: "user-1", Category: "b"},
	}}
	writer := &fakeWriter{}
	w := NewSyncWorker(store, writer, nil, 10)

	if err := w.ProcessPendingExpenses(context.Background()); err != nil {
		t.Fatalf("ProcessPendingExpenses failed: %v", err)
	}
	if len(writer.appended) != 2 {
		t.Errorf("Expected both pending rows exported, got %v", writer.appended)
	}
}

func TestSyncWorker_ProcessPendingExpenses_RespectsBatchSize(t *testing.T) {
	store := &fakeSyncStore{pending: []core.Expense{
		{ID: 1, UserID: "user-1"}, {ID: 2, UserID: "user-1"}, {ID: 3, UserID: "user-1"},
	}}
	writer := &fakeWriter{}
	w := NewSyncWorker(store, writer, nil, 2)

	if err := w.ProcessPendingExpenses(context.Background()); err != nil {
		t.Fatalf("ProcessPendingExpenses failed: %v", err)
	}
	if len(writer.appended) != 2 {
		t.Errorf("Expected batch of 2, got %v", writer.appended)
	}
}
