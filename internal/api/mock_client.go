package api

import (
	"context"
	"sync"

	"github.com/diogo/askchat/internal/models"
)

// MockAskClient is a mock implementation of Asker for testing
type MockAskClient struct {
	// AskFunc, when set, overrides Answer and Err
	AskFunc func(ctx context.Context, question string) (*models.Answer, error)
	Answer  *models.Answer
	Err     error

	mu        sync.Mutex
	questions []string
}

var _ Asker = (*MockAskClient)(nil)

func (m *MockAskClient) Ask(ctx context.Context, question string) (*models.Answer, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	m.mu.Unlock()

	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return m.Answer, m.Err
}

// Questions returns every question received, in order
func (m *MockAskClient) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.questions))
	copy(out, m.questions)
	return out
}

// Calls returns the number of Ask calls
func (m *MockAskClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}
