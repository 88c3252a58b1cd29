package binding

import (
	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/cfgsync/pkg/store"
)

// mockSection is a store.Section whose writes are scripted. Reads and
// comment calls go to an in-memory document so passes can run normally.
type mockSection struct {
	mock.Mock
	*store.Document
}

func newMockSection() *mockSection {
	return &mockSection{Document: store.New()}
}

func (m *mockSection) Set(path string, value any) error {
	args := m.Called(path, value)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.Document.Set(path, value)
}

func (m *mockSection) CreateSection(path string) (store.Section, error) {
	args := m.Called(path)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return m.Document.CreateSection(path)
}

var _ store.Section = (*mockSection)(nil)
