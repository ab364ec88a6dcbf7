package store

// MockAliasStore is an in-memory AliasStore for tests.
type MockAliasStore struct {
	Aliases Aliases
	Err     error
}

// LoadAliases returns the configured aliases or error.
func (m *MockAliasStore) LoadAliases() (Aliases, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Aliases == nil {
		return Aliases{}, nil
	}
	return m.Aliases, nil
}
