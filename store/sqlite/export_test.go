package sqlite

import "context"

// ExecRaw runs arbitrary SQL so tests can corrupt rows on purpose.
func (s *Store) ExecRaw(ctx context.Context, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}
