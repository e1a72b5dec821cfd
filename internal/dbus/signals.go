package dbus

import (
	"fmt"
)

// EmitClosed emits the Closed signal for the splash with id.
func (s *Server) EmitClosed(id string) error {
	s.mu.Lock()
	conn, running := s.conn, s.running
	s.mu.Unlock()
	if conn == nil || !running {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := conn.Emit(DBusPath, DBusInterface+".Closed", id); err != nil {
		return fmt.Errorf("failed to emit Closed signal: %w", err)
	}

	s.logger.Debug("emitted Closed signal", "id", id)
	return nil
}
