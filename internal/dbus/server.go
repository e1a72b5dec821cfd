package dbus

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/splash/internal/style"
)

const (
	// DBusInterface is the control interface name.
	DBusInterface = "io.github.jmylchreest.Splash"
	// DBusPath is the control object path.
	DBusPath = "/io/github/jmylchreest/Splash"
)

// busConn is the part of *dbus.Conn the server uses.
type busConn interface {
	Export(v interface{}, path dbus.ObjectPath, iface string) error
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

var sessionBus = func() (busConn, error) {
	return dbus.SessionBus()
}

// Server exports a Controller on the session bus.
type Server struct {
	conn    busConn
	logger  *slog.Logger
	busName string
	ctrl    Controller

	mu      sync.Mutex
	running bool
}

// NewServer creates a server that claims busName.
func NewServer(busName string, ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if busName == "" {
		busName = DBusInterface
	}
	return &Server{busName: busName, ctrl: ctrl, logger: logger}
}

// BusName returns the name the server claims.
func (s *Server) BusName() string {
	return s.busName
}

// Start connects to the session bus and exports the control service.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := sessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := s.export(); err != nil {
		s.unexport()
		return err
	}

	reply, err := conn.RequestName(s.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		s.unexport()
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		s.unexport()
		return fmt.Errorf("bus name %s already taken", s.busName)
	}

	s.running = true
	s.logger.Info("D-Bus control service started", "name", s.busName, "path", DBusPath)
	return nil
}

func (s *Server) export() error {
	if err := s.conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: controlMethods(),
				Signals: controlSignals(),
			},
		},
	}
	if err := s.conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}
	return nil
}

// unexport removes both objects. Exporting nil is a no-op for paths that
// were never exported.
func (s *Server) unexport() {
	_ = s.conn.Export(nil, DBusPath, DBusInterface)
	_ = s.conn.Export(nil, DBusPath, "org.freedesktop.DBus.Introspectable")
}

// Stop releases the bus name and unexports the object.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(s.busName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	// Don't close the connection as it's shared (SessionBus)
	s.unexport()

	s.logger.Info("D-Bus control service stopped")
	return nil
}

// UpdateMessage replaces or appends to the message.
// D-Bus method: UpdateMessage(sb)
func (s *Server) UpdateMessage(text string, appendText bool) *dbus.Error {
	s.logger.Debug("UpdateMessage called", "append", appendText)
	return toDBusError(s.ctrl.UpdateMessage(text, appendText))
}

// UpdateColor changes the background color.
// D-Bus method: UpdateColor(s)
func (s *Server) UpdateColor(color string) *dbus.Error {
	s.logger.Debug("UpdateColor called", "color", color)
	return toDBusError(s.ctrl.UpdateColor(style.ParseColor(color)))
}

// Step advances the progress bar.
// D-Bus method: Step(d)
func (s *Server) Step(amount float64) *dbus.Error {
	s.logger.Debug("Step called", "amount", amount)
	return toDBusError(s.ctrl.StepProgress(amount))
}

// SetProgress sets the progress value.
// D-Bus method: SetProgress(d)
func (s *Server) SetProgress(value float64) *dbus.Error {
	s.logger.Debug("SetProgress called", "value", value)
	return toDBusError(s.ctrl.SetProgress(value))
}

// Close closes the splash after delayMs milliseconds.
// D-Bus method: Close(u)
func (s *Server) Close(delayMs uint32) *dbus.Error {
	s.logger.Debug("Close called", "delay_ms", delayMs)
	return toDBusError(s.ctrl.CloseAfter(time.Duration(delayMs) * time.Millisecond))
}

// Status returns a snapshot of the splash.
// D-Bus method: Status() -> a{sv}
func (s *Server) Status() (map[string]dbus.Variant, *dbus.Error) {
	st, err := s.ctrl.Status()
	if err != nil {
		return nil, toDBusError(err)
	}
	return st.Variants(), nil
}

func controlMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "UpdateMessage",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "append", Type: "b", Direction: "in"},
			},
		},
		{
			Name: "UpdateColor",
			Args: []introspect.Arg{
				{Name: "color", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "Step",
			Args: []introspect.Arg{
				{Name: "amount", Type: "d", Direction: "in"},
			},
		},
		{
			Name: "SetProgress",
			Args: []introspect.Arg{
				{Name: "value", Type: "d", Direction: "in"},
			},
		},
		{
			Name: "Close",
			Args: []introspect.Arg{
				{Name: "delay_ms", Type: "u", Direction: "in"},
			},
		},
		{
			Name: "Status",
			Args: []introspect.Arg{
				{Name: "status", Type: "a{sv}", Direction: "out"},
			},
		},
	}
}

func controlSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "Closed",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
			},
		},
	}
}
