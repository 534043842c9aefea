package smtpservice_test

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	smtpservice "github.com/sgaunet/mailalert/internal/mailservice/smtpService"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTPServer implements just enough of the SMTP protocol to capture one
// message per connection.
type fakeSMTPServer struct {
	addr     string
	listener net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	commands []string
	messages []string
}

func newFakeSMTPServer(t *testing.T) *fakeSMTPServer {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeSMTPServer{
		addr:     l.Addr().String(),
		listener: l,
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer conn.Close()
				s.handleConn(conn)
			}()
		}
	}()
	t.Cleanup(func() {
		l.Close()
		s.wg.Wait()
	})
	return s
}

func (s *fakeSMTPServer) handleConn(conn net.Conn) {
	tc := textproto.NewConn(conn)
	if err := tc.PrintfLine("220 hello"); err != nil {
		return
	}
	for {
		line, err := tc.ReadLine()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.commands = append(s.commands, line)
		s.mu.Unlock()
		switch {
		case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"),
			strings.HasPrefix(line, "MAIL"), strings.HasPrefix(line, "RCPT"):
			tc.PrintfLine("250 Ok")
		case strings.HasPrefix(line, "AUTH"):
			tc.PrintfLine("235 Ok")
		case strings.HasPrefix(line, "DATA"):
			tc.PrintfLine("354 Go ahead")
			data, err := tc.ReadDotLines()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.messages = append(s.messages, strings.Join(data, "\n"))
			s.mu.Unlock()
			tc.PrintfLine("250 Ok")
		case strings.HasPrefix(line, "QUIT"):
			tc.PrintfLine("221 Goodbye")
			return
		default:
			tc.PrintfLine("500 unexpected command")
			return
		}
	}
}

func (s *fakeSMTPServer) sentMessages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func TestNewSMTPServiceConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		login    string
		password string
		server   string
		wantErr  error
	}{
		{
			name:     "missing login",
			login:    "",
			password: "pass",
			server:   "smtp.example.com:587",
			wantErr:  smtpservice.ErrSMTPConfigMissing,
		},
		{
			name:     "missing password",
			login:    "user",
			password: "",
			server:   "smtp.example.com:587",
			wantErr:  smtpservice.ErrSMTPConfigMissing,
		},
		{
			name:     "server without port",
			login:    "user",
			password: "pass",
			server:   "smtp.example.com",
			wantErr:  smtpservice.ErrSMTPServerFormat,
		},
		{
			name:     "valid configuration",
			login:    "user",
			password: "pass",
			server:   "smtp.example.com:587",
			wantErr:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := smtpservice.NewSMTPService(tt.login, tt.password, tt.server, false)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestSMTPServiceSend(t *testing.T) {
	server := newFakeSMTPServer(t)

	svc, err := smtpservice.NewSMTPService("user", "pass", server.addr, false)
	require.NoError(t, err)

	err = svc.Send(context.Background(), "sender@x.com", "System Alert: disk full", "<p>disk full</p>", "a@x.com")
	require.NoError(t, err)

	messages := server.sentMessages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Subject: System Alert: disk full")
	assert.Contains(t, messages[0], "<sender@x.com>")
	assert.Contains(t, messages[0], "<a@x.com>")
	assert.Contains(t, messages[0], "<p>disk full</p>")
}
