package auth

import (
	"context"

	"github.com/gschargev/giftdesk/internal/domain"
)

// Mock is an auth provider for development and tests.
//
// With no fields set, any email receives a code and the code "000000"
// verifies successfully. Set the error fields to force failures; read the
// call counters to assert provider traffic.
type Mock struct {
	SendCodeErr    error
	VerifyCodeErr  error
	GetSessionErr  error
	SessionEmail   string // Email returned by GetSession (defaults to last verified)
	AcceptedCode   string // Code accepted by VerifyCode (defaults to "000000")

	SendCodeCalls   int
	VerifyCodeCalls int
	GetSessionCalls int
	SignOutCalls    int

	lastEmail string
}

// NewMock creates a mock auth provider.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendCode(ctx context.Context, email string) error {
	m.SendCodeCalls++
	if m.SendCodeErr != nil {
		return m.SendCodeErr
	}
	m.lastEmail = domain.NormalizeEmail(email)
	return nil
}

func (m *Mock) VerifyCode(ctx context.Context, email, code string) (*Session, error) {
	m.VerifyCodeCalls++
	if m.VerifyCodeErr != nil {
		return nil, m.VerifyCodeErr
	}

	accepted := m.AcceptedCode
	if accepted == "" {
		accepted = "000000"
	}
	if code != accepted {
		return nil, domain.Unauthorized("auth.verify_code", "인증번호가 일치하지 않거나 만료되었습니다.")
	}

	m.lastEmail = domain.NormalizeEmail(email)
	return &Session{
		AccessToken: "mock-token-" + m.lastEmail,
		Email:       m.lastEmail,
	}, nil
}

func (m *Mock) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	m.GetSessionCalls++
	if m.GetSessionErr != nil {
		return nil, m.GetSessionErr
	}

	email := m.SessionEmail
	if email == "" {
		email = m.lastEmail
	}
	if email == "" {
		return nil, domain.Unauthorized("auth.get_session", "no session")
	}
	return &Session{AccessToken: accessToken, Email: email}, nil
}

func (m *Mock) SignOut(ctx context.Context, accessToken string) error {
	m.SignOutCalls++
	m.lastEmail = ""
	return nil
}
