package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/markremodeling/renovation/internal/db"
)

type memLeads struct {
	leads []*db.Lead
	err   error
}

func (m *memLeads) InsertLead(_ context.Context, lead *db.Lead) error {
	if m.err != nil {
		return m.err
	}
	lead.ID = "lead-1"
	m.leads = append(m.leads, lead)
	return nil
}

type countLimiter struct{ left int }

func (c *countLimiter) Allow(string) bool {
	c.left--
	return c.left >= 0
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
		want error
	}{
		{"ok", Submission{Name: " Ana ", Email: "ana@example.com", Message: "Kitchen"}, nil},
		{"missing name", Submission{Email: "ana@example.com", Message: "Kitchen"}, ErrMissingFields},
		{"blank message", Submission{Name: "Ana", Email: "ana@example.com", Message: "  "}, ErrMissingFields},
		{"bad email", Submission{Name: "Ana", Email: "not-an-email", Message: "Kitchen"}, ErrInvalidEmail},
		{"display name email", Submission{Name: "Ana", Email: "Ana <ana@example.com>", Message: "Kitchen"}, ErrInvalidEmail},
		{"too long", Submission{Name: "Ana", Email: "ana@example.com", Message: strings.Repeat("x", MaxMessageLength+1)}, ErrTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := tt.sub
			err := sub.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubmitStoresLead(t *testing.T) {
	store := &memLeads{}
	svc := NewService(store, nil, zaptest.NewLogger(t))

	res, err := svc.Submit(context.Background(), "203.0.113.5", Submission{
		Name: "Ana", Email: "ana@example.com", Phone: "555", Message: "Bathroom remodel",
	})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	require.Len(t, store.leads, 1)
	assert.Equal(t, "203.0.113.5", store.leads[0].RemoteIP)
	assert.Equal(t, "lead-1", res.Lead.ID)
}

func TestSubmitHoneypot(t *testing.T) {
	store := &memLeads{}
	svc := NewService(store, nil, nil)

	res, err := svc.Submit(context.Background(), "1.1.1.1", Submission{
		Name: "Bot", Email: "bot@example.com", Message: "spam", Company: "Acme",
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, store.leads)
}

func TestSubmitHoneypotStillValidates(t *testing.T) {
	svc := NewService(&memLeads{}, nil, nil)
	_, err := svc.Submit(context.Background(), "1.1.1.1", Submission{Company: "Acme"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestSubmitStoreError(t *testing.T) {
	svc := NewService(&memLeads{err: errors.New("disk full")}, nil, nil)
	_, err := svc.Submit(context.Background(), "1.1.1.1", Submission{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	assert.EqualError(t, err, "disk full")
}

func TestAllow(t *testing.T) {
	svc := NewService(&memLeads{}, &countLimiter{left: 1}, nil)
	assert.True(t, svc.Allow("ip"))
	assert.False(t, svc.Allow("ip"))

	unlimited := NewService(&memLeads{}, nil, nil)
	assert.True(t, unlimited.Allow("ip"))
}

func TestValidationErrorText(t *testing.T) {
	for _, err := range []error{ErrMissingFields, ErrInvalidEmail, ErrTooLong} {
		msg := err.Error()
		assert.True(t, strings.HasPrefix(msg, "contact: "), msg)
		assert.Equal(t, strings.ToLower(msg), msg)
	}
}
