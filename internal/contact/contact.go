// Package contact validates contact form submissions and stores them as leads.
package contact

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/markremodeling/renovation/internal/db"
)

var (
	ErrMissingFields = errors.New("contact: missing fields")
	ErrInvalidEmail  = errors.New("contact: invalid email")
	ErrTooLong       = errors.New("contact: message too long")
)

// MaxMessageLength bounds the free-text message
const MaxMessageLength = 5000

// Submission is the contact form body. Company is a honeypot field that
// real visitors never see.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Company string `json:"company"`
}

// Result tells the handler whether a lead was stored
type Result struct {
	Lead    *db.Lead
	Skipped bool
}

// LeadStore persists accepted submissions
type LeadStore interface {
	InsertLead(ctx context.Context, lead *db.Lead) error
}

// Limiter gates submissions per client
type Limiter interface {
	Allow(key string) bool
}

type Service struct {
	leads   LeadStore
	limiter Limiter
	log     *zap.Logger
}

func NewService(leads LeadStore, limiter Limiter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{leads: leads, limiter: limiter, log: log}
}

// Allow counts a request from ip against the rate limit
func (s *Service) Allow(ip string) bool {
	if s.limiter == nil {
		return true
	}
	return s.limiter.Allow(ip)
}

// Validate trims the fields in place and checks them
func (sub *Submission) Validate() error {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.Message = strings.TrimSpace(sub.Message)

	if sub.Name == "" || sub.Email == "" || sub.Message == "" {
		return ErrMissingFields
	}
	if addr, err := mail.ParseAddress(sub.Email); err != nil || addr.Address != sub.Email {
		return ErrInvalidEmail
	}
	if len(sub.Message) > MaxMessageLength {
		return ErrTooLong
	}
	return nil
}

// Submit validates a submission and stores it. Honeypot hits are reported
// as skipped and never stored.
func (s *Service) Submit(ctx context.Context, ip string, sub Submission) (Result, error) {
	if err := sub.Validate(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(sub.Company) != "" {
		s.log.Info("contact honeypot triggered", zap.String("ip", ip))
		return Result{Skipped: true}, nil
	}

	lead := &db.Lead{
		Name:     sub.Name,
		Email:    sub.Email,
		Phone:    sub.Phone,
		Message:  sub.Message,
		RemoteIP: ip,
	}
	if err := s.leads.InsertLead(ctx, lead); err != nil {
		return Result{}, err
	}

	s.log.Info("contact request stored", zap.String("lead_id", lead.ID), zap.String("email", lead.Email))
	return Result{Lead: lead}, nil
}
