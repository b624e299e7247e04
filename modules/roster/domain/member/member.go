package member

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("member not found")

type Status string

const (
	StatusFinancial              Status = "financial"
	StatusNonFinancial           Status = "non_financial"
	StatusFinancialLifeMember    Status = "financial_life_member"
	StatusNonFinancialLifeMember Status = "non_financial_life_member"
	StatusNewMember              Status = "new_member"
	StatusSuspended              Status = "suspended"
)

// LifeMemberMarker is the substring HQ embeds in the member number of life
// members (e.g. "LM10234").
const LifeMemberMarker = "LM"

// GracePeriod is the window a member marked during an HQ sync has to pay dues
// before the removal sweep may delete them.
const GracePeriod = 90 * 24 * time.Hour

type Member struct {
	ID           uuid.UUID
	MemberNumber string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Address      string
	LineName     string
	LineNumber   string
	Status       Status
	// InitiationDate is zero when the roster export did not carry one.
	InitiationDate time.Time
	DuesCurrent    bool

	MarkedForRemovalAt *time.Time
	RemovalReason      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetByNumber(ctx context.Context, number string) (*Member, error)
	GetAll(ctx context.Context) ([]*Member, error)
	GetMarked(ctx context.Context) ([]*Member, error)
	Create(ctx context.Context, m *Member) error
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewFromImport builds a freshly-imported member. Imports assume good
// standing unless the file says otherwise: everyone starts dues-current, and
// a life-member marker in the member number implies life-member status.
func NewFromImport(number, firstName, lastName string) *Member {
	m := &Member{
		ID:           uuid.New(),
		MemberNumber: strings.TrimSpace(number),
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		DuesCurrent:  true,
	}
	if strings.Contains(strings.ToUpper(m.MemberNumber), LifeMemberMarker) {
		m.Status = StatusFinancialLifeMember
	} else {
		m.Status = StatusFinancial
	}
	return m
}

func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

func (m *Member) IsLifeMember() bool {
	return m.Status == StatusFinancialLifeMember || m.Status == StatusNonFinancialLifeMember
}

// statusProtected reports whether the status is exempt from dues-derived
// transitions (and from HQ-sync marking).
func (m *Member) statusProtected() bool {
	switch m.Status {
	case StatusFinancialLifeMember, StatusNonFinancialLifeMember, StatusNewMember, StatusSuspended:
		return true
	}
	return false
}

// DeriveStatus re-derives financial/non-financial from DuesCurrent unless the
// member holds a protected status. Mirrors what happens on every save in the
// member portal.
func (m *Member) DeriveStatus() {
	if m.statusProtected() {
		return
	}
	if m.DuesCurrent {
		m.Status = StatusFinancial
	} else {
		m.Status = StatusNonFinancial
	}
}

// MarkForRemoval starts the grace-period countdown. A member already marked
// keeps the original timestamp; protected statuses are never marked.
func (m *Member) MarkForRemoval(now time.Time, reason string) bool {
	if m.statusProtected() || m.MarkedForRemovalAt != nil {
		return false
	}
	t := now.UTC()
	m.MarkedForRemovalAt = &t
	m.RemovalReason = reason
	m.DuesCurrent = false
	m.DeriveStatus()
	return true
}

// ClearRemovalMark ends the countdown for a member who reappeared on the HQ
// list.
func (m *Member) ClearRemovalMark() bool {
	if m.MarkedForRemovalAt == nil {
		return false
	}
	m.MarkedForRemovalAt = nil
	m.RemovalReason = ""
	m.DuesCurrent = true
	m.DeriveStatus()
	return true
}

func (m *Member) IsMarkedForRemoval() bool {
	return m.MarkedForRemovalAt != nil
}

// DaysUntilRemoval returns the whole days left in the grace period, clamped
// at zero. Returns -1 when the member is not marked.
func (m *Member) DaysUntilRemoval(now time.Time) int {
	if m.MarkedForRemovalAt == nil {
		return -1
	}
	deadline := m.MarkedForRemovalAt.Add(GracePeriod)
	days := int(deadline.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ShouldBeRemoved reports whether the grace period has fully elapsed.
func (m *Member) ShouldBeRemoved(now time.Time) bool {
	if m.MarkedForRemovalAt == nil {
		return false
	}
	return !now.Before(m.MarkedForRemovalAt.Add(GracePeriod))
}

// CreatedEvent is published after a member is persisted by an import run.
type CreatedEvent struct {
	Member *Member
}

// MarkedForRemovalEvent is published when an HQ sync starts a member's
// grace-period countdown.
type MarkedForRemovalEvent struct {
	Member *Member
}

// RemovalMarkClearedEvent is published when a marked member reappears on the
// HQ list.
type RemovalMarkClearedEvent struct {
	Member *Member
}
