package officer

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("officer not found")

// Positions recognized by the chapter. Anything else imports as "other" with
// the source spelling kept as the custom title.
const (
	PositionPresident        = "president"
	PositionVicePresident1st = "vice_president_1st"
	PositionVicePresident2nd = "vice_president_2nd"
	PositionSecretary        = "secretary"
	PositionTreasurer        = "treasurer"
	PositionParliamentarian  = "parliamentarian"
	PositionChaplain         = "chaplain"
	PositionHistorian        = "historian"
	PositionSergeantAtArms   = "sergeant_at_arms"
	PositionBoardMember      = "board_member"
	PositionOther            = "other"
)

var positionTitles = map[string]string{
	PositionPresident:        "President",
	PositionVicePresident1st: "1st Vice President",
	PositionVicePresident2nd: "2nd Vice President",
	PositionSecretary:        "Secretary",
	PositionTreasurer:        "Treasurer",
	PositionParliamentarian:  "Parliamentarian",
	PositionChaplain:         "Chaplain",
	PositionHistorian:        "Historian",
	PositionSergeantAtArms:   "Sergeant at Arms",
	PositionBoardMember:      "Board Member",
	PositionOther:            "Other Position",
}

// NormalizePosition maps a free-text position title onto a known position
// slug. Unrecognized titles become PositionOther with the original spelling
// returned as the custom title.
func NormalizePosition(v string) (position, custom string) {
	v = strings.TrimSpace(v)
	slug := strings.ReplaceAll(strings.ToLower(v), " ", "_")
	if _, ok := positionTitles[slug]; ok {
		return slug, ""
	}
	for p, title := range positionTitles {
		if strings.EqualFold(v, title) {
			return p, ""
		}
	}
	return PositionOther, v
}

type Officer struct {
	ID             uuid.UUID
	FullName       string
	Position       string
	PositionCustom string
	Email          string
	Phone          string
	Bio            string
	DisplayOrder   int
	IsActive       bool
	TermStart      time.Time
	TermEnd        time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key is the canonical identifier: one officer per name+position pair.
// Name comparison is case-insensitive.
func Key(fullName, position string) string {
	return strings.ToLower(strings.TrimSpace(fullName)) + "|" + position
}

func (o *Officer) Key() string {
	return Key(o.FullName, o.Position)
}

// Title returns the display position title.
func (o *Officer) Title() string {
	if o.Position == PositionOther && o.PositionCustom != "" {
		return o.PositionCustom
	}
	return positionTitles[o.Position]
}

type Repository interface {
	GetByKey(ctx context.Context, fullName, position string) (*Officer, error)
	GetAll(ctx context.Context) ([]*Officer, error)
	Create(ctx context.Context, o *Officer) error
	Update(ctx context.Context, o *Officer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreatedEvent is published after an officer is persisted by an import run.
type CreatedEvent struct {
	Officer *Officer
}
