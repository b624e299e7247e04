package officer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePosition(t *testing.T) {
	cases := []struct {
		in         string
		wantPos    string
		wantCustom string
	}{
		{"president", PositionPresident, ""},
		{"President", PositionPresident, ""},
		{"  TREASURER  ", PositionTreasurer, ""},
		{"sergeant at arms", PositionSergeantAtArms, ""},
		{"Sergeant at Arms", PositionSergeantAtArms, ""},
		{"1st Vice President", PositionVicePresident1st, ""},
		{"vice_president_2nd", PositionVicePresident2nd, ""},
		{"Board Member", PositionBoardMember, ""},
		{"Social Media Chair", PositionOther, "Social Media Chair"},
		{"Webmaster", PositionOther, "Webmaster"},
	}
	for _, tc := range cases {
		pos, custom := NormalizePosition(tc.in)
		assert.Equal(t, tc.wantPos, pos, "position for %q", tc.in)
		assert.Equal(t, tc.wantCustom, custom, "custom for %q", tc.in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("John Doe", PositionPresident), Key("  JOHN DOE ", PositionPresident))
	assert.NotEqual(t, Key("John Doe", PositionPresident), Key("John Doe", PositionTreasurer))
}

func TestOfficer_Title(t *testing.T) {
	o := &Officer{Position: PositionVicePresident1st}
	assert.Equal(t, "1st Vice President", o.Title())

	o = &Officer{Position: PositionOther, PositionCustom: "Step Master"}
	assert.Equal(t, "Step Master", o.Title())

	o = &Officer{Position: PositionOther}
	assert.Equal(t, "Other Position", o.Title())
}
