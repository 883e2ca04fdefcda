package domain

import (
	"encoding/json"
	"testing"
)

func TestRoleOrdering(t *testing.T) {
	ordered := []Role{RoleNonMember, RoleMember, RoleHelper, RoleModerator, RoleCoHost, RoleHost, RoleCreator}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Fatalf("expected %s to rank below %s", ordered[i-1], ordered[i])
		}
	}
}

func TestParseModeratorRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"host", RoleHost, false},
		{"co-host", RoleCoHost, false},
		{"moderator", RoleModerator, false},
		{"helper", RoleHelper, false},
		{"creator", 0, true},
		{"member", 0, true},
		{"HOST", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseModeratorRole(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseModeratorRole(%q): expected error, got %s", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseModeratorRole(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseModeratorRole(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestCanAssign(t *testing.T) {
	tests := []struct {
		name     string
		actor    Role
		assigned Role
		want     bool
	}{
		{"creator assigns host", RoleCreator, RoleHost, true},
		{"creator assigns helper", RoleCreator, RoleHelper, true},
		{"host assigns co-host", RoleHost, RoleCoHost, true},
		{"host assigns helper", RoleHost, RoleHelper, true},
		{"host assigns host", RoleHost, RoleHost, false},
		{"co-host assigns moderator", RoleCoHost, RoleModerator, true},
		{"co-host assigns co-host", RoleCoHost, RoleCoHost, false},
		{"co-host assigns host", RoleCoHost, RoleHost, false},
		{"moderator assigns helper", RoleModerator, RoleHelper, true},
		{"moderator assigns moderator", RoleModerator, RoleModerator, false},
		{"helper assigns anything", RoleHelper, RoleHelper, false},
		{"member assigns helper", RoleMember, RoleHelper, false},
		{"non-member assigns helper", RoleNonMember, RoleHelper, false},
		{"creator assigns member", RoleCreator, RoleMember, false},
		{"creator assigns creator", RoleCreator, RoleCreator, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAssign(tt.actor, tt.assigned); got != tt.want {
				t.Errorf("CanAssign(%s, %s) = %v, want %v", tt.actor, tt.assigned, got, tt.want)
			}
		})
	}
}

func TestCanRemoveModerator(t *testing.T) {
	tests := []struct {
		name   string
		actor  Role
		target Role
		want   bool
	}{
		{"creator removes host", RoleCreator, RoleHost, true},
		{"host removes co-host", RoleHost, RoleCoHost, true},
		{"host removes host", RoleHost, RoleHost, false},
		{"co-host removes moderator", RoleCoHost, RoleModerator, true},
		{"co-host removes host", RoleCoHost, RoleHost, false},
		{"moderator removes helper", RoleModerator, RoleHelper, true},
		{"moderator removes moderator", RoleModerator, RoleModerator, false},
		{"helper removes helper", RoleHelper, RoleHelper, false},
		{"member removes helper", RoleMember, RoleHelper, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRemoveModerator(tt.actor, tt.target); got != tt.want {
				t.Errorf("CanRemoveModerator(%s, %s) = %v, want %v", tt.actor, tt.target, got, tt.want)
			}
		})
	}
}

func TestCanBlock(t *testing.T) {
	tests := []struct {
		name   string
		actor  Role
		target Role
		want   bool
	}{
		{"creator blocks host", RoleCreator, RoleHost, true},
		{"host blocks co-host", RoleHost, RoleCoHost, true},
		{"host blocks helper", RoleHost, RoleHelper, true},
		{"host blocks member", RoleHost, RoleMember, true},
		{"host blocks host", RoleHost, RoleHost, false},
		{"co-host blocks moderator", RoleCoHost, RoleModerator, true},
		{"co-host blocks co-host", RoleCoHost, RoleCoHost, false},
		{"moderator blocks member", RoleModerator, RoleMember, true},
		{"moderator blocks non-member", RoleModerator, RoleNonMember, true},
		{"moderator blocks helper", RoleModerator, RoleHelper, false},
		{"moderator blocks moderator", RoleModerator, RoleModerator, false},
		{"helper blocks member", RoleHelper, RoleMember, false},
		{"member blocks member", RoleMember, RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanBlock(tt.actor, tt.target); got != tt.want {
				t.Errorf("CanBlock(%s, %s) = %v, want %v", tt.actor, tt.target, got, tt.want)
			}
		})
	}
}

func TestCanRemoveMember(t *testing.T) {
	tests := []struct {
		name              string
		actor             Role
		targetIsModerator bool
		want              bool
	}{
		{"creator removes moderator", RoleCreator, true, true},
		{"creator removes member", RoleCreator, false, true},
		{"host removes moderator", RoleHost, true, true},
		{"co-host removes moderator", RoleCoHost, true, true},
		{"moderator removes moderator", RoleModerator, true, false},
		{"moderator removes member", RoleModerator, false, true},
		{"helper removes member", RoleHelper, false, true},
		{"helper removes moderator", RoleHelper, true, false},
		{"member removes member", RoleMember, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRemoveMember(tt.actor, tt.targetIsModerator); got != tt.want {
				t.Errorf("CanRemoveMember(%s, %v) = %v, want %v", tt.actor, tt.targetIsModerator, got, tt.want)
			}
		})
	}
}

func TestRoleJSONRoundTrip(t *testing.T) {
	for role, name := range map[Role]string{
		RoleHelper:    "helper",
		RoleModerator: "moderator",
		RoleCoHost:    "co-host",
		RoleHost:      "host",
	} {
		data, err := json.Marshal(role)
		if err != nil {
			t.Fatalf("marshal %s: %v", role, err)
		}
		if string(data) != `"`+name+`"` {
			t.Errorf("marshal %s = %s, want %q", role, data, name)
		}

		var back Role
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != role {
			t.Errorf("round trip %s: got %s", role, back)
		}
	}
}

func TestRoleUnmarshalRejectsUnknown(t *testing.T) {
	var r Role
	if err := json.Unmarshal([]byte(`"admin"`), &r); err == nil {
		t.Fatal("expected unknown role name to be rejected")
	}
}
