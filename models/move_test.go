package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveInstruction_Validate(t *testing.T) {
	start := date(t, "2026-05-01")
	field := "f1"
	crop := "c1"

	scenarios := []struct {
		name    string
		move    MoveInstruction
		wantErr bool
	}{
		{name: "move ok", move: MoveInstruction{Action: MoveActionMove, AllocationID: "a1"}},
		{name: "move missing id", move: MoveInstruction{Action: MoveActionMove}, wantErr: true},
		{name: "remove ok", move: MoveInstruction{Action: MoveActionRemove, AllocationID: "a1"}},
		{name: "remove missing id", move: MoveInstruction{Action: MoveActionRemove}, wantErr: true},
		{
			name: "add ok",
			move: MoveInstruction{Action: MoveActionAdd, TargetFieldID: &field, TargetCropID: &crop, TargetStart: &start},
		},
		{name: "add missing target", move: MoveInstruction{Action: MoveActionAdd}, wantErr: true},
		{name: "unknown action", move: MoveInstruction{Action: "bogus", AllocationID: "a1"}, wantErr: true},
	}
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			err := sc.move.Validate()
			if sc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
