package world

import "github.com/cory-johannsen/combatsim/internal/game/combat"

// Party is the player's group. The leader is player-controlled.
type Party struct {
	leader            *Creature
	members           []*Creature
	movementRequested bool
}

// NewParty creates a party led by leader.
//
// Postcondition: leader is always the first member.
func NewParty(leader *Creature, members ...*Creature) *Party {
	p := &Party{leader: leader}
	if leader != nil {
		p.members = append(p.members, leader)
	}
	for _, m := range members {
		if m == nil || m == leader {
			continue
		}
		p.members = append(p.members, m)
	}
	return p
}

// Leader returns the party leader, or nil.
func (p *Party) Leader() combat.Creature {
	if p.leader == nil {
		return nil
	}
	return p.leader
}

// LeaderCreature returns the concrete leader, or nil.
func (p *Party) LeaderCreature() *Creature { return p.leader }

// Members returns every member, leader first.
func (p *Party) Members() []*Creature { return p.members }

// IsMember reports whether id belongs to the party.
func (p *Party) IsMember(id string) bool {
	for _, m := range p.members {
		if m.ID() == id {
			return true
		}
	}
	return false
}

// MovementRequested reports whether the player is steering the leader.
func (p *Party) MovementRequested() bool { return p.movementRequested }

// SetMovementRequested records whether the player is steering the leader.
func (p *Party) SetMovementRequested(v bool) { p.movementRequested = v }
