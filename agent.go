package main

import (
	"math/rand"
)

// agentBrain makes one decision for a computer-controlled seat. A fresh
// brain is built per decision so its view of the room is never stale;
// the suspicion scores therefore reset between decisions, which keeps
// agent play noisy rather than convergent.
type agentBrain struct {
	room      *Room
	player    *Player
	isStaff   bool
	suspicion map[string]float64
}

// newAgentBrain builds a decision context for the given seat. The caller
// must hold the room lock.
func newAgentBrain(room *Room, player *Player) *agentBrain {
	b := &agentBrain{
		room:    room,
		player:  player,
		isStaff: player.Role.isStaffTeam(),
	}
	b.suspicion = make(map[string]float64, len(room.Players))
	for _, p := range room.Players {
		if p.ID != player.ID && p.IsAlive {
			b.suspicion[p.ID] = rand.Float64() * 0.3
		}
	}
	return b
}

// teammates returns the other staff-team seats. Empty for guests.
func (b *agentBrain) teammates() []*Player {
	if !b.isStaff {
		return nil
	}
	var out []*Player
	for _, p := range b.room.Players {
		if p.ID != b.player.ID && p.Role.isStaffTeam() {
			out = append(out, p)
		}
	}
	return out
}

func (b *agentBrain) isTeammate(id string) bool {
	for _, t := range b.teammates() {
		if t.ID == id {
			return true
		}
	}
	return false
}

// mostSuspicious picks from candidates weighted toward the LEAST
// suspicious seat, which is how a guest chooses who to trust with a
// nomination.
func (b *agentBrain) mostSuspicious(candidates []*Player) *Player {
	if len(candidates) == 0 {
		return nil
	}
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		weights[i] = 1 - b.suspicion[c.ID]
		total += weights[i]
	}
	r := rand.Float64() * total
	for i, c := range candidates {
		r -= weights[i]
		if r <= 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// decideVote returns this seat's ballot on the current government.
func (b *agentBrain) decideVote() bool {
	gs := &b.room.State
	var presidentID string
	if p := b.room.president(); p != nil {
		presidentID = p.ID
	}
	chancellorID := gs.ChancellorCandidateID
	chancellor := b.room.playerByID(chancellorID)

	if b.isStaff {
		presTeam := b.isTeammate(presidentID)
		chanTeam := b.isTeammate(chancellorID)

		if presTeam && chanTeam {
			return rand.Float64() > 0.1
		}
		if chancellor != nil && chancellor.Role == RoleButler && gs.StaffPolicies >= butlerChancellorThreshold {
			return rand.Float64() > 0.15
		}
		if presTeam || chanTeam {
			return rand.Float64() > 0.35
		}
		return rand.Float64() > 0.45
	}

	// Guests grow desperate as the tracker climbs and cautious as the
	// staff tally approaches the win line.
	if gs.ElectionTracker >= 2 {
		return rand.Float64() > 0.25
	}
	if gs.StaffPolicies >= 4 {
		return rand.Float64() > 0.55
	}
	if gs.StaffPolicies >= 3 {
		return rand.Float64() > 0.5
	}
	return rand.Float64() > 0.4
}

// chooseChancellor picks a nominee for this seat's presidency, or ""
// when no eligible candidate exists.
func (b *agentBrain) chooseChancellor() string {
	var valid []*Player
	for _, p := range b.room.Players {
		if p.IsAlive && p.ID != b.player.ID && isEligibleChancellorCandidate(b.room, p.ID) {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return ""
	}

	if b.isStaff {
		var mates []*Player
		for _, t := range b.teammates() {
			for _, v := range valid {
				if v.ID == t.ID {
					mates = append(mates, t)
					break
				}
			}
		}

		if len(mates) > 0 && b.room.State.StaffPolicies >= butlerChancellorThreshold {
			for _, t := range mates {
				if t.Role == RoleButler && rand.Float64() > 0.2 {
					return t.ID
				}
			}
		}
		if len(mates) > 0 && rand.Float64() > 0.3 {
			return mates[rand.Intn(len(mates))].ID
		}
		var others []*Player
		for _, v := range valid {
			if !b.isTeammate(v.ID) {
				others = append(others, v)
			}
		}
		if len(others) > 0 && rand.Float64() > 0.5 {
			return others[rand.Intn(len(others))].ID
		}
		return valid[rand.Intn(len(valid))].ID
	}

	if pick := b.mostSuspicious(valid); pick != nil {
		return pick.ID
	}
	return valid[rand.Intn(len(valid))].ID
}

// choosePresidentPolicies returns the indices of the two cards a
// president passes on out of the drawn three.
func (b *agentBrain) choosePresidentPolicies(policies []Policy) []int {
	var staffIdx, guestIdx []int
	for i, p := range policies {
		if p == PolicyStaff {
			staffIdx = append(staffIdx, i)
		} else {
			guestIdx = append(guestIdx, i)
		}
	}

	if b.isStaff {
		if len(staffIdx) >= 2 {
			if rand.Float64() > 0.15 {
				return staffIdx[:2]
			}
			if len(guestIdx) > 0 {
				return []int{staffIdx[0], guestIdx[0]}
			}
		}
		if len(staffIdx) == 1 && len(guestIdx) == 2 {
			if rand.Float64() > 0.2 {
				return []int{staffIdx[0], guestIdx[0]}
			}
		}
		return []int{0, 1}
	}

	if len(guestIdx) >= 2 {
		return guestIdx[:2]
	}
	if len(guestIdx) == 1 {
		return []int{guestIdx[0], staffIdx[0]}
	}
	return []int{0, 1}
}

// chooseChancellorEnact returns the index of the card to enact out of
// the two the president passed.
func (b *agentBrain) chooseChancellorEnact(policies []Policy) int {
	guestIdx, staffIdx := -1, -1
	for i, p := range policies {
		if p == PolicyGuest && guestIdx == -1 {
			guestIdx = i
		}
		if p == PolicyStaff && staffIdx == -1 {
			staffIdx = i
		}
	}

	if b.isStaff {
		if staffIdx != -1 && guestIdx != -1 {
			staffPolicies := b.room.State.StaffPolicies
			switch {
			case staffPolicies >= 4:
				if rand.Float64() > 0.1 {
					return staffIdx
				}
				return guestIdx
			case staffPolicies <= 1:
				if rand.Float64() > 0.4 {
					return staffIdx
				}
				return guestIdx
			default:
				if rand.Float64() > 0.3 {
					return staffIdx
				}
				return guestIdx
			}
		}
		if staffIdx != -1 {
			return staffIdx
		}
		if guestIdx != -1 {
			return guestIdx
		}
		return 0
	}

	if guestIdx != -1 {
		return guestIdx
	}
	return 0
}

// shouldRequestVeto decides whether an agent chancellor invokes the
// veto. Only legal late in the game; biased toward vetoing when neither
// card favors this seat's faction.
func (b *agentBrain) shouldRequestVeto(policies []Policy) bool {
	gs := &b.room.State
	if !b.room.Rules.VetoEnabled || gs.StaffPolicies < vetoThreshold || gs.VetoDeclined {
		return false
	}
	favorable := 0
	for _, p := range policies {
		if b.isStaff && p == PolicyStaff {
			favorable++
		}
		if !b.isStaff && p == PolicyGuest {
			favorable++
		}
	}
	if favorable == 0 {
		return rand.Float64() > 0.2
	}
	return false
}

// shouldAcceptVeto decides whether an agent president agrees to a veto.
// Staff presidents usually refuse so a staff card can still land;
// guests usually agree since a veto can only help them this late.
func (b *agentBrain) shouldAcceptVeto() bool {
	if b.isStaff {
		return rand.Float64() > 0.7
	}
	return rand.Float64() > 0.25
}

// chooseInvestigateTarget picks who to investigate, or "" when nobody
// is targetable.
func (b *agentBrain) chooseInvestigateTarget() string {
	targets := b.investigationTargets()
	if len(targets) == 0 {
		return ""
	}

	if b.isStaff {
		var guests, mates []*Player
		for _, t := range targets {
			if t.Role == RoleGuest {
				guests = append(guests, t)
			} else if b.isTeammate(t.ID) {
				mates = append(mates, t)
			}
		}
		// Occasionally investigate a teammate to publicly "clear" them.
		if len(mates) > 0 && rand.Float64() > 0.6 {
			return mates[rand.Intn(len(mates))].ID
		}
		if len(guests) > 0 {
			return guests[rand.Intn(len(guests))].ID
		}
	}
	return targets[rand.Intn(len(targets))].ID
}

func (b *agentBrain) investigationTargets() []*Player {
	var out []*Player
	for _, p := range b.room.Players {
		if !p.IsAlive || p.ID == b.player.ID {
			continue
		}
		if b.room.Rules.NoRepeatInvestigation && b.room.State.InvestigatedPlayers[p.ID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// chooseSpecialElectionTarget picks who receives the presidency.
func (b *agentBrain) chooseSpecialElectionTarget() string {
	targets := b.aliveOthers()
	if len(targets) == 0 {
		return ""
	}
	if b.isStaff {
		var mates []*Player
		for _, t := range targets {
			if b.isTeammate(t.ID) {
				mates = append(mates, t)
			}
		}
		if len(mates) > 0 && rand.Float64() > 0.25 {
			return mates[rand.Intn(len(mates))].ID
		}
	}
	return targets[rand.Intn(len(targets))].ID
}

// chooseExecutionTarget picks who to execute. Staff never shoot their
// own butler since that hands the guests the game.
func (b *agentBrain) chooseExecutionTarget() string {
	targets := b.aliveOthers()
	if len(targets) == 0 {
		return ""
	}

	if !b.isStaff {
		return targets[rand.Intn(len(targets))].ID
	}

	var nonButler, guests, safe []*Player
	for _, t := range targets {
		if t.Role == RoleButler {
			continue
		}
		nonButler = append(nonButler, t)
		if t.Role == RoleGuest {
			guests = append(guests, t)
		} else if !b.isTeammate(t.ID) {
			safe = append(safe, t)
		}
	}
	if len(guests) > 0 && rand.Float64() > 0.1 {
		return guests[rand.Intn(len(guests))].ID
	}
	if len(safe) > 0 {
		return safe[rand.Intn(len(safe))].ID
	}
	if len(nonButler) > 0 {
		return nonButler[rand.Intn(len(nonButler))].ID
	}
	// Only the butler is left standing. Refusing the shot beats
	// handing the guests the game.
	return ""
}

func (b *agentBrain) aliveOthers() []*Player {
	var out []*Player
	for _, p := range b.room.Players {
		if p.IsAlive && p.ID != b.player.ID {
			out = append(out, p)
		}
	}
	return out
}
