package congress

// Result is the outcome of counting a round's ballots.
type Result struct {
	Yea        int
	Nay        int
	Abstain    int
	QuorumBase int
	Required   int
	Passed     bool
}

// RequiredYea returns the yea count needed to pass. Amendments need two thirds
// (rounded up) of quorumBase; everything else needs a simple majority.
func RequiredYea(quorumBase int, category Category) int {
	if quorumBase < 0 {
		quorumBase = 0
	}
	if category == CategoryAmendment {
		return (2*quorumBase + 2) / 3
	}
	return quorumBase/2 + 1
}

// Tally counts ballots against the category threshold. quorumBase is the number
// of voters who cast a ballot, not the chamber roll.
func Tally(ballots []Ballot, quorumBase int, category Category) Result {
	res := Result{QuorumBase: quorumBase}
	for _, b := range ballots {
		switch b.Choice {
		case ChoiceYea:
			res.Yea++
		case ChoiceNay:
			res.Nay++
		case ChoiceAbstain:
			res.Abstain++
		}
	}
	res.Required = RequiredYea(quorumBase, category)
	res.Passed = res.Yea >= res.Required
	return res
}

// TallyRound counts a round using its recorded ballots as the quorum base.
func TallyRound(round Round, category Category) Result {
	return Tally(round.Ballots, len(round.Ballots), category)
}
