package commentRepo

import "spotshare/models"

// voteDeltas computes the like/dislike counter adjustments for a voter
// moving from prior (empty = no prior vote) to requested. A same-value
// re-vote changes nothing, so a voter can never be counted twice.
func voteDeltas(prior, requested models.VoteValue) (likeDelta, dislikeDelta int, changed bool) {
	if prior == requested {
		return 0, 0, false
	}

	switch requested {
	case models.VoteLike:
		likeDelta = 1
		if prior == models.VoteDislike {
			dislikeDelta = -1
		}
	case models.VoteDislike:
		dislikeDelta = 1
		if prior == models.VoteLike {
			likeDelta = -1
		}
	}
	return likeDelta, dislikeDelta, true
}
