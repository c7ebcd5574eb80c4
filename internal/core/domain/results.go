package domain

import (
	"sort"

	"github.com/google/uuid"
)

// TallyResults counts votes per option and derives percentages. Options come
// back ordered by OptionOrder and TotalVotes is always the sum of the
// per-option counts, so votes pointing at unknown options are ignored.
func TallyResults(poll Poll, options []PollOption, votes []Vote) PollResults {
	counts := make(map[uuid.UUID]int64, len(options))
	for _, v := range votes {
		counts[v.OptionID]++
	}

	tallied := make([]PollOption, len(options))
	var total int64
	for i, opt := range options {
		opt.VoteCount = counts[opt.ID]
		total += opt.VoteCount
		tallied[i] = opt
	}

	for i := range tallied {
		tallied[i].VotePercentage = Percentage(tallied[i].VoteCount, total)
	}

	sort.SliceStable(tallied, func(i, j int) bool {
		return tallied[i].OptionOrder < tallied[j].OptionOrder
	})

	poll.Options = tallied
	poll.TotalVotes = total

	return PollResults{
		Poll:       poll,
		Options:    tallied,
		TotalVotes: total,
	}
}

func Percentage(count, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return (float64(count) / float64(total)) * 100
}
