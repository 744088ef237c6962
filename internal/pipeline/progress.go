package pipeline

// Stage names a step of a retrieval.
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageFramed     Stage = "framed"
	StageDecrypting Stage = "decrypting"
	StageAssembled  Stage = "assembled"
)

// Progress is a point-in-time report. Done and Total count bytes while
// fetching and chunks while decrypting; Total is -1 when unknown.
type Progress struct {
	Stage Stage
	Done  int64
	Total int64
}

// notify sends p without blocking; a consumer that falls behind misses
// intermediate reports rather than slowing decryption down.
func notify(ch chan<- Progress, p Progress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	default:
	}
}
