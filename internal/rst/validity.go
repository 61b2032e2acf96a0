package rst

import "strings"

// IsValid reports whether act may legally be applied to s. Apply does not
// re-check validity (an invalid action is either applied anyway or fails
// with an error or an index panic), so every caller (the oracle and the
// beam) must check this first.
func IsValid(act Action, s *State) bool {
	switch act.Type {
	case Shift:
		return len(s.Queue) > 0
	case Unary:
		return isValidUnary(act, s)
	case Binary:
		return isValidBinary(act, s)
	default:
		return false
	}
}

func isValidUnary(act Action, s *State) bool {
	if s.UnaryCount > MaxConsecutiveUnaryReduce {
		return false
	}
	if len(s.Stack) == 0 {
		return false
	}
	top := s.Stack[len(s.Stack)-1]

	// No unary reduces on binarized (partial) nodes.
	if strings.HasSuffix(top.NT, "*") {
		return false
	}

	// No unary reduces on satellites.
	if strings.HasPrefix(top.NT, "satellite") {
		return false
	}

	// No reduction to a satellite if the queue is empty and the next item
	// down the stack isn't a nucleus.
	if strings.HasPrefix(act.Label, "satellite") && len(s.Queue) == 0 {
		if len(s.Stack) < 2 {
			return false
		}
		next := s.Stack[len(s.Stack)-2]
		if !strings.HasPrefix(next.NT, "nucleus") && !strings.HasSuffix(next.NT, "*") {
			return false
		}
	}
	return true
}

func isValidBinary(act Action, s *State) bool {
	if len(s.Stack) < 2 {
		return false
	}

	total := len(s.Stack) + len(s.Queue)
	if act.Label == "ROOT" && total > 2 {
		return false
	}
	if act.Label != "ROOT" && total == 2 {
		return false
	}

	lc := s.Stack[len(s.Stack)-2]
	rc := s.Stack[len(s.Stack)-1]

	if !strings.HasPrefix(lc.NT, "nucleus") && !strings.HasPrefix(rc.NT, "nucleus") &&
		!strings.HasSuffix(lc.NT, "*") && !strings.HasSuffix(rc.NT, "*") {
		return false
	}

	if strings.HasSuffix(lc.NT, "*") && act.Label != lc.NT && act.Label != lc.NT[:len(lc.NT)-1] {
		return false
	}
	if strings.HasSuffix(rc.NT, "*") && act.Label != rc.NT && act.Label != rc.NT[:len(rc.NT)-1] {
		return false
	}

	queueExhausted := len(s.Queue) == 0
	labelIsSatellite := strings.HasPrefix(act.Label, "satellite")
	labelIsPartialHead := strings.HasSuffix(act.Label, "*")

	var nextIsNucleus, nextIsPartialHead bool
	if len(s.Stack) > 2 {
		next := s.Stack[len(s.Stack)-3]
		nextIsNucleus = strings.HasPrefix(next.NT, "nucleus")
		nextIsPartialHead = strings.HasSuffix(next.NT, "*")
	}

	if queueExhausted && labelIsSatellite && !labelIsPartialHead && !nextIsNucleus && !nextIsPartialHead {
		return false
	}
	if queueExhausted && nextIsPartialHead && labelIsPartialHead {
		return false
	}

	return true
}
