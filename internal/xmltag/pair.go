package xmltag

// Pairs matches tokens by nesting position. Every opening token is pushed;
// a closing token pops the most recent opening token and forms a pair
// whether or not the names agree. A closing token seen on an empty stack
// produces nothing.
//
// Names are not compared here: live sync relies on pairs surviving the
// moment when one side has been edited and the other has not caught up.
// Reporting mismatches is the validator's job.
//
// Self-closing tokens must be filtered out beforehand (see PairableTokens).
func Pairs(tokens []Token) []Pair {
	var (
		pairs []Pair
		stack []Token
	)
	for _, tok := range tokens {
		if !tok.Closing {
			stack = append(stack, tok)
			continue
		}
		if len(stack) == 0 {
			continue
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pairs = append(pairs, Pair{Open: open, Close: tok})
	}
	return pairs
}

// Partner returns the other side of the pair containing tok.
func Partner(tok Token, pairs []Pair) (Token, bool) {
	for _, p := range pairs {
		if p.Open == tok {
			return p.Close, true
		}
		if p.Close == tok {
			return p.Open, true
		}
	}
	return Token{}, false
}
