package corrector

// Edit helpers over rune slices. None of them modify r.

func replaceAt(r []rune, i int, c rune) string {
	out := make([]rune, len(r))
	copy(out, r)
	out[i] = c
	return string(out)
}

func insertAt(r []rune, i int, c rune) string {
	out := make([]rune, 0, len(r)+1)
	out = append(out, r[:i]...)
	out = append(out, c)
	out = append(out, r[i:]...)
	return string(out)
}

func removeAt(r []rune, i int) string {
	out := make([]rune, 0, len(r)-1)
	out = append(out, r[:i]...)
	out = append(out, r[i+1:]...)
	return string(out)
}

func swapAt(r []rune, i int) string {
	out := make([]rune, len(r))
	copy(out, r)
	out[i], out[i+1] = out[i+1], out[i]
	return string(out)
}

// contextAt is the letter preceding position i, or StartOfWord.
func contextAt(r []rune, i int) string {
	if i == 0 {
		return StartOfWord
	}
	return string(r[i-1])
}

func eachSubstitution(r, alphabet []rune, fn func(i int, c rune, cand string)) {
	for i := range r {
		for _, c := range alphabet {
			if c == r[i] {
				continue
			}
			fn(i, c, replaceAt(r, i, c))
		}
	}
}

// eachInsertion visits every word with one extra letter, including after
// the last position.
func eachInsertion(r, alphabet []rune, fn func(i int, c rune, cand string)) {
	for i := 0; i <= len(r); i++ {
		for _, c := range alphabet {
			fn(i, c, insertAt(r, i, c))
		}
	}
}

func eachRemoval(r []rune, fn func(i int, cand string)) {
	for i := range r {
		fn(i, removeAt(r, i))
	}
}

// eachSwap skips pairs of equal letters, whose swap is the identity.
func eachSwap(r []rune, fn func(i int, cand string)) {
	for i := 0; i+1 < len(r); i++ {
		if r[i] == r[i+1] {
			continue
		}
		fn(i, swapAt(r, i))
	}
}
