package diff

import (
	"strconv"

	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

// matcher pairs elements of two arrays, hashing each container at most once.
type matcher struct {
	left, right  value.Array
	hash         HashFunc
	lHash, rHash []*string
	lNone, rNone []bool
}

func newMatcher(left, right value.Array, hash HashFunc) *matcher {
	return &matcher{
		left:  left,
		right: right,
		hash:  hash,
		lHash: make([]*string, len(left)),
		rHash: make([]*string, len(right)),
		lNone: make([]bool, len(left)),
		rNone: make([]bool, len(right)),
	}
}

func (m *matcher) match(i, j int) bool {
	a, b := m.left[i], m.right[j]
	if !value.IsContainer(a) || !value.IsContainer(b) {
		return !value.IsContainer(a) && !value.IsContainer(b) && value.Equal(a, b)
	}
	ha, ok := m.hashOf(m.left, m.lHash, m.lNone, i)
	if !ok {
		return false
	}
	hb, ok := m.hashOf(m.right, m.rHash, m.rNone, j)
	if !ok {
		return false
	}
	return ha == hb
}

func (m *matcher) hashOf(arr value.Array, cache []*string, none []bool, i int) (string, bool) {
	if none[i] {
		return "", false
	}
	if cache[i] != nil {
		return *cache[i], true
	}
	h, ok := m.hash(arr[i])
	if !ok {
		none[i] = true
		return "", false
	}
	cache[i] = &h
	return h, true
}

func (e *Engine) diffArrays(left, right value.Array) *model.Delta {
	d := &model.Delta{Kind: model.DeltaArray}
	m := newMatcher(left, right, e.hash)
	len1, len2 := len(left), len(right)

	nested := func(i, j int) {
		if child := e.Diff(left[i], right[j]); child != nil {
			d.Children = append(d.Children, model.DeltaEntry{Key: strconv.Itoa(j), Delta: child})
		}
	}
	added := func(j int) {
		d.Children = append(d.Children, model.DeltaEntry{Key: strconv.Itoa(j), Delta: model.Added(right[j])})
	}
	removed := func(i int) {
		d.Children = append(d.Children, model.DeltaEntry{Key: "_" + strconv.Itoa(i), Delta: model.Deleted(left[i])})
	}

	head := 0
	for head < len1 && head < len2 && m.match(head, head) {
		nested(head, head)
		head++
	}
	tail := 0
	for tail+head < len1 && tail+head < len2 && m.match(len1-1-tail, len2-1-tail) {
		nested(len1-1-tail, len2-1-tail)
		tail++
	}

	switch {
	case head+tail == len1:
		for j := head; j < len2-tail; j++ {
			added(j)
		}
	case head+tail == len2:
		for i := head; i < len1-tail; i++ {
			removed(i)
		}
	default:
		e.diffArrayMiddle(d, m, head, tail, nested, added)
	}

	if len(d.Children) == 0 {
		return nil
	}
	d.SortArrayEntries()
	return d
}

// diffArrayMiddle handles the untrimmed middle of both arrays: LCS pairs are
// diffed in place, leftovers are removals and additions, and an addition that
// matches a pending removal becomes a move.
func (e *Engine) diffArrayMiddle(d *model.Delta, m *matcher, head, tail int, nested func(i, j int), added func(j int)) {
	end1, end2 := len(m.left)-tail, len(m.right)-tail
	indices1, indices2 := lcs(m, head, end1, head, end2)

	inSeq1 := make(map[int]bool, len(indices1))
	for _, i := range indices1 {
		inSeq1[i] = true
	}
	seqPos2 := make(map[int]int, len(indices2))
	for p, j := range indices2 {
		seqPos2[j] = p
	}

	var pending []int
	removedAt := map[int]*model.Delta{}
	for i := head; i < end1; i++ {
		if inSeq1[i] {
			continue
		}
		del := model.Deleted(m.left[i])
		removedAt[i] = del
		d.Children = append(d.Children, model.DeltaEntry{Key: "_" + strconv.Itoa(i), Delta: del})
		pending = append(pending, i)
	}

	for j := head; j < end2; j++ {
		if p, ok := seqPos2[j]; ok {
			nested(indices1[p], j)
			continue
		}

		moved := false
		if e.detectMoves {
			for k, i := range pending {
				if !m.match(i, j) {
					continue
				}
				mv := removedAt[i]
				mv.Kind = model.DeltaMoved
				mv.Old = value.String("")
				mv.To = j
				nested(i, j)
				pending = append(pending[:k], pending[k+1:]...)
				moved = true
				break
			}
		}
		if !moved {
			added(j)
		}
	}
}

// lcs returns the matched index pairs of the longest common subsequence of
// left[lo1:hi1] and right[lo2:hi2], as absolute indexes in ascending order.
func lcs(m *matcher, lo1, hi1, lo2, hi2 int) (indices1, indices2 []int) {
	n1, n2 := hi1-lo1, hi2-lo2
	matrix := make([][]int, n1+1)
	for x := range matrix {
		matrix[x] = make([]int, n2+1)
	}
	for x := 1; x <= n1; x++ {
		for y := 1; y <= n2; y++ {
			if m.match(lo1+x-1, lo2+y-1) {
				matrix[x][y] = matrix[x-1][y-1] + 1
			} else {
				matrix[x][y] = max(matrix[x-1][y], matrix[x][y-1])
			}
		}
	}

	x, y := n1, n2
	for x != 0 && y != 0 {
		if m.match(lo1+x-1, lo2+y-1) {
			indices1 = append(indices1, lo1+x-1)
			indices2 = append(indices2, lo2+y-1)
			x--
			y--
			continue
		}
		if matrix[x][y-1] > matrix[x-1][y] {
			y--
		} else {
			x--
		}
	}

	reverse(indices1)
	reverse(indices2)
	return indices1, indices2
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
